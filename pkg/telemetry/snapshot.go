package telemetry

import (
	"sync/atomic"
	"time"

	"github.com/robotalks/baseboard.go/pkg/wire"
)

// Snapshot is an immutable view of the latest sensor values.
type Snapshot struct {
	FloorIR       [wire.FloorIRChannels]uint8
	FrontIR       [2]bool
	SonarDistance uint16
	UpdatedAt     time.Time
}

// Apply returns a copy of s with the values carried by r merged in.
// Floor IR channels absent from r keep their previous values.
func (s Snapshot) Apply(r *wire.Reading, at time.Time) Snapshot {
	switch r.Kind {
	case wire.ReadingFloorIR:
		for n := 0; n < wire.FloorIRChannels; n++ {
			if r.FloorIRMask&(1<<uint(n)) != 0 {
				s.FloorIR[n] = r.FloorIR[n]
			}
		}
	case wire.ReadingFrontIR:
		s.FrontIR = r.FrontIR
	case wire.ReadingSonar:
		s.SonarDistance = r.SonarDistance
	default:
		return s
	}
	s.UpdatedAt = at
	return s
}

// Store holds the latest Snapshot. A single writer commits readings and
// any number of readers load consistent snapshots without locking.
type Store struct {
	current atomic.Pointer[Snapshot]
	now     func() time.Time
}

// NewStore creates an empty Store.
func NewStore() *Store {
	s := &Store{now: time.Now}
	s.current.Store(&Snapshot{})
	return s
}

// Load returns the latest snapshot.
func (s *Store) Load() Snapshot {
	return *s.current.Load()
}

// Commit publishes a reading. It must only be called from one goroutine.
func (s *Store) Commit(r *wire.Reading) {
	if r == nil {
		return
	}
	next := s.current.Load().Apply(r, s.now())
	s.current.Store(&next)
}
