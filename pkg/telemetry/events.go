package telemetry

import (
	"errors"
	"sort"
	"strings"
	"sync"
)

// EventKind names a category of sensor events.
type EventKind int

// Event kinds.
const (
	EventFloorIR EventKind = iota + 1
	EventFrontIR
	EventSonar
	EventIMU
)

// ErrUnknownEventKind is returned when parsing an unknown event name.
var ErrUnknownEventKind = errors.New("unknown event kind")

var eventKindNames = map[EventKind]string{
	EventFloorIR: "floor_ir",
	EventFrontIR: "front_ir",
	EventSonar:   "sonar",
	EventIMU:     "imu",
}

// EventKinds lists all kinds.
var EventKinds = []EventKind{EventFloorIR, EventFrontIR, EventSonar, EventIMU}

// String implements fmt.Stringer.
func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseEventKind parses the name of an event kind.
func ParseEventKind(s string) (EventKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range eventKindNames {
		if name == s || strings.Replace(name, "_", "", -1) == s {
			return k, nil
		}
	}
	return 0, ErrUnknownEventKind
}

// Handler receives dispatched events.
type Handler interface {
	HandleEvent(EventKind, Snapshot)
}

// HandlerFunc is the func form of Handler.
type HandlerFunc func(EventKind, Snapshot)

// HandleEvent implements Handler.
func (f HandlerFunc) HandleEvent(kind EventKind, s Snapshot) {
	f(kind, s)
}

// Fanout combines multiple handlers into one.
func Fanout(handlers ...Handler) Handler {
	return HandlerFunc(func(kind EventKind, s Snapshot) {
		for _, h := range handlers {
			h.HandleEvent(kind, s)
		}
	})
}

// Registry keeps at most one handler per event kind.
type Registry struct {
	lock     sync.RWMutex
	handlers map[EventKind]Handler
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[EventKind]Handler)}
}

// Set registers the handler for kind, replacing the previous one.
func (r *Registry) Set(kind EventKind, h Handler) {
	r.lock.Lock()
	if h == nil {
		delete(r.handlers, kind)
	} else {
		r.handlers[kind] = h
	}
	r.lock.Unlock()
}

// Remove unregisters the handler for kind.
func (r *Registry) Remove(kind EventKind) {
	r.Set(kind, nil)
}

// Handler gets the handler for kind.
func (r *Registry) Handler(kind EventKind) Handler {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.handlers[kind]
}

// Kinds returns the registered kinds in ascending order.
func (r *Registry) Kinds() []EventKind {
	r.lock.RLock()
	kinds := make([]EventKind, 0, len(r.handlers))
	for k := range r.handlers {
		kinds = append(kinds, k)
	}
	r.lock.RUnlock()
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
