// Package bridge exposes the robot to remote peers.
package bridge

import (
	"time"

	"github.com/golang/protobuf/proto"

	"github.com/robotalks/baseboard.go/pkg/telemetry"
	"github.com/robotalks/baseboard.go/pkg/wire"
)

// Telemetry is the message published for a dispatched event.
type Telemetry struct {
	Kind        string   `protobuf:"bytes,1,opt,name=kind,proto3" json:"kind,omitempty"`
	FloorIr     []uint32 `protobuf:"varint,2,rep,packed,name=floor_ir,json=floorIr,proto3" json:"floor_ir,omitempty"`
	FrontIr     []bool   `protobuf:"varint,3,rep,packed,name=front_ir,json=frontIr,proto3" json:"front_ir,omitempty"`
	SonarMm     uint32   `protobuf:"varint,4,opt,name=sonar_mm,json=sonarMm,proto3" json:"sonar_mm,omitempty"`
	TimestampUs int64    `protobuf:"varint,5,opt,name=timestamp_us,json=timestampUs,proto3" json:"timestamp_us,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *Telemetry) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Telemetry) Reset() { *m = Telemetry{} }

// String implements proto.Message.
func (m *Telemetry) String() string { return proto.CompactTextString(m) }

// Drive is a remote motion command.
type Drive struct {
	X          int32  `protobuf:"zigzag32,1,opt,name=x,proto3" json:"x,omitempty"`
	Y          int32  `protobuf:"zigzag32,2,opt,name=y,proto3" json:"y,omitempty"`
	Angular    int32  `protobuf:"zigzag32,3,opt,name=angular,proto3" json:"angular,omitempty"`
	DurationMs uint32 `protobuf:"varint,4,opt,name=duration_ms,json=durationMs,proto3" json:"duration_ms,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *Drive) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Drive) Reset() { *m = Drive{} }

// String implements proto.Message.
func (m *Drive) String() string { return proto.CompactTextString(m) }

// NewTelemetry builds the message of an event from a snapshot. Only the
// fields of kind are filled.
func NewTelemetry(kind telemetry.EventKind, s telemetry.Snapshot) *Telemetry {
	m := &Telemetry{Kind: kind.String()}
	if !s.UpdatedAt.IsZero() {
		m.TimestampUs = s.UpdatedAt.UnixNano() / int64(time.Microsecond)
	}
	switch kind {
	case telemetry.EventFloorIR:
		m.FloorIr = make([]uint32, len(s.FloorIR))
		for n, v := range s.FloorIR {
			m.FloorIr[n] = uint32(v)
		}
	case telemetry.EventFrontIR:
		m.FrontIr = append([]bool(nil), s.FrontIR[:]...)
	case telemetry.EventSonar:
		m.SonarMm = uint32(s.SonarDistance)
	}
	return m
}

// Commander accepts remote motion commands.
type Commander interface {
	ControlWhile(x, y, angular int8, d time.Duration) error
	Stop() error
}

func level(name string, v int32) (int8, error) {
	if v < -128 || v > 127 {
		return 0, wire.InvalidArgument(name, v, "out of range")
	}
	return int8(v), nil
}

// Apply validates the message and passes it to c.
func (m *Drive) Apply(c Commander) error {
	x, err := level("x", m.X)
	if err != nil {
		return err
	}
	y, err := level("y", m.Y)
	if err != nil {
		return err
	}
	a, err := level("angular", m.Angular)
	if err != nil {
		return err
	}
	return c.ControlWhile(x, y, a, time.Duration(m.DurationMs)*time.Millisecond)
}

// Marshal encodes a message.
func Marshal(m proto.Message) ([]byte, error) {
	return proto.Marshal(m)
}

// UnmarshalDrive decodes a Drive message.
func UnmarshalDrive(b []byte) (*Drive, error) {
	m := &Drive{}
	if err := proto.Unmarshal(b, m); err != nil {
		return nil, err
	}
	return m, nil
}

// UnmarshalTelemetry decodes a Telemetry message.
func UnmarshalTelemetry(b []byte) (*Telemetry, error) {
	m := &Telemetry{}
	if err := proto.Unmarshal(b, m); err != nil {
		return nil, err
	}
	return m, nil
}
