// Package kinematics maps motion intents to per-wheel motor commands.
package kinematics

import (
	"fmt"
	"strings"

	"github.com/robotalks/baseboard.go/pkg/wire"
)

// Intent is the abstract motion request. Positive X drives forward,
// positive Y moves right and positive Angular turns clockwise.
type Intent struct {
	X       int8
	Y       int8
	Angular int8
}

// IsZero determines if the intent stops the robot.
func (i Intent) IsZero() bool {
	return i.X == 0 && i.Y == 0 && i.Angular == 0
}

// String implements fmt.Stringer.
func (i Intent) String() string {
	return fmt.Sprintf("(%d,%d,%d)", i.X, i.Y, i.Angular)
}

// Translator converts an Intent into motor commands.
type Translator interface {
	Translate(Intent) []wire.MotorCommand
}

// Topology is the drivetrain layout.
type Topology string

// Supported topologies.
const (
	TopologyNormal  Topology = "normal"
	TopologyOmni    Topology = "omni"
	TopologyMecanum Topology = "mecanum"
)

// String implements flag.Value.
func (t *Topology) String() string {
	return string(*t)
}

// Set implements flag.Value.
func (t *Topology) Set(s string) error {
	switch v := Topology(strings.ToLower(s)); v {
	case TopologyNormal, TopologyOmni, TopologyMecanum:
		*t = v
		return nil
	}
	return wire.InvalidArgument("topology", s, "expect normal, omni or mecanum")
}

// New creates the Translator for a topology.
func New(t Topology) (Translator, error) {
	switch t {
	case TopologyNormal, "":
		return Normal{}, nil
	case TopologyOmni:
		return Omni{}, nil
	case TopologyMecanum:
		return Mecanum{}, nil
	}
	return nil, wire.InvalidArgument("topology", t, "unknown")
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// motor builds a command from a signed speed.
func motor(ch uint8, speed int) wire.MotorCommand {
	m := wire.MotorCommand{Channel: ch, Speed: uint16(abs(speed))}
	if speed < 0 {
		m.Direction = wire.Backward
	}
	return m
}
