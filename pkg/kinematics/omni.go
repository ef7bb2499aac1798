package kinematics

import "github.com/robotalks/baseboard.go/pkg/wire"

// Motor channels of the 3-wheel omni layout.
const (
	OmniLeft  uint8 = 0
	OmniRight uint8 = 1
	OmniTail  uint8 = 2
)

// Omni is the 3-wheel omni drivetrain.
type Omni struct{}

// omniSide is the contribution of the side wheels to a lateral move.
// The tiers are calibration constants of the chassis.
func omniSide(y int) int {
	v := abs(y)
	if v > 5 {
		return v - 2
	}
	return v / 2
}

// Translate implements Translator.
func (Omni) Translate(in Intent) []wire.MotorCommand {
	x, y, a := int(in.X), int(in.Y), int(in.Angular)
	side := omniSide(y)
	if y < 0 {
		side = -side
	}
	left := x - side + a
	right := -x - side + a
	tail := y + a
	return []wire.MotorCommand{
		motor(OmniLeft, clamp(left)),
		motor(OmniRight, clamp(right)),
		motor(OmniTail, clamp(tail)),
	}
}

func clamp(v int) int {
	if v > 127 {
		return 127
	}
	if v < -128 {
		return -128
	}
	return v
}
