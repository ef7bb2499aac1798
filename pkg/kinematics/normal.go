package kinematics

import "github.com/robotalks/baseboard.go/pkg/wire"

// Motor channels of the 4-wheel layouts.
const (
	LeftFront  uint8 = 0
	LeftRear   uint8 = 1
	RightFront uint8 = 2
	RightRear  uint8 = 3
)

// Normal is the differential 4-wheel drivetrain. Lateral and angular
// components both steer, except a pure 45 degree move (|x| == |y|, no
// angular) which drives only the diagonal wheel pair.
type Normal struct{}

// Translate implements Translator.
func (Normal) Translate(in Intent) []wire.MotorCommand {
	if in.Angular == 0 && in.X != 0 && abs(int(in.X)) == abs(int(in.Y)) {
		return diagonal(int(in.X), int(in.Y))
	}
	x, turn := int(in.X), int(in.Y)+int(in.Angular)
	var left, right int
	switch {
	case x == 0 && turn == 0:
	case turn == 0:
		left, right = x, x
	case x == 0:
		left, right = turn, -turn
	default:
		// inner pair keeps the base speed, outer pair speeds up.
		outer := abs(x) + abs(turn)
		if x < 0 {
			outer = -outer
		}
		if turn > 0 {
			left, right = outer, x
		} else {
			left, right = x, outer
		}
	}
	return wheels(left, left, right, right)
}

// diagonal drives LF+RR when x and y share a sign, otherwise LR+RF,
// at the larger magnitude with the direction of x.
func diagonal(x, y int) []wire.MotorCommand {
	speed := abs(x)
	if abs(y) > speed {
		speed = abs(y)
	}
	if x < 0 {
		speed = -speed
	}
	if (x > 0) == (y > 0) {
		return wheels(speed, 0, 0, speed)
	}
	return wheels(0, speed, speed, 0)
}

func wheels(lf, lr, rf, rr int) []wire.MotorCommand {
	return []wire.MotorCommand{
		motor(LeftFront, lf),
		motor(LeftRear, lr),
		motor(RightFront, rf),
		motor(RightRear, rr),
	}
}
