package kinematics

import (
	"github.com/golang/glog"

	"github.com/robotalks/baseboard.go/pkg/wire"
)

// Mecanum is the 4-wheel mecanum drivetrain. It drives like Normal when
// there is no lateral component, and strafes or moves diagonally
// otherwise.
type Mecanum struct{}

// Translate implements Translator.
func (Mecanum) Translate(in Intent) []wire.MotorCommand {
	if in.Y == 0 {
		return Normal{}.Translate(in)
	}
	if in.Angular != 0 {
		glog.V(2).Infof("mecanum: angular %d ignored while moving laterally", in.Angular)
	}
	x, y := int(in.X), int(in.Y)
	if x == 0 {
		// strafe right: LF and RR forward, RF and LR backward.
		return wheels(y, -y, -y, y)
	}
	return diagonal(x, y)
}
