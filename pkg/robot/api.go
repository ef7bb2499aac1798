package robot

import (
	"context"
	"math/rand"
	"time"

	"github.com/robotalks/baseboard.go/pkg/kinematics"
	"github.com/robotalks/baseboard.go/pkg/motion"
	"github.com/robotalks/baseboard.go/pkg/wire"
)

// MaxLevel is the largest speed level of the drive API.
const MaxLevel = 127

// Control starts a motion and returns without waiting. The motion stays
// in effect until the next one.
func (r *Robot) Control(x, y, angular int8) error {
	return r.enqueue(motion.Intent{Motion: kinematics.Intent{X: x, Y: y, Angular: angular}})
}

// ControlWhile queues a motion held for d. Queued motions run in order,
// each waits for the previous one to finish.
func (r *Robot) ControlWhile(x, y, angular int8, d time.Duration) error {
	return r.enqueue(motion.Intent{Motion: kinematics.Intent{X: x, Y: y, Angular: angular}, Duration: d})
}

// ControlWhileContext is ControlWhile with ctx canceling the wait. A
// canceled motion stops the motors if nothing else is queued.
func (r *Robot) ControlWhileContext(ctx context.Context, x, y, angular int8, d time.Duration) error {
	return r.enqueue(motion.Intent{
		Motion:   kinematics.Intent{X: x, Y: y, Angular: angular},
		Duration: d,
		Context:  ctx,
	})
}

// Stop aborts the motion in progress, drops queued ones and stops the
// motors.
func (r *Robot) Stop() error {
	if r.stopped() {
		return ErrNotRunning
	}
	r.executor.Stop()
	return nil
}

func (r *Robot) enqueue(in motion.Intent) error {
	if r.stopped() {
		return ErrNotRunning
	}
	return r.executor.Enqueue(in)
}

func (r *Robot) drive(x, y, angular int, speed int, d time.Duration) error {
	if speed < 0 || speed > MaxLevel {
		return wire.InvalidArgument("speed", speed, "must be 0 to 127")
	}
	if d < 0 {
		return wire.InvalidArgument("duration", d, "must not be negative")
	}
	return r.ControlWhile(int8(x*speed), int8(y*speed), int8(angular*speed), d)
}

// DriveFront drives forward.
func (r *Robot) DriveFront(speed int, d time.Duration) error { return r.drive(1, 0, 0, speed, d) }

// DriveRear drives backward.
func (r *Robot) DriveRear(speed int, d time.Duration) error { return r.drive(-1, 0, 0, speed, d) }

// DriveLeft moves left.
func (r *Robot) DriveLeft(speed int, d time.Duration) error { return r.drive(0, -1, 0, speed, d) }

// DriveRight moves right.
func (r *Robot) DriveRight(speed int, d time.Duration) error { return r.drive(0, 1, 0, speed, d) }

// DriveFrontLeft moves diagonally forward left.
func (r *Robot) DriveFrontLeft(speed int, d time.Duration) error { return r.drive(1, -1, 0, speed, d) }

// DriveFrontRight moves diagonally forward right.
func (r *Robot) DriveFrontRight(speed int, d time.Duration) error { return r.drive(1, 1, 0, speed, d) }

// DriveRearLeft moves diagonally backward left.
func (r *Robot) DriveRearLeft(speed int, d time.Duration) error { return r.drive(-1, -1, 0, speed, d) }

// DriveRearRight moves diagonally backward right.
func (r *Robot) DriveRearRight(speed int, d time.Duration) error { return r.drive(-1, 1, 0, speed, d) }

// TurnLeft rotates counterclockwise.
func (r *Robot) TurnLeft(speed int, d time.Duration) error { return r.drive(0, 0, -1, speed, d) }

// TurnRight rotates clockwise.
func (r *Robot) TurnRight(speed int, d time.Duration) error { return r.drive(0, 0, 1, speed, d) }

// LEDOn sets the color of pixel LED id.
func (r *Robot) LEDOn(id, red, green, blue uint8) error {
	return r.link.Send(wire.PixelWrite{Pin: r.Config.Pins.Pixel, Index: id, R: red, G: green, B: blue})
}

// LEDOff turns off pixel LED id.
func (r *Robot) LEDOff(id uint8) error { return r.LEDOn(id, 0, 0, 0) }

// LEDRed lights pixel LED id in red.
func (r *Robot) LEDRed(id uint8) error { return r.LEDOn(id, 255, 0, 0) }

// LEDGreen lights pixel LED id in green.
func (r *Robot) LEDGreen(id uint8) error { return r.LEDOn(id, 0, 255, 0) }

// LEDBlue lights pixel LED id in blue.
func (r *Robot) LEDBlue(id uint8) error { return r.LEDOn(id, 0, 0, 255) }

// LEDYellow lights pixel LED id in yellow.
func (r *Robot) LEDYellow(id uint8) error { return r.LEDOn(id, 255, 255, 0) }

// LEDWhite lights pixel LED id in white.
func (r *Robot) LEDWhite(id uint8) error { return r.LEDOn(id, 255, 255, 255) }

// LEDRandom lights pixel LED id in a random color.
func (r *Robot) LEDRandom(id uint8) error {
	c := rand.Uint32()
	return r.LEDOn(id, uint8(c), uint8(c>>8), uint8(c>>16))
}

// Melody plays a note on the buzzer.
func (r *Robot) Melody(note wire.Note, d time.Duration) error {
	return r.link.Send(wire.Melody{Pin: r.Config.Pins.Buzzer, Note: note, Duration: d})
}

// MelodyDo plays do.
func (r *Robot) MelodyDo(d time.Duration) error { return r.Melody(wire.NoteDo, d) }

// MelodyRe plays re.
func (r *Robot) MelodyRe(d time.Duration) error { return r.Melody(wire.NoteRe, d) }

// MelodyMi plays mi.
func (r *Robot) MelodyMi(d time.Duration) error { return r.Melody(wire.NoteMi, d) }

// MelodyFa plays fa.
func (r *Robot) MelodyFa(d time.Duration) error { return r.Melody(wire.NoteFa, d) }

// MelodySol plays sol.
func (r *Robot) MelodySol(d time.Duration) error { return r.Melody(wire.NoteSol, d) }

// MelodyLa plays la.
func (r *Robot) MelodyLa(d time.Duration) error { return r.Melody(wire.NoteLa, d) }

// MelodySi plays si.
func (r *Robot) MelodySi(d time.Duration) error { return r.Melody(wire.NoteSi, d) }

// DigitalRead requests the value of a digital pin. The baseboard reports
// configured sensor pins through telemetry.
func (r *Robot) DigitalRead(pin byte) error {
	return r.link.Send(wire.DigitalRead{Pin: pin})
}

// DigitalWrite sets a digital pin.
func (r *Robot) DigitalWrite(pin byte, value bool) error {
	return r.link.Send(wire.DigitalWrite{Pin: pin, Value: value})
}

// AnalogRead requests the value of an analog pin.
func (r *Robot) AnalogRead(pin byte) error {
	return r.link.Send(wire.AnalogRead{Pin: pin})
}

// AnalogWrite sets the PWM duty of a pin.
func (r *Robot) AnalogWrite(pin byte, value uint8) error {
	return r.link.Send(wire.AnalogWrite{Pin: pin, Value: value})
}

// ServoWrite moves the servo on pin.
func (r *Robot) ServoWrite(pin byte, position uint16) error {
	return r.link.Send(wire.ServoWrite{Pin: pin, Position: position})
}

// SonarRead requests a sonar measurement.
func (r *Robot) SonarRead() error {
	return r.link.Send(wire.SonarRead{Trig: r.Config.Pins.SonarTrig, Echo: r.Config.Pins.SonarEcho})
}
