package baseboard

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/baseboard.go/pkg/cli/sh"
	"github.com/robotalks/baseboard.go/pkg/robot"
	"github.com/robotalks/baseboard.go/pkg/telemetry"
	"github.com/robotalks/baseboard.go/pkg/wire"
)

type driveFunc func(*robot.Robot, int, time.Duration) error

var drives = map[string]driveFunc{
	"front":      (*robot.Robot).DriveFront,
	"rear":       (*robot.Robot).DriveRear,
	"left":       (*robot.Robot).DriveLeft,
	"right":      (*robot.Robot).DriveRight,
	"frontleft":  (*robot.Robot).DriveFrontLeft,
	"frontright": (*robot.Robot).DriveFrontRight,
	"rearleft":   (*robot.Robot).DriveRearLeft,
	"rearright":  (*robot.Robot).DriveRearRight,
}

var turns = map[string]driveFunc{
	"left":  (*robot.Robot).TurnLeft,
	"right": (*robot.Robot).TurnRight,
}

var leds = map[string]func(*robot.Robot, uint8) error{
	"red":    (*robot.Robot).LEDRed,
	"green":  (*robot.Robot).LEDGreen,
	"blue":   (*robot.Robot).LEDBlue,
	"yellow": (*robot.Robot).LEDYellow,
	"white":  (*robot.Robot).LEDWhite,
	"off":    (*robot.Robot).LEDOff,
	"random": (*robot.Robot).LEDRandom,
}

func timedMove(table map[string]driveFunc) func(c *ishell.Context, r *robot.Robot) {
	return func(c *ishell.Context, r *robot.Robot) {
		if len(c.Args) < 2 {
			c.Err(fmt.Errorf("DIRECTION SPEED required"))
			return
		}
		fn, ok := table[strings.ToLower(c.Args[0])]
		if !ok {
			c.Err(fmt.Errorf("Invalid DIRECTION: %q", c.Args[0]))
			return
		}
		speed, err := parseSpeed(c.Args[1])
		if err != nil {
			c.Err(err)
			return
		}
		d, err := optDuration(c.Args, 2)
		if err != nil {
			c.Err(err)
			return
		}
		reply(c, fn(r, speed, d))
	}
}

func reply(c *ishell.Context, err error) {
	if err != nil {
		c.Err(err)
		return
	}
	c.Println("OK")
}

func printSnapshot(c *ishell.Context, kind string, s telemetry.Snapshot) {
	if sh.ShellFrom(c).OutputJSON {
		out, err := json.Marshal(&s)
		if err != nil {
			c.Err(err)
			return
		}
		c.Println(string(out))
		return
	}
	c.Printf("%s floor_ir=%v front_ir=%v sonar=%dmm at %s\n",
		kind, s.FloorIR, s.FrontIR, s.SonarDistance, s.UpdatedAt.Format(time.StampMilli))
}

var (
	// DriveCmd drives in a direction.
	DriveCmd = ishell.Cmd{
		Name:    "drive",
		Aliases: []string{"dr"},
		Help:    "front|rear|left|right|frontleft|frontright|rearleft|rearright SPEED(0-127) [DURATION]",
		Func:    sh.MustBeConnected(timedMove(drives)),
	}

	// TurnCmd rotates in place.
	TurnCmd = ishell.Cmd{
		Name:    "turn",
		Aliases: []string{"t"},
		Help:    "left|right SPEED(0-127) [DURATION]",
		Func:    sh.MustBeConnected(timedMove(turns)),
	}

	// ControlCmd sends a raw motion.
	ControlCmd = ishell.Cmd{
		Name:    "control",
		Aliases: []string{"ctl"},
		Help:    "X Y ANGULAR [DURATION]",
		Func: sh.MustBeConnected(func(c *ishell.Context, r *robot.Robot) {
			if len(c.Args) < 3 {
				c.Err(fmt.Errorf("X Y ANGULAR required"))
				return
			}
			var levels [3]int8
			for n, name := range []string{"X", "Y", "ANGULAR"} {
				v, err := parseLevel(name, c.Args[n])
				if err != nil {
					c.Err(err)
					return
				}
				levels[n] = v
			}
			d, err := optDuration(c.Args, 3)
			if err != nil {
				c.Err(err)
				return
			}
			reply(c, r.ControlWhile(levels[0], levels[1], levels[2], d))
		}),
	}

	// StopCmd stops all motion.
	StopCmd = ishell.Cmd{
		Name:    "stop",
		Aliases: []string{"s"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context, r *robot.Robot) {
			reply(c, r.Stop())
		}),
	}

	// LEDCmd sets a pixel LED.
	LEDCmd = ishell.Cmd{
		Name: "led",
		Help: "ID red|green|blue|yellow|white|off|random|R G B",
		Func: sh.MustBeConnected(func(c *ishell.Context, r *robot.Robot) {
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("ID COLOR required"))
				return
			}
			id, err := parseByte("ID", c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			if fn, ok := leds[strings.ToLower(c.Args[1])]; ok {
				reply(c, fn(r, id))
				return
			}
			if len(c.Args) < 4 {
				c.Err(fmt.Errorf("Invalid COLOR: %q", c.Args[1]))
				return
			}
			var rgb [3]uint8
			for n, name := range []string{"R", "G", "B"} {
				if rgb[n], err = parseByte(name, c.Args[n+1]); err != nil {
					c.Err(err)
					return
				}
			}
			reply(c, r.LEDOn(id, rgb[0], rgb[1], rgb[2]))
		}),
	}

	// MelodyCmd plays a note.
	MelodyCmd = ishell.Cmd{
		Name:    "melody",
		Aliases: []string{"m"},
		Help:    "do|re|mi|fa|sol|la|si DURATION",
		Func: sh.MustBeConnected(func(c *ishell.Context, r *robot.Robot) {
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("NOTE DURATION required"))
				return
			}
			note, err := wire.ParseNote(strings.ToLower(c.Args[0]))
			if err != nil {
				c.Err(err)
				return
			}
			d, err := parseDuration(c.Args[1])
			if err != nil {
				c.Err(err)
				return
			}
			reply(c, r.Melody(note, d))
		}),
	}

	// ServoCmd moves a servo.
	ServoCmd = ishell.Cmd{
		Name: "servo",
		Help: "PIN POSITION",
		Func: sh.MustBeConnected(func(c *ishell.Context, r *robot.Robot) {
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("PIN POSITION required"))
				return
			}
			pin, err := parseByte("PIN", c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			var pos uint16
			if _, err := fmt.Sscan(c.Args[1], &pos); err != nil {
				c.Err(fmt.Errorf("Invalid POSITION: %v", err))
				return
			}
			reply(c, r.ServoWrite(pin, pos))
		}),
	}

	// ReadCmd requests a pin value.
	ReadCmd = ishell.Cmd{
		Name: "read",
		Help: "digital|analog PIN",
		Func: sh.MustBeConnected(func(c *ishell.Context, r *robot.Robot) {
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("digital|analog PIN required"))
				return
			}
			pin, err := parseByte("PIN", c.Args[1])
			if err != nil {
				c.Err(err)
				return
			}
			switch c.Args[0] {
			case "digital", "d":
				reply(c, r.DigitalRead(pin))
			case "analog", "a":
				reply(c, r.AnalogRead(pin))
			default:
				c.Err(fmt.Errorf("Invalid TYPE: %q", c.Args[0]))
			}
		}),
	}

	// WriteCmd sets a pin value.
	WriteCmd = ishell.Cmd{
		Name: "write",
		Help: "digital PIN 0|1, analog PIN 0-255",
		Func: sh.MustBeConnected(func(c *ishell.Context, r *robot.Robot) {
			if len(c.Args) < 3 {
				c.Err(fmt.Errorf("TYPE PIN VALUE required"))
				return
			}
			pin, err := parseByte("PIN", c.Args[1])
			if err != nil {
				c.Err(err)
				return
			}
			switch c.Args[0] {
			case "digital", "d":
				v, err := parseBool(c.Args[2])
				if err != nil {
					c.Err(err)
					return
				}
				reply(c, r.DigitalWrite(pin, v))
			case "analog", "a":
				v, err := parseByte("VALUE", c.Args[2])
				if err != nil {
					c.Err(err)
					return
				}
				reply(c, r.AnalogWrite(pin, v))
			default:
				c.Err(fmt.Errorf("Invalid TYPE: %q", c.Args[0]))
			}
		}),
	}

	// SonarCmd requests a sonar measurement.
	SonarCmd = ishell.Cmd{
		Name: "sonar",
		Help: "",
		Func: sh.MustBeConnected(func(c *ishell.Context, r *robot.Robot) {
			reply(c, r.SonarRead())
		}),
	}

	// WatchCmd prints dispatched events of a kind.
	WatchCmd = ishell.Cmd{
		Name:    "watch",
		Aliases: []string{"w"},
		Help:    "floor_ir|front_ir|sonar|imu [off]",
		Func: sh.MustBeConnected(func(c *ishell.Context, r *robot.Robot) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("KIND required"))
				return
			}
			kind, err := telemetry.ParseEventKind(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			if len(c.Args) > 1 && c.Args[1] == "off" {
				r.RemoveEventHandler(kind)
				c.Println("OK")
				return
			}
			r.SetEventHandler(kind, telemetry.HandlerFunc(func(kind telemetry.EventKind, s telemetry.Snapshot) {
				printSnapshot(c, kind.String(), s)
			}))
			c.Println("OK")
		}),
	}

	// SnapshotCmd prints the latest sensor values.
	SnapshotCmd = ishell.Cmd{
		Name:    "snapshot",
		Aliases: []string{"snap"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context, r *robot.Robot) {
			printSnapshot(c, "snapshot", r.Snapshot())
		}),
	}
)

func init() {
	sh.AddCmds(
		&DriveCmd,
		&TurnCmd,
		&ControlCmd,
		&StopCmd,
		&LEDCmd,
		&MelodyCmd,
		&ServoCmd,
		&ReadCmd,
		&WriteCmd,
		&SonarCmd,
		&WatchCmd,
		&SnapshotCmd,
	)
}
