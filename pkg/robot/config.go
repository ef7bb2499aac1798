package robot

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/robotalks/baseboard.go/pkg/kinematics"
	"github.com/robotalks/baseboard.go/pkg/link"
)

// Config provides the options to run a Robot.
type Config struct {
	// Device is the serial device of the baseboard.
	Device string
	Port   link.PortOptions

	Topology kinematics.Topology

	ParseInterval    time.Duration
	PollInterval     time.Duration
	DispatchInterval time.Duration

	// BufferSize is the capacity of the receive buffer.
	BufferSize int
	// AutoStop stops the motors when a timed motion ends with nothing queued.
	AutoStop bool

	Pins PinConfig
}

var defaultConfig = Config{
	Device:           "/dev/ttyUSB0",
	Port:             link.PortOptions{BaudRate: link.DefaultBaudRate},
	Topology:         kinematics.TopologyNormal,
	ParseInterval:    50 * time.Millisecond,
	PollInterval:     150 * time.Millisecond,
	DispatchInterval: 150 * time.Millisecond,
	BufferSize:       link.DefaultBufferSize,
	Pins:             DefaultPinConfig(),
}

func init() {
	if val := os.Getenv("ROBO_SERIAL"); val != "" {
		defaultConfig.Device = val
	}
	if val := os.Getenv("ROBO_TOPOLOGY"); val != "" {
		if err := defaultConfig.Topology.Set(val); err != nil {
			log.Printf("ignore ROBO_TOPOLOGY: %v", err)
		}
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Device, "serial", defaultConfig.Device, "Serial device of the baseboard")
	flag.IntVar(&defaultConfig.Port.BaudRate, "baud", defaultConfig.Port.BaudRate, "Serial baud rate")
	flag.Var(&defaultConfig.Topology, "topology", "Drivetrain: normal, omni or mecanum")
	flag.DurationVar(&defaultConfig.ParseInterval, "parse-interval", defaultConfig.ParseInterval, "Interval of decoding received bytes")
	flag.DurationVar(&defaultConfig.PollInterval, "poll-interval", defaultConfig.PollInterval, "Interval of sensor polling")
	flag.DurationVar(&defaultConfig.DispatchInterval, "dispatch-interval", defaultConfig.DispatchInterval, "Interval of event dispatching")
	flag.IntVar(&defaultConfig.BufferSize, "buffer-size", defaultConfig.BufferSize, "Receive buffer size in bytes")
	flag.BoolVar(&defaultConfig.AutoStop, "auto-stop", defaultConfig.AutoStop, "Stop motors after a timed motion if nothing else is queued")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	conf.Pins = defaultConfig.Pins.Clone()
	return &conf
}

// NewRobot opens the serial device and creates a Robot.
func (c *Config) NewRobot() (*Robot, error) {
	port, err := link.Open(c.Device, c.Port)
	if err != nil {
		return nil, err
	}
	r, err := New(c, port)
	if err != nil {
		port.Close()
		return nil, err
	}
	return r, nil
}

// MustNewRobot creates a Robot and fails on error.
func (c *Config) MustNewRobot() *Robot {
	r, err := c.NewRobot()
	if err != nil {
		log.Fatalln(err)
	}
	return r
}
