package robot

import (
	"sort"

	"github.com/robotalks/baseboard.go/pkg/telemetry"
	"github.com/robotalks/baseboard.go/pkg/wire"
)

// PinSpec is the resolved setup of one pin.
type PinSpec struct {
	Mode       wire.Mode `json:"mode"`
	ServoMin   uint16    `json:"servo_min,omitempty"`
	ServoMax   uint16    `json:"servo_max,omitempty"`
	PixelCount uint8     `json:"pixel_count,omitempty"`
}

// PinConfig is the pin assignment of the baseboard.
type PinConfig struct {
	Pins map[byte]PinSpec `json:"pins"`

	FloorIR   [wire.FloorIRChannels]byte `json:"floor_ir"`
	FrontIR   [2]byte                    `json:"front_ir"`
	SonarTrig byte                       `json:"sonar_trig"`
	SonarEcho byte                       `json:"sonar_echo"`
	Buzzer    byte                       `json:"buzzer"`
	Pixel     byte                       `json:"pixel"`
}

// DefaultPinConfig is the wiring of the stock baseboard.
func DefaultPinConfig() PinConfig {
	c := PinConfig{
		FloorIR:   [wire.FloorIRChannels]byte{14, 15, 16, 17, 18},
		FrontIR:   [2]byte{2, 3},
		SonarTrig: 7,
		SonarEcho: 8,
		Buzzer:    9,
		Pixel:     6,
		Pins: map[byte]PinSpec{
			6:  {Mode: wire.ModePixel, PixelCount: 4},
			7:  {Mode: wire.ModeSonar},
			8:  {Mode: wire.ModeSonar},
			9:  {Mode: wire.ModeOutput},
			10: {Mode: wire.ModeServo, ServoMin: 544, ServoMax: 2400},
		},
	}
	for _, pin := range c.FloorIR {
		c.Pins[pin] = PinSpec{Mode: wire.ModeAnalog}
	}
	for _, pin := range c.FrontIR {
		c.Pins[pin] = PinSpec{Mode: wire.ModeInput}
	}
	return c
}

// InitCommands builds the setup sent once at startup, in pin order.
func (c *PinConfig) InitCommands() []wire.Command {
	pins := make([]int, 0, len(c.Pins))
	for pin := range c.Pins {
		pins = append(pins, int(pin))
	}
	sort.Ints(pins)
	var cmds []wire.Command
	for _, n := range pins {
		pin := byte(n)
		spec := c.Pins[pin]
		cmds = append(cmds, wire.PinMode{Pin: pin, Mode: spec.Mode})
		switch spec.Mode {
		case wire.ModeServo:
			cmds = append(cmds, wire.ServoConfig{Pin: pin, MinPulse: spec.ServoMin, MaxPulse: spec.ServoMax})
		case wire.ModePixel:
			cmds = append(cmds, wire.PixelConfig{Pin: pin, Count: spec.PixelCount})
		}
	}
	return cmds
}

// SensorPins gets the pins the poller requests.
func (c *PinConfig) SensorPins() telemetry.SensorPins {
	return telemetry.SensorPins{
		FloorIR:   c.FloorIR[:],
		FrontIR:   c.FrontIR[:],
		SonarTrig: c.SonarTrig,
		SonarEcho: c.SonarEcho,
	}
}

// Clone returns a copy not sharing the pin table.
func (c PinConfig) Clone() PinConfig {
	if c.Pins != nil {
		pins := make(map[byte]PinSpec, len(c.Pins))
		for pin, spec := range c.Pins {
			pins[pin] = spec
		}
		c.Pins = pins
	}
	return c
}
