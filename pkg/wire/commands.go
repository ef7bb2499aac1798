package wire

import (
	"fmt"
	"time"
)

// Command is anything that encodes into bytes for the baseboard.
type Command interface {
	Encode() ([]byte, error)
}

// Limits of multi-byte values.
const (
	MaxSpeed    = 0x3fff
	MaxPulse    = 0x3fff
	MaxPosition = 0x3fff
	MaxChannel  = 3
)

// MaxMelodyDuration is the longest note a Melody frame can carry.
const MaxMelodyDuration = 0x3fff * time.Millisecond

func checkPin(name string, pin byte) error {
	if pin >= 0x80 {
		return InvalidArgument(name, pin, "must be 7-bit")
	}
	return nil
}

func split14(v uint16) (byte, byte) {
	return byte(v & 0x7f), byte(v >> 7)
}

func join14(lsb, msb byte) uint16 {
	return uint16(lsb&0x7f) | uint16(msb&0x7f)<<7
}

// Mode is a pin mode.
type Mode byte

// Pin modes understood by the firmware.
const (
	ModeInput  Mode = 0x00
	ModeOutput Mode = 0x01
	ModeAnalog Mode = 0x02
	ModePWM    Mode = 0x03
	ModeServo  Mode = 0x04
	ModeSonar  Mode = 0x0b
	ModePixel  Mode = 0x0c
)

var modeNames = map[Mode]string{
	ModeInput:  "input",
	ModeOutput: "output",
	ModeAnalog: "analog",
	ModePWM:    "pwm",
	ModeServo:  "servo",
	ModeSonar:  "sonar",
	ModePixel:  "pixel",
}

// String implements fmt.Stringer.
func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%#x)", byte(m))
}

// ParseMode parses the name of a pin mode.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return 0, InvalidArgument("pin mode", s, "unknown")
}

// PinMode configures a pin: F4 pin mode.
type PinMode struct {
	Pin  byte
	Mode Mode
}

// Encode implements Command.
func (c PinMode) Encode() ([]byte, error) {
	if err := checkPin("pin", c.Pin); err != nil {
		return nil, err
	}
	if c.Mode >= 0x80 {
		return nil, InvalidArgument("pin mode", c.Mode, "must be 7-bit")
	}
	return []byte{PinModeCmd, c.Pin, byte(c.Mode)}, nil
}

// ServoConfig sets the pulse range of a servo pin: F0 70 pin min max F7.
type ServoConfig struct {
	Pin      byte
	MinPulse uint16
	MaxPulse uint16
}

// Encode implements Command.
func (c ServoConfig) Encode() ([]byte, error) {
	if err := checkPin("servo pin", c.Pin); err != nil {
		return nil, err
	}
	if c.MaxPulse > MaxPulse {
		return nil, InvalidArgument("servo max pulse", c.MaxPulse, "out of range")
	}
	if c.MinPulse > c.MaxPulse {
		return nil, InvalidArgument("servo min pulse", c.MinPulse, "greater than max pulse")
	}
	minL, minH := split14(c.MinPulse)
	maxL, maxH := split14(c.MaxPulse)
	return []byte{SOF, ClassServoConfig, c.Pin, minL, minH, maxL, maxH, EOF}, nil
}

// PixelConfig declares a pixel LED string and its module count.
type PixelConfig struct {
	Pin   byte
	Count uint8
}

// Encode implements Command.
func (c PixelConfig) Encode() ([]byte, error) {
	if c.Count >= 0x80 {
		return nil, InvalidArgument("pixel count", c.Count, "out of range")
	}
	return (&Frame{Class: ClassPixel, Op: OpPixelInit, Payload: []byte{c.Pin, c.Count}}).Encode()
}

// DigitalRead requests the value of a digital pin.
type DigitalRead struct {
	Pin byte
}

// Encode implements Command.
func (c DigitalRead) Encode() ([]byte, error) {
	return (&Frame{Class: ClassIO, Op: OpDigitalRead, Payload: []byte{c.Pin}}).Encode()
}

// AnalogRead requests the value of an analog pin.
type AnalogRead struct {
	Pin byte
}

// Encode implements Command.
func (c AnalogRead) Encode() ([]byte, error) {
	return (&Frame{Class: ClassIO, Op: OpAnalogRead, Payload: []byte{c.Pin}}).Encode()
}

// DigitalWrite sets a digital output pin.
type DigitalWrite struct {
	Pin   byte
	Value bool
}

// Encode implements Command.
func (c DigitalWrite) Encode() ([]byte, error) {
	var v byte
	if c.Value {
		v = 1
	}
	return (&Frame{Class: ClassIO, Op: OpDigitalWrite, Payload: []byte{c.Pin, v}}).Encode()
}

// AnalogWrite sets a PWM duty (0-255). The high bit is carried in the
// byte after the low 7 bits.
type AnalogWrite struct {
	Pin   byte
	Value uint8
}

// Encode implements Command.
func (c AnalogWrite) Encode() ([]byte, error) {
	return (&Frame{Class: ClassIO, Op: OpAnalogWrite, Payload: []byte{c.Pin, c.Value % 128, c.Value / 128}}).Encode()
}

// ServoWrite moves a servo.
type ServoWrite struct {
	Pin      byte
	Position uint16
}

// Encode implements Command.
func (c ServoWrite) Encode() ([]byte, error) {
	if c.Position > MaxPosition {
		return nil, InvalidArgument("servo position", c.Position, "out of range")
	}
	lsb, msb := split14(c.Position)
	return (&Frame{Class: ClassServo, Op: OpServoWrite, Payload: []byte{c.Pin, lsb, msb}}).Encode()
}

// PixelWrite sets the color of one module of a pixel LED string.
// The high bits of R, G, B are folded into a trailing flags byte.
type PixelWrite struct {
	Pin     byte
	Index   uint8
	R, G, B uint8
}

// Encode implements Command.
func (c PixelWrite) Encode() ([]byte, error) {
	hi := c.R/128 | (c.G/128)<<1 | (c.B/128)<<2
	return (&Frame{
		Class:   ClassPixel,
		Op:      OpPixelWrite,
		Payload: []byte{c.Pin, c.Index, c.R % 128, c.G % 128, c.B % 128, hi},
	}).Encode()
}

// Note is a melody note.
type Note byte

// Notes of the solfege scale.
const (
	NoteDo Note = iota + 1
	NoteRe
	NoteMi
	NoteFa
	NoteSol
	NoteLa
	NoteSi
)

var noteNames = [...]string{"", "do", "re", "mi", "fa", "sol", "la", "si"}

// String implements fmt.Stringer.
func (n Note) String() string {
	if n >= NoteDo && n <= NoteSi {
		return noteNames[n]
	}
	return fmt.Sprintf("note(%d)", byte(n))
}

// ParseNote parses a solfege name.
func ParseNote(s string) (Note, error) {
	for n := NoteDo; n <= NoteSi; n++ {
		if noteNames[n] == s {
			return n, nil
		}
	}
	return 0, InvalidArgument("note", s, "unknown")
}

// Melody plays a note on the buzzer pin.
type Melody struct {
	Pin      byte
	Note     Note
	Duration time.Duration
}

// Encode implements Command.
func (c Melody) Encode() ([]byte, error) {
	if c.Note < NoteDo || c.Note > NoteSi {
		return nil, InvalidArgument("note", c.Note, "out of range")
	}
	if c.Duration < 0 || c.Duration > MaxMelodyDuration {
		return nil, InvalidArgument("duration", c.Duration, "out of range")
	}
	lsb, msb := split14(uint16(c.Duration / time.Millisecond))
	return (&Frame{Class: ClassMelody, Op: OpMelody, Payload: []byte{c.Pin, byte(c.Note), lsb, msb}}).Encode()
}

// SonarRead requests a sonar measurement: F0 62 0C trig echo 07.
type SonarRead struct {
	Trig byte
	Echo byte
}

// Encode implements Command.
func (c SonarRead) Encode() ([]byte, error) {
	if err := checkPin("sonar trig pin", c.Trig); err != nil {
		return nil, err
	}
	if err := checkPin("sonar echo pin", c.Echo); err != nil {
		return nil, err
	}
	return []byte{SOF, ClassSonarReq, SonarMagic, c.Trig, c.Echo, SonarEOF}, nil
}
