package wire

import "io"

// Framing bytes.
const (
	SOF      byte = 0xf0
	EOF      byte = 0xf7
	SonarEOF byte = 0x07

	// PinModeCmd starts the unframed 3-byte pin mode command.
	PinModeCmd byte = 0xf4
	// SonarMagic follows the sonar class byte.
	SonarMagic byte = 0x0c
)

// Frame classes.
const (
	ClassIO          byte = 0x01
	ClassMotor       byte = 0x02
	ClassServo       byte = 0x03
	ClassPixel       byte = 0x04
	ClassMelody      byte = 0x05
	ClassSonarReq    byte = 0x62
	ClassSonar       byte = 0x63
	ClassServoConfig byte = 0x70
)

// Ops of ClassIO. Read requests and sensor reports share op codes.
const (
	OpFrontIR      byte = 0x00
	OpFloorIR      byte = 0x01
	OpReserved     byte = 0x02
	OpDigitalRead       = OpFrontIR
	OpAnalogRead        = OpFloorIR
	OpDigitalWrite byte = 0x10
	OpAnalogWrite  byte = 0x11
)

// Ops of the actuator classes.
const (
	OpMotor       byte = 0x00
	OpDualMotor   byte = 0x01
	OpTripleMotor byte = 0x02
	OpServoWrite  byte = 0x00
	OpPixelInit   byte = 0x00
	OpPixelWrite  byte = 0x01
	OpMelody      byte = 0x00
)

// MaxPayload is the largest payload a general frame can carry.
const MaxPayload = 0x7e

// Frame is a general F0 ... F7 frame.
type Frame struct {
	Class   byte
	Op      byte
	Payload []byte
}

// Bytes returns encoded bytes for sending.
func (f *Frame) Bytes() []byte {
	b := make([]byte, len(f.Payload)+5)
	b[0], b[1], b[2], b[3] = SOF, f.Class, f.Op, byte(len(f.Payload)+1)
	copy(b[4:], f.Payload)
	b[len(b)-1] = EOF
	return b
}

// Encode implements Command. Every payload byte must be 7-bit.
func (f *Frame) Encode() ([]byte, error) {
	if len(f.Payload) > MaxPayload {
		return nil, InvalidArgument("payload length", len(f.Payload), "too long")
	}
	for _, b := range f.Payload {
		if b >= 0x80 {
			return nil, InvalidArgument("payload byte", b, "must be 7-bit")
		}
	}
	return f.Bytes(), nil
}

// WriteTo writes encoded bytes.
func (f *Frame) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(f.Bytes())
	return int64(n), err
}

// DecodeFrame decodes one complete general frame. It is the structural
// inverse of Frame.Bytes and does not check for 7-bit payload bytes since
// inbound sensor frames carry 0x91 and 0xE1..0xE7 markers.
func DecodeFrame(b []byte) (*Frame, error) {
	if len(b) < 5 || b[0] != SOF || b[len(b)-1] != EOF {
		return nil, ErrMalformedFrame
	}
	if l := int(b[3]); l == 0 || l != len(b)-4 {
		return nil, ErrMalformedFrame
	}
	f := &Frame{Class: b[1], Op: b[2]}
	if n := len(b) - 5; n > 0 {
		f.Payload = make([]byte, n)
		copy(f.Payload, b[4:len(b)-1])
	}
	return f, nil
}
