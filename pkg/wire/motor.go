package wire

import "fmt"

// Direction is the rotation direction of a motor.
type Direction byte

// Directions.
const (
	Forward  Direction = 0
	Backward Direction = 1
)

// String implements fmt.Stringer.
func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// MotorCommand drives one motor channel.
type MotorCommand struct {
	Channel   uint8
	Direction Direction
	Speed     uint16
}

// String implements fmt.Stringer.
func (m MotorCommand) String() string {
	return fmt.Sprintf("M%d:%s:%d", m.Channel, m.Direction, m.Speed)
}

// Validate checks the command is encodable.
func (m MotorCommand) Validate() error {
	if m.Channel > MaxChannel {
		return InvalidArgument("motor channel", m.Channel, "out of range")
	}
	if m.Direction != Forward && m.Direction != Backward {
		return InvalidArgument("motor direction", m.Direction, "out of range")
	}
	if m.Speed > MaxSpeed {
		return InvalidArgument("motor speed", m.Speed, "out of range")
	}
	return nil
}

// appendTo appends the 3-byte motor encoding: ctrl lsb msb.
// ctrl = channel (bits 0-1) | direction (bit 2).
func (m MotorCommand) appendTo(b []byte) []byte {
	lsb, msb := split14(m.Speed)
	return append(b, m.Channel&0x03|byte(m.Direction&1)<<2, lsb, msb)
}

// Encode implements Command and encodes a single dc motor frame.
func (m MotorCommand) Encode() ([]byte, error) {
	return MotorWrite{m}.Encode()
}

// DecodeMotorCommand decodes the 3-byte motor encoding.
func DecodeMotorCommand(b []byte) (m MotorCommand, err error) {
	if len(b) != 3 || b[0] >= 0x08 || b[1] >= 0x80 || b[2] >= 0x80 {
		return m, ErrMalformedFrame
	}
	m.Channel = b[0] & 0x03
	m.Direction = Direction(b[0]>>2) & 1
	m.Speed = join14(b[1], b[2])
	return
}

// MotorWrite drives one, two or three motors in a single frame.
type MotorWrite []MotorCommand

var motorOps = [...]byte{0, OpMotor, OpDualMotor, OpTripleMotor}

// Encode implements Command.
func (w MotorWrite) Encode() ([]byte, error) {
	if len(w) == 0 || len(w) >= len(motorOps) {
		return nil, InvalidArgument("motor count", len(w), "must be 1 to 3")
	}
	payload := make([]byte, 0, len(w)*3)
	for _, m := range w {
		if err := m.Validate(); err != nil {
			return nil, err
		}
		payload = m.appendTo(payload)
	}
	return (&Frame{Class: ClassMotor, Op: motorOps[len(w)], Payload: payload}).Encode()
}

// DecodeMotorWrite decodes a dc/dual/triple motor frame.
func DecodeMotorWrite(b []byte) (MotorWrite, error) {
	f, err := DecodeFrame(b)
	if err != nil {
		return nil, err
	}
	if f.Class != ClassMotor || f.Op > OpTripleMotor || len(f.Payload) != int(f.Op+1)*3 {
		return nil, ErrMalformedFrame
	}
	w := make(MotorWrite, 0, f.Op+1)
	for i := 0; i < len(f.Payload); i += 3 {
		m, err := DecodeMotorCommand(f.Payload[i : i+3])
		if err != nil {
			return nil, err
		}
		w = append(w, m)
	}
	return w, nil
}
