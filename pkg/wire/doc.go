// Package wire provides the baseboard serial protocol support.
package wire

// The protocol is spoken between the host and the baseboard firmware
// over a 115200 baud UART. It is derived from Firmata and is write-only
// in the outbound direction: no command is acknowledged and lost writes
// are undetectable.
//
// General frame:
//
//   F0 CLASS OP LEN PAYLOAD... F7
//
// LEN counts the bytes following it up to and including the terminator.
// Outbound payload bytes are 7-bit. Values wider than 7 bits are split
// into a low byte and a high byte, or for 8-bit values the high bit is
// folded into an adjacent control byte.
//
// Sonar readings use a separate sub-protocol terminated by 07:
//
//   F0 63 0C LSB MSB 07
//
// The distance is MSB*127+LSB millimeters. 07 is also treated as an abort
// sentinel in the LSB/MSB positions, which makes a distance byte of 7
// unrepresentable. This matches the deployed firmware and is kept as is.
//
// Producer: host (commands), baseboard firmware (sensor frames)
// Consumer: baseboard firmware (commands), host (sensor frames)
