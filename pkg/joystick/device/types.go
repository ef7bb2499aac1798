// Package device reads Linux joystick devices (/dev/input/jsN).
package device

import (
	"errors"
	"io"
)

// ErrUnsupported is returned by Open on platforms without js devices.
var ErrUnsupported = errors.New("joystick not supported on this platform")

// EventType is the type bits of an event.
type EventType uint8

// Event types.
const (
	EventButton EventType = 0x01
	EventAxis   EventType = 0x02
	EventInit   EventType = 0x80
)

// Event is a single axis or button change.
type Event struct {
	Time   uint32
	Value  int16
	Type   EventType
	Number uint8
}

// IsInit indicates this reports the initial state.
func (e Event) IsInit() bool {
	return e.Type&EventInit != 0
}

// IsAxis indicates an axis event.
func (e Event) IsAxis() bool {
	return e.Type&^EventInit == EventAxis
}

// IsButton indicates a button event.
func (e Event) IsButton() bool {
	return e.Type&^EventInit == EventButton
}

// Pressed returns the button state.
func (e Event) Pressed() bool {
	return e.Value != 0
}

// Device represents an opened joystick.
type Device interface {
	io.Closer
	// Index returns the index of the device on the system.
	Index() int
	// Name returns the name of the device.
	Name() string
	// ReadEvent reads one event from the device.
	ReadEvent() (Event, error)
}
