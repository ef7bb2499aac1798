package link

import (
	"errors"
	"fmt"
)

// ErrClosed is returned when sending on a closed Link.
var ErrClosed = errors.New("link closed")

// TransportError is a failure of the serial port. It stops the engine.
type TransportError struct {
	Op  string
	Err error
}

// Error implements error.
func (e *TransportError) Error() string {
	return fmt.Sprintf("serial %s: %v", e.Op, e.Err)
}

// Unwrap returns the port error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Fatal implements framework.FatalError.
func (e *TransportError) Fatal() bool {
	return true
}
