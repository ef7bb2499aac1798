package wire

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is matched by all InvalidArgumentError values.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrMalformedFrame indicates the bytes are not a complete frame.
	ErrMalformedFrame = errors.New("malformed frame")
)

// InvalidArgumentError reports an out-of-range input to an encoder or
// to the public command API.
type InvalidArgumentError struct {
	Name   string
	Value  interface{}
	Reason string
}

// Error implements error.
func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Name, e.Value, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidArgument) true.
func (e *InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// InvalidArgument creates an InvalidArgumentError.
func InvalidArgument(name string, value interface{}, reason string) error {
	return &InvalidArgumentError{Name: name, Value: value, Reason: reason}
}
