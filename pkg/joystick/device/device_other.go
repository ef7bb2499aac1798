//go:build !linux

package device

// Open opens the joystick with specified index.
func Open(index int) (Device, error) {
	return nil, ErrUnsupported
}

// DetectAndOpen detects a joystick from startIndex.
func DetectAndOpen(startIndex int) (Device, error) {
	return nil, ErrUnsupported
}
