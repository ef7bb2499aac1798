//go:build linux

package device

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"syscall"
	"unsafe"
)

const (
	iocGNAME uint = 0x80ff6a13
	eventLen      = 8
)

type jsDevice struct {
	file  *os.File
	index int
	name  string
}

// Open opens /dev/input/js<index>.
func Open(index int) (Device, error) {
	f, err := os.OpenFile(fmt.Sprintf("/dev/input/js%d", index), os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	var buf [256]byte
	_, _, errno := syscall.Syscall(syscall.SYS_IOCTL, f.Fd(), uintptr(iocGNAME), uintptr(unsafe.Pointer(&buf)))
	if errno != 0 {
		f.Close()
		return nil, errno
	}
	name := buf[:]
	if pos := bytes.IndexByte(name, 0); pos >= 0 {
		name = name[:pos]
	}
	return &jsDevice{file: f, index: index, name: string(name)}, nil
}

// DetectAndOpen opens the first available device from startIndex.
// It returns nil without error when no device exists.
func DetectAndOpen(startIndex int) (Device, error) {
	for index := startIndex; index < 32; index++ {
		d, err := Open(index)
		if os.IsNotExist(err) {
			continue
		}
		return d, err
	}
	return nil, nil
}

func (d *jsDevice) Close() error { return d.file.Close() }
func (d *jsDevice) Index() int   { return d.index }
func (d *jsDevice) Name() string { return d.name }

func (d *jsDevice) ReadEvent() (ev Event, err error) {
	var buf [eventLen]byte
	if _, err = io.ReadFull(d.file, buf[:]); err != nil {
		return
	}
	ev.Time = binary.LittleEndian.Uint32(buf[0:])
	ev.Value = int16(binary.LittleEndian.Uint16(buf[4:]))
	ev.Type = EventType(buf[6])
	ev.Number = buf[7]
	return
}
