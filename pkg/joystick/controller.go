// Package joystick drives a robot from a local joystick.
package joystick

import (
	"context"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/baseboard.go/pkg/joystick/device"
)

// Driver accepts motion levels.
type Driver interface {
	Control(x, y, angular int8) error
	Stop() error
}

// Axis mapping of a common gamepad.
const (
	AxisTurn     = 0
	AxisDrive    = 1
	AxisStrafe   = 3
	AxisHatTurn  = 6
	AxisHatDrive = 7
)

// DeadZone is the raw axis magnitude treated as centered.
const DeadZone = 2048

const retryInterval = time.Second

// Controller translates joystick axes into motion.
type Controller struct {
	Driver      Driver
	DeviceIndex int
	Verbose     bool

	// Open opens the device, device.Open/DetectAndOpen if nil.
	Open func(index int) (device.Device, error)

	levels [3]int8
}

// NewController creates a Controller.
func NewController(driver Driver) *Controller {
	return &Controller{
		Driver:      driver,
		DeviceIndex: defaultConfig.DeviceIndex,
		Verbose:     defaultConfig.Verbose,
	}
}

// Name implements framework.Named.
func (c *Controller) Name() string {
	return "joystick"
}

// Run implements Runnable.
func (c *Controller) Run(ctx context.Context) error {
	var (
		dev     device.Device
		eventCh <-chan device.Event
		timer   = time.After(0)
	)
	defer func() {
		if dev != nil {
			dev.Close()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer:
			timer = nil
			js, err := c.open()
			if err != nil || js == nil {
				if err != nil {
					glog.V(2).Infof("open joystick: %v", err)
				}
				timer = time.After(retryInterval)
				continue
			}
			glog.Infof("joystick %d %q opened", js.Index(), js.Name())
			dev, eventCh = js, poll(ctx, js)
		case ev, ok := <-eventCh:
			if ok {
				c.handleEvent(ev)
				continue
			}
			glog.Warningf("joystick %d lost", dev.Index())
			dev.Close()
			dev, eventCh = nil, nil
			c.levels = [3]int8{}
			if err := c.Driver.Stop(); err != nil {
				return err
			}
			timer = time.After(retryInterval)
		}
	}
}

func (c *Controller) open() (device.Device, error) {
	if c.Open != nil {
		return c.Open(c.DeviceIndex)
	}
	if c.DeviceIndex >= 0 {
		return device.Open(c.DeviceIndex)
	}
	return device.DetectAndOpen(0)
}

func poll(ctx context.Context, dev device.Device) <-chan device.Event {
	ch := make(chan device.Event, 1)
	go func() {
		defer close(ch)
		for {
			ev, err := dev.ReadEvent()
			if err != nil {
				glog.V(2).Infof("joystick read: %v", err)
				return
			}
			select {
			case ch <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

func (c *Controller) handleEvent(ev device.Event) {
	if c.Verbose {
		var prefix string
		if ev.IsInit() {
			prefix = "[INIT] "
		}
		if ev.IsAxis() {
			glog.Infof(prefix+"Axis %d: %d", ev.Number, ev.Value)
		} else if ev.IsButton() {
			glog.Infof(prefix+"Button %d: %v", ev.Number, ev.Pressed())
		}
	}
	if !ev.IsAxis() {
		return
	}
	levels := c.levels
	switch ev.Number {
	case AxisDrive, AxisHatDrive:
		levels[0] = Level(-int(ev.Value))
	case AxisStrafe:
		levels[1] = Level(int(ev.Value))
	case AxisTurn, AxisHatTurn:
		levels[2] = Level(int(ev.Value))
	default:
		return
	}
	if levels == c.levels {
		return
	}
	c.levels = levels
	if err := c.Driver.Control(levels[0], levels[1], levels[2]); err != nil {
		glog.Errorf("joystick control: %v", err)
	}
}

// Level scales a raw axis value to -127..127.
func Level(raw int) int8 {
	if raw > -DeadZone && raw < DeadZone {
		return 0
	}
	v := raw * 127 / 32767
	switch {
	case v > 127:
		v = 127
	case v < -127:
		v = -127
	}
	return int8(v)
}
