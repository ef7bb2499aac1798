package joystick

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/baseboard.go/pkg/joystick/device"
)

type fakeDevice struct {
	events chan device.Event
}

func (d *fakeDevice) Close() error { return nil }
func (d *fakeDevice) Index() int   { return 0 }
func (d *fakeDevice) Name() string { return "fake" }

func (d *fakeDevice) ReadEvent() (device.Event, error) {
	ev, ok := <-d.events
	if !ok {
		return ev, io.EOF
	}
	return ev, nil
}

type driverRecorder struct {
	lock  sync.Mutex
	calls [][3]int8
	stops int
}

func (d *driverRecorder) Control(x, y, angular int8) error {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.calls = append(d.calls, [3]int8{x, y, angular})
	return nil
}

func (d *driverRecorder) Stop() error {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.stops++
	return nil
}

func (d *driverRecorder) snapshot() ([][3]int8, int) {
	d.lock.Lock()
	defer d.lock.Unlock()
	return append([][3]int8(nil), d.calls...), d.stops
}

func TestLevel(t *testing.T) {
	require.EqualValues(t, 0, Level(0))
	require.EqualValues(t, 0, Level(DeadZone-1))
	require.EqualValues(t, 0, Level(-DeadZone+1))
	require.EqualValues(t, 127, Level(32767))
	require.EqualValues(t, -127, Level(-32768))
	require.EqualValues(t, 63, Level(16384))
}

func TestEventKinds(t *testing.T) {
	axis := device.Event{Type: device.EventAxis | device.EventInit}
	require.True(t, axis.IsAxis())
	require.True(t, axis.IsInit())
	require.False(t, axis.IsButton())
	btn := device.Event{Type: device.EventButton, Value: 1}
	require.True(t, btn.IsButton())
	require.True(t, btn.Pressed())
}

func TestController(t *testing.T) {
	dev := &fakeDevice{events: make(chan device.Event)}
	driver := &driverRecorder{}
	opened := make(chan struct{}, 1)
	ctl := NewController(driver)
	ctl.Open = func(int) (device.Device, error) {
		select {
		case opened <- struct{}{}:
			return dev, nil
		default:
			return nil, nil
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ctl.Run(ctx) }()

	dev.events <- device.Event{Type: device.EventAxis, Number: AxisDrive, Value: -32767}
	dev.events <- device.Event{Type: device.EventAxis, Number: AxisDrive, Value: -32767}
	dev.events <- device.Event{Type: device.EventButton, Number: 0, Value: 1}
	dev.events <- device.Event{Type: device.EventAxis, Number: AxisTurn, Value: 100}
	dev.events <- device.Event{Type: device.EventAxis, Number: AxisStrafe, Value: 32767}
	close(dev.events)

	require.Eventually(t, func() bool {
		_, stops := driver.snapshot()
		return stops == 1
	}, time.Second, 5*time.Millisecond)
	calls, _ := driver.snapshot()
	require.Equal(t, [][3]int8{{127, 0, 0}, {127, 127, 0}}, calls)

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("controller not stopped")
	}
}
