package link

import (
	"context"
	"errors"
	"io"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.bug.st/serial"

	"github.com/robotalks/baseboard.go/pkg/framework"
	"github.com/robotalks/baseboard.go/pkg/wire"
)

type chanPort struct {
	readCh  chan []byte
	closeCh chan struct{}
	once    sync.Once

	lock    sync.Mutex
	written []byte
	writes  int
	failW   error
}

func newChanPort() *chanPort {
	return &chanPort{readCh: make(chan []byte), closeCh: make(chan struct{})}
}

func (p *chanPort) Read(b []byte) (int, error) {
	select {
	case data, ok := <-p.readCh:
		if !ok {
			return 0, io.ErrUnexpectedEOF
		}
		return copy(b, data), nil
	case <-p.closeCh:
		return 0, io.EOF
	}
}

func (p *chanPort) Write(b []byte) (int, error) {
	p.lock.Lock()
	if p.failW != nil {
		p.lock.Unlock()
		return 0, p.failW
	}
	p.writes++
	p.lock.Unlock()
	for _, c := range b {
		p.lock.Lock()
		p.written = append(p.written, c)
		p.lock.Unlock()
		runtime.Gosched()
	}
	return len(b), nil
}

func (p *chanPort) Close() error {
	p.once.Do(func() { close(p.closeCh) })
	return nil
}

func (p *chanPort) bytes() []byte {
	p.lock.Lock()
	defer p.lock.Unlock()
	return append([]byte(nil), p.written...)
}

type sinkFunc func(*wire.Reading)

func (f sinkFunc) Commit(r *wire.Reading) { f(r) }

func TestSendBatch(t *testing.T) {
	port := newChanPort()
	l := New(port, 0, nil)
	require.NoError(t, l.Send(
		wire.MotorCommand{Channel: 0, Speed: 5},
		wire.DigitalWrite{Pin: 3, Value: true},
	))
	require.Equal(t, []byte{
		0xf0, 0x02, 0x00, 0x04, 0x00, 5, 0, 0xf7,
		0xf0, 0x01, 0x10, 0x03, 3, 1, 0xf7,
	}, port.bytes())
	require.Equal(t, 1, port.writes)

	err := l.Send(wire.DigitalWrite{Pin: 3}, wire.MotorCommand{Channel: 9})
	require.ErrorIs(t, err, wire.ErrInvalidArgument)
	require.Len(t, port.bytes(), 15)

	require.NoError(t, l.Send())
	require.Equal(t, 1, port.writes)
}

func TestSendConcurrentNoInterleave(t *testing.T) {
	port := newChanPort()
	l := New(port, 0, nil)
	const senders, frames = 4, 50
	var wg sync.WaitGroup
	for n := 0; n < senders; n++ {
		wg.Add(1)
		go func(ch uint8) {
			defer wg.Done()
			for i := 0; i < frames; i++ {
				err := l.Send(
					wire.MotorCommand{Channel: ch, Speed: uint16(i)},
					wire.MotorCommand{Channel: ch, Direction: wire.Backward, Speed: uint16(i)},
				)
				if err != nil {
					t.Error(err)
				}
			}
		}(uint8(n))
	}
	wg.Wait()

	data := port.bytes()
	require.Len(t, data, senders*frames*16)
	next := make([]uint16, senders)
	for len(data) > 0 {
		first, err := wire.DecodeMotorWrite(data[:8])
		require.NoError(t, err)
		second, err := wire.DecodeMotorWrite(data[8:16])
		require.NoError(t, err)
		ch := first[0].Channel
		require.Equal(t, ch, second[0].Channel)
		require.Equal(t, next[ch], first[0].Speed)
		require.Equal(t, wire.Forward, first[0].Direction)
		require.Equal(t, wire.Backward, second[0].Direction)
		next[ch]++
		data = data[16:]
	}
}

func TestSendWriteFailure(t *testing.T) {
	port := newChanPort()
	port.failW = errors.New("unplugged")
	l := New(port, 0, nil)
	err := l.Send(wire.DigitalRead{Pin: 1})
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	require.Equal(t, "write", terr.Op)
	require.True(t, framework.IsFatal(err))
	require.ErrorIs(t, err, port.failW)
	require.Equal(t, err, l.Err())
}

func TestRunStopsOnWriteFailure(t *testing.T) {
	port := newChanPort()
	l := New(port, 0, nil)
	done := make(chan error, 1)
	go func() { done <- l.Run(context.Background()) }()

	require.NoError(t, l.Err())
	port.lock.Lock()
	port.failW = errors.New("unplugged")
	port.lock.Unlock()
	sendErr := l.Send(wire.DigitalWrite{Pin: 2, Value: true})
	require.Error(t, sendErr)

	select {
	case err := <-done:
		var terr *TransportError
		require.ErrorAs(t, err, &terr)
		require.Equal(t, "write", terr.Op)
		require.Equal(t, sendErr, err)
	case <-time.After(time.Second):
		t.Fatal("reader not stopped")
	}
	require.Equal(t, ErrClosed, l.Send(wire.DigitalRead{Pin: 1}))
}

func TestSendAfterClose(t *testing.T) {
	port := newChanPort()
	l := New(port, 0, nil)
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())
	require.Equal(t, ErrClosed, l.Send(wire.DigitalRead{Pin: 1}))
}

func TestRunAndParse(t *testing.T) {
	port := newChanPort()
	readings := make(chan *wire.Reading, 4)
	l := New(port, 16, sinkFunc(func(r *wire.Reading) { readings <- r }))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	port.readCh <- []byte{0x00, 0xf0, 0x63}
	port.readCh <- []byte{0x0c, 5, 2, 0x07}
	require.Eventually(t, func() bool { return l.Buffer.Len() == 7 }, time.Second, time.Millisecond)
	require.NoError(t, l.Control(nil))
	select {
	case r := <-readings:
		require.Equal(t, &wire.Reading{Kind: wire.ReadingSonar, SonarDistance: 259}, r)
	default:
		t.Fatal("no reading")
	}
	require.Zero(t, l.Buffer.Len())

	cancel()
	select {
	case err := <-done:
		require.Equal(t, context.Canceled, err)
	case <-time.After(time.Second):
		t.Fatal("reader not stopped")
	}
	require.Equal(t, ErrClosed, l.Send(wire.DigitalRead{Pin: 1}))
}

type triggerRecorder struct {
	framework.ControlContext
	triggers int
}

func (r *triggerRecorder) TriggerNext() { r.triggers++ }

func TestParseTriggersOnBacklog(t *testing.T) {
	l := New(newChanPort(), 16, nil)
	cc := &triggerRecorder{}
	require.NoError(t, l.Buffer.Push(context.Background(), []byte{0xf0, 0x63}))
	require.NoError(t, l.Control(cc))
	require.Zero(t, cc.triggers)

	require.NoError(t, l.Buffer.Push(context.Background(), []byte{0x0c, 5, 2, 0x07}))
	var parsed int
	l.Sink = sinkFunc(func(*wire.Reading) {
		parsed++
		l.Buffer.Push(context.Background(), []byte{0xf0})
	})
	require.NoError(t, l.Control(cc))
	require.Equal(t, 1, parsed)
	require.Equal(t, 1, cc.triggers)
	require.Equal(t, 1, l.Buffer.Len())
}

func TestRunReadFailure(t *testing.T) {
	port := newChanPort()
	l := New(port, 0, nil)
	close(port.readCh)
	err := l.Run(context.Background())
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	require.Equal(t, "read", terr.Op)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestReceiveBufferBackpressure(t *testing.T) {
	b := NewReceiveBuffer(2)
	require.Equal(t, 2, b.Cap())
	require.NoError(t, b.Push(context.Background(), []byte{1, 2}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.Equal(t, context.DeadlineExceeded, b.Push(ctx, []byte{3}))

	pushed := make(chan error, 1)
	go func() { pushed <- b.Push(context.Background(), []byte{3, 4}) }()
	var got []byte
	require.Eventually(t, func() bool {
		b.Drain(func(c byte) { got = append(got, c) })
		return len(got) == 4
	}, time.Second, time.Millisecond)
	require.Equal(t, []byte{1, 2, 3, 4}, got)
	require.NoError(t, <-pushed)

	_, ok := b.Pop()
	require.False(t, ok)
}

func TestPortOptions(t *testing.T) {
	opts, err := PortOptions{}.Normalize()
	require.NoError(t, err)
	require.Equal(t, PortOptions{BaudRate: DefaultBaudRate, DataBits: 8, StopBits: 1, Parity: "N"}, opts)

	mode, err := PortOptions{StopBits: 2, Parity: "even"}.SerialMode()
	require.NoError(t, err)
	require.Equal(t, &serial.Mode{
		BaudRate: DefaultBaudRate,
		DataBits: 8,
		StopBits: serial.TwoStopBits,
		Parity:   serial.EvenParity,
	}, mode)

	for _, bad := range []PortOptions{
		{DataBits: 9},
		{StopBits: 3},
		{Parity: "mark"},
	} {
		_, err := bad.SerialMode()
		require.Error(t, err, "%+v", bad)
	}
}
