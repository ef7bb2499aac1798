package link

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/golang/glog"

	"github.com/robotalks/baseboard.go/pkg/framework"
	"github.com/robotalks/baseboard.go/pkg/wire"
)

// ReadingSink receives decoded sensor readings.
type ReadingSink interface {
	Commit(*wire.Reading)
}

// Link owns the serial port. Every outbound byte goes through Send,
// inbound bytes are read by Run into the ReceiveBuffer and decoded by the
// parse stage.
type Link struct {
	Port   Port
	Buffer *ReceiveBuffer
	Sink   ReadingSink

	parser    wire.Parser
	writeLock sync.Mutex
	closeOnce sync.Once
	closed    int32

	failOnce sync.Once
	failCh   chan struct{}
	failErr  error
}

// New creates a Link.
func New(port Port, bufferSize int, sink ReadingSink) *Link {
	return &Link{
		Port:   port,
		Buffer: NewReceiveBuffer(bufferSize),
		Sink:   sink,
		failCh: make(chan struct{}),
	}
}

// Send encodes cmds and writes them in one batch. Nothing is written if
// any command fails to encode. Concurrent batches never interleave.
func (l *Link) Send(cmds ...wire.Command) error {
	var data []byte
	for _, cmd := range cmds {
		b, err := cmd.Encode()
		if err != nil {
			return err
		}
		data = append(data, b...)
	}
	if len(data) == 0 {
		return nil
	}
	l.writeLock.Lock()
	defer l.writeLock.Unlock()
	if l.isClosed() {
		return ErrClosed
	}
	glog.V(2).Infof("send % x", data)
	if _, err := l.Port.Write(data); err != nil {
		terr := &TransportError{Op: "write", Err: err}
		l.fail(terr)
		return terr
	}
	return nil
}

// Err returns the first write failure, nil if none.
func (l *Link) Err() error {
	select {
	case <-l.failCh:
		return l.failErr
	default:
		return nil
	}
}

func (l *Link) fail(err error) {
	l.failOnce.Do(func() {
		l.failErr = err
		close(l.failCh)
	})
}

// Run implements framework.Runnable. It reads from the port until the
// context is canceled or the port fails, and closes the port on return.
// A failed write from any sender also stops it with the write error.
func (l *Link) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-l.failCh:
			cancel()
		case <-ctx.Done():
		}
	}()
	err := l.read(ctx)
	if ferr := l.Err(); ferr != nil {
		return ferr
	}
	return err
}

func (l *Link) read(ctx context.Context) error {
	return framework.RunWithContextCloser(ctx, l, func() error {
		buf := make([]byte, 256)
		for {
			n, err := l.Port.Read(buf)
			if n > 0 {
				glog.V(2).Infof("recv % x", buf[:n])
				if err := l.Buffer.Push(ctx, buf[:n]); err != nil {
					return err
				}
			}
			if err != nil {
				if l.isClosed() {
					return nil
				}
				return &TransportError{Op: "read", Err: err}
			}
		}
	})
}

// Name implements framework.Named.
func (l *Link) Name() string {
	return "serial-reader"
}

// Control implements framework.Controller as the parse stage: it feeds
// the buffered bytes to the frame parser and commits complete readings.
// Bytes arriving during the drain trigger the next iteration at once.
func (l *Link) Control(cc framework.ControlContext) error {
	l.Buffer.Drain(func(b byte) {
		if r := l.parser.Parse(b); r != nil && l.Sink != nil {
			l.Sink.Commit(r)
		}
	})
	if cc != nil && l.Buffer.Len() > 0 {
		cc.TriggerNext()
	}
	return nil
}

// AddToLoop implements framework.LoopAdder.
func (l *Link) AddToLoop(loop *framework.Loop) {
	loop.AddController(framework.PrLvSense, framework.ControlFunc(l.Control))
}

// Close closes the port. Subsequent Send returns ErrClosed.
func (l *Link) Close() (err error) {
	l.closeOnce.Do(func() {
		l.writeLock.Lock()
		atomic.StoreInt32(&l.closed, 1)
		l.writeLock.Unlock()
		err = l.Port.Close()
	})
	return
}

func (l *Link) isClosed() bool {
	return atomic.LoadInt32(&l.closed) != 0
}
