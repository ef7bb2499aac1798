package motion

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/baseboard.go/pkg/kinematics"
	"github.com/robotalks/baseboard.go/pkg/link"
	"github.com/robotalks/baseboard.go/pkg/wire"
)

type sentBatch struct {
	at   time.Time
	cmds []wire.Command
}

type recordSender struct {
	lock    sync.Mutex
	batches []sentBatch
	sentCh  chan struct{}
	err     error
}

func newRecordSender() *recordSender {
	return &recordSender{sentCh: make(chan struct{}, 16)}
}

func (s *recordSender) Send(cmds ...wire.Command) error {
	if s.err != nil {
		return s.err
	}
	s.lock.Lock()
	s.batches = append(s.batches, sentBatch{at: time.Now(), cmds: cmds})
	s.lock.Unlock()
	s.sentCh <- struct{}{}
	return nil
}

func (s *recordSender) get() []sentBatch {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]sentBatch(nil), s.batches...)
}

func (s *recordSender) waitN(t *testing.T, n int, timeout time.Duration) []sentBatch {
	deadline := time.After(timeout)
	for len(s.get()) < n {
		select {
		case <-s.sentCh:
		case <-deadline:
			t.Fatalf("expect %d batches, got %d", n, len(s.get()))
		}
	}
	return s.get()
}

func motors(cmds ...wire.MotorCommand) []wire.Command {
	out := make([]wire.Command, len(cmds))
	for n, c := range cmds {
		out[n] = c
	}
	return out
}

func runExecutor(t *testing.T, e *Executor) (context.CancelFunc, <-chan error) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()
	t.Cleanup(cancel)
	return cancel, done
}

func TestExecutorSequential(t *testing.T) {
	sender := newRecordSender()
	e := NewExecutor(kinematics.Normal{}, sender)
	require.NoError(t, e.Enqueue(Intent{Motion: kinematics.Intent{X: 5}, Duration: time.Second}))
	require.NoError(t, e.Enqueue(Intent{Motion: kinematics.Intent{Angular: 5}, Duration: 500 * time.Millisecond}))
	runExecutor(t, e)

	batches := sender.waitN(t, 2, 3*time.Second)
	require.Equal(t, motors(
		wire.MotorCommand{Channel: kinematics.LeftFront, Speed: 5},
		wire.MotorCommand{Channel: kinematics.LeftRear, Speed: 5},
		wire.MotorCommand{Channel: kinematics.RightFront, Speed: 5},
		wire.MotorCommand{Channel: kinematics.RightRear, Speed: 5},
	), batches[0].cmds)
	require.Equal(t, motors(
		wire.MotorCommand{Channel: kinematics.LeftFront, Speed: 5},
		wire.MotorCommand{Channel: kinematics.LeftRear, Speed: 5},
		wire.MotorCommand{Channel: kinematics.RightFront, Direction: wire.Backward, Speed: 5},
		wire.MotorCommand{Channel: kinematics.RightRear, Direction: wire.Backward, Speed: 5},
	), batches[1].cmds)
	require.GreaterOrEqual(t, batches[1].at.Sub(batches[0].at), time.Second)
}

func TestExecutorStopAborts(t *testing.T) {
	sender := newRecordSender()
	e := NewExecutor(kinematics.Normal{}, sender)
	runExecutor(t, e)
	require.NoError(t, e.Enqueue(Intent{Motion: kinematics.Intent{X: 9}, Duration: time.Hour}))
	require.NoError(t, e.Enqueue(Intent{Motion: kinematics.Intent{X: 3}, Duration: time.Hour}))
	sender.waitN(t, 1, time.Second)

	start := time.Now()
	e.Stop()
	batches := sender.waitN(t, 2, time.Second)
	require.Less(t, time.Since(start), time.Second)
	require.Equal(t, e.Commands(kinematics.Intent{}), batches[1].cmds)

	time.Sleep(20 * time.Millisecond)
	require.Len(t, sender.get(), 2)
	require.Zero(t, e.Queue.Len())
}

func TestExecutorIntentContext(t *testing.T) {
	sender := newRecordSender()
	e := NewExecutor(kinematics.Normal{}, sender)
	runExecutor(t, e)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, e.Enqueue(Intent{Motion: kinematics.Intent{X: 4}, Duration: time.Hour, Context: ctx}))
	sender.waitN(t, 1, time.Second)
	cancel()
	batches := sender.waitN(t, 2, time.Second)
	require.Equal(t, e.Commands(kinematics.Intent{}), batches[1].cmds)

	require.NoError(t, e.Enqueue(Intent{Motion: kinematics.Intent{X: 4}, Duration: time.Hour, Context: ctx}))
	require.NoError(t, e.Enqueue(Intent{Motion: kinematics.Intent{X: 2}}))
	batches = sender.waitN(t, 3, time.Second)
	require.Equal(t, e.Commands(kinematics.Intent{X: 2}), batches[2].cmds)
}

func TestExecutorAutoStop(t *testing.T) {
	sender := newRecordSender()
	e := NewExecutor(kinematics.Normal{}, sender)
	e.AutoStop = true
	runExecutor(t, e)
	require.NoError(t, e.Enqueue(Intent{Motion: kinematics.Intent{X: 4}, Duration: 10 * time.Millisecond}))
	batches := sender.waitN(t, 2, time.Second)
	require.Equal(t, e.Commands(kinematics.Intent{}), batches[1].cmds)

	require.NoError(t, e.Enqueue(Intent{Motion: kinematics.Intent{X: 4}}))
	sender.waitN(t, 3, time.Second)
	time.Sleep(20 * time.Millisecond)
	require.Len(t, sender.get(), 3)
}

func TestExecutorOmniTripleFrame(t *testing.T) {
	e := NewExecutor(kinematics.Omni{}, newRecordSender())
	cmds := e.Commands(kinematics.Intent{X: 5})
	require.Len(t, cmds, 1)
	b, err := cmds[0].Encode()
	require.NoError(t, err)
	require.Equal(t, []byte{0xf0, 0x02, 0x02, 0x0a, 0x00, 5, 0, 0x05, 5, 0, 0x02, 0, 0, 0xf7}, b)
}

func TestExecutorInvalid(t *testing.T) {
	e := NewExecutor(kinematics.Normal{}, newRecordSender())
	require.ErrorIs(t, e.Enqueue(Intent{Duration: -time.Second}), wire.ErrInvalidArgument)
	require.Zero(t, e.Queue.Len())
}

func TestExecutorTransportError(t *testing.T) {
	sender := newRecordSender()
	sender.err = &link.TransportError{Op: "write", Err: errors.New("unplugged")}
	e := NewExecutor(kinematics.Normal{}, sender)
	_, done := runExecutor(t, e)
	require.NoError(t, e.Enqueue(Intent{Motion: kinematics.Intent{X: 1}}))
	select {
	case err := <-done:
		require.Equal(t, sender.err, err)
	case <-time.After(time.Second):
		t.Fatal("executor not stopped")
	}
}

func TestExecutorCancel(t *testing.T) {
	e := NewExecutor(kinematics.Normal{}, newRecordSender())
	cancel, done := runExecutor(t, e)
	require.NoError(t, e.Enqueue(Intent{Motion: kinematics.Intent{X: 1}, Duration: time.Hour}))
	time.Sleep(10 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		require.Equal(t, context.Canceled, err)
	case <-time.After(time.Second):
		t.Fatal("executor not stopped")
	}
}

func TestQueueFIFO(t *testing.T) {
	q := NewQueue()
	for n := 1; n <= 3; n++ {
		q.Push(Intent{Motion: kinematics.Intent{X: int8(n)}})
	}
	for n := 1; n <= 3; n++ {
		in, _, err := q.Pop(context.Background())
		require.NoError(t, err)
		require.EqualValues(t, n, in.Motion.X)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, _, err := q.Pop(ctx)
	require.Equal(t, context.DeadlineExceeded, err)
}
