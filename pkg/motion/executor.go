package motion

import (
	"context"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/baseboard.go/pkg/framework"
	"github.com/robotalks/baseboard.go/pkg/kinematics"
	"github.com/robotalks/baseboard.go/pkg/wire"
)

// Sender transmits a batch of commands without interleaving.
type Sender interface {
	Send(cmds ...wire.Command) error
}

// Executor consumes the Queue: translate, send, then hold for the
// intent's duration before taking the next one.
type Executor struct {
	Queue      *Queue
	Translator kinematics.Translator
	Sender     Sender
	// AutoStop stops the motors when a timed intent ends and nothing else
	// is queued.
	AutoStop bool
}

// NewExecutor creates an Executor with an empty Queue.
func NewExecutor(translator kinematics.Translator, sender Sender) *Executor {
	return &Executor{Queue: NewQueue(), Translator: translator, Sender: sender}
}

// Enqueue appends an intent. It never preempts the one in execution.
func (e *Executor) Enqueue(in Intent) error {
	if in.Duration < 0 {
		return wire.InvalidArgument("duration", in.Duration, "must not be negative")
	}
	e.Queue.Push(in)
	return nil
}

// Stop aborts the intent in execution, drops pending ones and stops the
// motors.
func (e *Executor) Stop() {
	e.Queue.Abort()
}

// Name implements framework.Named.
func (e *Executor) Name() string {
	return "motion"
}

// Run implements framework.Runnable.
func (e *Executor) Run(ctx context.Context) error {
	for {
		in, abortCh, err := e.Queue.Pop(ctx)
		if err != nil {
			return err
		}
		if err := e.execute(ctx, in, abortCh); err != nil {
			if framework.IsFatal(err) {
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			glog.Errorf("motion %s: %v", in.Motion, err)
		}
	}
}

// Commands translates a motion into the commands sent in one batch.
// Three motors share a triple motor frame.
func (e *Executor) Commands(m kinematics.Intent) []wire.Command {
	motors := e.Translator.Translate(m)
	if len(motors) == 3 {
		return []wire.Command{wire.MotorWrite(motors)}
	}
	cmds := make([]wire.Command, len(motors))
	for n, m := range motors {
		cmds[n] = m
	}
	return cmds
}

func (e *Executor) send(m kinematics.Intent) error {
	glog.V(2).Infof("motion %s", m)
	return e.Sender.Send(e.Commands(m)...)
}

func (e *Executor) execute(ctx context.Context, in Intent, abortCh <-chan struct{}) error {
	select {
	case <-abortCh:
		return nil
	case <-in.done():
		glog.V(2).Infof("motion %s canceled before start", in.Motion)
		return nil
	default:
	}
	if err := e.send(in.Motion); err != nil {
		return err
	}
	if in.Duration <= 0 {
		return nil
	}

	timer := time.NewTimer(in.Duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-abortCh:
		return nil
	case <-in.done():
		glog.V(2).Infof("motion %s canceled", in.Motion)
		return e.stopIfIdle()
	case <-timer.C:
	}
	if e.AutoStop && !in.Motion.IsZero() {
		return e.stopIfIdle()
	}
	return nil
}

func (e *Executor) stopIfIdle() error {
	if e.Queue.Len() > 0 {
		return nil
	}
	return e.send(kinematics.Intent{})
}
