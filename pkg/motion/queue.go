// Package motion executes timed motion intents one at a time.
package motion

import (
	"context"
	"sync"
	"time"

	"github.com/robotalks/baseboard.go/pkg/kinematics"
)

// Intent is a motion held for Duration. A zero Duration sends the motor
// commands and moves on immediately. Context, when set, cancels the wait.
type Intent struct {
	Motion   kinematics.Intent
	Duration time.Duration
	Context  context.Context
}

func (in *Intent) done() <-chan struct{} {
	if in.Context == nil {
		return nil
	}
	return in.Context.Done()
}

// Queue is a FIFO of intents with a single consumer.
type Queue struct {
	lock     sync.Mutex
	items    []Intent
	notifyCh chan struct{}
	abortCh  chan struct{}
}

// NewQueue creates an empty Queue.
func NewQueue() *Queue {
	return &Queue{
		notifyCh: make(chan struct{}, 1),
		abortCh:  make(chan struct{}),
	}
}

// Push appends an intent.
func (q *Queue) Push(in Intent) {
	q.lock.Lock()
	q.items = append(q.items, in)
	q.lock.Unlock()
	q.notify()
}

// Pop blocks until an intent is available. The returned channel is closed
// if Abort is called while the intent is being executed.
func (q *Queue) Pop(ctx context.Context) (Intent, <-chan struct{}, error) {
	for {
		q.lock.Lock()
		if len(q.items) > 0 {
			in, abortCh := q.items[0], q.abortCh
			q.items[0] = Intent{}
			q.items = q.items[1:]
			q.lock.Unlock()
			return in, abortCh, nil
		}
		q.lock.Unlock()
		select {
		case <-q.notifyCh:
		case <-ctx.Done():
			return Intent{}, nil, ctx.Err()
		}
	}
}

// Abort interrupts the intent in execution, drops all pending intents and
// queues a stop.
func (q *Queue) Abort() {
	q.lock.Lock()
	close(q.abortCh)
	q.abortCh = make(chan struct{})
	q.items = []Intent{{}}
	q.lock.Unlock()
	q.notify()
}

// Len returns the number of pending intents.
func (q *Queue) Len() int {
	q.lock.Lock()
	defer q.lock.Unlock()
	return len(q.items)
}

func (q *Queue) notify() {
	select {
	case q.notifyCh <- struct{}{}:
	default:
	}
}
