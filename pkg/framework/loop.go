package framework

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"
)

// DefaultInterval is used when Loop.Interval is not set.
const DefaultInterval = 100 * time.Millisecond

// Loop runs registered controllers by priority levels on every tick.
// A controller returning an error is logged unless the error is fatal,
// which stops the loop and is returned from Run.
type Loop struct {
	Name     string
	Interval time.Duration

	controllers [PriorityLevels]controllerList

	runners []Runnable

	wakeUpOnce sync.Once
	wakeUpCh   chan struct{}
}

// LoopAdder provides specific logic to add components to loop.
type LoopAdder interface {
	AddToLoop(*Loop)
}

type loopIteration struct {
	*Loop
	ctx           context.Context
	time          time.Time
	priorityLevel int
}

type controllerList struct {
	controllers []Controller
}

// NewLoop creates a Loop.
func NewLoop(name string, interval time.Duration) *Loop {
	return &Loop{Name: name, Interval: interval}
}

// Add adds LoopAdders.
func (l *Loop) Add(adders ...LoopAdder) *Loop {
	for _, adder := range adders {
		adder.AddToLoop(l)
	}
	return l
}

// AddController registers controllers to the loop.
func (l *Loop) AddController(priorityLevel int, ctls ...Controller) *Loop {
	lst := &l.controllers[priorityLevel]
	lst.controllers = append(lst.controllers, ctls...)
	for _, ctl := range ctls {
		if runner, ok := ctl.(Runnable); ok {
			l.runners = append(l.runners, runner)
		}
	}
	return l
}

// AddRunnable adds Runnable implementions started along with the loop.
func (l *Loop) AddRunnable(runnables ...Runnable) *Loop {
	l.runners = append(l.runners, runnables...)
	return l
}

// Run implements Runnable.
func (l *Loop) Run(ctx context.Context) error {
	runner := NewRunnerWith(ctx)
	runner.Go(l.runners...)
	err := l.loop(runner.Context)
	runner.Cancel()
	var errs AggregatedError
	if err != nil && err != context.Canceled {
		errs.Add(err)
	}
	errs.Add(runner.Wait())
	if agg := errs.Aggregate(); agg != nil {
		return agg
	}
	return err
}

func (l *Loop) loop(ctx context.Context) error {
	interval := l.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	wakeUpCh := l.wakeUp()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		case <-wakeUpCh:
		}
		if err := l.runIteration(ctx); err != nil {
			return err
		}
	}
}

// TriggerNext runs the next iteration without waiting for the tick.
func (l *Loop) TriggerNext() {
	select {
	case l.wakeUp() <- struct{}{}:
	default:
	}
}

func (l *Loop) wakeUp() chan struct{} {
	l.wakeUpOnce.Do(func() {
		l.wakeUpCh = make(chan struct{}, 1)
	})
	return l.wakeUpCh
}

func (l *Loop) runIteration(ctx context.Context) error {
	iter := &loopIteration{Loop: l, ctx: ctx, time: time.Now()}
	for i := 0; i < PriorityLevels; i++ {
		iter.priorityLevel = i
		if err := l.controllers[i].run(iter); err != nil {
			return err
		}
	}
	return nil
}

func (t *loopIteration) Context() context.Context {
	return t.ctx
}

func (t *loopIteration) Time() time.Time {
	return t.time
}

func (t *loopIteration) PriorityLevel() int {
	return t.priorityLevel
}

func (c *controllerList) run(iter *loopIteration) error {
	for _, ctl := range c.controllers {
		err := ctl.Control(iter)
		if err == nil {
			continue
		}
		if IsFatal(err) {
			glog.Errorf("Loop[%s] stopped: %v", iter.Name, err)
			return err
		}
		glog.Errorf("Loop[%s] controller error: %v", iter.Name, err)
	}
	return nil
}
