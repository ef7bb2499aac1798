// Package robot is the command and telemetry engine of the baseboard.
package robot

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/golang/glog"

	"github.com/robotalks/baseboard.go/pkg/framework"
	"github.com/robotalks/baseboard.go/pkg/kinematics"
	"github.com/robotalks/baseboard.go/pkg/link"
	"github.com/robotalks/baseboard.go/pkg/motion"
	"github.com/robotalks/baseboard.go/pkg/telemetry"
)

var (
	// ErrNotRunning is returned by motion commands after Run returned.
	ErrNotRunning = errors.New("robot not running")
	// ErrAlreadyRunning is returned when Run is called twice.
	ErrAlreadyRunning = errors.New("robot already running")
)

// Robot wires the serial link, telemetry and motion together.
type Robot struct {
	Config *Config

	link       *link.Link
	store      *telemetry.Store
	registry   *telemetry.Registry
	poller     *telemetry.Poller
	dispatcher *telemetry.Dispatcher
	executor   *motion.Executor

	state int32
}

const (
	stateIdle int32 = iota
	stateRunning
	stateStopped
)

// New creates a Robot on an opened port.
func New(conf *Config, port link.Port) (*Robot, error) {
	translator, err := kinematics.New(conf.Topology)
	if err != nil {
		return nil, err
	}
	r := &Robot{
		Config:   conf,
		store:    telemetry.NewStore(),
		registry: telemetry.NewRegistry(),
	}
	r.link = link.New(port, conf.BufferSize, r.store)
	r.poller = &telemetry.Poller{Registry: r.registry, Sender: r.link, Pins: conf.Pins.SensorPins()}
	r.dispatcher = &telemetry.Dispatcher{Registry: r.registry, Store: r.store}
	r.executor = motion.NewExecutor(translator, r.link)
	r.executor.AutoStop = conf.AutoStop
	return r, nil
}

// Run implements framework.Runnable. It initializes the pins, runs the
// reader, parser, poller, dispatcher and motion loops until ctx is
// canceled or the serial port fails, then closes the port.
func (r *Robot) Run(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&r.state, stateIdle, stateRunning) {
		return ErrAlreadyRunning
	}
	defer atomic.StoreInt32(&r.state, stateStopped)
	defer r.link.Close()

	if err := r.link.Send(r.Config.Pins.InitCommands()...); err != nil {
		return err
	}
	glog.Infof("robot started: topology=%s", r.Config.Topology)

	runner := framework.NewRunnerWith(ctx)
	runner.Go(
		r.link,
		framework.NamedRun("parser", framework.NewLoop("parser", r.Config.ParseInterval).Add(r.link)),
		framework.NamedRun("poller", framework.NewLoop("poller", r.Config.PollInterval).Add(r.poller)),
		framework.NamedRun("dispatcher", framework.NewLoop("dispatcher", r.Config.DispatchInterval).Add(r.dispatcher)),
		r.executor,
	)
	err := runner.Wait()
	glog.Infof("robot stopped")
	return err
}

// Sender gets the serialized writer to the baseboard.
func (r *Robot) Sender() telemetry.Sender {
	return r.link
}

// Snapshot gets the latest sensor values.
func (r *Robot) Snapshot() telemetry.Snapshot {
	return r.store.Load()
}

// SetEventHandler registers the handler of an event kind, replacing any
// previous one. Sensors are polled only while a handler is registered.
func (r *Robot) SetEventHandler(kind telemetry.EventKind, h telemetry.Handler) {
	r.registry.Set(kind, h)
}

// RemoveEventHandler unregisters the handler of an event kind.
func (r *Robot) RemoveEventHandler(kind telemetry.EventKind) {
	r.registry.Remove(kind)
}

func (r *Robot) stopped() bool {
	return atomic.LoadInt32(&r.state) == stateStopped
}
