package telemetry

import (
	"github.com/golang/glog"

	"github.com/robotalks/baseboard.go/pkg/framework"
)

// Dispatcher invokes registered handlers with the latest snapshot.
// Handlers run synchronously, a slow handler delays the next tick.
type Dispatcher struct {
	Registry *Registry
	Store    *Store
}

// AddToLoop implements framework.LoopAdder.
func (d *Dispatcher) AddToLoop(l *framework.Loop) {
	l.AddController(framework.PrLvPostProc, d)
}

// Control implements framework.Controller.
func (d *Dispatcher) Control(framework.ControlContext) error {
	d.Dispatch()
	return nil
}

// Dispatch delivers one snapshot to every registered handler.
func (d *Dispatcher) Dispatch() {
	kinds := d.Registry.Kinds()
	if len(kinds) == 0 {
		return
	}
	s := d.Store.Load()
	for _, kind := range kinds {
		if h := d.Registry.Handler(kind); h != nil {
			invoke(h, kind, s)
		}
	}
}

func invoke(h Handler, kind EventKind, s Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			glog.Errorf("event handler %s panic: %v", kind, r)
		}
	}()
	h.HandleEvent(kind, s)
}
