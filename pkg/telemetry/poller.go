package telemetry

import (
	"github.com/golang/glog"

	"github.com/robotalks/baseboard.go/pkg/framework"
	"github.com/robotalks/baseboard.go/pkg/wire"
)

// Sender transmits commands to the baseboard.
type Sender interface {
	Send(cmds ...wire.Command) error
}

// SensorPins are the pins polled for each event kind.
type SensorPins struct {
	FloorIR   []byte
	FrontIR   []byte
	SonarTrig byte
	SonarEcho byte
}

// Requests builds the poll requests for kind. The IMU is streamed by the
// firmware and needs no request.
func (p *SensorPins) Requests(kind EventKind) []wire.Command {
	var cmds []wire.Command
	switch kind {
	case EventFloorIR:
		for _, pin := range p.FloorIR {
			cmds = append(cmds, wire.AnalogRead{Pin: pin})
		}
	case EventFrontIR:
		for _, pin := range p.FrontIR {
			cmds = append(cmds, wire.DigitalRead{Pin: pin})
		}
	case EventSonar:
		cmds = append(cmds, wire.SonarRead{Trig: p.SonarTrig, Echo: p.SonarEcho})
	}
	return cmds
}

// Poller requests readings for every event kind having a handler.
type Poller struct {
	Registry *Registry
	Sender   Sender
	Pins     SensorPins
}

// AddToLoop implements framework.LoopAdder.
func (p *Poller) AddToLoop(l *framework.Loop) {
	l.AddController(framework.PrLvSense, p)
}

// Control implements framework.Controller.
func (p *Poller) Control(framework.ControlContext) error {
	var cmds []wire.Command
	for _, kind := range p.Registry.Kinds() {
		cmds = append(cmds, p.Pins.Requests(kind)...)
	}
	if len(cmds) == 0 {
		return nil
	}
	glog.V(3).Infof("poll %d requests", len(cmds))
	return p.Sender.Send(cmds...)
}
