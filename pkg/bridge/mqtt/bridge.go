package mqtt

import (
	"context"
	"encoding/json"

	"github.com/golang/glog"

	"github.com/robotalks/baseboard.go/pkg/bridge"
	"github.com/robotalks/baseboard.go/pkg/telemetry"
)

// Meta is announced retained on <id>/meta while the bridge is online.
type Meta struct {
	Type     string   `json:"type"`
	Topology string   `json:"topology,omitempty"`
	Events   []string `json:"events,omitempty"`
}

// Bridge publishes telemetry to <id>/telemetry/<kind> and accepts
// <id>/cmd/drive and <id>/cmd/stop.
type Bridge struct {
	Queue     *Queue
	ID        string
	Meta      Meta
	Commander bridge.Commander
}

// New creates a Bridge connecting to brokerURL.
func New(brokerURL, id string, meta Meta, commander bridge.Commander) (*Bridge, error) {
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	opts.SetBinaryWill(topicPrefix+id+"/meta", nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("baseboard:" + id)
	}
	b := &Bridge{
		Queue:     NewQueue(opts, topicPrefix),
		ID:        id,
		Meta:      meta,
		Commander: commander,
	}
	b.Queue.OnConnect = func(*Queue) { b.announce() }
	return b, nil
}

// HandleEvent implements telemetry.Handler.
func (b *Bridge) HandleEvent(kind telemetry.EventKind, s telemetry.Snapshot) {
	payload, err := bridge.Marshal(bridge.NewTelemetry(kind, s))
	if err != nil {
		glog.Errorf("encode telemetry %s: %v", kind, err)
		return
	}
	b.Queue.Pub(b.ID+"/telemetry/"+kind.String(), payload)
}

// Run implements framework.Runnable.
func (b *Bridge) Run(ctx context.Context) error {
	b.Queue.Sub(b.ID+"/cmd/+", b.handleCommand)
	if err := b.Queue.Connect(); err != nil {
		return err
	}
	<-ctx.Done()
	b.Queue.PubWith(b.ID+"/meta", nil, 1, true).Wait()
	b.Queue.Close()
	return ctx.Err()
}

// Name implements framework.Named.
func (b *Bridge) Name() string {
	return "mqtt"
}

func (b *Bridge) announce() {
	meta, err := json.Marshal(&b.Meta)
	if err != nil {
		glog.Errorf("encode meta: %v", err)
		return
	}
	b.Queue.PubWith(b.ID+"/meta", meta, 1, true)
}

func (b *Bridge) handleCommand(topic string, payload []byte) {
	var err error
	switch topic {
	case b.ID + "/cmd/drive":
		var m *bridge.Drive
		if m, err = bridge.UnmarshalDrive(payload); err == nil {
			err = m.Apply(b.Commander)
		}
	case b.ID + "/cmd/stop":
		err = b.Commander.Stop()
	default:
		glog.Warningf("unsupported command %q", topic)
		return
	}
	if err != nil {
		glog.Errorf("command %q: %v", topic, err)
	}
}
