package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"log"

	"github.com/golang/glog"

	"github.com/robotalks/baseboard.go/pkg/bridge/mqtt"
	"github.com/robotalks/baseboard.go/pkg/bridge/websocket"
	"github.com/robotalks/baseboard.go/pkg/env"
	"github.com/robotalks/baseboard.go/pkg/framework"
	"github.com/robotalks/baseboard.go/pkg/joystick"
	"github.com/robotalks/baseboard.go/pkg/robot"
	"github.com/robotalks/baseboard.go/pkg/telemetry"
)

func init() {
	robot.SetupFlags()
	env.SetupFlags()
	joystick.SetupFlags()
}

func main() {
	flag.Parse()

	conf := robot.Default()
	envConf := env.Default()
	kinds, err := envConf.EventKinds()
	if err != nil {
		log.Fatalln(err)
	}
	envConf.MustValidate()

	r := conf.MustNewRobot()
	runner := framework.NewRunner().HandleSignals()

	handlers := make([]telemetry.Handler, 0, 2)
	if envConf.MQTTURL != "" {
		id := envConf.RobotID()
		meta := mqtt.Meta{Type: "baseboard", Topology: conf.Topology.String()}
		for _, kind := range kinds {
			meta.Events = append(meta.Events, kind.String())
		}
		b, err := mqtt.New(envConf.MQTTURL, id, meta, r)
		if err != nil {
			log.Fatalln(err)
		}
		glog.Infof("publishing %s on %s", id, envConf.MQTTURL)
		handlers = append(handlers, b)
		runner.Go(b)
	}
	if envConf.WebsocketAddr != "" {
		srv := websocket.NewServer(envConf.WebsocketAddr)
		glog.Infof("streaming telemetry on %s%s", envConf.WebsocketAddr, websocket.TelemetryPath)
		handlers = append(handlers, srv)
		runner.Go(srv)
	}
	if len(handlers) > 0 {
		h := telemetry.Fanout(handlers...)
		for _, kind := range kinds {
			r.SetEventHandler(kind, h)
		}
	}

	if js := joystick.Default(); js.Enabled {
		runner.Go(js.NewController(r))
	}

	runner.Go(framework.NamedRun("robot", r))
	if err := runner.Wait(); err != nil {
		log.Fatalln(err)
	}
}
