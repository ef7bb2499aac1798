package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/robotalks/baseboard.go/pkg/bridge"
	"github.com/robotalks/baseboard.go/pkg/bridge/mqtt"
)

var (
	mqttURL = "mqtt://localhost:1883/robo/"
)

func init() {
	if val := os.Getenv("ROBO_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}

	q.Sub("#", mqtt.Handler(func(topic string, payload []byte) {
		switch {
		case strings.HasSuffix(topic, "/meta"):
			log.Printf("%s: %s", topic, string(payload))
		case strings.Contains(topic, "/telemetry/"):
			msg, err := bridge.UnmarshalTelemetry(payload)
			if err != nil {
				log.Printf("%s: bad message: %v", topic, err)
				return
			}
			log.Printf("%s: %s", topic, msg.String())
		case strings.HasSuffix(topic, "/cmd/drive"):
			msg, err := bridge.UnmarshalDrive(payload)
			if err != nil {
				log.Printf("%s: bad message: %v", topic, err)
				return
			}
			log.Printf("%s: %s", topic, msg.String())
		default:
			log.Printf("%s: %d bytes", topic, len(payload))
		}
	}))
	if err := q.Connect(); err != nil {
		log.Fatalln(err)
	}
	<-(chan struct{})(nil)
}
