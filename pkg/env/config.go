// Package env provides the options exposing a robot beyond the local process.
package env

import (
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"

	"github.com/robotalks/baseboard.go/pkg/telemetry"
)

// Config provides common options to publish a robot.
type Config struct {
	// ID identifies the robot, machine ID if empty.
	ID string
	// MQTTURL specifies the broker and topic prefix.
	// e.g. mqtt://host:port/topic-prefix
	MQTTURL string
	// WebsocketAddr is the listen address of the telemetry stream.
	WebsocketAddr string
	// Events is a comma separated list of event kinds to publish.
	Events string
}

var defaultConfig = Config{
	Events: "floor_ir,front_ir,sonar",
}

func init() {
	if val := os.Getenv("ROBO_ID"); val != "" {
		defaultConfig.ID = val
	}
	if val := os.Getenv("ROBO_MQTT_URL"); val != "" {
		defaultConfig.MQTTURL = val
	}
	if val := os.Getenv("ROBO_WS"); val != "" {
		defaultConfig.WebsocketAddr = val
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.ID, "id", defaultConfig.ID, "Robot ID, machine ID if empty.")
	flag.StringVar(&defaultConfig.MQTTURL, "mqtt", defaultConfig.MQTTURL, "MQTT broker URL, e.g. mqtt://localhost:1883/robo/.")
	flag.StringVar(&defaultConfig.WebsocketAddr, "ws", defaultConfig.WebsocketAddr, "Websocket telemetry listen address, e.g. :8080.")
	flag.StringVar(&defaultConfig.Events, "events", defaultConfig.Events, "Comma separated event kinds to publish.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// RobotID returns ID or the machine ID.
func (c *Config) RobotID() string {
	if c.ID != "" {
		return c.ID
	}
	return MachineID()
}

// EventKinds parses Events.
func (c *Config) EventKinds() ([]telemetry.EventKind, error) {
	var kinds []telemetry.EventKind
	for _, name := range strings.Split(c.Events, ",") {
		if name = strings.TrimSpace(name); name == "" {
			continue
		}
		kind, err := telemetry.ParseEventKind(name)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

// Validate checks the config.
func (c *Config) Validate() error {
	if c.MQTTURL != "" {
		u, err := url.Parse(c.MQTTURL)
		if err != nil {
			return fmt.Errorf("invalid MQTT URL: %v", err)
		}
		switch u.Scheme {
		case "", "mqtt", "tcp", "ssl", "tls", "ws", "wss":
		default:
			return fmt.Errorf("unknown MQTT URL scheme: %q", u.Scheme)
		}
	}
	_, err := c.EventKinds()
	return err
}

// MustValidate validates the config and fails on error.
func (c *Config) MustValidate() *Config {
	if err := c.Validate(); err != nil {
		log.Fatalln(err)
	}
	return c
}
