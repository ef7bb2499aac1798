package joystick

import (
	"flag"
)

// Config defines the configurations for the controller.
type Config struct {
	Enabled     bool
	DeviceIndex int
	Verbose     bool
}

var defaultConfig = Config{
	DeviceIndex: -1,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.BoolVar(&defaultConfig.Enabled, "joystick", defaultConfig.Enabled, "Drive with a local joystick.")
	flag.IntVar(&defaultConfig.DeviceIndex, "js-device", defaultConfig.DeviceIndex, "Joystick device index, -1 for auto detection.")
	flag.BoolVar(&defaultConfig.Verbose, "js-verbose", defaultConfig.Verbose, "Print Joystick events.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewController creates a controller using the config.
func (c *Config) NewController(driver Driver) *Controller {
	ctl := NewController(driver)
	ctl.DeviceIndex = c.DeviceIndex
	ctl.Verbose = c.Verbose
	return ctl
}
