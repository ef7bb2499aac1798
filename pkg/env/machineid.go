package env

import (
	"os"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// MachineID retrieves the unique ID identifying the machine.
// It falls back to the hostname when the machine ID is unavailable.
func MachineID() string {
	id, err := machineid.ID()
	if err == nil && id != "" {
		return id
	}
	glog.Warningf("machine ID unavailable: %v", err)
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "unknown"
}
