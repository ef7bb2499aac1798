package baseboard

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

func parseLevel(name, s string) (int8, error) {
	v, err := strconv.ParseInt(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("Invalid %s: %v", name, err)
	}
	return int8(v), nil
}

func parseSpeed(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("Invalid SPEED: %v", err)
	}
	return v, nil
}

func parseByte(name, s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("Invalid %s: %v", name, err)
	}
	return uint8(v), nil
}

// parseDuration accepts Go durations and plain milliseconds.
func parseDuration(s string) (time.Duration, error) {
	if ms, err := strconv.ParseUint(s, 10, 32); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("Invalid DURATION: %v", err)
	}
	return d, nil
}

// optDuration parses args[n] if present.
func optDuration(args []string, n int) (time.Duration, error) {
	if len(args) <= n {
		return 0, nil
	}
	return parseDuration(args[n])
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "1", "on", "high", "true":
		return true, nil
	case "0", "off", "low", "false":
		return false, nil
	}
	return false, fmt.Errorf("Invalid VALUE: %q", s)
}
