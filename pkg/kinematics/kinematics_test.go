package kinematics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/baseboard.go/pkg/wire"
)

const (
	F = wire.Forward
	B = wire.Backward
)

// speeds builds expected commands from (direction, speed) pairs per channel.
func speeds(vals ...int) []wire.MotorCommand {
	cmds := make([]wire.MotorCommand, len(vals))
	for n, v := range vals {
		cmds[n] = motor(uint8(n), v)
	}
	return cmds
}

func TestNormal(t *testing.T) {
	testCases := []struct {
		name   string
		in     Intent
		expect []wire.MotorCommand
	}{
		{"stop", Intent{}, speeds(0, 0, 0, 0)},
		{"forward", Intent{X: 5}, []wire.MotorCommand{
			{Channel: LeftFront, Direction: F, Speed: 5},
			{Channel: LeftRear, Direction: F, Speed: 5},
			{Channel: RightFront, Direction: F, Speed: 5},
			{Channel: RightRear, Direction: F, Speed: 5},
		}},
		{"rotate right", Intent{Angular: 5}, []wire.MotorCommand{
			{Channel: LeftFront, Direction: F, Speed: 5},
			{Channel: LeftRear, Direction: F, Speed: 5},
			{Channel: RightFront, Direction: B, Speed: 5},
			{Channel: RightRear, Direction: B, Speed: 5},
		}},
		{"backward", Intent{X: -7}, speeds(-7, -7, -7, -7)},
		{"rotate left", Intent{Angular: -3}, speeds(-3, -3, 3, 3)},
		{"lateral rotates", Intent{Y: 4}, speeds(4, 4, -4, -4)},
		{"curve right", Intent{X: 5, Y: 2}, speeds(7, 7, 5, 5)},
		{"curve left", Intent{X: 5, Angular: -2}, speeds(5, 5, 7, 7)},
		{"curve back", Intent{X: -5, Angular: 3}, speeds(-8, -8, -5, -5)},
		{"turn cancels lateral", Intent{X: 6, Y: 2, Angular: -2}, speeds(6, 6, 6, 6)},
		{"max", Intent{X: 127, Angular: 127}, speeds(254, 254, 127, 127)},
		{"front right", Intent{X: 5, Y: 5}, speeds(5, 0, 0, 5)},
		{"front left", Intent{X: 5, Y: -5}, speeds(0, 5, 5, 0)},
		{"rear left", Intent{X: -5, Y: -5}, speeds(-5, 0, 0, -5)},
		{"rear right", Intent{X: -5, Y: 5}, speeds(0, -5, -5, 0)},
		{"diagonal with angular curves", Intent{X: 5, Y: 5, Angular: 1}, speeds(11, 11, 5, 5)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expect, Normal{}.Translate(tc.in))
		})
	}
}

func TestOmni(t *testing.T) {
	testCases := []struct {
		name   string
		in     Intent
		expect []wire.MotorCommand
	}{
		{"stop", Intent{}, speeds(0, 0, 0)},
		{"forward", Intent{X: 5}, speeds(5, -5, 0)},
		{"backward", Intent{X: -5}, speeds(-5, 5, 0)},
		{"right fast", Intent{Y: 8}, speeds(-6, -6, 8)},
		{"right slow", Intent{Y: 5}, speeds(-2, -2, 5)},
		{"left slow", Intent{Y: -4}, speeds(2, 2, -4)},
		{"tier boundary", Intent{Y: 6}, speeds(-4, -4, 6)},
		{"rotate", Intent{Angular: 4}, speeds(4, 4, 4)},
		{"rotate ccw", Intent{Angular: -4}, speeds(-4, -4, -4)},
		{"clamped", Intent{X: 127, Angular: 127}, speeds(127, 0, 127)},
		{"clamped negative", Intent{X: -128, Angular: -128}, speeds(-128, 0, -128)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expect, Omni{}.Translate(tc.in))
		})
	}
}

func TestMecanum(t *testing.T) {
	testCases := []struct {
		name   string
		in     Intent
		expect []wire.MotorCommand
	}{
		{"stop", Intent{}, speeds(0, 0, 0, 0)},
		{"forward", Intent{X: 5}, speeds(5, 5, 5, 5)},
		{"rotate", Intent{Angular: 5}, speeds(5, 5, -5, -5)},
		{"strafe right", Intent{Y: 5}, speeds(5, -5, -5, 5)},
		{"strafe left", Intent{Y: -5}, speeds(-5, 5, 5, -5)},
		{"front right", Intent{X: 3, Y: 5}, speeds(5, 0, 0, 5)},
		{"rear left", Intent{X: -3, Y: -2}, speeds(-3, 0, 0, -3)},
		{"front left", Intent{X: 4, Y: -4}, speeds(0, 4, 4, 0)},
		{"rear right", Intent{X: -4, Y: 6}, speeds(0, -6, -6, 0)},
		{"angular ignored", Intent{Y: 5, Angular: 9}, speeds(5, -5, -5, 5)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expect, Mecanum{}.Translate(tc.in))
		})
	}
}

func TestTopology(t *testing.T) {
	var topo Topology
	require.NoError(t, topo.Set("Omni"))
	require.Equal(t, TopologyOmni, topo)
	require.Equal(t, "omni", topo.String())
	require.ErrorIs(t, topo.Set("tank"), wire.ErrInvalidArgument)

	for topo, expect := range map[Topology]Translator{
		"":              Normal{},
		TopologyNormal:  Normal{},
		TopologyOmni:    Omni{},
		TopologyMecanum: Mecanum{},
	} {
		tr, err := New(topo)
		require.NoError(t, err)
		require.Equal(t, expect, tr)
	}
	_, err := New("tank")
	require.ErrorIs(t, err, wire.ErrInvalidArgument)
}
