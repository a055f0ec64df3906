package clock_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/wiggles/base/rate"
	"example.com/wiggles/core/clock"
)

func TestTriggeredOneShot(t *testing.T) {
	src := &stepper{}
	tr, err := clock.NewTriggered(src, rate.Hz(0.25))
	require.NoError(t, err)

	src.step(2)
	require.Equal(t, 0.0, tr.Phase())
	require.False(t, tr.Running())
	require.Equal(t, int64(0), tr.Ticks())

	tr.Trigger()
	src.step(1)
	require.True(t, tr.Ticked())
	require.True(t, tr.Running())
	require.Equal(t, 0.0, tr.Phase())

	for _, want := range []float64{0.25, 0.5, 0.75} {
		src.step(1)
		require.Equal(t, want, tr.Phase())
		require.False(t, tr.Ticked())
	}

	// Completing the cycle stops without a second tick.
	src.step(1)
	require.Equal(t, 0.0, tr.Phase())
	require.False(t, tr.Ticked())
	require.False(t, tr.Running())
	require.Equal(t, int64(1), tr.TotalTicks())

	src.step(3)
	require.Equal(t, 0.0, tr.Phase())
	require.Equal(t, 0.0, tr.AccumulatedPhase())
}

func TestTriggeredRetrigger(t *testing.T) {
	src := &stepper{}
	tr, err := clock.NewTriggered(src, rate.Hz(0.25))
	require.NoError(t, err)

	tr.Trigger()
	src.step(3)
	require.Equal(t, 0.0, tr.Phase())
	src.step(2)
	require.Equal(t, 0.5, tr.Phase())

	tr.Trigger()
	src.step(1)
	require.Equal(t, 0.0, tr.Phase())
	require.Equal(t, int64(1), tr.Ticks())
	require.Equal(t, int64(2), tr.TotalTicks())
	src.step(1)
	require.Equal(t, 0.25, tr.Phase())
}

func TestTriggeredReset(t *testing.T) {
	src := &stepper{}
	tr, err := clock.NewTriggered(src, rate.Hz(0.25))
	require.NoError(t, err)

	tr.Trigger()
	src.step(2)
	require.True(t, tr.Running())

	tr.Reset()
	src.step(1)
	require.False(t, tr.Running())
	require.Equal(t, 0.0, tr.Phase())
	require.Equal(t, int64(0), tr.TotalTicks())
}

func TestTriggeredDrivesMultiplier(t *testing.T) {
	src := &stepper{}
	tr, err := clock.NewTriggered(src, rate.Hz(0.125))
	require.NoError(t, err)
	m := newMultiplier(t, tr, 4.0)

	src.step(1)
	require.Equal(t, 0.0, m.Phase())

	tr.Trigger()
	src.step(1)
	require.True(t, tr.Ticked())
	require.Equal(t, 0.0, m.Phase())
	src.step(1)
	require.Equal(t, 0.125, tr.Phase())
	require.Equal(t, 0.5, m.Phase())
}
