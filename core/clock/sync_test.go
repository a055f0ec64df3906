package clock_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/wiggles/base/rate"
	"example.com/wiggles/core/clock"
)

func TestFollowersCascade(t *testing.T) {
	src := &stepper{}
	a := newClock(t, src, 0.25)
	b := newClock(t, src, 0.125)
	m := newMultiplier(t, a, 2.0)

	require.NoError(t, a.AddFollower(b))
	require.NoError(t, b.AddFollower(m))
	// Adding twice is a no-op.
	require.NoError(t, a.AddFollower(b))

	src.step(3)
	require.Equal(t, 0.75, a.Phase())
	require.Equal(t, 0.375, b.Phase())
	require.Equal(t, 0.5, m.Phase())

	a.Reset()
	require.Equal(t, 0.0, a.Phase())
	require.Equal(t, 0.0, b.Phase())
	require.Equal(t, 0.0, m.Phase())
	require.Equal(t, int64(0), m.TotalTicks())

	a.ForceTick()
	src.step(1)
	for _, n := range []clock.Node{a, b, m} {
		require.Equal(t, 0.0, n.Phase())
		require.Equal(t, int64(1), n.Ticks())
	}

	a.RemoveFollower(b)
	src.step(1)
	a.Reset()
	require.Equal(t, 0.0, a.Phase())
	require.Equal(t, 0.125, b.Phase())
}

func TestFollowerCycles(t *testing.T) {
	src := &stepper{}
	a := newClock(t, src, 1)
	b := newClock(t, src, 1)
	tr, err := clock.NewTriggered(src, rate.Hz(1))
	require.NoError(t, err)

	require.NoError(t, a.AddFollower(b))
	require.NoError(t, b.AddFollower(tr))

	tests := []struct {
		name     string
		master   clock.Synchronizer
		follower clock.Synchronizer
	}{
		{"self", a, a},
		{"direct", b, a},
		{"transitive", tr, a},
	}
	for _, tt := range tests {
		err := tt.master.AddFollower(tt.follower)
		require.ErrorIs(t, err, clock.ErrCyclicDependency, tt.name)
	}
	require.ErrorIs(t, a.AddFollower(nil), clock.ErrNilSource)
}

func TestForceTickTriggersFollower(t *testing.T) {
	src := &stepper{}
	a := newClock(t, src, 0.25)
	tr, err := clock.NewTriggered(src, rate.Hz(0.5))
	require.NoError(t, err)
	require.NoError(t, a.AddFollower(tr))

	a.ForceTick()
	src.step(1)
	require.Equal(t, int64(1), a.Ticks())
	require.True(t, tr.Running())
	src.step(1)
	require.Equal(t, 0.5, tr.Phase())
	require.Equal(t, 0.25, a.Phase())
}
