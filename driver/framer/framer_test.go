package framer_test

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"example.com/wiggles/core/timebase"
	"example.com/wiggles/driver/framer"
)

func TestRunAdvancesFrames(t *testing.T) {
	clk := clockwork.NewFakeClock()
	tb := timebase.New(clk, nil)
	f := &framer.Framer{Timebase: tb, Clock: clk, FrameRate: 50}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.Run(ctx) }()

	clk.BlockUntil(1)
	for i := int64(1); i <= 10; i++ {
		clk.Advance(20 * time.Millisecond)
		require.Eventually(t, func() bool {
			return tb.FrameNumber() == i
		}, time.Second, time.Millisecond)
	}
	require.Equal(t, 0.2, tb.Timestamp())

	require.Eventually(t, func() bool {
		return f.Stats().Frames == 10
	}, time.Second, time.Millisecond)
	s := f.Stats()
	require.InDelta(t, 20*time.Millisecond, s.Mean, float64(100*time.Microsecond))
	require.InDelta(t, 20*time.Millisecond, s.Median, float64(100*time.Microsecond))
	require.InDelta(t, 20*time.Millisecond, s.P99, float64(100*time.Microsecond))
	require.InDelta(t, 50.0, s.Rate, 1e-6)
	require.Less(t, s.Jitter, time.Microsecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunInvalidFrameRate(t *testing.T) {
	tb := timebase.New(clockwork.NewFakeClock(), nil)
	for _, r := range []float64{0, -30} {
		f := &framer.Framer{Timebase: tb, FrameRate: r}
		require.ErrorIs(t, f.Run(context.Background()), framer.ErrInvalidFrameRate)
	}
}

func TestStatsBeforeRun(t *testing.T) {
	f := &framer.Framer{}
	require.Equal(t, framer.Stats{}, f.Stats())
}
