// Package clock provides the wall clock that drives the timebase in
// production.
package clock

import (
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"example.com/wiggles/base/zaplog"
)

// MonotonicClock is a clockwork.Clock whose readings advance with the
// system's monotonic clock and are unaffected by wall clock steps. Sleeps,
// timers and tickers are those of the runtime.
type MonotonicClock struct {
	clockwork.Clock
	log   *zap.Logger
	base  time.Time
	start time.Duration
}

var _ clockwork.Clock = (*MonotonicClock)(nil)

func NewMonotonicClock(log *zap.Logger) *MonotonicClock {
	c := &MonotonicClock{
		Clock: clockwork.NewRealClock(),
		log:   zaplog.Or(log),
	}
	c.base = time.Now().UTC()
	c.start = monotonic(c.log)
	return c
}

func (c *MonotonicClock) Now() time.Time {
	return c.base.Add(monotonic(c.log) - c.start)
}

func (c *MonotonicClock) Since(t time.Time) time.Duration {
	return c.Now().Sub(t)
}
