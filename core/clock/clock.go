// Package clock implements lazily reconciled phase accumulators driven by a
// timebase or by other clocks.
//
// A clock never updates itself in the background. Every query first checks
// whether the clock has already folded in its source's current frame and, if
// not, reconciles against it, recursively pulling its sources up to the
// timebase. Querying twice within one frame is therefore a no-op, and the
// result does not depend on query order or on how many frames were skipped.
//
// Clocks are not safe for concurrent use; callers sharing clocks between
// goroutines must serialize access to a whole clock tree.
package clock

import (
	"fmt"

	"example.com/wiggles/base/floats"
	"example.com/wiggles/base/rate"
	"example.com/wiggles/base/timebase"
)

// Clock ticks at a fixed rate, measured against the timestamps of its source.
type Clock struct {
	source timebase.FrameSource
	rate   rate.Rate
	state
}

var _ Node = (*Clock)(nil)

// New creates a clock at the given initial phase that is current with the
// source's present frame.
func New(source timebase.FrameSource, r rate.Rate, phase float64) (*Clock, error) {
	if source == nil {
		return nil, ErrNilSource
	}
	c := &Clock{source: source, rate: r}
	c.phase = floats.Wrap(phase)
	c.lastFrame, c.lastTime = source.Frame()
	return c, nil
}

func (c *Clock) IsCurrent() bool {
	return c.lastFrame == c.source.FrameNumber()
}

// Reconcile folds the time elapsed since the last reconciliation into the
// phase. It does nothing if the clock is current.
func (c *Clock) Reconcile() {
	frame, now := c.source.Frame()
	if frame == c.lastFrame {
		return
	}
	if c.forceTick {
		c.fire(frame, now)
		return
	}
	c.advance((now-c.lastTime)*c.rate.Hz(), frame, now)
}

func (c *Clock) Phase() float64 {
	c.Reconcile()
	return c.phase
}

// Ticks returns the number of ticks crossed during the last reconciliation.
func (c *Clock) Ticks() int64 {
	c.Reconcile()
	return c.accumulatedTicks
}

func (c *Clock) TotalTicks() int64 {
	c.Reconcile()
	return c.totalTicks
}

func (c *Clock) Ticked() bool {
	return c.Ticks() != 0
}

func (c *Clock) AccumulatedPhase() float64 {
	c.Reconcile()
	return c.accumulatedPhase
}

func (c *Clock) FrameNumber() int64 {
	c.Reconcile()
	return c.lastFrame
}

func (c *Clock) Timestamp() float64 {
	c.Reconcile()
	return c.lastTime
}

func (c *Clock) Frame() (int64, float64) {
	c.Reconcile()
	return c.lastFrame, c.lastTime
}

func (c *Clock) Rate() rate.Rate {
	return c.rate
}

// SetRate takes effect from the next reconciliation; the committed phase is
// left untouched.
func (c *Clock) SetRate(r rate.Rate) {
	c.rate = r
}

func (c *Clock) Source() timebase.FrameSource {
	return c.source
}

func (c *Clock) upstream() timebase.FrameSource {
	return c.source
}

// SetSource drives the clock from src from now on. Time pending against the
// old source is folded in first.
func (c *Clock) SetSource(src timebase.FrameSource) error {
	if src == nil {
		return ErrNilSource
	}
	if dependsOn(src, c) {
		return fmt.Errorf("%w: clock cannot be driven by itself", ErrCyclicDependency)
	}
	c.Reconcile()
	c.source = src
	c.lastFrame, c.lastTime = src.Frame()
	return nil
}

// Reset zeroes phase and tick counts of the clock and its followers. The
// frame bookkeeping is kept, so elapsed time keeps being measured from the
// last reconciliation.
func (c *Clock) Reset() {
	c.zero()
	c.resetFollowers()
}

// ForceTick makes the clock and its followers restart at phase 0 with
// exactly one tick on the next frame.
func (c *Clock) ForceTick() {
	c.forceTick = true
	c.forceTickFollowers()
}

func (c *Clock) AddFollower(f Synchronizer) error {
	return c.addFollower(c, f)
}

func (c *Clock) RemoveFollower(f Synchronizer) {
	c.removeFollower(f)
}
