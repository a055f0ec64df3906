package clock

import (
	"fmt"

	"example.com/wiggles/base/rate"
	"example.com/wiggles/base/timebase"
)

// Triggered is a one-shot clock. It idles at phase 0 until triggered, ticks
// once on the next frame and then runs through a single cycle at its rate,
// stopping at phase 0 without ticking again.
type Triggered struct {
	source  timebase.FrameSource
	rate    rate.Rate
	running bool
	state
}

var _ Node = (*Triggered)(nil)

func NewTriggered(source timebase.FrameSource, r rate.Rate) (*Triggered, error) {
	if source == nil {
		return nil, ErrNilSource
	}
	t := &Triggered{source: source, rate: r}
	t.lastFrame, t.lastTime = source.Frame()
	return t, nil
}

func (t *Triggered) IsCurrent() bool {
	return t.lastFrame == t.source.FrameNumber()
}

func (t *Triggered) Reconcile() {
	frame, now := t.source.Frame()
	if frame == t.lastFrame {
		return
	}
	switch {
	case t.forceTick:
		t.fire(frame, now)
		t.running = true
	case t.running:
		acc := (now - t.lastTime) * t.rate.Hz()
		next := t.phase + acc
		if next >= 1.0 || next < 0.0 {
			t.hold(0.0, acc, frame, now)
			t.running = false
		} else {
			t.hold(next, acc, frame, now)
		}
	default:
		t.hold(0.0, 0.0, frame, now)
	}
}

// Trigger starts a cycle on the next frame, restarting one in progress.
func (t *Triggered) Trigger() {
	t.forceTick = true
}

func (t *Triggered) Running() bool {
	t.Reconcile()
	return t.running
}

func (t *Triggered) Phase() float64 {
	t.Reconcile()
	return t.phase
}

func (t *Triggered) Ticks() int64 {
	t.Reconcile()
	return t.accumulatedTicks
}

func (t *Triggered) TotalTicks() int64 {
	t.Reconcile()
	return t.totalTicks
}

func (t *Triggered) Ticked() bool {
	return t.Ticks() != 0
}

func (t *Triggered) AccumulatedPhase() float64 {
	t.Reconcile()
	return t.accumulatedPhase
}

func (t *Triggered) FrameNumber() int64 {
	t.Reconcile()
	return t.lastFrame
}

func (t *Triggered) Timestamp() float64 {
	t.Reconcile()
	return t.lastTime
}

func (t *Triggered) Frame() (int64, float64) {
	t.Reconcile()
	return t.lastFrame, t.lastTime
}

func (t *Triggered) Rate() rate.Rate {
	return t.rate
}

func (t *Triggered) SetRate(r rate.Rate) {
	t.rate = r
}

func (t *Triggered) Source() timebase.FrameSource {
	return t.source
}

func (t *Triggered) upstream() timebase.FrameSource {
	return t.source
}

func (t *Triggered) SetSource(src timebase.FrameSource) error {
	if src == nil {
		return ErrNilSource
	}
	if dependsOn(src, t) {
		return fmt.Errorf("%w: triggered clock cannot be driven by itself", ErrCyclicDependency)
	}
	t.Reconcile()
	t.source = src
	t.lastFrame, t.lastTime = src.Frame()
	return nil
}

// Reset stops a running cycle and zeroes the clock and its followers.
func (t *Triggered) Reset() {
	t.zero()
	t.running = false
	t.resetFollowers()
}

// ForceTick triggers the clock and forces its followers to tick.
func (t *Triggered) ForceTick() {
	t.forceTick = true
	t.forceTickFollowers()
}

func (t *Triggered) AddFollower(f Synchronizer) error {
	return t.addFollower(t, f)
}

func (t *Triggered) RemoveFollower(f Synchronizer) {
	t.removeFollower(f)
}
