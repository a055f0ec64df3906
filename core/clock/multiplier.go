package clock

import (
	"fmt"
	"math"

	"example.com/wiggles/base/floats"
	"example.com/wiggles/base/timebase"
)

// Multiplier is a clock whose phase advances by a multiple of its source's
// phase increment rather than by elapsed time.
type Multiplier struct {
	source PhaseSource
	mult   float64

	// cumulative phase of the source at the last reconciliation
	seen phaseSum

	state
}

var _ Node = (*Multiplier)(nil)

// NewMultiplier creates a multiplier phase-locked to its source, i.e. at
// phase (source phase * mult) mod 1.
func NewMultiplier(source PhaseSource, mult float64) (*Multiplier, error) {
	if source == nil {
		return nil, ErrNilSource
	}
	if err := checkMult(mult); err != nil {
		return nil, err
	}
	m := &Multiplier{source: source, mult: mult}
	m.anchor()
	m.phase = floats.Wrap(source.Phase() * mult)
	return m, nil
}

func checkMult(mult float64) error {
	if math.IsNaN(mult) || math.IsInf(mult, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidMultiplier, mult)
	}
	return nil
}

func (m *Multiplier) anchor() {
	m.lastFrame, m.lastTime = m.source.Frame()
	m.seen = m.source.progress()
}

func (m *Multiplier) IsCurrent() bool {
	return m.lastFrame == m.source.FrameNumber()
}

func (m *Multiplier) Reconcile() {
	frame, now := m.source.Frame()
	if frame == m.lastFrame {
		return
	}
	// The source may have reconciled any number of times since we last
	// looked, and may have been reset since; its cumulative phase covers both.
	cum := m.source.progress()
	if m.forceTick {
		m.fire(frame, now)
	} else {
		m.advance(cum.since(m.seen)*m.mult, frame, now)
	}
	m.seen = cum
}

func (m *Multiplier) Phase() float64 {
	m.Reconcile()
	return m.phase
}

func (m *Multiplier) Ticks() int64 {
	m.Reconcile()
	return m.accumulatedTicks
}

func (m *Multiplier) TotalTicks() int64 {
	m.Reconcile()
	return m.totalTicks
}

func (m *Multiplier) Ticked() bool {
	return m.Ticks() != 0
}

func (m *Multiplier) AccumulatedPhase() float64 {
	m.Reconcile()
	return m.accumulatedPhase
}

func (m *Multiplier) FrameNumber() int64 {
	m.Reconcile()
	return m.lastFrame
}

func (m *Multiplier) Timestamp() float64 {
	m.Reconcile()
	return m.lastTime
}

func (m *Multiplier) Frame() (int64, float64) {
	m.Reconcile()
	return m.lastFrame, m.lastTime
}

func (m *Multiplier) Mult() float64 {
	return m.mult
}

// SetMult takes effect from the next reconciliation. The phase drift it
// introduces persists until ResetToSource is called.
func (m *Multiplier) SetMult(mult float64) error {
	if err := checkMult(mult); err != nil {
		return err
	}
	m.mult = mult
	return nil
}

func (m *Multiplier) Source() PhaseSource {
	return m.source
}

func (m *Multiplier) upstream() timebase.FrameSource {
	return m.source
}

func (m *Multiplier) SetSource(src PhaseSource) error {
	if src == nil {
		return ErrNilSource
	}
	if dependsOn(src, m) {
		return fmt.Errorf("%w: multiplier cannot be driven by itself", ErrCyclicDependency)
	}
	m.Reconcile()
	m.source = src
	m.anchor()
	return nil
}

// ResetToSource collapses any drift: the phase becomes
// (source phase * mult) mod 1 and the multiplier is current with its source.
func (m *Multiplier) ResetToSource() {
	m.anchor()
	m.phase = floats.Wrap(m.source.Phase() * m.mult)
	m.accumulatedPhase = 0.0
	m.accumulatedTicks = 0
	m.forceTick = false
}

func (m *Multiplier) Reset() {
	m.zero()
	m.resetFollowers()
}

func (m *Multiplier) ForceTick() {
	m.forceTick = true
	m.forceTickFollowers()
}

func (m *Multiplier) AddFollower(f Synchronizer) error {
	return m.addFollower(m, f)
}

func (m *Multiplier) RemoveFollower(f Synchronizer) {
	m.removeFollower(f)
}
