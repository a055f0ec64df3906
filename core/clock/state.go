package clock

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"example.com/wiggles/base/floats"
	"example.com/wiggles/base/metrics"
	"example.com/wiggles/base/timebase"
)

var (
	reconciliations = promauto.NewCounter(prometheus.CounterOpts{
		Name: metrics.ClockReconciliationsN,
		Help: metrics.ClockReconciliationsH,
	})
	forcedTicks = promauto.NewCounter(prometheus.CounterOpts{
		Name: metrics.ClockForcedTicksN,
		Help: metrics.ClockForcedTicksH,
	})
)

// PhaseSource is a clock that derived clocks can be driven by.
type PhaseSource interface {
	timebase.FrameSource
	Phase() float64
	AccumulatedPhase() float64
	progress() phaseSum
}

// Synchronizer is a clock whose resets and forced ticks are passed on to
// its followers.
type Synchronizer interface {
	Reset()
	ForceTick()
	AddFollower(f Synchronizer) error
	RemoveFollower(f Synchronizer)
	followerList() []Synchronizer
}

// Node is the query and control surface shared by all kinds of clocks.
type Node interface {
	PhaseSource
	Synchronizer
	IsCurrent() bool
	Reconcile()
	Ticks() int64
	TotalTicks() int64
	Ticked() bool
}

// phaseSum is an unbounded sum of phase kept as whole cycles plus a
// fraction in [0, 1), so that the difference of two sums stays precise.
type phaseSum struct {
	whole int64
	frac  float64
}

func (p *phaseSum) add(x float64) {
	w, f := floats.Split(p.frac + x)
	p.whole += w
	p.frac = f
}

// since returns p - q.
func (p phaseSum) since(q phaseSum) float64 {
	return float64(p.whole-q.whole) + (p.frac - q.frac)
}

// state is the accumulator shared by all kinds of clocks. Every mutation
// that folds in a frame commits all fields together.
type state struct {
	phase            float64
	accumulatedPhase float64
	accumulatedTicks int64
	totalTicks       int64

	lastFrame int64
	lastTime  float64

	// cumulative is the sum of all accumulated phase and is never reset.
	cumulative phaseSum

	forceTick bool
	followers []Synchronizer
}

func (s *state) advance(accumulated float64, frame int64, now float64) {
	ticks, phase := floats.Split(s.phase + accumulated)
	s.phase = phase
	s.accumulatedPhase = accumulated
	s.accumulatedTicks = ticks
	s.totalTicks += ticks
	s.commit(accumulated, frame, now)
}

// hold sets the phase directly without crossing a tick.
func (s *state) hold(phase, accumulated float64, frame int64, now float64) {
	s.phase = phase
	s.accumulatedPhase = accumulated
	s.accumulatedTicks = 0
	s.commit(accumulated, frame, now)
}

func (s *state) fire(frame int64, now float64) {
	s.phase = 0.0
	s.accumulatedPhase = 0.0
	s.accumulatedTicks = 1
	s.totalTicks++
	s.forceTick = false
	s.commit(0.0, frame, now)
	forcedTicks.Inc()
}

func (s *state) commit(accumulated float64, frame int64, now float64) {
	s.cumulative.add(accumulated)
	s.lastFrame = frame
	s.lastTime = now
	reconciliations.Inc()
}

func (s *state) zero() {
	s.phase = 0.0
	s.accumulatedPhase = 0.0
	s.accumulatedTicks = 0
	s.totalTicks = 0
}

func (s *state) progress() phaseSum {
	return s.cumulative
}

func (s *state) followerList() []Synchronizer {
	return s.followers
}

func (s *state) addFollower(self, f Synchronizer) error {
	if f == nil {
		return fmt.Errorf("%w: follower", ErrNilSource)
	}
	if follows(f, self) {
		return fmt.Errorf("%w: follower would follow itself", ErrCyclicDependency)
	}
	for _, x := range s.followers {
		if x == f {
			return nil
		}
	}
	s.followers = append(s.followers, f)
	return nil
}

func (s *state) removeFollower(f Synchronizer) {
	for i, x := range s.followers {
		if x == f {
			s.followers = append(s.followers[:i:i], s.followers[i+1:]...)
			return
		}
	}
}

func (s *state) resetFollowers() {
	for _, f := range s.followers {
		f.Reset()
	}
}

func (s *state) forceTickFollowers() {
	for _, f := range s.followers {
		f.ForceTick()
	}
}

// follows reports whether target is reachable from s through follower edges.
func follows(s, target Synchronizer) bool {
	if s == target {
		return true
	}
	for _, f := range s.followerList() {
		if follows(f, target) {
			return true
		}
	}
	return false
}

type upstreamer interface {
	upstream() timebase.FrameSource
}

// dependsOn reports whether src is target or is (transitively) driven by it.
func dependsOn(src, target timebase.FrameSource) bool {
	for s := src; s != nil; {
		if s == target {
			return true
		}
		u, ok := s.(upstreamer)
		if !ok {
			return false
		}
		s = u.upstream()
	}
	return false
}
