package timebase

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"example.com/wiggles/base/metrics"
	"example.com/wiggles/base/timebase"
	"example.com/wiggles/base/timemath"
	"example.com/wiggles/base/zaplog"
)

var ErrNonMonotonicFrame = errors.New("frame number not strictly increasing")

var (
	frameGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: metrics.TimebaseFrameN,
		Help: metrics.TimebaseFrameH,
	})
	subscribersGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: metrics.TimebaseSubscribersN,
		Help: metrics.TimebaseSubscribersH,
	})
)

// Frame is an immutable pair of frame number and the time, in seconds since
// the timebase origin, at which that frame started.
type Frame struct {
	Number    int64
	Timestamp float64
}

// Timebase is the root frame source all clocks derive from. Readers may run
// concurrently with a single goroutine advancing the frame.
type Timebase struct {
	clk    clockwork.Clock
	origin time.Time
	log    *zap.Logger
	frame  atomic.Pointer[Frame]

	mu     sync.Mutex
	subs   *linkedhashmap.Map // uint64 -> func(Frame)
	nextID uint64
}

var _ timebase.FrameSource = (*Timebase)(nil)

// New creates a timebase at frame 0 whose origin is the current time of clk.
// A nil clk uses the real wall clock.
func New(clk clockwork.Clock, log *zap.Logger) *Timebase {
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	tb := &Timebase{
		clk:    clk,
		origin: clk.Now(),
		log:    zaplog.Or(log),
		subs:   linkedhashmap.New(),
	}
	tb.frame.Store(&Frame{})
	return tb
}

func (tb *Timebase) Snapshot() Frame {
	return *tb.frame.Load()
}

func (tb *Timebase) FrameNumber() int64 {
	return tb.frame.Load().Number
}

func (tb *Timebase) Timestamp() float64 {
	return tb.frame.Load().Timestamp
}

func (tb *Timebase) Frame() (int64, float64) {
	f := tb.frame.Load()
	return f.Number, f.Timestamp
}

// Advance moves the timebase to frame n, capturing the wall time once.
func (tb *Timebase) Advance(n int64) error {
	tb.mu.Lock()
	cur := tb.frame.Load().Number
	if n <= cur {
		tb.mu.Unlock()
		return fmt.Errorf("%w: %d after %d", ErrNonMonotonicFrame, n, cur)
	}
	f, subs := tb.publish(n)
	tb.mu.Unlock()
	notify(subs, f)
	return nil
}

// Next advances the timebase to the frame following the current one.
func (tb *Timebase) Next() Frame {
	tb.mu.Lock()
	f, subs := tb.publish(tb.frame.Load().Number + 1)
	tb.mu.Unlock()
	notify(subs, f)
	return f
}

func (tb *Timebase) publish(n int64) (Frame, []func(Frame)) {
	f := &Frame{
		Number:    n,
		Timestamp: timemath.Since(tb.origin, tb.clk.Now()),
	}
	tb.frame.Store(f)
	frameGauge.Set(float64(n))
	var subs []func(Frame)
	if tb.subs.Size() != 0 {
		subs = make([]func(Frame), 0, tb.subs.Size())
		for _, v := range tb.subs.Values() {
			subs = append(subs, v.(func(Frame)))
		}
	}
	return *f, subs
}

func notify(subs []func(Frame), f Frame) {
	for _, fn := range subs {
		fn(f)
	}
}

// Subscription is a handle on a frame subscriber; Cancel revokes it.
type Subscription struct {
	tb   *Timebase
	id   uint64
	once sync.Once
}

// Subscribe registers fn to be called after every frame advance, in
// subscription order and outside the timebase lock.
func (tb *Timebase) Subscribe(fn func(Frame)) *Subscription {
	if fn == nil {
		panic("unexpected nil frame subscriber")
	}
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.nextID++
	tb.subs.Put(tb.nextID, fn)
	subscribersGauge.Inc()
	tb.log.Debug("frame subscriber added", zap.Uint64("id", tb.nextID))
	return &Subscription{tb: tb, id: tb.nextID}
}

func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.tb.mu.Lock()
		defer s.tb.mu.Unlock()
		s.tb.subs.Remove(s.id)
		subscribersGauge.Dec()
		s.tb.log.Debug("frame subscriber removed", zap.Uint64("id", s.id))
	})
}

func (tb *Timebase) Subscribers() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.subs.Size()
}
