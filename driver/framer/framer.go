// Package framer advances the timebase once per frame.
package framer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"example.com/wiggles/base/floats"
	"example.com/wiggles/base/metrics"
	"example.com/wiggles/base/timemath"
	"example.com/wiggles/base/zaplog"
	"example.com/wiggles/core/timebase"
)

const (
	maxInterval = 10 * time.Second
	windowLen   = 64
)

var ErrInvalidFrameRate = errors.New("invalid frame rate")

var (
	framesCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: metrics.FramerFramesN,
		Help: metrics.FramerFramesH,
	})
	intervalGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: metrics.FramerFrameIntervalN,
		Help: metrics.FramerFrameIntervalH,
	})
)

// Stats summarizes the intervals between driven frames.
type Stats struct {
	Frames int64
	Mean   time.Duration
	Median time.Duration
	P99    time.Duration

	// Rate is the effective frame rate in Hz and Jitter the typical
	// deviation of a frame from it, both fitted over the most recent frames.
	Rate   float64
	Jitter time.Duration
}

type Framer struct {
	Timebase  *timebase.Timebase
	Clock     clockwork.Clock
	FrameRate float64
	Log       *zap.Logger

	mu     sync.Mutex
	frames int64
	histo  *hdrhistogram.Histogram
	window []float64
	next   int
	est    rateEstimator
}

// Run advances the timebase at FrameRate until ctx is done.
func (f *Framer) Run(ctx context.Context) error {
	if f.Timebase == nil {
		panic("nil timebase")
	}
	if !(f.FrameRate > 0) {
		return fmt.Errorf("%w: %v", ErrInvalidFrameRate, f.FrameRate)
	}
	clk := f.Clock
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	log := zaplog.Or(f.Log)

	f.mu.Lock()
	if f.histo == nil {
		f.histo = hdrhistogram.New(1, maxInterval.Microseconds(), 3)
	}
	f.mu.Unlock()

	interval := timemath.Interval(f.FrameRate)
	ticker := clk.NewTicker(interval)
	defer ticker.Stop()
	log.Info("frame driver started",
		zap.Float64("frame_rate", f.FrameRate),
		zap.Duration("interval", interval))

	prev := f.Timebase.Timestamp()
	for {
		select {
		case <-ctx.Done():
			log.Info("frame driver stopped", zap.Int64("frame", f.Timebase.FrameNumber()))
			return nil
		case <-ticker.Chan():
			fr := f.Timebase.Next()
			d := timemath.Duration(fr.Timestamp - prev).Round(time.Microsecond)
			prev = fr.Timestamp
			f.record(log, fr, d)
		}
	}
}

func (f *Framer) record(log *zap.Logger, fr timebase.Frame, d time.Duration) {
	framesCounter.Inc()
	intervalGauge.Set(d.Seconds())

	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames++
	err := f.histo.RecordValue(d.Microseconds())
	if err != nil {
		log.Debug("frame interval out of range", zap.Duration("interval", d))
	}
	if len(f.window) < windowLen {
		f.window = append(f.window, d.Seconds())
	} else {
		f.window[f.next] = d.Seconds()
		f.next = (f.next + 1) % windowLen
	}
	f.est.add(fr.Number, fr.Timestamp)
}

// Stats reports the frames driven so far. The median covers only the most
// recent frames.
func (f *Framer) Stats() Stats {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := Stats{Frames: f.frames}
	if f.histo == nil || f.frames == 0 {
		return s
	}
	s.Mean = time.Duration(f.histo.Mean() * float64(time.Microsecond))
	s.P99 = time.Duration(f.histo.ValueAtQuantile(99)) * time.Microsecond
	w := make([]float64, len(f.window))
	copy(w, f.window)
	s.Median = timemath.Duration(floats.Median(w))
	if r, j, ok := f.est.estimate(); ok {
		s.Rate = r
		s.Jitter = timemath.Duration(j)
	}
	return s
}
