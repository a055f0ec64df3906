package framer

import (
	"example.com/wiggles/base/floats"
)

const maxSamples = 32

type point struct {
	x float64 // frame number
	y float64 // timestamp in seconds
}

// rateEstimator fits frame timestamps against frame numbers with the
// Theil-Sen estimator, so that single late frames do not skew the result.
type rateEstimator struct {
	samples []point
}

func (e *rateEstimator) add(frame int64, timestamp float64) {
	if len(e.samples) == maxSamples {
		e.samples = e.samples[1:]
	}
	e.samples = append(e.samples, point{x: float64(frame), y: timestamp})
}

func slope(pts []point) (float64, bool) {
	var slopes []float64
	for i, a := range pts {
		for _, b := range pts[i+1:] {
			// Like Sen (1968), ignore pairs with the same x coordinate
			if a.x != b.x {
				slopes = append(slopes, (a.y-b.y)/(a.x-b.x))
			}
		}
	}
	if len(slopes) == 0 {
		return 0, false
	}
	return floats.Median(slopes), true
}

func intercept(slope float64, pts []point) float64 {
	vs := make([]float64, len(pts))
	for i, pt := range pts {
		vs[i] = pt.y - slope*pt.x
	}
	return floats.Median(vs)
}

// estimate returns the effective frame rate in Hz and the median absolute
// deviation of frame timestamps from the fitted line, in seconds.
func (e *rateEstimator) estimate() (rate, jitter float64, ok bool) {
	s, ok := slope(e.samples)
	if !ok || s <= 0 {
		return 0, 0, false
	}
	b := intercept(s, e.samples)
	devs := make([]float64, len(e.samples))
	for i, pt := range e.samples {
		d := pt.y - (s*pt.x + b)
		if d < 0 {
			d = -d
		}
		devs[i] = d
	}
	return 1 / s, floats.Median(devs), true
}
