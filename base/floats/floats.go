package floats

import (
	"math"
	"slices"
)

func midpoint(x, y float64) float64 {
	return x + (y-x)/2.0
}

func Median(fs []float64) float64 {
	n := len(fs)
	if n == 0 {
		panic("unexpected number of values")
	}
	slices.Sort(fs)
	i := n / 2
	if n%2 != 0 {
		return fs[i]
	}
	return midpoint(fs[i-1], fs[i])
}

// Split returns floor(x) and the floored remainder x - floor(x), which is
// always in [0, 1), also for negative x.
func Split(x float64) (int64, float64) {
	w := math.Floor(x)
	f := x - w
	if f >= 1.0 {
		// x was a tiny negative value and the remainder rounded up to 1.
		return int64(w) + 1, 0.0
	}
	return int64(w), f
}

// Wrap returns x modulo 1, in [0, 1).
func Wrap(x float64) float64 {
	_, f := Split(x)
	return f
}

// Distance returns the circular distance between two phases in [0, 1).
func Distance(a, b float64) float64 {
	d := math.Abs(a - b)
	return math.Min(d, 1.0-d)
}
