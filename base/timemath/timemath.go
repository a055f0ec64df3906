package timemath

import (
	"time"
)

func Duration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

func Seconds(d time.Duration) float64 {
	return d.Seconds()
}

// Since returns the seconds elapsed from origin to t.
func Since(origin, t time.Time) float64 {
	return Seconds(t.Sub(origin))
}

// Interval returns the duration of one period at the given frequency in Hz.
func Interval(hz float64) time.Duration {
	if hz <= 0 {
		panic("unexpected frequency")
	}
	return Duration(1.0 / hz)
}
