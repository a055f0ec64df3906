package timemath_test

import (
	"testing"
	"time"

	"example.com/wiggles/base/timemath"
)

func TestDuration(t *testing.T) {
	tests := []struct {
		seconds float64
		want    time.Duration
	}{
		{1.5, 1500 * time.Millisecond},
		{1, time.Second},
		{0, 0},
		{-1, -time.Second},
		{-1.5, -1500 * time.Millisecond},
	}

	for _, tt := range tests {
		got := timemath.Duration(tt.seconds)
		if got != tt.want {
			t.Errorf("timemath.Duration(%v) = %v, want %v", tt.seconds, got, tt.want)
		}
	}
}

func TestSeconds(t *testing.T) {
	tests := []struct {
		duration time.Duration
		want     float64
	}{
		{1500 * time.Millisecond, 1.5},
		{time.Second, 1},
		{0, 0},
		{-time.Second, -1},
		{-1500 * time.Millisecond, -1.5},
	}

	for _, tt := range tests {
		got := timemath.Seconds(tt.duration)
		if got != tt.want {
			t.Errorf("timemath.Seconds(%v) = %v, want %v", tt.duration, got, tt.want)
		}
	}
}

func TestSince(t *testing.T) {
	origin := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	got := timemath.Since(origin, origin.Add(2500*time.Millisecond))
	if got != 2.5 {
		t.Errorf("timemath.Since(origin, origin+2.5s) = %v, want 2.5", got)
	}
}

func TestInterval(t *testing.T) {
	tests := []struct {
		hz   float64
		want time.Duration
	}{
		{1, time.Second},
		{4, 250 * time.Millisecond},
		{50, 20 * time.Millisecond},
	}

	for _, tt := range tests {
		got := timemath.Interval(tt.hz)
		if got != tt.want {
			t.Errorf("timemath.Interval(%v) = %v, want %v", tt.hz, got, tt.want)
		}
	}

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("timemath.Interval(0), did not panic")
		}
	}()
	timemath.Interval(0)
}
