package clock_test

import (
	"testing"
	"time"

	"example.com/wiggles/driver/clock"
)

func TestMonotonicClock(t *testing.T) {
	c := clock.NewMonotonicClock(nil)

	t0 := c.Now()
	if d := time.Since(t0); d < -time.Second || d > time.Second {
		t.Errorf("c.Now() = %v, off by %v from the wall clock", t0, d)
	}

	prev := t0
	for i := 0; i < 1000; i++ {
		now := c.Now()
		if now.Before(prev) {
			t.Fatalf("c.Now() went backwards: %v after %v", now, prev)
		}
		prev = now
	}

	time.Sleep(10 * time.Millisecond)
	if d := c.Since(t0); d < 9*time.Millisecond || d > time.Second {
		t.Errorf("c.Since(t0) = %v after sleeping 10ms", d)
	}
}
