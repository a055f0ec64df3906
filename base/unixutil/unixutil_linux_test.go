package unixutil_test

import (
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"example.com/wiggles/base/unixutil"
)

func TestDurationFromTimespec(t *testing.T) {
	tests := []struct {
		name string
		ts   unix.Timespec
		want time.Duration
	}{
		{"Zero", unix.Timespec{}, 0},
		{"One second", unix.Timespec{Sec: 1}, time.Second},
		{"Frame", unix.Timespec{Nsec: 16666667}, 16666667 * time.Nanosecond},
		{"Uptime", unix.Timespec{Sec: 36 * 3600, Nsec: 123456789}, 36*time.Hour + 123456789*time.Nanosecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := unixutil.DurationFromTimespec(tt.ts)
			if got != tt.want {
				t.Errorf("DurationFromTimespec(%+v) = %v; want %v", tt.ts, got, tt.want)
			}
		})
	}
}
