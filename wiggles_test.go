package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"example.com/wiggles/core/config"
)

func TestDump(t *testing.T) {
	log = zap.NewNop()
	cfg := config.Config{
		FrameRate: 4,
		Clocks: []config.ClockConfig{
			{Name: "beat", Rate: "1Hz"},
		},
		Multipliers: []config.MultiplierConfig{
			{Name: "half", Source: "beat", Mult: 0.5},
		},
	}

	var buf bytes.Buffer
	dump(&buf, cfg, 4, 250*time.Millisecond)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 8 {
		t.Fatalf("dump wrote %d lines, want 8:\n%s", len(lines), buf.String())
	}
	want := []string{
		"     1 beat             clock      phase=0.250000 ticks=0 total=0",
		"     1 half             multiplier phase=0.125000 ticks=0 total=0",
		"     4 beat             clock      phase=0.000000 ticks=1 total=1*",
		"     4 half             multiplier phase=0.500000 ticks=0 total=0",
	}
	got := []string{lines[0], lines[1], lines[6], lines[7]}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}
