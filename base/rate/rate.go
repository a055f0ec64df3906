package rate

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap/zapcore"
)

type Unit int

const (
	UnitHz Unit = iota
	UnitBPM
)

var (
	ErrInvalidUnit = errors.New("invalid rate unit")
	ErrInvalidRate = errors.New("invalid rate value")
)

func (u Unit) String() string {
	switch u {
	case UnitHz:
		return "Hz"
	case UnitBPM:
		return "BPM"
	default:
		return "Unknown"
	}
}

// ParseUnit interprets "hz" or "bpm", case-insensitive.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hz":
		return UnitHz, nil
	case "bpm":
		return UnitBPM, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidUnit, s)
	}
}

// Rate is a frequency, always stored in Hz.
type Rate struct {
	hz float64
}

var _ zapcore.ObjectMarshaler = Rate{}

func New(value float64, unit Unit) (Rate, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Rate{}, fmt.Errorf("%w: %v", ErrInvalidRate, value)
	}
	switch unit {
	case UnitHz:
		return Rate{hz: value}, nil
	case UnitBPM:
		return Rate{hz: value / 60}, nil
	default:
		return Rate{}, fmt.Errorf("%w: %d", ErrInvalidUnit, int(unit))
	}
}

func Hz(v float64) Rate { return Rate{hz: v} }

func BPM(v float64) Rate { return Rate{hz: v / 60} }

func (r Rate) Hz() float64 { return r.hz }

func (r Rate) BPM() float64 { return r.hz * 60 }

func (r Rate) String() string {
	return strconv.FormatFloat(r.hz, 'g', -1, 64) + " Hz"
}

func (r Rate) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddFloat64("hz", r.hz)
	enc.AddFloat64("bpm", r.BPM())
	return nil
}

// Parse reads rates such as "2.5Hz", "120 bpm" or "0.5"; a bare number is
// taken as Hz.
func Parse(s string) (Rate, error) {
	t := strings.TrimSpace(s)
	i := len(t)
	for i > 0 {
		c := t[i-1]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			i--
			continue
		}
		break
	}
	num, suffix := strings.TrimSpace(t[:i]), t[i:]
	unit := UnitHz
	if suffix != "" {
		u, err := ParseUnit(suffix)
		if err != nil {
			return Rate{}, err
		}
		unit = u
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Rate{}, fmt.Errorf("%w: %q", ErrInvalidRate, s)
	}
	return New(v, unit)
}
