package clock

import (
	"errors"
)

var (
	ErrCyclicDependency  = errors.New("cyclic clock dependency")
	ErrNilSource         = errors.New("nil clock source")
	ErrInvalidMultiplier = errors.New("invalid clock multiplier")
)
