package network

import "errors"

var (
	ErrDuplicateClock = errors.New("clock already exists")
	ErrUnknownClock   = errors.New("unknown clock")
	ErrHasDependents  = errors.New("clock is a source of other clocks")
	ErrWrongKind      = errors.New("operation not supported by clock kind")
)
