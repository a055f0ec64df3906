package timebase

// FrameSource is the read surface every clock is driven by: the process
// timebase or, recursively, another clock.
type FrameSource interface {
	// FrameNumber returns the current frame number.
	FrameNumber() int64
	// Timestamp returns the time in seconds at which the current frame started.
	Timestamp() float64
	// Frame returns frame number and timestamp as one consistent pair.
	Frame() (number int64, timestamp float64)
}
