package metrics

const (
	ClockReconciliationsH = "The total number of clock reconciliations against a new frame"
	ClockReconciliationsN = "wiggles_clock_reconciliations"
	ClockForcedTicksH     = "The total number of forced ticks applied to clocks"
	ClockForcedTicksN     = "wiggles_clock_forced_ticks"

	TimebaseFrameH       = "The current frame number of the timebase"
	TimebaseFrameN       = "wiggles_timebase_frame"
	TimebaseSubscribersH = "The number of active frame subscribers"
	TimebaseSubscribersN = "wiggles_timebase_subscribers"

	NetworkClocksH  = "The number of clocks registered in the clock network"
	NetworkClocksN  = "wiggles_network_clocks"
	NetworkQueriesH = "The total number of clock value queries served by the clock network"
	NetworkQueriesN = "wiggles_network_queries"

	FramerFramesH        = "The total number of frames driven"
	FramerFramesN        = "wiggles_framer_frames"
	FramerFrameIntervalH = "The duration of the last frame interval in seconds"
	FramerFrameIntervalN = "wiggles_framer_frame_interval_seconds"
)
