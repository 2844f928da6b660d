package barge

import "time"

// Callbacks are optional hooks invoked by the engine around a playback
// session. All fields may be nil. OnBargeIn is called from the monitor
// goroutine; the others from the goroutine that called Play. None of
// them run inside a device callback, so they may block briefly, but a
// slow OnBargeIn delays teardown.
type Callbacks struct {
	// OnPlaybackStart fires once the output device is running. total is
	// the full duration of the loaded buffer.
	OnPlaybackStart func(total time.Duration)

	// OnBargeIn fires when sustained speech wins the session, with the
	// elapsed playback time at the moment of the decision.
	OnBargeIn func(elapsed time.Duration)

	// OnPlaybackEnd fires after teardown with the final outcome.
	OnPlaybackEnd func(interrupted bool)
}
