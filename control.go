package barge

import "sync/atomic"

// controlState is the shared termination state for one playback session.
// It is created fresh per Play call and discarded once both the monitor
// and the streamer have wound down.
//
// stop is monotonic: never cleared once set. barged implies stop. The
// stop flag is the arbiter between a barge-in and a near-simultaneous
// natural completion: whoever transitions stop first owns the outcome.
type controlState struct {
	stop         atomic.Bool
	barged       atomic.Bool
	playbackDone atomic.Bool
}

// requestStop asks both sides to terminate. Idempotent.
func (c *controlState) requestStop() { c.stop.Store(true) }

// tryBarge attempts to attribute the session's termination to detected
// speech. It loses if the streamer already finished naturally or if stop
// was already requested. The stop transition is a single test-and-set,
// so at most one caller can ever win.
//
// barged is stored after winning stop; the engine reads it only after
// the monitor goroutine has exited, so the ordering is not observable.
func (c *controlState) tryBarge() bool {
	if c.playbackDone.Load() {
		return false
	}
	if !c.stop.CompareAndSwap(false, true) {
		return false
	}
	c.barged.Store(true)
	return true
}

// finished reports whether either side has ended the session.
func (c *controlState) finished() bool {
	return c.stop.Load() || c.playbackDone.Load()
}
