package barge

// playbackFeeder owns the chunk FIFO read by the output device callback.
// The whole buffer is queued before the device starts, followed by a nil
// sentinel, so the callback side never blocks and never allocates.
type playbackFeeder struct {
	queue chan []float32
	ctrl  *controlState
}

func newPlaybackFeeder(buf []float32, chunkSize int, ctrl *controlState) *playbackFeeder {
	n := len(buf)/chunkSize + 2
	q := make(chan []float32, n)
	for i := 0; i < len(buf); i += chunkSize {
		end := i + chunkSize
		if end > len(buf) {
			end = len(buf)
		}
		q <- buf[i:end]
	}
	q <- nil // end-of-data sentinel
	return &playbackFeeder{queue: q, ctrl: ctrl}
}

// fill services one output device callback. It always writes exactly
// len(out) samples and reports whether the callback chain should keep
// running. Once it returns false the session is over on the output side;
// any further invocations (the device keeps calling until the engine
// stops it) keep emitting silence.
func (p *playbackFeeder) fill(out []float32) bool {
	if p.ctrl.stop.Load() {
		zeroSamples(out)
		return false
	}
	select {
	case chunk := <-p.queue:
		if chunk == nil {
			// Natural end of stream.
			zeroSamples(out)
			p.ctrl.playbackDone.Store(true)
			return false
		}
		n := copy(out, chunk)
		// Zero-pad a short tail chunk to the requested frame count.
		zeroSamples(out[n:])
		return true
	default:
		// Queue drained without reaching the sentinel. The FIFO was primed
		// with the entire buffer up front, so treat this as end of stream
		// rather than aborting the session.
		zeroSamples(out)
		p.ctrl.playbackDone.Store(true)
		return false
	}
}

func zeroSamples(s []float32) {
	for i := range s {
		s[i] = 0
	}
}
