package barge

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

const (
	// pollInterval is the coordinator's wait granularity while a session
	// runs. The coordinator goroutine is the only place allowed to sleep.
	pollInterval = 10 * time.Millisecond

	// joinTimeout bounds teardown so a wedged device callback cannot hang
	// the caller. Best-effort cleanup, not a leak guarantee.
	joinTimeout = 500 * time.Millisecond
)

var ErrClosed = errors.New("engine is closed")

// Engine plays synthesized speech on the default output device while
// watching the microphone for barge-in: sustained user speech that should
// interrupt playback mid-stream. Each Play call is a fresh, self-contained
// streaming session; no audio state persists across calls.
//
// An Engine is not goroutine-safe; the caller must serialize Play, Record
// and Close.
type Engine struct {
	cfg        Config
	cb         Callbacks
	backend    Backend
	classifier Classifier

	ownsBackend bool
	closed      bool
}

// Option customizes engine construction.
type Option func(*Engine)

// WithBackend substitutes the audio device backend. The engine does not
// close a backend it did not create.
func WithBackend(b Backend) Option {
	return func(e *Engine) { e.backend = b }
}

// WithClassifier substitutes the speech classifier, bypassing the Silero
// capability probe.
func WithClassifier(c Classifier) Option {
	return func(e *Engine) { e.classifier = c }
}

// New creates an engine from config and callbacks. It validates config,
// opens the audio backend, and resolves the voice-activity classifier
// capability once. A missing classifier is not an error: the engine still
// works, every Play just reports "not interrupted".
func New(cfg Config, cb Callbacks, opts ...Option) (*Engine, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	e := &Engine{cfg: cfg, cb: cb}
	for _, o := range opts {
		o(e)
	}
	if e.backend == nil {
		b, err := newMalgoBackend()
		if err != nil {
			return nil, err
		}
		e.backend = b
		e.ownsBackend = true
	}
	if e.classifier == nil && cfg.BargeIn {
		e.classifier = resolveClassifier(cfg)
	}
	return e, nil
}

// BargeInAvailable reports whether the voice-activity capability resolved.
func (e *Engine) BargeInAvailable() bool { return e.classifier != nil }

// Play streams the waveform at path to the output device and returns true
// if playback was interrupted by detected speech, false if it completed
// naturally or interruption was disabled or unavailable.
//
// Errors that prevent the session from starting (unreadable file) are
// returned. Device failures mid-setup degrade to (false, nil) with a
// logged warning so an interaction loop keeps running.
func (e *Engine) Play(ctx context.Context, path string, allowBargeIn bool) (bool, error) {
	if e.closed {
		return false, ErrClosed
	}
	buf, err := LoadSample(path, e.cfg.SampleRate)
	if err != nil {
		return false, err
	}
	total := sampleDuration(len(buf), e.cfg.SampleRate)

	if !allowBargeIn || !e.cfg.BargeIn || e.classifier == nil {
		// Feature-detection fallback, not an error path.
		e.playPlain(ctx, buf, total)
		return false, nil
	}
	return e.playInterruptible(ctx, buf, total), nil
}

// playInterruptible runs one full barge-in-aware session: it primes the
// chunk FIFO, starts the capture monitor and the playback streamer
// concurrently, waits for either side to end the session, and tears both
// down deterministically.
func (e *Engine) playInterruptible(ctx context.Context, buf []float32, total time.Duration) bool {
	ctrl := &controlState{}
	feeder := newPlaybackFeeder(buf, e.cfg.chunkSize(), ctrl)

	e.classifier.Reset()
	mon := newSpeechMonitor(e.cfg.graceFrames(), e.cfg.minFrames())

	frameCh := make(chan []float32, 64)
	quit := make(chan struct{})
	monDone := make(chan struct{})

	capture, err := e.backend.OpenCapture(StreamConfig{e.cfg.SampleRate, e.cfg.frameSize()}, func(frame []float32) {
		select {
		case frameCh <- frame:
		default:
			// Monitor is lagging; dropping a frame beats stalling the device.
		}
	})
	if err != nil {
		slog.Warn("input device unavailable, playback aborted", "err", err)
		return false
	}

	playback, err := e.backend.OpenPlayback(StreamConfig{e.cfg.SampleRate, e.cfg.chunkSize()}, func(out []float32) {
		feeder.fill(out)
	})
	if err != nil {
		slog.Warn("output device unavailable, playback aborted", "err", err)
		stopStream(capture, "capture")
		return false
	}

	start := time.Now()
	go func() {
		defer close(monDone)
		for {
			select {
			case <-quit:
				mon.stopExternal()
				return
			case frame := <-frameCh:
				if ctrl.finished() {
					mon.stopExternal()
					return
				}
				isSpeech, err := e.classifier.Classify(frame)
				if err != nil {
					slog.Warn("speech classification failed", "err", err)
					continue
				}
				if mon.observe(isSpeech) {
					if ctrl.tryBarge() && e.cb.OnBargeIn != nil {
						e.cb.OnBargeIn(time.Since(start))
					}
					return
				}
			}
		}
	}()

	if err := capture.Start(); err != nil {
		slog.Warn("capture start failed, playback aborted", "err", err)
		close(quit)
		stopStream(capture, "capture")
		stopStream(playback, "playback")
		<-monDone
		return false
	}
	if err := playback.Start(); err != nil {
		slog.Warn("playback start failed, playback aborted", "err", err)
		ctrl.requestStop()
		close(quit)
		stopStream(capture, "capture")
		stopStream(playback, "playback")
		<-monDone
		return false
	}
	if e.cb.OnPlaybackStart != nil {
		e.cb.OnPlaybackStart(total)
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for !ctrl.finished() {
		select {
		case <-ctx.Done():
			ctrl.requestStop()
		case <-ticker.C:
		}
	}

	// Guarantee both sides terminate regardless of which one won.
	ctrl.requestStop()
	close(quit)

	stopStream(playback, "playback")
	stopStream(capture, "capture")

	select {
	case <-monDone:
	case <-time.After(joinTimeout):
		slog.Warn("speech monitor did not exit within join timeout")
	}

	barged := ctrl.barged.Load()
	if e.cb.OnPlaybackEnd != nil {
		e.cb.OnPlaybackEnd(barged)
	}
	return barged
}

// playPlain is simple blocking playback with no interruption path, used
// when barge-in is disabled or the classifier capability is absent.
func (e *Engine) playPlain(ctx context.Context, buf []float32, total time.Duration) {
	ctrl := &controlState{}
	feeder := newPlaybackFeeder(buf, e.cfg.chunkSize(), ctrl)

	playback, err := e.backend.OpenPlayback(StreamConfig{e.cfg.SampleRate, e.cfg.chunkSize()}, func(out []float32) {
		feeder.fill(out)
	})
	if err != nil {
		slog.Warn("output device unavailable, playback skipped", "err", err)
		return
	}
	if err := playback.Start(); err != nil {
		slog.Warn("playback start failed", "err", err)
		stopStream(playback, "playback")
		return
	}
	if e.cb.OnPlaybackStart != nil {
		e.cb.OnPlaybackStart(total)
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for !ctrl.finished() {
		select {
		case <-ctx.Done():
			ctrl.requestStop()
		case <-ticker.C:
		}
	}
	ctrl.requestStop()
	stopStream(playback, "playback")

	if e.cb.OnPlaybackEnd != nil {
		e.cb.OnPlaybackEnd(false)
	}
}

// Close releases the classifier and, when owned, the audio backend. The
// engine must not be used after Close.
func (e *Engine) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	var firstErr error
	if e.classifier != nil {
		firstErr = e.classifier.Close()
	}
	if e.ownsBackend {
		if err := e.backend.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// stopStream stops and closes s without letting a wedged device callback
// hang the caller. On timeout the stream is abandoned; the outcome that
// was already latched still stands.
func stopStream(s Stream, name string) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := s.Stop(); err != nil {
			slog.Warn("stream stop failed", "stream", name, "err", err)
		}
		if err := s.Close(); err != nil {
			slog.Warn("stream close failed", "stream", name, "err", err)
		}
	}()
	select {
	case <-done:
	case <-time.After(joinTimeout):
		slog.Warn("stream teardown timed out", "stream", name)
	}
}

func sampleDuration(n, rate int) time.Duration {
	return time.Duration(n) * time.Second / time.Duration(rate)
}
