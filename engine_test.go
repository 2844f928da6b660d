package barge

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeStream drives its callback on a real-time ticker, mimicking an
// audio device clock. Start and Stop match the device contract: callbacks
// begin after Start and have ceased once Stop returns.
type fakeStream struct {
	tick time.Duration
	cb   func()

	quit chan struct{}
	done chan struct{}
	once sync.Once
}

func newFakeStream(tick time.Duration, cb func()) *fakeStream {
	return &fakeStream{tick: tick, cb: cb, quit: make(chan struct{}), done: make(chan struct{})}
}

func (s *fakeStream) Start() error {
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.tick)
		defer ticker.Stop()
		for {
			select {
			case <-s.quit:
				return
			case <-ticker.C:
				s.cb()
			}
		}
	}()
	return nil
}

func (s *fakeStream) Stop() error {
	s.once.Do(func() { close(s.quit) })
	<-s.done
	return nil
}

func (s *fakeStream) Close() error { return nil }

// fakeBackend simulates the two device streams on independent clocks:
// capture frames every capTick, playback fills every playTick.
type fakeBackend struct {
	capTick  time.Duration
	playTick time.Duration

	captureErr  error
	playbackErr error

	captureOpened atomic.Bool
	voicedFills   atomic.Int64 // playback fills that produced non-silent audio
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{capTick: time.Millisecond, playTick: 2 * time.Millisecond}
}

func (b *fakeBackend) OpenPlayback(cfg StreamConfig, fill func(out []float32)) (Stream, error) {
	if b.playbackErr != nil {
		return nil, b.playbackErr
	}
	out := make([]float32, cfg.PeriodFrames)
	return newFakeStream(b.playTick, func() {
		fill(out)
		if out[0] != 0 {
			b.voicedFills.Add(1)
		}
	}), nil
}

func (b *fakeBackend) OpenCapture(cfg StreamConfig, frames func(in []float32)) (Stream, error) {
	if b.captureErr != nil {
		return nil, b.captureErr
	}
	b.captureOpened.Store(true)
	frame := make([]float32, cfg.PeriodFrames)
	return newFakeStream(b.capTick, func() { frames(frame) }), nil
}

func (b *fakeBackend) Close() error { return nil }

// scriptedClassifier labels frames by their call index.
type scriptedClassifier struct {
	speech func(i int) bool
	calls  int
	resets int
}

func (c *scriptedClassifier) Classify([]float32) (bool, error) {
	i := c.calls
	c.calls++
	return c.speech(i), nil
}

func (c *scriptedClassifier) Reset()       { c.resets++ }
func (c *scriptedClassifier) Close() error { return nil }

func neverSpeech(int) bool { return false }

// writeTone writes a mono 16 kHz WAV of constant amplitude 0.5 so that
// every chunk the feeder delivers is distinguishable from silence.
func writeTone(t *testing.T, dur time.Duration) string {
	t.Helper()
	n := int(dur * DefaultSampleRate / time.Second)
	buf := make([]float32, n)
	for i := range buf {
		buf[i] = 0.5
	}
	path := filepath.Join(t.TempDir(), "tone.wav")
	if err := writeWAV(path, buf, DefaultSampleRate); err != nil {
		t.Fatalf("writeWAV: %v", err)
	}
	return path
}

func newTestEngine(t *testing.T, cfg Config, cb Callbacks, backend *fakeBackend, cls Classifier) *Engine {
	t.Helper()
	opts := []Option{WithBackend(backend)}
	if cls != nil {
		opts = append(opts, WithClassifier(cls))
	}
	e, err := New(cfg, cb, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { e.Close() })
	return e
}

func TestEngine_SustainedSpeechInterruptsPlayback(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	// Speech begins at frame index 20: past the 15-frame grace window,
	// so 12 consecutive speech frames complete the run at frame 32.
	cls := &scriptedClassifier{speech: func(i int) bool { return i >= 20 }}

	var bargeElapsed atomic.Int64
	var endedInterrupted atomic.Bool
	cb := Callbacks{
		OnBargeIn:     func(elapsed time.Duration) { bargeElapsed.Store(int64(elapsed)) },
		OnPlaybackEnd: func(interrupted bool) { endedInterrupted.Store(interrupted) },
	}
	e := newTestEngine(t, DefaultConfig(), cb, backend, cls)

	path := writeTone(t, 4*time.Second) // 100 chunks, far longer than the trigger point
	barged, err := e.Play(context.Background(), path, true)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if !barged {
		t.Fatal("Play reported natural completion, want interruption")
	}
	if !endedInterrupted.Load() {
		t.Fatal("OnPlaybackEnd reported interrupted=false")
	}
	if bargeElapsed.Load() <= 0 {
		t.Fatal("OnBargeIn did not fire")
	}
	if cls.resets != 1 {
		t.Fatalf("classifier resets = %d, want 1", cls.resets)
	}
	// Playback was cut off well before the buffer ran out.
	if fills := backend.voicedFills.Load(); fills >= 100 {
		t.Fatalf("playback ran to completion (%d voiced fills)", fills)
	}
}

func TestEngine_SilenceLetsPlaybackComplete(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	cls := &scriptedClassifier{speech: neverSpeech}

	var total atomic.Int64
	var ended atomic.Bool
	cb := Callbacks{
		OnPlaybackStart: func(d time.Duration) { total.Store(int64(d)) },
		OnBargeIn:       func(time.Duration) { t.Error("OnBargeIn fired without speech") },
		OnPlaybackEnd:   func(interrupted bool) { ended.Store(!interrupted) },
	}
	e := newTestEngine(t, DefaultConfig(), cb, backend, cls)

	path := writeTone(t, 200*time.Millisecond) // 5 chunks
	barged, err := e.Play(context.Background(), path, true)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if barged {
		t.Fatal("Play reported interruption without speech")
	}
	if !ended.Load() {
		t.Fatal("OnPlaybackEnd missing or reported interrupted=true")
	}
	if got := time.Duration(total.Load()); got != 200*time.Millisecond {
		t.Fatalf("OnPlaybackStart total = %v, want 200ms", got)
	}
	if fills := backend.voicedFills.Load(); fills != 5 {
		t.Fatalf("voiced fills = %d, want 5", fills)
	}
}

func TestEngine_RepeatedPlaysAreIndependent(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	cls := &scriptedClassifier{speech: neverSpeech}
	e := newTestEngine(t, DefaultConfig(), Callbacks{}, backend, cls)

	path := writeTone(t, 120*time.Millisecond) // 3 chunks
	for i := 0; i < 2; i++ {
		barged, err := e.Play(context.Background(), path, true)
		if err != nil {
			t.Fatalf("Play #%d: %v", i+1, err)
		}
		if barged {
			t.Fatalf("Play #%d reported interruption without speech", i+1)
		}
	}
	if cls.resets != 2 {
		t.Fatalf("classifier resets = %d, want 2", cls.resets)
	}
	if fills := backend.voicedFills.Load(); fills != 6 {
		t.Fatalf("voiced fills = %d, want 6", fills)
	}
}

func TestEngine_BargeInDisabledSkipsCapture(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	// Classifier would report speech immediately; it must never be consulted.
	cls := &scriptedClassifier{speech: func(int) bool { return true }}
	e := newTestEngine(t, DefaultConfig(), Callbacks{}, backend, cls)

	path := writeTone(t, 100*time.Millisecond)
	barged, err := e.Play(context.Background(), path, false)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if barged {
		t.Fatal("plain playback reported interruption")
	}
	if backend.captureOpened.Load() {
		t.Fatal("capture device opened with barge-in disallowed")
	}
	if cls.calls != 0 {
		t.Fatalf("classifier consulted %d times during plain playback", cls.calls)
	}
}

func TestEngine_NoClassifierDegradesToPlainPlayback(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	cfg := DefaultConfig()
	cfg.VADModelPath = "" // capability absent
	e := newTestEngine(t, cfg, Callbacks{}, backend, nil)

	if e.BargeInAvailable() {
		t.Fatal("BargeInAvailable with no model path")
	}
	path := writeTone(t, 100*time.Millisecond)
	barged, err := e.Play(context.Background(), path, true)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if barged {
		t.Fatal("degraded playback reported interruption")
	}
	if backend.captureOpened.Load() {
		t.Fatal("capture device opened without a classifier")
	}
}

func TestEngine_SpeechConfinedToGraceWindowIgnored(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	// Speech only on the first 15 frames, inside the 300 ms grace window.
	cls := &scriptedClassifier{speech: func(i int) bool { return i < 15 }}
	cb := Callbacks{OnBargeIn: func(time.Duration) { t.Error("grace-window speech triggered a barge-in") }}
	e := newTestEngine(t, DefaultConfig(), cb, backend, cls)

	path := writeTone(t, 200*time.Millisecond)
	barged, err := e.Play(context.Background(), path, true)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if barged {
		t.Fatal("Play reported interruption from grace-window speech")
	}
}

func TestEngine_EmptySampleCompletesImmediately(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	cls := &scriptedClassifier{speech: neverSpeech}
	e := newTestEngine(t, DefaultConfig(), Callbacks{}, backend, cls)

	path := writeTone(t, 0)
	start := time.Now()
	barged, err := e.Play(context.Background(), path, true)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if barged {
		t.Fatal("empty sample reported interruption")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("empty sample took %v to complete", elapsed)
	}
	if fills := backend.voicedFills.Load(); fills != 0 {
		t.Fatalf("voiced fills = %d for empty sample", fills)
	}
}

func TestEngine_ContextCancelStopsPlayback(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	cls := &scriptedClassifier{speech: neverSpeech}
	e := newTestEngine(t, DefaultConfig(), Callbacks{}, backend, cls)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	path := writeTone(t, 2*time.Second)
	start := time.Now()
	barged, err := e.Play(ctx, path, true)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if barged {
		t.Fatal("cancellation reported as interruption")
	}
	// 50 chunks at the fake playback clock would take ~100 ms; the cancel
	// must end the session well before that.
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("cancelled playback took %v", elapsed)
	}
	if fills := backend.voicedFills.Load(); fills >= 50 {
		t.Fatalf("playback ran to completion (%d voiced fills) despite cancel", fills)
	}
}

func TestEngine_CaptureFailureDegradesWithoutError(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	backend.captureErr = context.DeadlineExceeded // any sentinel will do
	cls := &scriptedClassifier{speech: func(int) bool { return true }}
	e := newTestEngine(t, DefaultConfig(), Callbacks{}, backend, cls)

	path := writeTone(t, 100*time.Millisecond)
	barged, err := e.Play(context.Background(), path, true)
	if err != nil {
		t.Fatalf("Play returned error for device failure: %v", err)
	}
	if barged {
		t.Fatal("device failure reported as interruption")
	}
}

func TestEngine_PlayAfterClose(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	e := newTestEngine(t, DefaultConfig(), Callbacks{}, backend, &scriptedClassifier{speech: neverSpeech})
	if err := e.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := e.Play(context.Background(), "tone.wav", true); err != ErrClosed {
		t.Fatalf("Play after Close: got %v, want ErrClosed", err)
	}
}

func TestEngine_MissingFileReturnsError(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	e := newTestEngine(t, DefaultConfig(), Callbacks{}, backend, &scriptedClassifier{speech: neverSpeech})

	if _, err := e.Play(context.Background(), filepath.Join(t.TempDir(), "missing.wav"), true); err == nil {
		t.Fatal("expected error for missing sample file")
	}
	if backend.captureOpened.Load() {
		t.Fatal("capture device opened for a failed load")
	}
}
