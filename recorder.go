package barge

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	wav "github.com/youpy/go-wav"
)

// Record captures duration of microphone audio at the canonical rate and
// writes it to path as 16-bit mono PCM WAV. It blocks until the duration
// has been captured or ctx is cancelled; a cancelled recording still
// writes whatever was captured so far.
func (e *Engine) Record(ctx context.Context, path string, duration time.Duration) error {
	if e.closed {
		return ErrClosed
	}
	want := int(duration.Seconds() * float64(e.cfg.SampleRate))
	if want <= 0 {
		return fmt.Errorf("record: duration %v too short", duration)
	}

	var (
		mu      sync.Mutex
		samples []float32
	)
	done := make(chan struct{})
	var once sync.Once

	capture, err := e.backend.OpenCapture(StreamConfig{e.cfg.SampleRate, e.cfg.frameSize()}, func(frame []float32) {
		mu.Lock()
		if len(samples) < want {
			samples = append(samples, frame...)
		}
		full := len(samples) >= want
		mu.Unlock()
		if full {
			once.Do(func() { close(done) })
		}
	})
	if err != nil {
		return fmt.Errorf("record: %w", err)
	}
	if err := capture.Start(); err != nil {
		stopStream(capture, "capture")
		return fmt.Errorf("record: %w", err)
	}

	select {
	case <-done:
	case <-ctx.Done():
	}
	stopStream(capture, "capture")

	mu.Lock()
	out := samples
	if len(out) > want {
		out = out[:want]
	}
	mu.Unlock()

	if err := writeWAV(path, out, e.cfg.SampleRate); err != nil {
		return fmt.Errorf("record: %w", err)
	}
	return ctx.Err()
}

// writeWAV stores float32 samples as 16-bit mono PCM.
func writeWAV(path string, samples []float32, rate int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	wavSamples := make([]wav.Sample, len(samples))
	for i, v := range samples {
		if v < -1 {
			v = -1
		}
		if v > 1 {
			v = 1
		}
		wavSamples[i] = wav.Sample{Values: [2]int{int(v * 32767), 0}}
	}
	w := wav.NewWriter(f, uint32(len(wavSamples)), 1, uint32(rate), 16)
	return w.WriteSamples(wavSamples)
}
