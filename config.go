package barge

import (
	"errors"
	"fmt"
)

const (
	// DefaultSampleRate is the canonical rate shared by the playback and
	// capture paths. Both device streams and the classifier run at this rate.
	DefaultSampleRate = 16000

	// frameMs is the capture frame duration consumed by the speech monitor.
	frameMs = 20

	// chunkMs is the playback chunk duration written per output callback.
	chunkMs = 40
)

// Config holds engine configuration. Durations are in milliseconds.
type Config struct {
	SampleRate int // canonical sample rate in Hz (e.g. 16000)

	// BargeIn is the master switch. When false every Play call uses plain
	// blocking playback and reports no interruption.
	BargeIn bool

	// Aggressiveness selects classifier sensitivity, 0 (least) to 3 (most
	// sensitive). It maps onto the Silero speech-probability threshold.
	Aggressiveness int

	// MinSpeechMs is how long speech must persist before playback is cut.
	MinSpeechMs int

	// GraceMs is the startup window during which microphone speech is
	// classified but ignored, so the assistant's own voice leaking into the
	// microphone cannot trigger an interruption.
	GraceMs int

	// VADModelPath is the path to silero_vad.onnx. When empty or missing the
	// classifier capability is absent and Play degrades to plain playback.
	VADModelPath string
}

// DefaultConfig returns the settings used by the original assistant loop.
func DefaultConfig() Config {
	return Config{
		SampleRate:     DefaultSampleRate,
		BargeIn:        true,
		Aggressiveness: 2,
		MinSpeechMs:    250,
		GraceMs:        300,
	}
}

// validateConfig checks cfg and returns an error on invalid values.
// A missing VADModelPath is not an error; it only disables barge-in.
func validateConfig(cfg Config) error {
	if cfg.SampleRate <= 0 {
		return errors.New("config: SampleRate must be > 0")
	}
	if cfg.SampleRate*frameMs%1000 != 0 {
		return fmt.Errorf("config: SampleRate %d does not yield whole %d ms frames", cfg.SampleRate, frameMs)
	}
	if cfg.Aggressiveness < 0 || cfg.Aggressiveness > 3 {
		return errors.New("config: Aggressiveness must be in [0, 3]")
	}
	if cfg.MinSpeechMs <= 0 {
		return errors.New("config: MinSpeechMs must be > 0")
	}
	if cfg.GraceMs < 0 {
		return errors.New("config: GraceMs must be >= 0")
	}
	return nil
}

// frameSize is the number of samples per capture frame.
func (c Config) frameSize() int { return c.SampleRate * frameMs / 1000 }

// chunkSize is the number of samples per playback chunk.
func (c Config) chunkSize() int { return c.SampleRate * chunkMs / 1000 }

// minFrames is the consecutive speech frame count that triggers a barge-in.
func (c Config) minFrames() int {
	n := c.MinSpeechMs / frameMs
	if n < 1 {
		n = 1
	}
	return n
}

// graceFrames is the number of leading frames that can never trigger.
func (c Config) graceFrames() int {
	n := c.GraceMs / frameMs
	if n < 0 {
		n = 0
	}
	return n
}
