package barge

import (
	"log/slog"

	ort "github.com/yalue/onnxruntime_go"
)

// Classifier labels fixed-duration capture frames as speech or not. The
// frame length always equals the engine's capture frame size.
//
// A Classifier is used from a single monitor goroutine per session and
// does not need to be safe for concurrent use. Implementations must not
// retain the frame slice.
type Classifier interface {
	Classify(frame []float32) (bool, error)

	// Reset clears accumulated state between playback sessions.
	Reset()

	Close() error
}

// aggressivenessThreshold maps the ordinal sensitivity level onto a
// Silero speech-probability threshold. Higher aggressiveness means a
// lower bar for calling a frame speech.
func aggressivenessThreshold(level int) float32 {
	switch level {
	case 0:
		return 0.90
	case 1:
		return 0.80
	case 2:
		return 0.65
	default:
		return 0.50
	}
}

// resolveClassifier probes the optional voice-activity capability once,
// at engine construction. A nil result means the capability is absent
// and the engine degrades to plain, non-interruptible playback; it is
// never an error.
func resolveClassifier(cfg Config) Classifier {
	if cfg.VADModelPath == "" {
		slog.Debug("no VAD model configured; barge-in unavailable")
		return nil
	}
	if !pathExists(cfg.VADModelPath) {
		slog.Warn("VAD model not found; barge-in unavailable", "path", cfg.VADModelPath)
		return nil
	}
	if lib := resolveRuntimeLib(); lib != "" && !ort.IsInitialized() {
		ort.SetSharedLibraryPath(lib)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		slog.Warn("onnxruntime unavailable; barge-in unavailable", "err", err)
		return nil
	}
	c, err := newSileroClassifier(cfg.VADModelPath, cfg.frameSize(), aggressivenessThreshold(cfg.Aggressiveness))
	if err != nil {
		slog.Warn("VAD classifier failed to load; barge-in unavailable", "err", err)
		return nil
	}
	return c
}
