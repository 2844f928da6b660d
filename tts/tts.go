// Package tts turns reply text into WAV files for playback. The only
// production implementation shells out to a Piper binary; the interface
// exists so the interaction loop can be tested without one.
package tts

import "context"

// Synthesizer renders text in a given language into a WAV file on disk
// and returns its path. Implementations choose the output location.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, lang string) (string, error)
}
