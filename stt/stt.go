// Package stt transcribes recorded utterances. The production path is
// the whisper.cpp CGO bindings; decoding is wrapped in bilingual
// English/Hindi guardrails that score competing decodes by script and
// reject hallucinated output.
package stt

import "context"

// Result is one transcription outcome.
type Result struct {
	Text string
	// Lang is the decided language code ("en" or "hi"). It is "en" when
	// nothing usable was decoded.
	Lang string
	// Confidence is a coarse confidence in Lang, not in the text.
	Confidence float64
}

// Transcriber converts a WAV file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, wavPath string) (Result, error)
	Close() error
}
