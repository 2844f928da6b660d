package stt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	whisperlib "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
	"golang.org/x/text/unicode/norm"

	"github.com/propvoice/barge-go"
)

// Whisper implements Transcriber on the whisper.cpp CGO bindings. The
// model is loaded once; each Transcribe call runs on a fresh whisper
// context, so concurrent calls are safe although the interaction loop
// never issues them.
//
// Language handling is deliberately bilingual: every utterance is
// decoded both as English and as Hindi, and the decode whose script
// agrees with its claimed language wins. Short Hindi utterances defeat
// single-pass auto detection far too often for it to be trusted.
type Whisper struct {
	model whisperlib.Model
}

// NewWhisper loads the whisper.cpp model at modelPath.
func NewWhisper(modelPath string) (*Whisper, error) {
	if modelPath == "" {
		return nil, errors.New("whisper: model path must not be empty")
	}
	model, err := whisperlib.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("whisper: load model %q: %w", modelPath, err)
	}
	return &Whisper{model: model}, nil
}

// Close releases the model.
func (w *Whisper) Close() error {
	if w.model != nil {
		return w.model.Close()
	}
	return nil
}

// Transcribe decodes the WAV at wavPath as English and as Hindi and
// returns the decode that scores best. Silence or noise yields an empty
// Result with zero confidence rather than an error, so the interaction
// loop can reprompt.
func (w *Whisper) Transcribe(ctx context.Context, wavPath string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	samples, err := barge.LoadSample(wavPath, barge.DefaultSampleRate)
	if err != nil {
		return Result{}, fmt.Errorf("whisper: %w", err)
	}
	if len(samples) == 0 {
		return Result{Lang: "en"}, nil
	}

	textEN, errEN := w.decode(samples, "en")
	if errEN != nil {
		slog.Warn("english decode failed", "err", errEN)
	}
	textHI, errHI := w.decode(samples, "hi")
	if errHI != nil {
		slog.Warn("hindi decode failed", "err", errHI)
	}
	if errEN != nil && errHI != nil {
		return Result{}, fmt.Errorf("whisper: both decodes failed: %w", errors.Join(errEN, errHI))
	}

	scoreEN, scoreHI := 0, 0
	if errEN == nil && !isGibberish(textEN) {
		_, latin := scriptScore(textEN)
		scoreEN = latin + len([]rune(textEN))
	}
	if errHI == nil && !isGibberish(textHI) {
		devanagari, _ := scriptScore(textHI)
		scoreHI = devanagari + len([]rune(textHI))
	}

	switch {
	case scoreEN == 0 && scoreHI == 0:
		return Result{Lang: "en"}, nil
	case scoreHI >= scoreEN:
		return Result{Text: textHI, Lang: "hi", Confidence: 0.66}, nil
	default:
		return Result{Text: textEN, Lang: "en", Confidence: 0.66}, nil
	}
}

// decode runs one forced-language pass on a fresh whisper context and
// returns the NFC-normalized concatenation of all segments. NFC matters
// for Hindi output: decomposed matras break downstream matching.
func (w *Whisper) decode(samples []float32, lang string) (string, error) {
	wctx, err := w.model.NewContext()
	if err != nil {
		return "", fmt.Errorf("create context: %w", err)
	}
	if err := wctx.SetLanguage(lang); err != nil {
		slog.Warn("failed to set decode language", "language", lang, "err", err)
	}
	if err := wctx.Process(samples, nil, nil, nil); err != nil {
		return "", fmt.Errorf("process audio: %w", err)
	}

	var parts []string
	for {
		segment, err := wctx.NextSegment()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read segment: %w", err)
		}
		if text := strings.TrimSpace(segment.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return norm.NFC.String(strings.Join(parts, " ")), nil
}
