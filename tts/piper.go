package tts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	defaultSampleRate      = 16000
	defaultSentenceSilence = 0.6
	defaultTimeout         = 20 * time.Second

	// A valid WAV of even one synthesized phoneme is larger than this;
	// anything smaller means Piper wrote a header and died.
	minOutputBytes = 1024
)

// Piper synthesizes speech by invoking the Piper binary with text on
// stdin. One voice model per language; the language picks the voice and
// unknown languages fall back to the default.
//
// Safe for sequential use only: each call writes the same per-instance
// output file.
type Piper struct {
	bin         string
	voices      map[string]string // lang code -> model path
	defaultLang string

	sampleRate      int
	sentenceSilence float64
	timeout         time.Duration
	outDir          string
}

// PiperOption configures a Piper synthesizer.
type PiperOption func(*Piper)

// WithSampleRate sets the output WAV sample rate. Defaults to 16000,
// matching the playback engine's canonical rate.
func WithSampleRate(rate int) PiperOption {
	return func(p *Piper) { p.sampleRate = rate }
}

// WithSentenceSilence sets the pause, in seconds, Piper inserts between
// sentences. Defaults to 0.6.
func WithSentenceSilence(sec float64) PiperOption {
	return func(p *Piper) { p.sentenceSilence = sec }
}

// WithTimeout bounds a single synthesis run. Defaults to 20s.
func WithTimeout(d time.Duration) PiperOption {
	return func(p *Piper) { p.timeout = d }
}

// WithOutputDir sets where output WAV files are written. Defaults to the
// system temporary directory.
func WithOutputDir(dir string) PiperOption {
	return func(p *Piper) { p.outDir = dir }
}

// NewPiper creates a Piper synthesizer. voices maps language codes to
// voice model paths; defaultLang must be a key of voices and is used for
// any unmapped language.
func NewPiper(bin string, voices map[string]string, defaultLang string, opts ...PiperOption) (*Piper, error) {
	if bin == "" {
		return nil, errors.New("piper: binary path must not be empty")
	}
	if len(voices) == 0 {
		return nil, errors.New("piper: at least one voice is required")
	}
	if _, ok := voices[defaultLang]; !ok {
		return nil, fmt.Errorf("piper: default language %q has no voice", defaultLang)
	}
	p := &Piper{
		bin:             bin,
		voices:          voices,
		defaultLang:     defaultLang,
		sampleRate:      defaultSampleRate,
		sentenceSilence: defaultSentenceSilence,
		timeout:         defaultTimeout,
		outDir:          os.TempDir(),
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// Synthesize renders text into a WAV file and returns its path. Empty
// text is replaced by an ellipsis so the caller always gets audio.
func (p *Piper) Synthesize(ctx context.Context, text, lang string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		text = "..."
	}
	// Piper handles UTF-8 but not the danda.
	text = strings.ReplaceAll(text, "।", ".")

	voice, ok := p.voices[lang]
	if !ok {
		voice = p.voices[p.defaultLang]
	}
	outPath := filepath.Join(p.outDir, "bot_tts.wav")

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, p.bin,
		"--model", voice,
		"--output_file", outPath,
		"--output_sample_rate", strconv.Itoa(p.sampleRate),
		"--sentence_silence", strconv.FormatFloat(p.sentenceSilence, 'f', -1, 64),
	)
	// One newline-terminated utterance on stdin.
	cmd.Stdin = strings.NewReader(text + "\n")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("piper: timed out after %v: %s", p.timeout, strings.TrimSpace(stderr.String()))
		}
		return "", fmt.Errorf("piper: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	info, err := os.Stat(outPath)
	if err != nil || info.Size() < minOutputBytes {
		return "", errors.New("piper: produced no audio or an empty file")
	}
	return outPath, nil
}
