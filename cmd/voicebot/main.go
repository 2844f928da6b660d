// Command voicebot is a bilingual real-estate voice assistant: it
// records the caller, transcribes with whisper.cpp, answers from a YAML
// fact sheet, and speaks replies through Piper with barge-in enabled
// playback, so the caller can interrupt the bot mid-sentence.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/propvoice/barge-go"
	"github.com/propvoice/barge-go/config"
	"github.com/propvoice/barge-go/dialogue"
	"github.com/propvoice/barge-go/stt"
	"github.com/propvoice/barge-go/tts"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	// A .env next to the binary may override model and binary paths.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "voicebot: %v\n", err)
		return 1
	}

	slog.SetDefault(newLogger(cfg.LogLevel))
	slog.Info("voicebot starting",
		"config", *configPath,
		"barge_in", cfg.BargeIn.Enabled,
		"record_seconds", cfg.RecordSeconds,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Warm up the heavyweight resources concurrently; the whisper model
	// load dominates startup time.
	var (
		transcriber *stt.Whisper
		facts       *dialogue.Facts
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		transcriber, err = stt.NewWhisper(cfg.Whisper.ModelPath)
		return err
	})
	g.Go(func() error {
		var err error
		facts, err = dialogue.LoadFacts(cfg.FactsPath)
		return err
	})
	if err := g.Wait(); err != nil {
		slog.Error("startup failed", "err", err)
		return 1
	}
	defer transcriber.Close()

	synth, err := tts.NewPiper(cfg.Piper.Bin, cfg.Piper.Voices, cfg.Piper.DefaultLang,
		tts.WithSampleRate(cfg.SampleRate),
		tts.WithSentenceSilence(cfg.Piper.SentenceSilence),
	)
	if err != nil {
		slog.Error("piper setup failed", "err", err)
		return 1
	}

	engineCfg := barge.Config{
		SampleRate:     cfg.SampleRate,
		BargeIn:        cfg.BargeIn.Enabled,
		Aggressiveness: cfg.BargeIn.Aggressiveness,
		MinSpeechMs:    cfg.BargeIn.MinSpeechMs,
		GraceMs:        cfg.BargeIn.GraceMs,
		VADModelPath:   cfg.BargeIn.ModelPath,
	}
	engine, err := barge.New(engineCfg, barge.Callbacks{
		OnBargeIn: func(elapsed time.Duration) {
			slog.Info("caller interrupted playback", "elapsed", elapsed)
		},
	})
	if err != nil {
		slog.Error("audio engine setup failed", "err", err)
		return 1
	}
	defer engine.Close()

	if cfg.BargeIn.Enabled && !engine.BargeInAvailable() {
		slog.Warn("barge-in unavailable, playback will not be interruptible")
	}

	loop(ctx, cfg, engine, transcriber, synth, dialogue.NewRouter(facts))
	slog.Info("voicebot stopped")
	return 0
}

// loop runs the record -> transcribe -> route -> speak cycle until ctx
// is cancelled. After a barge-in the next recording starts immediately,
// so the words that interrupted the bot are part of the caller's turn.
func loop(ctx context.Context, cfg *config.Config, engine *barge.Engine,
	transcriber stt.Transcriber, synth tts.Synthesizer, router *dialogue.Router) {

	dctx := &dialogue.Ctx{}
	utterance := filepath.Join(os.TempDir(), "user_utt.wav")

	for ctx.Err() == nil {
		if err := engine.Record(ctx, utterance, time.Duration(cfg.RecordSeconds)*time.Second); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			slog.Warn("recording failed", "err", err)
			continue
		}

		result, err := transcriber.Transcribe(ctx, utterance)
		if err != nil {
			slog.Warn("transcription failed", "err", err)
			continue
		}
		slog.Debug("heard", "text", result.Text, "lang", result.Lang, "confidence", result.Confidence)

		var reply, lang string
		if result.Text == "" {
			reply, lang = dialogue.Reprompt(result.Lang), result.Lang
		} else {
			lang = dialogue.ChooseLanguage(result.Text, result.Lang)
			if lang == "" {
				lang = "en"
			}
			text := dialogue.Normalize(result.Text, lang)
			reply = router.Route(text, lang, dctx)
			slog.Debug("routed",
				"intent", dctx.LastIntent,
				"category", dctx.Category,
				"project", dctx.Project,
				"attribute", dctx.Attribute,
			)
		}

		say(ctx, engine, synth, reply, lang)

		if dctx.Handoff {
			slog.Info("handing off to a representative")
			return
		}
	}
}

// say synthesizes and plays one reply. Failures are logged and the
// turn is skipped.
func say(ctx context.Context, engine *barge.Engine, synth tts.Synthesizer, text, lang string) {
	wavPath, err := synth.Synthesize(ctx, text, lang)
	if err != nil {
		slog.Warn("synthesis failed", "err", err)
		return
	}
	barged, err := engine.Play(ctx, wavPath, true)
	if err != nil {
		slog.Warn("playback failed", "err", err)
		return
	}
	if barged {
		slog.Debug("reply cut short by caller")
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
