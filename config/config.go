// Package config provides the YAML configuration schema and loader for
// the voicebot command.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	// LogLevel is one of debug, info, warn, error. Defaults to info.
	LogLevel string `yaml:"log_level"`

	// SampleRate is the canonical audio rate shared by capture,
	// playback, STT, and TTS. Defaults to 16000.
	SampleRate int `yaml:"sample_rate"`

	// RecordSeconds is how long each user turn is recorded.
	RecordSeconds int `yaml:"record_seconds"`

	BargeIn BargeInConfig `yaml:"barge_in"`
	Piper   PiperConfig   `yaml:"piper"`
	Whisper WhisperConfig `yaml:"whisper"`

	// FactsPath points to the tenant's project fact sheet.
	FactsPath string `yaml:"facts_path"`
}

// BargeInConfig controls playback interruption.
type BargeInConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Aggressiveness int    `yaml:"aggressiveness"`
	MinSpeechMs    int    `yaml:"min_speech_ms"`
	GraceMs        int    `yaml:"grace_ms"`
	ModelPath      string `yaml:"model_path"`
}

// PiperConfig locates the Piper binary and its voices.
type PiperConfig struct {
	Bin             string            `yaml:"bin"`
	Voices          map[string]string `yaml:"voices"` // lang code -> model path
	DefaultLang     string            `yaml:"default_lang"`
	SentenceSilence float64           `yaml:"sentence_silence"`
}

// WhisperConfig locates the whisper.cpp model.
type WhisperConfig struct {
	ModelPath string `yaml:"model_path"`
}

// Load reads the YAML configuration file at path, applies environment
// overrides, and returns a validated Config.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r, applies defaults and
// environment overrides, and validates the result. Useful in tests
// where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	applyDefaults(cfg)
	applyEnv(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 16000
	}
	if cfg.RecordSeconds == 0 {
		cfg.RecordSeconds = 5
	}
	if cfg.BargeIn.Aggressiveness == 0 {
		cfg.BargeIn.Aggressiveness = 2
	}
	if cfg.BargeIn.MinSpeechMs == 0 {
		cfg.BargeIn.MinSpeechMs = 250
	}
	if cfg.BargeIn.GraceMs == 0 {
		cfg.BargeIn.GraceMs = 300
	}
	if cfg.Piper.DefaultLang == "" {
		cfg.Piper.DefaultLang = "en"
	}
	if cfg.Piper.SentenceSilence == 0 {
		cfg.Piper.SentenceSilence = 0.6
	}
}

// applyEnv lets deployment-specific paths come from the environment,
// typically a .env file, without editing the YAML.
func applyEnv(cfg *Config) {
	if v := os.Getenv("PIPER_BIN"); v != "" {
		cfg.Piper.Bin = v
	}
	if v := os.Getenv("WHISPER_MODEL_PATH"); v != "" {
		cfg.Whisper.ModelPath = v
	}
	if v := os.Getenv("VAD_MODEL_PATH"); v != "" {
		cfg.BargeIn.ModelPath = v
	}
	if v := os.Getenv("FACTS_PATH"); v != "" {
		cfg.FactsPath = v
	}
}

// Validate checks that cfg contains a coherent set of values. It
// returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level %q is invalid; valid values: debug, info, warn, error", cfg.LogLevel))
	}
	if cfg.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("sample_rate must be > 0, got %d", cfg.SampleRate))
	}
	if cfg.RecordSeconds <= 0 {
		errs = append(errs, fmt.Errorf("record_seconds must be > 0, got %d", cfg.RecordSeconds))
	}
	if cfg.BargeIn.Aggressiveness < 0 || cfg.BargeIn.Aggressiveness > 3 {
		errs = append(errs, fmt.Errorf("barge_in.aggressiveness must be in [0, 3], got %d", cfg.BargeIn.Aggressiveness))
	}
	if cfg.Piper.Bin == "" {
		errs = append(errs, errors.New("piper.bin is required"))
	}
	if len(cfg.Piper.Voices) == 0 {
		errs = append(errs, errors.New("piper.voices must define at least one voice"))
	} else if _, ok := cfg.Piper.Voices[cfg.Piper.DefaultLang]; !ok {
		errs = append(errs, fmt.Errorf("piper.default_lang %q has no voice", cfg.Piper.DefaultLang))
	}
	if cfg.Whisper.ModelPath == "" {
		errs = append(errs, errors.New("whisper.model_path is required"))
	}
	if cfg.FactsPath == "" {
		errs = append(errs, errors.New("facts_path is required"))
	}

	return errors.Join(errs...)
}
