// Package config holds the server configuration: listen address, book path,
// logging and the engine preset.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"chess-ai/engine"
)

type Config struct {
	Addr     string       `json:"addr"`
	BookPath string       `json:"book_path"`
	LogLevel string       `json:"log_level"`
	LogJSON  bool         `json:"log_json"`
	Static   string       `json:"static_dir"`
	Engine   EngineConfig `json:"engine"`
}

// EngineConfig selects a variant preset and optionally overrides its fields.
// Nil overrides keep the preset's value.
type EngineConfig struct {
	Variant             string `json:"variant"`
	MaxDepth            *int   `json:"max_depth,omitempty"`
	UseOpeningBook      *bool  `json:"use_opening_book,omitempty"`
	MateAwareEvaluation *bool  `json:"mate_aware_evaluation,omitempty"`
	MoveTimeoutMs       int    `json:"move_timeout_ms"`
}

func DefaultConfig() Config {
	return Config{
		Addr:     ":8080",
		BookPath: "book.bin",
		LogLevel: "info",
		Engine: EngineConfig{
			Variant: "full",
		},
	}
}

// Load reads a JSON file over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr is empty"))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if c.Engine.MoveTimeoutMs < 0 {
		errs = append(errs, fmt.Errorf("engine.move_timeout_ms %d is negative", c.Engine.MoveTimeoutMs))
	}
	if _, err := c.EngineOptions(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Level parses LogLevel; empty means info.
func (c Config) Level() (zerolog.Level, error) {
	if c.LogLevel == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log_level: %w", err)
	}
	return lvl, nil
}

// EngineOptions resolves the variant preset with the overrides applied.
func (c Config) EngineOptions() (engine.Options, error) {
	opts, err := engine.OptionsForVariant(c.Engine.Variant)
	if err != nil {
		return opts, fmt.Errorf("engine.variant: %w", err)
	}
	if c.Engine.MaxDepth != nil {
		opts.MaxDepth = *c.Engine.MaxDepth
	}
	if c.Engine.UseOpeningBook != nil {
		opts.UseOpeningBook = *c.Engine.UseOpeningBook
	}
	if c.Engine.MateAwareEvaluation != nil {
		opts.MateAwareEvaluation = *c.Engine.MateAwareEvaluation
	}
	opts.MoveTimeout = time.Duration(c.Engine.MoveTimeoutMs) * time.Millisecond
	if err := opts.Validate(); err != nil {
		return opts, fmt.Errorf("engine: %w", err)
	}
	return opts, nil
}
