// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/typeflow/internal/model"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Session SessionConfig `toml:"session"`
	Log     LogConfig     `toml:"log"`
}

// SessionConfig maps session-related settings. Nil fields are unset.
type SessionConfig struct {
	Duration        *Duration `toml:"duration"`
	Buffer          *int      `toml:"buffer"`
	Lookahead       *int      `toml:"lookahead"`
	Batch           *int      `toml:"batch"`
	Tick            *Duration `toml:"tick"`
	StreakThreshold *int      `toml:"streak-threshold"`
	WordsFile       *string   `toml:"words-file"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level  *string `toml:"level"`
	File   *string `toml:"file"`
	Format *string `toml:"format"`
}

// Duration is a time.Duration written as a Go duration string, e.g. "90s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// ApplySettings overlays the set session fields onto settings.
func (c SessionConfig) ApplySettings(settings *model.Settings) {
	if c.Duration != nil {
		settings.Duration = c.Duration.Duration
	}
	if c.Buffer != nil {
		settings.BufferSize = *c.Buffer
	}
	if c.Lookahead != nil {
		settings.MinLookahead = *c.Lookahead
	}
	if c.Batch != nil {
		settings.BatchSize = *c.Batch
	}
	if c.Tick != nil {
		settings.TickInterval = c.Tick.Duration
	}
	if c.StreakThreshold != nil {
		settings.StreakThreshold = *c.StreakThreshold
	}
}
