// Package model defines shared data structures.
package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidSettings is returned when session settings cannot keep the engine invariants.
var ErrInvalidSettings = errors.New("invalid session settings")

// Default session settings.
const (
	DefaultDuration        = 60 * time.Second
	DefaultBufferSize      = 50
	DefaultMinLookahead    = 20
	DefaultBatchSize       = 10
	DefaultTickInterval    = 100 * time.Millisecond
	DefaultStreakThreshold = 10
)

// Settings defines the tunables of a typing session.
type Settings struct {
	Duration        time.Duration
	BufferSize      int
	MinLookahead    int
	BatchSize       int
	TickInterval    time.Duration
	StreakThreshold int
}

// DefaultSettings returns the reference session settings.
func DefaultSettings() Settings {
	return Settings{
		Duration:        DefaultDuration,
		BufferSize:      DefaultBufferSize,
		MinLookahead:    DefaultMinLookahead,
		BatchSize:       DefaultBatchSize,
		TickInterval:    DefaultTickInterval,
		StreakThreshold: DefaultStreakThreshold,
	}
}

// Validate reports whether the settings are usable.
func (s Settings) Validate() error {
	switch {
	case s.Duration <= 0:
		return fmt.Errorf("%w: duration must be > 0", ErrInvalidSettings)
	case s.TickInterval <= 0:
		return fmt.Errorf("%w: tick interval must be > 0", ErrInvalidSettings)
	case s.MinLookahead <= 0:
		return fmt.Errorf("%w: lookahead must be > 0", ErrInvalidSettings)
	case s.BatchSize <= 0:
		return fmt.Errorf("%w: batch size must be > 0", ErrInvalidSettings)
	case s.BufferSize < s.MinLookahead:
		return fmt.Errorf("%w: buffer size %d is smaller than lookahead %d", ErrInvalidSettings, s.BufferSize, s.MinLookahead)
	case s.StreakThreshold < 0:
		return fmt.Errorf("%w: streak threshold must be >= 0", ErrInvalidSettings)
	}
	return nil
}

// PlayConfig defines the resolved options of the play command.
type PlayConfig struct {
	Settings  Settings
	WordsFile string
	Seed      int64
}

// LogConfig defines logger output.
type LogConfig struct {
	Level  string
	File   string
	Format string
}
