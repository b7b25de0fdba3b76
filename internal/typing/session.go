// Package typing implements the timed typing session engine: the word
// buffer, the keystroke interpreter, the session clock and the derived
// statistics.
//
// A Session is not safe for concurrent use. Callers serialize key presses,
// ticks and resets, either by owning the session on one goroutine or through
// the runner package.
package typing

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/verte-zerg/typeflow/internal/model"
	"github.com/verte-zerg/typeflow/internal/stats"
)

// WordSource fills and extends the session's word buffer.
type WordSource interface {
	Initialize(size int) []string
	EnsureLookahead(words []string, cursor, minLookahead, batch int) []string
}

// Session holds the state of one typing exercise between resets.
type Session struct {
	settings model.Settings
	source   WordSource

	id        string
	phase     Phase
	words     []string
	cursor    int
	input     []rune
	startedAt time.Time
	remaining time.Duration

	correctChars int
	errorWords   int
	correctWords int
	streak       int
	bestStreak   int

	trace *stats.Trace
}

// Snapshot is a read-only view of a session.
type Snapshot struct {
	ID               string
	Phase            Phase
	Words            []string
	CurrentWordIndex int
	CurrentInput     string
	Stats            stats.Metrics
	Mood             Mood
	TimeRemaining    time.Duration
	StartedAt        time.Time
}

// CurrentWord returns the word under the cursor.
func (s Snapshot) CurrentWord() string {
	if s.CurrentWordIndex < 0 || s.CurrentWordIndex >= len(s.Words) {
		return ""
	}
	return s.Words[s.CurrentWordIndex]
}

// NewSession validates settings and returns an idle session.
func NewSession(settings model.Settings, source WordSource) (*Session, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if source == nil {
		return nil, fmt.Errorf("word source is nil")
	}
	s := &Session{settings: settings, source: source}
	s.Reset()
	return s, nil
}

// Reset returns the session to the canonical idle state with a fresh word
// buffer and a new ID. It is valid in every phase.
func (s *Session) Reset() {
	s.id = uuid.NewString()
	s.phase = PhaseIdle
	s.words = s.source.Initialize(s.settings.BufferSize)
	s.cursor = 0
	s.input = nil
	s.startedAt = time.Time{}
	s.remaining = s.settings.Duration
	s.correctChars = 0
	s.errorWords = 0
	s.correctWords = 0
	s.streak = 0
	s.bestStreak = 0
	s.trace = stats.NewTrace(time.Second)
}

// ID returns the identifier minted at the last reset.
func (s *Session) ID() string {
	return s.id
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	return s.phase
}

// Settings returns the session settings.
func (s *Session) Settings() model.Settings {
	return s.settings
}

// HandleKey applies one key press at time now.
func (s *Session) HandleKey(ev KeyEvent, now time.Time) Outcome {
	started := false
	switch s.phase {
	case PhaseCompleted:
		return OutcomeIgnored
	case PhaseIdle:
		if !ev.startsSession() {
			return OutcomeIgnored
		}
		s.start(now)
		started = true
	}

	outcome := s.interpret(ev)
	if started {
		return OutcomeStarted
	}
	return outcome
}

func (s *Session) start(now time.Time) {
	s.phase = PhaseRunning
	s.startedAt = now
	s.remaining = s.settings.Duration
}

func (s *Session) interpret(ev KeyEvent) Outcome {
	switch ev.Key {
	case KeyBackspace:
		if len(s.input) == 0 {
			return OutcomeIgnored
		}
		s.input = s.input[:len(s.input)-1]
		return OutcomeErased
	case KeySpace:
		return s.commit()
	}
	if !ev.bare() {
		return OutcomeIgnored
	}
	r, ok := ev.char()
	if !ok {
		return OutcomeIgnored
	}
	s.input = append(s.input, r)
	return OutcomeTyped
}

func (s *Session) commit() Outcome {
	if len(s.input) == 0 {
		return OutcomeIgnored
	}
	if s.cursor >= len(s.words) {
		panic(fmt.Sprintf("typing: cursor %d outran word buffer of %d", s.cursor, len(s.words)))
	}
	target := s.words[s.cursor]

	outcome := OutcomeMissed
	if string(s.input) == target {
		outcome = OutcomeMatched
		s.correctChars += utf8.RuneCountInString(target) + 1
		s.correctWords++
		s.streak++
		if s.streak > s.bestStreak {
			s.bestStreak = s.streak
		}
	} else {
		s.errorWords++
		s.streak = 0
	}

	s.cursor++
	s.input = nil
	s.words = s.source.EnsureLookahead(s.words, s.cursor, s.settings.MinLookahead, s.settings.BatchSize)
	return outcome
}

// Tick advances the session clock to now. It reports true exactly once per
// session: on the tick that completes it.
func (s *Session) Tick(now time.Time) bool {
	if s.phase != PhaseRunning {
		return false
	}
	elapsed := now.Sub(s.startedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	remaining := s.settings.Duration - elapsed
	if remaining < 0 {
		remaining = 0
	}
	s.remaining = remaining
	s.trace.Record(stats.Elapsed(remaining, s.settings.Duration), s.metrics())

	if remaining > 0 {
		return false
	}
	s.phase = PhaseCompleted
	return true
}

func (s *Session) metrics() stats.Metrics {
	return stats.Compute(s.correctChars, s.errorWords, s.streak, s.remaining, s.settings.Duration)
}

// Snapshot returns a copy of the current state with derived statistics.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		ID:               s.id,
		Phase:            s.phase,
		Words:            s.words[:len(s.words):len(s.words)],
		CurrentWordIndex: s.cursor,
		CurrentInput:     string(s.input),
		Stats:            s.metrics(),
		Mood:             MoodFor(s.phase, s.streak, s.settings.StreakThreshold),
		TimeRemaining:    s.remaining,
		StartedAt:        s.startedAt,
	}
}

// Result summarizes the session so far. It is final once the session has completed.
func (s *Session) Result() stats.Result {
	return stats.Result{
		SessionID:    s.id,
		StartedAt:    s.startedAt,
		Duration:     stats.Elapsed(s.remaining, s.settings.Duration),
		Metrics:      s.metrics(),
		CorrectChars: s.correctChars,
		CorrectWords: s.correctWords,
		ErrorWords:   s.errorWords,
		BestStreak:   s.bestStreak,
		Samples:      s.trace.Samples(),
	}
}
