package typing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typeflow/internal/generator"
	"github.com/verte-zerg/typeflow/internal/model"
)

// cycleSource hands out words from a fixed list, in order, forever.
type cycleSource struct {
	words []string
	next  int
}

func (c *cycleSource) Initialize(size int) []string {
	c.next = 0
	return c.take(make([]string, 0, size), size)
}

func (c *cycleSource) EnsureLookahead(words []string, cursor, minLookahead, batch int) []string {
	if len(words)-cursor >= minLookahead {
		return words
	}
	return c.take(words, batch)
}

func (c *cycleSource) take(words []string, n int) []string {
	for i := 0; i < n; i++ {
		words = append(words, c.words[c.next%len(c.words)])
		c.next++
	}
	return words
}

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestSession(t *testing.T, words ...string) *Session {
	t.Helper()
	if len(words) == 0 {
		words = []string{"neural", "cipher", "daemon", "grid"}
	}
	s, err := NewSession(model.DefaultSettings(), &cycleSource{words: words})
	require.NoError(t, err)
	return s
}

func typeString(s *Session, text string, at time.Time) {
	for _, r := range text {
		s.HandleKey(Rune(r), at)
	}
}

func TestNewSessionIsIdle(t *testing.T) {
	s := newTestSession(t)
	snap := s.Snapshot()

	assert.Equal(t, PhaseIdle, snap.Phase)
	assert.Len(t, snap.Words, model.DefaultBufferSize)
	assert.Equal(t, 0, snap.CurrentWordIndex)
	assert.Empty(t, snap.CurrentInput)
	assert.True(t, snap.StartedAt.IsZero())
	assert.Equal(t, model.DefaultDuration, snap.TimeRemaining)
	assert.Equal(t, 100, snap.Stats.Accuracy)
	assert.Equal(t, 0, snap.Stats.WPM)
	assert.Equal(t, MoodIdle, snap.Mood)
	assert.NotEmpty(t, snap.ID)
}

func TestNewSessionRejectsInvalidSettings(t *testing.T) {
	settings := model.DefaultSettings()
	settings.BufferSize = 5
	_, err := NewSession(settings, &cycleSource{words: []string{"a"}})
	require.ErrorIs(t, err, model.ErrInvalidSettings)

	_, err = NewSession(model.DefaultSettings(), nil)
	require.Error(t, err)
}

func TestIdleIgnoresEverythingButBareLetters(t *testing.T) {
	s := newTestSession(t)
	before := s.Snapshot()

	keys := []KeyEvent{
		Backspace(),
		Space(),
		Rune('1'),
		Rune('.'),
		Rune('é'),
		{Key: "ArrowLeft"},
		{Key: "Shift"},
		{Key: "a", Ctrl: true},
		{Key: "b", Meta: true},
		{Key: ""},
	}
	for _, k := range keys {
		assert.Equal(t, OutcomeIgnored, s.HandleKey(k, t0), "key %q", k.Key)
		assert.Equal(t, before, s.Snapshot(), "key %q changed idle state", k.Key)
	}
}

func TestFirstLetterStartsAndCounts(t *testing.T) {
	s := newTestSession(t)

	out := s.HandleKey(Rune('n'), t0)
	require.Equal(t, OutcomeStarted, out)

	snap := s.Snapshot()
	assert.Equal(t, PhaseRunning, snap.Phase)
	assert.Equal(t, t0, snap.StartedAt)
	assert.Equal(t, "n", snap.CurrentInput)
	assert.Equal(t, MoodFocus, snap.Mood)
}

func TestUppercaseLetterStarts(t *testing.T) {
	s := newTestSession(t)
	assert.Equal(t, OutcomeStarted, s.HandleKey(Rune('N'), t0))
	assert.Equal(t, "N", s.Snapshot().CurrentInput)
}

func TestStartTimestampSetOnce(t *testing.T) {
	s := newTestSession(t)
	started := 0
	for i, r := range "neuralcipher" {
		if s.HandleKey(Rune(r), t0.Add(time.Duration(i)*time.Second)) == OutcomeStarted {
			started++
		}
	}
	assert.Equal(t, 1, started)
	assert.Equal(t, t0, s.Snapshot().StartedAt)
	assert.Equal(t, "neuralcipher", s.Snapshot().CurrentInput)
}

func TestCommitMatchingWord(t *testing.T) {
	s := newTestSession(t, "neural", "cipher")
	typeString(s, "neural", t0)
	before := s.Snapshot()

	out := s.HandleKey(Space(), t0)
	require.Equal(t, OutcomeMatched, out)

	res := s.Result()
	snap := s.Snapshot()
	assert.Equal(t, 7, res.CorrectChars)
	assert.Equal(t, 1, snap.Stats.Streak)
	assert.Equal(t, before.CurrentWordIndex+1, snap.CurrentWordIndex)
	assert.Empty(t, snap.CurrentInput)
	assert.Equal(t, 0, res.ErrorWords)
}

func TestCommitMismatchedWord(t *testing.T) {
	s := newTestSession(t, "cipher", "neural")
	typeString(s, "cipher", t0)
	require.Equal(t, OutcomeMatched, s.HandleKey(Space(), t0))
	typeString(s, "neural", t0)
	require.Equal(t, OutcomeMatched, s.HandleKey(Space(), t0))
	require.Equal(t, 2, s.Snapshot().Stats.Streak)
	require.Equal(t, "cipher", s.Snapshot().CurrentWord())

	typeString(s, "cyfer", t0)
	before := s.Snapshot()
	out := s.HandleKey(Space(), t0)
	require.Equal(t, OutcomeMissed, out)

	snap := s.Snapshot()
	assert.Equal(t, 1, s.Result().ErrorWords)
	assert.Equal(t, 0, snap.Stats.Streak)
	assert.Equal(t, before.CurrentWordIndex+1, snap.CurrentWordIndex)
	assert.Empty(t, snap.CurrentInput)
	assert.Equal(t, 2, s.Result().BestStreak)
}

func TestCommitIsCaseSensitive(t *testing.T) {
	s := newTestSession(t, "neural")
	typeString(s, "Neural", t0)
	assert.Equal(t, OutcomeMissed, s.HandleKey(Space(), t0))
}

func TestSpaceWithEmptyInputIgnored(t *testing.T) {
	s := newTestSession(t)
	typeString(s, "neural", t0)
	s.HandleKey(Space(), t0)
	before := s.Snapshot()

	assert.Equal(t, OutcomeIgnored, s.HandleKey(Space(), t0))
	assert.Equal(t, before, s.Snapshot())
}

func TestBackspace(t *testing.T) {
	s := newTestSession(t)
	typeString(s, "neu", t0)

	assert.Equal(t, OutcomeErased, s.HandleKey(Backspace(), t0))
	assert.Equal(t, "ne", s.Snapshot().CurrentInput)
	s.HandleKey(Backspace(), t0)
	s.HandleKey(Backspace(), t0)

	before := s.Snapshot()
	require.Empty(t, before.CurrentInput)
	assert.Equal(t, OutcomeIgnored, s.HandleKey(Backspace(), t0))
	assert.Equal(t, before, s.Snapshot())
}

func TestBackspaceRemovesWholeRune(t *testing.T) {
	s := newTestSession(t)
	s.HandleKey(Rune('n'), t0)
	s.HandleKey(Rune('é'), t0)
	s.HandleKey(Backspace(), t0)
	assert.Equal(t, "n", s.Snapshot().CurrentInput)
}

func TestBackspaceDoesNotCrossWordBoundary(t *testing.T) {
	s := newTestSession(t)
	typeString(s, "neural", t0)
	s.HandleKey(Space(), t0)
	before := s.Snapshot()

	s.HandleKey(Backspace(), t0)
	assert.Equal(t, before, s.Snapshot())
}

func TestPrintableKeysAppendedVerbatim(t *testing.T) {
	s := newTestSession(t)
	s.HandleKey(Rune('n'), t0)
	for _, k := range []KeyEvent{Rune('3'), Rune('!'), Rune('é')} {
		assert.Equal(t, OutcomeTyped, s.HandleKey(k, t0))
	}
	assert.Equal(t, "n3!é", s.Snapshot().CurrentInput)
}

func TestModifiedAndNamedKeysIgnoredWhileRunning(t *testing.T) {
	s := newTestSession(t)
	s.HandleKey(Rune('n'), t0)
	before := s.Snapshot()

	for _, k := range []KeyEvent{
		{Key: "a", Ctrl: true},
		{Key: "v", Meta: true},
		{Key: "ArrowRight"},
		{Key: "F5"},
		{Key: "Enter"},
		{Key: "\t"},
	} {
		assert.Equal(t, OutcomeIgnored, s.HandleKey(k, t0), "key %q", k.Key)
	}
	assert.Equal(t, before, s.Snapshot())
}

func TestLookaheadNeverStarves(t *testing.T) {
	g, err := generator.NewWithSeed([]string{"grid", "neon", "flux"}, 7)
	require.NoError(t, err)
	s, err := NewSession(model.DefaultSettings(), g)
	require.NoError(t, err)

	for i := 0; i < 500; i++ {
		snap := s.Snapshot()
		word := snap.CurrentWord()
		if i%3 == 0 {
			word = "x"
		}
		typeString(s, word, t0)
		require.True(t, s.HandleKey(Space(), t0).Committed())

		after := s.Snapshot()
		require.GreaterOrEqual(t, len(after.Words)-after.CurrentWordIndex, model.DefaultMinLookahead)
		require.Equal(t, snap.Words, after.Words[:len(snap.Words)], "existing words must not change")
	}
}

func TestTickCountsDown(t *testing.T) {
	s := newTestSession(t)
	s.HandleKey(Rune('n'), t0)

	assert.False(t, s.Tick(t0.Add(15*time.Second)))
	assert.Equal(t, 45*time.Second, s.Snapshot().TimeRemaining)
	assert.InDelta(t, 0.25, s.Snapshot().Stats.Progress, 1e-9)
}

func TestTickIgnoredWhenIdle(t *testing.T) {
	s := newTestSession(t)
	before := s.Snapshot()
	assert.False(t, s.Tick(t0.Add(time.Hour)))
	assert.Equal(t, before, s.Snapshot())
}

func TestTickClampsAndCompletesOnce(t *testing.T) {
	s := newTestSession(t)
	s.HandleKey(Rune('n'), t0)

	assert.False(t, s.Tick(t0.Add(-time.Second)))
	assert.Equal(t, model.DefaultDuration, s.Snapshot().TimeRemaining)

	completions := 0
	for _, d := range []time.Duration{30, 59, 60, 61, 90} {
		if s.Tick(t0.Add(d * time.Second)) {
			completions++
		}
		assert.GreaterOrEqual(t, s.Snapshot().TimeRemaining, time.Duration(0))
	}
	assert.Equal(t, 1, completions)
	assert.Equal(t, PhaseCompleted, s.Phase())
	assert.Equal(t, time.Duration(0), s.Snapshot().TimeRemaining)
	assert.Equal(t, 1.0, s.Snapshot().Stats.Progress)
}

func TestCompletedSessionIsFrozen(t *testing.T) {
	s := newTestSession(t)
	typeString(s, "neural", t0)
	s.HandleKey(Space(), t0)
	typeString(s, "ci", t0)
	require.True(t, s.Tick(t0.Add(time.Minute)))
	before := s.Snapshot()
	beforeResult := s.Result()

	for _, k := range []KeyEvent{Rune('p'), Space(), Backspace(), Rune('N'), {Key: "Enter"}} {
		assert.Equal(t, OutcomeIgnored, s.HandleKey(k, t0.Add(2*time.Minute)))
	}
	assert.False(t, s.Tick(t0.Add(3*time.Minute)))
	assert.Equal(t, before, s.Snapshot())
	assert.Equal(t, beforeResult, s.Result())
}

func TestResetFromEveryPhase(t *testing.T) {
	check := func(t *testing.T, s *Session, prevID string) {
		t.Helper()
		snap := s.Snapshot()
		res := s.Result()
		assert.Equal(t, PhaseIdle, snap.Phase)
		assert.Len(t, snap.Words, model.DefaultBufferSize)
		assert.Equal(t, 0, snap.CurrentWordIndex)
		assert.Empty(t, snap.CurrentInput)
		assert.True(t, snap.StartedAt.IsZero())
		assert.Equal(t, model.DefaultDuration, snap.TimeRemaining)
		assert.Zero(t, res.CorrectChars)
		assert.Zero(t, res.ErrorWords)
		assert.Zero(t, res.CorrectWords)
		assert.Zero(t, res.BestStreak)
		assert.Empty(t, res.Samples)
		assert.Zero(t, snap.Stats.Streak)
		assert.NotEqual(t, prevID, snap.ID)
	}

	t.Run("idle", func(t *testing.T) {
		s := newTestSession(t)
		id := s.ID()
		s.Reset()
		check(t, s, id)
		id = s.ID()
		s.Reset()
		check(t, s, id)
	})
	t.Run("running", func(t *testing.T) {
		s := newTestSession(t)
		typeString(s, "neural", t0)
		s.HandleKey(Space(), t0)
		typeString(s, "cyf", t0)
		s.Tick(t0.Add(10 * time.Second))
		id := s.ID()
		s.Reset()
		check(t, s, id)
	})
	t.Run("completed", func(t *testing.T) {
		s := newTestSession(t)
		typeString(s, "neural", t0)
		s.HandleKey(Space(), t0)
		require.True(t, s.Tick(t0.Add(time.Minute)))
		id := s.ID()
		s.Reset()
		check(t, s, id)
	})
}

func TestResetAllowsNewStart(t *testing.T) {
	s := newTestSession(t)
	s.HandleKey(Rune('n'), t0)
	s.Reset()

	later := t0.Add(5 * time.Minute)
	require.Equal(t, OutcomeStarted, s.HandleKey(Rune('n'), later))
	assert.Equal(t, later, s.Snapshot().StartedAt)
}

func TestStatsOverSession(t *testing.T) {
	s := newTestSession(t, "neural", "cipher", "daemon", "grid")
	typeString(s, "neural", t0)
	s.HandleKey(Space(), t0)
	typeString(s, "cipher", t0)
	s.HandleKey(Space(), t0)
	typeString(s, "demon", t0)
	s.HandleKey(Space(), t0)

	s.Tick(t0.Add(30 * time.Second))
	snap := s.Snapshot()
	// 14 correct characters over half a minute.
	assert.Equal(t, 6, snap.Stats.WPM)
	// 14 / (14 + 1).
	assert.Equal(t, 93, snap.Stats.Accuracy)
	assert.Equal(t, 0, snap.Stats.Streak)
}

func TestTraceSamplesWhileRunning(t *testing.T) {
	s := newTestSession(t)
	typeString(s, "neural", t0)
	s.HandleKey(Space(), t0)
	for ms := 100; ms <= 3000; ms += 100 {
		s.Tick(t0.Add(time.Duration(ms) * time.Millisecond))
	}
	samples := s.Result().Samples
	require.Len(t, samples, 3)
	assert.Equal(t, time.Second, samples[0].Elapsed)
	assert.Greater(t, samples[0].WPM, samples[2].WPM)
}

func TestStreakMood(t *testing.T) {
	s := newTestSession(t, "grid")
	for i := 0; i < 11; i++ {
		typeString(s, "grid", t0)
		s.HandleKey(Space(), t0)
	}
	assert.Equal(t, 11, s.Snapshot().Stats.Streak)
	assert.Equal(t, MoodStreak, s.Snapshot().Mood)
}
