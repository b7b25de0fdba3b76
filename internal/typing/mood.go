package typing

// Mood is a cosmetic signal derived from the session for presentation.
type Mood string

// Moods.
const (
	MoodIdle   Mood = "idle"
	MoodFocus  Mood = "focus"
	MoodStreak Mood = "streak"
)

// MoodFor maps a phase and streak to a mood. A streak strictly above
// threshold while running is a streak mood. Completed sessions fall back to idle.
func MoodFor(phase Phase, streak, threshold int) Mood {
	switch phase {
	case PhaseRunning:
		if streak > threshold {
			return MoodStreak
		}
		return MoodFocus
	default:
		return MoodIdle
	}
}
