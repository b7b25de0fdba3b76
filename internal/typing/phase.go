package typing

// Phase is the lifecycle state of a session.
type Phase int

// Session phases.
const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseCompleted
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhaseCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Outcome reports what a key press did to the session.
type Outcome int

// Key press outcomes.
const (
	OutcomeIgnored Outcome = iota
	// OutcomeStarted means the key moved the session from idle to running.
	// The key itself was also typed.
	OutcomeStarted
	OutcomeTyped
	OutcomeErased
	// OutcomeMatched and OutcomeMissed are word commits.
	OutcomeMatched
	OutcomeMissed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeStarted:
		return "started"
	case OutcomeTyped:
		return "typed"
	case OutcomeErased:
		return "erased"
	case OutcomeMatched:
		return "matched"
	case OutcomeMissed:
		return "missed"
	default:
		return "unknown"
	}
}

// Committed reports whether the outcome finalized a word.
func (o Outcome) Committed() bool {
	return o == OutcomeMatched || o == OutcomeMissed
}
