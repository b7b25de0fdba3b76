package replay

import (
	"time"

	"github.com/verte-zerg/typeflow/internal/stats"
	"github.com/verte-zerg/typeflow/internal/typing"
)

// Play feeds steps to session as if they were typed from start, ticking the
// session clock every tick interval in between. Once the script is exhausted
// the clock keeps running until the session completes, so the returned result
// is final. A script that never starts the session yields an empty result.
func Play(session *typing.Session, steps []Step, start time.Time) stats.Result {
	tick := session.Settings().TickInterval
	var next time.Time

	advance := func(until time.Time) {
		for session.Phase() == typing.PhaseRunning && !next.After(until) {
			session.Tick(next)
			next = next.Add(tick)
		}
	}

	for _, step := range steps {
		at := start.Add(step.At)
		if session.Phase() == typing.PhaseRunning {
			advance(at)
		}
		if session.Phase() == typing.PhaseCompleted {
			break
		}
		if session.HandleKey(step.Key, at) == typing.OutcomeStarted {
			next = at.Add(tick)
		}
	}

	for session.Phase() == typing.PhaseRunning {
		session.Tick(next)
		next = next.Add(tick)
	}
	return session.Result()
}
