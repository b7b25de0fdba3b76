package runner

import (
	"sync"

	"github.com/verte-zerg/typeflow/internal/stats"
	"github.com/verte-zerg/typeflow/internal/typing"
)

const completionBuffer = 4

// Subscription delivers snapshots and completions to one consumer.
//
// Updates holds at most one snapshot: a slow reader skips intermediate
// states and always sees the latest one. Completions are buffered.
type Subscription struct {
	runner      *Runner
	updates     chan typing.Snapshot
	completions chan stats.Result
	closeOnce   sync.Once
}

// Subscribe registers a new consumer. The current snapshot is delivered first.
func (r *Runner) Subscribe() *Subscription {
	sub := &Subscription{
		runner:      r,
		updates:     make(chan typing.Snapshot, 1),
		completions: make(chan stats.Result, completionBuffer),
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	sub.offerSnapshot(r.Snapshot())
	r.subs[sub] = struct{}{}
	return sub
}

// Updates returns the snapshot channel.
func (s *Subscription) Updates() <-chan typing.Snapshot {
	return s.updates
}

// Completions returns the channel receiving one result per completed session.
func (s *Subscription) Completions() <-chan stats.Result {
	return s.completions
}

// Close unregisters the subscription. Channels are left open.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		s.runner.mu.Lock()
		defer s.runner.mu.Unlock()
		delete(s.runner.subs, s)
	})
}

// offerSnapshot replaces any unread snapshot. Only the runner sends, so the
// second send cannot block.
func (s *Subscription) offerSnapshot(snap typing.Snapshot) {
	select {
	case s.updates <- snap:
		return
	default:
	}
	select {
	case <-s.updates:
	default:
	}
	select {
	case s.updates <- snap:
	default:
	}
}

func (s *Subscription) offerResult(res stats.Result) bool {
	select {
	case s.completions <- res:
		return true
	default:
		return false
	}
}
