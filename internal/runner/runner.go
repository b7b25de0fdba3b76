// Package runner drives a typing session from a single goroutine.
//
// Key presses, resets and clock ticks are queued and applied to the session
// strictly in arrival order, each one to completion. Consumers read state
// through snapshots and are told once per session when it completes.
package runner

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/verte-zerg/typeflow/internal/typing"
)

const defaultQueueSize = 256

var (
	// ErrStopped is returned when the runner loop has exited.
	ErrStopped = errors.New("runner stopped")
	// ErrAlreadyRunning is returned when Run is called twice.
	ErrAlreadyRunning = errors.New("runner already running")
)

type keyPress struct {
	key typing.KeyEvent
	gen uint64
}

type resetRequest struct {
	done chan struct{}
}

// Runner owns a session and serializes every mutation of it.
type Runner struct {
	session *typing.Session
	clock   typing.Clock
	logger  *zap.Logger
	tick    time.Duration

	events  chan any
	gen     atomic.Uint64
	latest  atomic.Pointer[typing.Snapshot]
	started atomic.Bool
	stopped chan struct{}

	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

// Option configures a Runner.
type Option func(*Runner)

// WithClock sets the time source read on key presses and ticks.
func WithClock(c typing.Clock) Option {
	return func(r *Runner) {
		r.clock = c
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

// WithQueueSize sets the capacity of the event queue.
func WithQueueSize(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.events = make(chan any, n)
		}
	}
}

// New returns a Runner for session. The session must not be touched by the
// caller afterwards.
func New(session *typing.Session, opts ...Option) *Runner {
	r := &Runner{
		session: session,
		clock:   typing.SystemClock{},
		logger:  zap.NewNop(),
		tick:    session.Settings().TickInterval,
		events:  make(chan any, defaultQueueSize),
		stopped: make(chan struct{}),
		subs:    map[*Subscription]struct{}{},
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.Named("runner")
	snap := session.Snapshot()
	r.latest.Store(&snap)
	return r
}

// Snapshot returns the state published after the last mutation.
func (r *Runner) Snapshot() typing.Snapshot {
	return *r.latest.Load()
}

// Done is closed when Run returns.
func (r *Runner) Done() <-chan struct{} {
	return r.stopped
}

// Submit queues a key press. Presses queued before a Reset call are dropped.
func (r *Runner) Submit(ev typing.KeyEvent) error {
	select {
	case <-r.stopped:
		return ErrStopped
	default:
	}
	select {
	case r.events <- keyPress{key: ev, gen: r.gen.Load()}:
		return nil
	case <-r.stopped:
		return ErrStopped
	}
}

// Reset returns the session to idle. It stops the clock, discards key presses
// submitted before the call and returns once the new session is in place.
func (r *Runner) Reset(ctx context.Context) error {
	wait, err := r.BeginReset()
	if err != nil {
		return err
	}
	return wait(ctx)
}

// BeginReset queues a reset without waiting for it. Key presses submitted
// after it returns apply to the new session. The returned function blocks
// until the reset has been applied.
func (r *Runner) BeginReset() (func(context.Context) error, error) {
	select {
	case <-r.stopped:
		return nil, ErrStopped
	default:
	}
	r.gen.Add(1)
	req := resetRequest{done: make(chan struct{})}
	select {
	case r.events <- req:
	case <-r.stopped:
		return nil, ErrStopped
	}
	return func(ctx context.Context) error {
		select {
		case <-req.done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-r.stopped:
			return ErrStopped
		}
	}, nil
}

// Run processes events until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	if !r.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer close(r.stopped)

	var clock *time.Ticker
	var ticks <-chan time.Time
	stopClock := func() {
		if clock != nil {
			clock.Stop()
			clock = nil
			ticks = nil
		}
	}
	defer stopClock()

	gen := r.gen.Load()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-r.events:
			switch e := ev.(type) {
			case keyPress:
				if e.gen != gen {
					r.logger.Debug("dropped stale key press", zap.String("key", e.key.Key))
					continue
				}
				outcome := r.session.HandleKey(e.key, r.clock.Now())
				if outcome == typing.OutcomeIgnored {
					continue
				}
				if outcome == typing.OutcomeStarted {
					stopClock()
					clock = time.NewTicker(r.tick)
					ticks = clock.C
					r.logger.Info("session started", zap.String("session_id", r.session.ID()))
				}
				r.publish()
			case resetRequest:
				stopClock()
				gen = r.gen.Load()
				prev := r.session.ID()
				r.session.Reset()
				r.logger.Info("session reset",
					zap.String("previous_session_id", prev),
					zap.String("session_id", r.session.ID()))
				r.publish()
				close(e.done)
			}
		case <-ticks:
			completed := r.session.Tick(r.clock.Now())
			if r.session.Phase() != typing.PhaseRunning {
				stopClock()
			}
			r.publish()
			if completed {
				r.complete()
			}
		}
	}
}

func (r *Runner) publish() {
	snap := r.session.Snapshot()
	r.latest.Store(&snap)
	r.mu.Lock()
	defer r.mu.Unlock()
	for sub := range r.subs {
		sub.offerSnapshot(snap)
	}
}

func (r *Runner) complete() {
	res := r.session.Result()
	r.logger.Info("session completed",
		zap.String("session_id", res.SessionID),
		zap.Int("wpm", res.Metrics.WPM),
		zap.Int("accuracy", res.Metrics.Accuracy),
		zap.Int("words", res.Committed()),
		zap.Int("best_streak", res.BestStreak))
	r.mu.Lock()
	defer r.mu.Unlock()
	for sub := range r.subs {
		if !sub.offerResult(res) {
			r.logger.Warn("completion dropped for slow subscriber", zap.String("session_id", res.SessionID))
		}
	}
}
