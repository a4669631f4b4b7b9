package polling

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Config describes one repeated-fetch loop: observe a resource through
// Fetch until Done reports a terminal result or the task is cancelled.
type Config[T any] struct {
	// Interval is the fixed delay between ticks.
	Interval time.Duration
	// Fetch performs one observation.
	Fetch func(ctx context.Context) (T, error)
	// Done is the terminal predicate over a decoded observation.
	Done func(T) bool
	// OnResult receives every delivered observation, the terminal one
	// last. Never invoked after Cancel or after the terminal delivery.
	// A handler may call Cancel on its own task.
	OnResult func(T)
	// OnError receives per-tick fetch failures. A failed tick is not
	// terminal; the loop keeps its cadence.
	OnError func(error)

	Logger *slog.Logger
}

// Start begins polling and returns a handle for cancellation. The first
// tick is issued immediately; the timer is armed independently of tick
// completion, so a slow request may overlap the next tick. Handler
// invocations are serialized, and a terminal or cancelled task discards
// results from ticks still in flight.
func Start[T any](ctx context.Context, cfg Config[T]) (*Task, error) {
	if cfg.Interval <= 0 {
		return nil, errors.New("polling: interval must be positive")
	}
	if cfg.Fetch == nil {
		return nil, errors.New("polling: fetch function is required")
	}
	if cfg.Done == nil {
		return nil, errors.New("polling: terminal predicate is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sched, stopSched := context.WithCancel(ctx)
	t := &Task{stopSched: stopSched}

	// Fetch deliberately runs against the parent context, not the
	// scheduling one: cancellation is advisory for in-flight requests.
	// Their results are suppressed rather than aborted mid-transfer.
	//
	// Handlers run under deliverMu, not Task.mu, so a handler may call
	// Cancel or Stopped on its own task without deadlocking.
	var deliverMu sync.Mutex
	tick := func() {
		v, err := cfg.Fetch(ctx)

		deliverMu.Lock()
		defer deliverMu.Unlock()

		t.mu.Lock()
		if t.stopped {
			t.mu.Unlock()
			return
		}
		terminal := err == nil && cfg.Done(v)
		if terminal {
			// Mark before delivering so an overlapping stale tick
			// can never resurrect a non-terminal state afterwards.
			t.stopped = true
		}
		t.mu.Unlock()

		if err != nil {
			logger.Debug("poll tick failed", "error", err)
			if cfg.OnError != nil {
				cfg.OnError(err)
			}
			return
		}
		if cfg.OnResult != nil {
			cfg.OnResult(v)
		}
		if terminal {
			stopSched()
		}
	}

	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		go tick()

		for {
			select {
			case <-sched.Done():
				return
			case <-ticker.C:
				go tick()
			}
		}
	}()

	return t, nil
}
