package polling

import (
	"context"
	"sync"
)

// Task is the handle to one running poll loop. It has exactly two states,
// running and stopped, with a single one-way transition made either by
// Cancel or by the first terminal observation.
type Task struct {
	stopSched context.CancelFunc

	mu      sync.Mutex
	stopped bool
}

// Cancel stops all future scheduling. It is idempotent and safe to call
// while a request is in flight; that request's result is discarded.
func (t *Task) Cancel() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
	t.stopSched()
}

// Stopped reports whether the task has been cancelled or reached a
// terminal observation.
func (t *Task) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}
