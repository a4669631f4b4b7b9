package watch

import (
	"log/slog"
	"time"

	"docq/internal/api"
	"docq/internal/metrics"
)

// Default polling cadences for the three watcher kinds.
const (
	DefaultJobInterval    = 5 * time.Second
	DefaultAnswerInterval = 10 * time.Second
)

// Options tunes a watcher. The zero value gives the kind's default
// interval, no callbacks and no metrics.
type Options struct {
	Interval time.Duration
	// OnChange fires when the merged status actually changes.
	OnChange func(api.Status)
	// OnError receives per-tick failures; the watcher keeps polling.
	OnError func(error)
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

func (o Options) interval(def time.Duration) time.Duration {
	if o.Interval > 0 {
		return o.Interval
	}
	return def
}

// Merge reconciles a newly observed status with the previously known one:
// last observed wins, except that a terminal status is never regressed
// back to pending by a stale observation.
func Merge(old, observed api.Status) api.Status {
	if old.Terminal() && observed == api.StatusPending {
		return old
	}
	return observed
}
