package watch

import (
	"context"
	"sync"

	"docq/internal/api"
	"docq/internal/polling"
)

// JobWatcher polls a job's processing status until it reaches done. Its
// snapshot gates the job-wide report downloads.
type JobWatcher struct {
	jobID string
	task  *polling.Task
	opts  Options

	cancelOnce sync.Once

	mu     sync.Mutex
	status api.Status
}

// WatchJob starts polling GET /jobs/{id}/status at the configured interval
// (default 5s). The watcher starts from pending and converges on done.
func WatchJob(ctx context.Context, client *api.Client, jobID string, opts Options) (*JobWatcher, error) {
	w := &JobWatcher{jobID: jobID, opts: opts, status: api.StatusPending}

	task, err := polling.Start(ctx, polling.Config[api.JobStatus]{
		Interval: opts.interval(DefaultJobInterval),
		Logger:   opts.Logger,
		Fetch: func(ctx context.Context) (api.JobStatus, error) {
			return client.JobStatus(ctx, jobID)
		},
		Done: func(s api.JobStatus) bool {
			return s.Status == api.StatusDone
		},
		OnResult: func(s api.JobStatus) { w.apply(s.Status) },
		OnError: func(err error) {
			if opts.Metrics != nil {
				opts.Metrics.TickError("job")
			}
			if opts.OnError != nil {
				opts.OnError(err)
			}
		},
	})
	if err != nil {
		return nil, err
	}
	w.task = task

	if opts.Metrics != nil {
		opts.Metrics.WatchersActive.WithLabelValues("job").Inc()
	}
	return w, nil
}

func (w *JobWatcher) apply(observed api.Status) {
	if w.opts.Metrics != nil {
		w.opts.Metrics.TickOK("job")
	}

	w.mu.Lock()
	merged := Merge(w.status, observed)
	changed := merged != w.status
	w.status = merged
	w.mu.Unlock()

	if changed && w.opts.OnChange != nil {
		w.opts.OnChange(merged)
	}
}

// JobID returns the watched job's identifier.
func (w *JobWatcher) JobID() string {
	return w.jobID
}

// Status returns the latest merged observation.
func (w *JobWatcher) Status() api.Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// ReportsReady reports whether the job-wide report downloads may be
// offered. Downloads stay disabled until the job is done.
func (w *JobWatcher) ReportsReady() bool {
	return w.Status() == api.StatusDone
}

// Cancel stops the watcher. Safe to call more than once.
func (w *JobWatcher) Cancel() {
	w.cancelOnce.Do(func() {
		if w.opts.Metrics != nil {
			w.opts.Metrics.WatchersActive.WithLabelValues("job").Dec()
		}
		w.task.Cancel()
	})
}
