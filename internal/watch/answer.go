package watch

import (
	"context"
	"sync"

	"docq/internal/api"
	"docq/internal/polling"
)

// AnswerWatcher polls a single answer until the backend has finished with
// it, successfully or not, and an encoded answer payload is present. The
// richer detail payload is a separate one-shot fetch, not polled.
type AnswerWatcher struct {
	answerID int64
	task     *polling.Task
	opts     Options

	cancelOnce sync.Once

	mu      sync.Mutex
	status  api.Status
	encoded string
}

// WatchAnswer starts polling GET /answers/{id} at the configured interval
// (default 10s).
func WatchAnswer(ctx context.Context, client *api.Client, answerID int64, opts Options) (*AnswerWatcher, error) {
	w := &AnswerWatcher{answerID: answerID, opts: opts, status: api.StatusPending}

	task, err := polling.Start(ctx, polling.Config[api.AnswerStatus]{
		Interval: opts.interval(DefaultAnswerInterval),
		Logger:   opts.Logger,
		Fetch: func(ctx context.Context) (api.AnswerStatus, error) {
			return client.Answer(ctx, answerID)
		},
		Done: func(s api.AnswerStatus) bool {
			// error is terminal too, but only once the encoded
			// payload arrived; a bare terminal status keeps polling.
			return s.Status.Terminal() && s.AnswerEncoded != ""
		},
		OnResult: w.apply,
		OnError: func(err error) {
			if opts.Metrics != nil {
				opts.Metrics.TickError("answer")
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
		opts.Metrics.WatchersActive.WithLabelValues("answer").Inc()
	}
	return w, nil
}

func (w *AnswerWatcher) apply(s api.AnswerStatus) {
	if w.opts.Metrics != nil {
		w.opts.Metrics.TickOK("answer")
	}

	w.mu.Lock()
	merged := Merge(w.status, s.Status)
	changed := merged != w.status
	w.status = merged
	if s.AnswerEncoded != "" {
		w.encoded = s.AnswerEncoded
	}
	w.mu.Unlock()

	if changed && w.opts.OnChange != nil {
		w.opts.OnChange(merged)
	}
}

// AnswerID returns the watched answer's identifier.
func (w *AnswerWatcher) AnswerID() int64 {
	return w.answerID
}

// Status returns the latest merged observation.
func (w *AnswerWatcher) Status() api.Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// Encoded returns the encoded answer payload, empty while the answer is
// still being computed.
func (w *AnswerWatcher) Encoded() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.encoded
}

// Ready reports whether the answer has converged and its encoded payload
// is available.
func (w *AnswerWatcher) Ready() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status.Terminal() && w.encoded != ""
}

// Cancel stops the watcher. Safe to call more than once.
func (w *AnswerWatcher) Cancel() {
	w.cancelOnce.Do(func() {
		if w.opts.Metrics != nil {
			w.opts.Metrics.WatchersActive.WithLabelValues("answer").Dec()
		}
		w.task.Cancel()
	})
}
