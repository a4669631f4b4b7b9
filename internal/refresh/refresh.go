package refresh

import (
	"context"
	"log/slog"
	"time"

	"docq/internal/api"
	"docq/internal/metrics"
	"docq/internal/session"
)

// DefaultInterval is how often the background cycle silently renews the
// access token while the session is active.
const DefaultInterval = 5 * time.Minute

// Cycle periodically renews the bearer token before a request has to
// discover its expiry. Renewal failures here are ignored: the on-demand
// refresh inside the authenticated client remains the correctness path,
// the cycle only improves perceived latency.
type Cycle struct {
	Client   *api.Client
	Store    session.Store
	Interval time.Duration
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
}

// NewCycle creates a refresh cycle with the default interval.
func NewCycle(client *api.Client, store session.Store, logger *slog.Logger) *Cycle {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cycle{
		Client:   client,
		Store:    store,
		Interval: DefaultInterval,
		Logger:   logger,
	}
}

// Start runs the cycle until ctx is cancelled. It is meant to be launched
// in its own goroutine for the lifetime of the authenticated scope.
func (c *Cycle) Start(ctx context.Context) {
	interval := c.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	c.Logger.Debug("starting token refresh cycle", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.Logger.Debug("stopping token refresh cycle")
			return
		case <-ticker.C:
			c.renew(ctx)
		}
	}
}

func (c *Cycle) renew(ctx context.Context) {
	// Nothing to keep fresh without a session.
	if !c.Store.Load().Authenticated() {
		return
	}

	_, err := c.Client.RefreshToken(ctx)
	if c.Metrics != nil {
		c.Metrics.RefreshOutcome(err == nil)
	}
	if err != nil {
		// Expiry will be caught by the next request's 401 handling.
		c.Logger.Debug("background token renewal failed", "error", err)
		return
	}
	c.Logger.Debug("background token renewal succeeded")
}
