package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is the collection of Prometheus metrics for the client core:
// polling activity, token refresh outcomes and forced logouts.
type Metrics struct {
	PollTicksTotal  *prometheus.CounterVec
	PollErrorsTotal *prometheus.CounterVec
	WatchersActive  *prometheus.GaugeVec

	RefreshTotal       *prometheus.CounterVec
	ForcedLogoutsTotal prometheus.Counter

	registry *prometheus.Registry
}

// NewMetrics creates and registers all collectors on a private registry so
// parallel instances (tests) do not collide.
func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.PollTicksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docq_poll_ticks_total",
			Help: "Total polling ticks issued, by watcher kind and outcome",
		},
		[]string{"watcher", "outcome"},
	)

	m.PollErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docq_poll_errors_total",
			Help: "Total polling ticks that failed at transport or decode level",
		},
		[]string{"watcher"},
	)

	m.WatchersActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "docq_watchers_active",
			Help: "Currently running poll tasks, by watcher kind",
		},
		[]string{"watcher"},
	)

	m.RefreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docq_token_refresh_total",
			Help: "Token refresh attempts, by outcome",
		},
		[]string{"outcome"},
	)

	m.ForcedLogoutsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "docq_forced_logouts_total",
			Help: "Sessions cleared because token renewal failed",
		},
	)

	m.registry.MustRegister(
		m.PollTicksTotal,
		m.PollErrorsTotal,
		m.WatchersActive,
		m.RefreshTotal,
		m.ForcedLogoutsTotal,
	)

	return m
}

// Handler returns an HTTP handler exposing the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// TickOK records a delivered polling observation.
func (m *Metrics) TickOK(watcher string) {
	m.PollTicksTotal.WithLabelValues(watcher, "ok").Inc()
}

// TickError records a failed polling tick.
func (m *Metrics) TickError(watcher string) {
	m.PollTicksTotal.WithLabelValues(watcher, "error").Inc()
	m.PollErrorsTotal.WithLabelValues(watcher).Inc()
}

// RefreshOutcome records one token renewal attempt.
func (m *Metrics) RefreshOutcome(ok bool) {
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	m.RefreshTotal.WithLabelValues(outcome).Inc()
}
