// Package observability registers hopper's prometheus metrics and exposes
// the /metrics handler used by the HTTP control plane.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hopper/internal/queue"
)

// Claim attempt results.
const (
	ClaimResultClaimed = "claimed"
	ClaimResultEmpty   = "empty"
	ClaimResultError   = "error"
)

// Job outcomes.
const (
	OutcomeComplete = "complete"
	OutcomeError    = "error"
)

// Metrics holds the application metrics. All observe methods are nil-safe so
// callers without a metrics sink (one-shot CLI runs, tests) can pass nil.
type Metrics struct {
	registry *prometheus.Registry

	claimAttempts     *prometheus.CounterVec
	jobsProcessed     *prometheus.CounterVec
	processingSeconds prometheus.Histogram
	httpRequests      *prometheus.CounterVec
}

// New builds a Metrics set on a private registry so tests can instantiate it
// repeatedly.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		claimAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hopper_claim_attempts_total",
			Help: "Claim attempts by result (claimed, empty, error).",
		}, []string{"result"}),
		jobsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hopper_jobs_processed_total",
			Help: "Processed jobs by outcome (complete, error).",
		}, []string{"outcome"}),
		processingSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "hopper_processing_duration_seconds",
			Help:    "Per-job processing duration in seconds.",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hopper_http_requests_total",
			Help: "Control-plane requests by method and status code.",
		}, []string{"method", "code"}),
	}
}

// Handler serves the registry in prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveClaim records one claim attempt.
func (m *Metrics) ObserveClaim(result string) {
	if m == nil {
		return
	}
	m.claimAttempts.WithLabelValues(result).Inc()
}

// ObserveJob records one processed job and its duration.
func (m *Metrics) ObserveJob(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.jobsProcessed.WithLabelValues(outcome).Inc()
	m.processingSeconds.Observe(seconds)
}

// ObserveHTTP records one control-plane request.
func (m *Metrics) ObserveHTTP(method string, code int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, httpCodeLabel(code)).Inc()
}

func httpCodeLabel(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

// RegisterQueueDepth attaches an on-demand collector that walks the queue
// root at scrape time. No state is cached between scrapes; concurrent
// processes mutate the directories, so every scrape is a fresh read.
func (m *Metrics) RegisterQueueDepth(store *queue.Store) {
	if m == nil || store == nil {
		return
	}
	m.registry.MustRegister(newQueueDepthCollector(store))
}
