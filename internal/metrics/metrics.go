// Package metrics registers and exposes the Prometheus instrumentation of
// the planifi backend: request counters and latencies plus counters for the
// request-safety layer (rate-limit rejections, idempotent replays, failed
// authentications).
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector the backend registers. All collectors live in
// one private registry so tests can create independent instances without
// tripping duplicate-registration errors on the global registerer.
type Metrics struct {
	registry *prometheus.Registry

	// RequestsTotal counts finished HTTP requests by method, route pattern
	// and status code.
	RequestsTotal *prometheus.CounterVec

	// RequestDuration observes HTTP request latency by method and route
	// pattern.
	RequestDuration *prometheus.HistogramVec

	// RateLimitRejections counts requests rejected with 429, labeled by the
	// kind of the bucket key ("user", "api-key", "ip").
	RateLimitRejections *prometheus.CounterVec

	// IdempotentReplays counts responses served from a stored idempotency
	// snapshot instead of re-running the operation.
	IdempotentReplays prometheus.Counter

	// AuthFailures counts rejected authentication attempts by reason
	// ("invalid_token", "invalid_api_key").
	AuthFailures *prometheus.CounterVec
}

// New creates a Metrics instance with its own registry, pre-registered with
// the Go runtime and process collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of processed HTTP requests.",
		}, []string{"method", "path", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		RateLimitRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rate_limit_rejections_total",
			Help: "Requests rejected by the rate limiter, by bucket key kind.",
		}, []string{"key_kind"}),
		IdempotentReplays: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "idempotent_replays_total",
			Help: "Responses replayed from a stored idempotency snapshot.",
		}),
		AuthFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_failures_total",
			Help: "Rejected authentication attempts, by reason.",
		}, []string{"reason"}),
	}

	registry.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.RateLimitRejections,
		m.IdempotentReplays,
		m.AuthFailures,
	)

	return m
}

// Handler returns the HTTP handler serving the /metrics endpoint for this
// instance's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(method, path string, status int, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}
