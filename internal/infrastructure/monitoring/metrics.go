package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the backend.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Service metrics
	ServiceCalls    *prometheus.CounterVec
	ServiceDuration *prometheus.HistogramVec

	// Terminal session metrics
	SessionsActive prometheus.Gauge
	SpawnsTotal    prometheus.Counter
	SpawnFailures  prometheus.Counter
	ExitsTotal     prometheus.Counter
	PTYBytesRead   prometheus.Counter

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSEvents      *prometheus.CounterVec
}

// NewMetrics creates a metrics collector backed by its own registry, so
// multiple collectors can coexist within one process (tests included).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "xterm_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "xterm_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),

		ServiceCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "xterm_service_calls_total",
				Help: "Total number of service tool invocations",
			},
			[]string{"service", "tool", "status"},
		),
		ServiceDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "xterm_service_call_duration_seconds",
				Help:    "Service tool invocation duration in seconds",
				Buckets: []float64{.001, .01, .1, .5, 1, 5, 30},
			},
			[]string{"service", "tool"},
		),

		SessionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "xterm_pty_sessions_active",
				Help: "Number of live PTY sessions",
			},
		),
		SpawnsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "xterm_pty_spawns_total",
				Help: "Total number of PTY sessions spawned",
			},
		),
		SpawnFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "xterm_pty_spawn_failures_total",
				Help: "Total number of failed spawn attempts",
			},
		),
		ExitsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "xterm_pty_exits_total",
				Help: "Total number of PTY session exits",
			},
		),
		PTYBytesRead: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "xterm_pty_bytes_read_total",
				Help: "Total bytes read from PTY masters",
			},
		),

		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "xterm_ws_connections",
				Help: "Number of open WebSocket connections",
			},
		),
		WSEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "xterm_ws_events_total",
				Help: "Total events pushed over WebSocket",
			},
			[]string{"type"},
		),
	}
}

// Handler returns an HTTP handler exposing this collector's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records a completed HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordServiceCall records a completed service tool invocation.
func (m *Metrics) RecordServiceCall(service, tool, status string, duration time.Duration) {
	m.ServiceCalls.WithLabelValues(service, tool, status).Inc()
	m.ServiceDuration.WithLabelValues(service, tool).Observe(duration.Seconds())
}
