package httpapi

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects per-route request counters and latencies.
type Metrics struct {
	registry     *prometheus.Registry
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	unauthorized prometheus.Counter
}

// NewMetrics constructs metrics on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "webmentionctl_requests_total",
			Help: "API requests by route and response status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "webmentionctl_request_duration_seconds",
			Help:    "API request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		unauthorized: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "webmentionctl_unauthorized_total",
			Help: "Responses that rejected the session token.",
		}),
	}
	m.registry.MustRegister(m.requests, m.duration, m.unauthorized)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// observe records a completed request. status 0 marks a transport failure.
func (m *Metrics) observe(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.requests.WithLabelValues(method, route, label).Inc()
	m.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
	if status == 401 {
		m.unauthorized.Inc()
	}
}

// WriteTextfile writes the current metrics in the node-exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
