package obs

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records outgoing API calls. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry
	inFlight prometheus.Gauge
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the client collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "jera_api_in_flight_requests",
			Help: "API requests awaiting a response.",
		}),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jera_api_requests_total",
				Help: "API requests by method, resource and status.",
			},
			[]string{"method", "resource", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "jera_api_request_duration_seconds",
				Help:    "API request latencies in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "resource"},
		),
	}
	m.registry.MustRegister(m.inFlight, m.requests, m.duration)
	return m
}

// Registry exposes the collectors for tests and custom exporters.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Start marks a request in flight and returns the function that records it.
// status 0 means the request never got a response.
func (m *Metrics) Start(method, path string) func(status int) {
	if m == nil {
		return func(int) {}
	}
	resource := Resource(path)
	start := time.Now()
	m.inFlight.Inc()

	return func(status int) {
		m.inFlight.Dec()
		code := "error"
		if status > 0 {
			code = strconv.Itoa(status)
		}
		m.requests.WithLabelValues(method, resource, code).Inc()
		m.duration.WithLabelValues(method, resource).Observe(time.Since(start).Seconds())
	}
}

// Resource collapses a request path to a low-cardinality label:
// "/tasks/project/12" -> "tasks/project", "/users/3" -> "users".
func Resource(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	var parts []string
	for _, seg := range strings.Split(strings.Trim(path, "/"), "/") {
		if seg == "" {
			continue
		}
		if _, err := strconv.ParseInt(seg, 10, 64); err == nil {
			continue
		}
		parts = append(parts, seg)
	}
	if len(parts) == 0 {
		return "/"
	}
	return strings.Join(parts, "/")
}
