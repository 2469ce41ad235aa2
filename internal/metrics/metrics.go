// Package metrics records Prometheus HTTP metrics for the ServeMux routes.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPMetrics holds the collectors for one service.
// Each instance owns its registry so several apps can coexist in tests.
type HTTPMetrics struct {
	ServiceName string
	registry    *prometheus.Registry

	requests       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	statusCategory *prometheus.CounterVec
	sweeps         prometheus.Counter
	alerts         prometheus.Gauge
}

// New creates and registers the collectors.
func New(serviceName string) *HTTPMetrics {
	m := &HTTPMetrics{
		ServiceName: serviceName,
		registry:    prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"service", "method", "path", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service", "method", "path", "status"},
		),
		statusCategory: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_status_category_total",
				Help: "Total number of responses by status category (2xx, 3xx, 4xx, 5xx)",
			},
			[]string{"service", "category"},
		),
		sweeps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "alert_sweeps_total",
			Help: "Number of alert recomputation sweeps",
		}),
		alerts: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "alerts_active",
			Help: "Alerts produced by the last sweep",
		}),
	}
	m.registry.MustRegister(
		m.requests, m.duration, m.statusCategory, m.sweeps, m.alerts,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *HTTPMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveSweep records one alert sweep that produced n alerts.
func (m *HTTPMetrics) ObserveSweep(n int) {
	m.sweeps.Inc()
	m.alerts.Set(float64(n))
}

func category(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

// Middleware must wrap the ServeMux directly: the mux fills r.Pattern on the
// request it receives, which gives a low-cardinality path label.
func (m *HTTPMetrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		path := r.Pattern
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(rec.status)
		m.requests.WithLabelValues(m.ServiceName, r.Method, path, status).Inc()
		m.duration.WithLabelValues(m.ServiceName, r.Method, path, status).Observe(time.Since(start).Seconds())
		m.statusCategory.WithLabelValues(m.ServiceName, category(rec.status)).Inc()
	})
}
