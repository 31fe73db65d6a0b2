package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics tracks metrics for the HTTP API.
//
// Metrics:
//   - compass_http_requests_total: Total request count by route, method, code
//   - compass_http_request_duration_seconds: Request duration histogram
type HTTPMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewHTTPMetrics creates and registers HTTP metrics with the provided
// registry.
func NewHTTPMetrics(registry *prometheus.Registry) *HTTPMetrics {
	hm := &HTTPMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"route", "method", "code"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 5.0},
			},
			[]string{"route", "method"},
		),
	}

	registry.MustRegister(
		hm.requestsTotal,
		hm.requestDuration,
	)

	return hm
}

// RecordRequest records metrics for a completed HTTP request.
func (hm *HTTPMetrics) RecordRequest(route, method string, code int, duration time.Duration) {
	hm.requestsTotal.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	hm.requestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}
