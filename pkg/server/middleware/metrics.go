package middleware

import (
	"net/http"
	"time"

	"complyhq/compass/pkg/telemetry/metrics"
)

// MetricsMiddleware records request count and duration for a named route.
// The route label is fixed per handler registration so that path parameters
// and query strings do not blow up label cardinality.
func MetricsMiddleware(m *metrics.HTTPMetrics, route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m == nil {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rw := newResponseWriter(w)

			next.ServeHTTP(rw, r)

			m.RecordRequest(route, r.Method, rw.statusCode, time.Since(start))
		})
	}
}
