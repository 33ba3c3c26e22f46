package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/booking/internal/booking/metrics"
	"github.com/aussiebroadwan/booking/pkg/httpx"
)

type statusRecorder struct {
	http.ResponseWriter

	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Unwrap() http.ResponseWriter { return s.ResponseWriter }

// MetricsMiddleware records one observation per request labelled with the
// matched route pattern. It must wrap the ServeMux directly: the mux sets
// Pattern on the request it receives.
func MetricsMiddleware(m *metrics.Metrics) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			m.ObserveHTTP(r.Method, route, rec.status, time.Since(start))
		})
	}
}
