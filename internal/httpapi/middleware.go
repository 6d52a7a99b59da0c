package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ondcnet/bap-adapter/internal/telemetry"
)

// responseRecorder captures the status code a handler wrote so the
// metrics middleware can record it after the fact.
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rec *responseRecorder) WriteHeader(code int) {
	rec.statusCode = code
	rec.ResponseWriter.WriteHeader(code)
}

// WithMetrics records request count and latency for every façade
// request, skipping the /metrics scrape endpoint itself.
func WithMetrics(metrics *telemetry.HTTPMetrics, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		rec := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rec, r)

		metrics.Observe(r.Method, r.URL.Path, strconv.Itoa(rec.statusCode), time.Since(start))
	})
}
