package middleware

import (
	"net/http"
	"strconv"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pkordes/pilgrimages/backend/internal/metrics"
)

// NewMetricsHandler returns a middleware that records request count and
// latency in the Prometheus collectors of package metrics. Requests are
// labelled by chi route pattern rather than raw path so that document IDs do
// not explode label cardinality.
func NewMetricsHandler() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := routePattern(r)
			if route == "" {
				route = "unmatched"
			}
			metrics.APIRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).Inc()
			metrics.APIRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}
