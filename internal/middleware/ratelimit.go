package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// NewRateLimiter returns a per-client-IP rate limiter allowing requests per
// window. A non-positive requests value disables limiting. Rejected requests
// get 429 with the standard error envelope.
//
// Wire it after chimiddleware.RealIP so proxied clients are told apart.
func NewRateLimiter(requests int, window time.Duration) func(http.Handler) http.Handler {
	if requests <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(requests, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			reject(w, http.StatusTooManyRequests, "Demasiadas solicitudes, intente más tarde")
		}),
	)
}
