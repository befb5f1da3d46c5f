// Package middleware provides reusable HTTP middleware for the pilgrimage API.
package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// NewCORSHandler returns a middleware that applies CORS headers based on allowedOrigins.
// Each entry must be a full origin (scheme + host, no trailing slash); a "*"
// entry accepts every origin.
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         600,
	})
	return func(next http.Handler) http.Handler {
		return c.Handler(next)
	}
}
