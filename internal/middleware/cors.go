// Package middleware provides reusable HTTP middleware for the MealMate API.
package middleware

import (
	"net/http"
	"time"

	"github.com/rs/cors"
)

// NewCORSHandler returns a middleware that applies CORS headers for
// allowedOrigins. Each origin must be a full origin (scheme + host, no
// trailing slash). Browsers may cache a preflight answer for maxAge.
//
// The request ID header is exposed so browser clients can quote it when
// reporting a failed request.
func NewCORSHandler(allowedOrigins []string, maxAge time.Duration) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         int(maxAge / time.Second),
	})
	return c.Handler
}
