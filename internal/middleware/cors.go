// Package middleware provides reusable HTTP middleware for the recycling audit API.
//
// Middleware that rejects a request does not write its own body. It hands an
// error to an ErrorWriter so rejected requests get the same envelope as
// failures raised by handlers.
package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// ErrorWriter writes the error envelope for err. *respond.Responder satisfies it.
type ErrorWriter interface {
	Write(w http.ResponseWriter, r *http.Request, err error)
}

// NewCORSHandler returns a middleware that applies CORS headers based on allowedOrigins.
// Each entry in allowedOrigins must be a full origin (scheme + host, no trailing slash).
// The request id header is exposed so browser clients can quote it in bug reports.
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
	})
	return func(next http.Handler) http.Handler {
		return c.Handler(next)
	}
}
