package middleware

import (
	"fmt"
	"net/http"

	"github.com/ecocycle/recycle-api/internal/apperr"
)

// NewMaxBodySizeHandler returns a middleware that limits incoming request body
// sizes to limit bytes.
//
// A request whose Content-Length already exceeds the limit is rejected with
// 413 before the next handler runs. Otherwise the body is wrapped in
// http.MaxBytesReader, so a streaming body that grows past the limit fails
// on read with *http.MaxBytesError; the handler decoding it reports the 413.
func NewMaxBodySizeHandler(limit int64, ew ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				ew.Write(w, r, TooLarge(limit))
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

// TooLarge is the 413 error for a body over limit bytes.
func TooLarge(limit int64) error {
	return apperr.New(http.StatusRequestEntityTooLarge,
		fmt.Sprintf("request body must not exceed %d bytes", limit)).
		WithPayload("limit", limit)
}
