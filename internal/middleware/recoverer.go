package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRecoverer returns a middleware that turns a handler panic into an
// unexpected-error envelope. It replaces chimiddleware.Recoverer, which
// writes a bare 500 with no body.
//
// If the handler had already started its response, the panic is only
// logged; the status line is gone and appending an envelope would corrupt
// the body. http.ErrAbortHandler is re-panicked so net/http can abort the
// connection.
func NewRecoverer(log *slog.Logger, ew ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.ErrorContext(r.Context(), "panic recovered",
					"panic", fmt.Sprint(rec),
					"response_started", ww.Status() != 0,
					"stack", string(debug.Stack()),
				)
				if ww.Status() != 0 {
					return
				}
				ew.Write(ww, r, fmt.Errorf("panic: %v", rec))
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
