package httpx

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// WithRecover turns a panic into a generic 500 and logs the full detail.
// The client never sees the panic value.
func WithRecover(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Error("panic serving request",
					"request_id", RequestIDFromContext(r.Context()),
					"method", r.Method,
					"path", r.URL.Path,
					"panic", rec,
					"stack", string(debug.Stack()),
				)
				WriteInternalError(w)
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// WriteInternalError writes the non-leaking failure envelope.
func WriteInternalError(w http.ResponseWriter) {
	WriteError(w, http.StatusInternalServerError, "Server.InternalError",
		"An internal server error occurred. Please try again later.")
}
