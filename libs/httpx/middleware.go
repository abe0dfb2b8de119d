package httpx

import (
	"encoding/json"
	"net/http"
	"time"
)

type Middleware func(http.Handler) http.Handler

// Chain(h, a, b) serves requests through a, then b, then h.
func Chain(h http.Handler, m ...Middleware) http.Handler {
	for i := len(m) - 1; i >= 0; i-- {
		h = m[i](h)
	}
	return h
}

func WithBodyLimit(limitBytes int64) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, limitBytes)
			next.ServeHTTP(w, r)
		})
	}
}

const CodeTimeout = "Server.Timeout"

// WithTimeout answers 503 with an error envelope when next has not finished
// within d. The request context carries the same deadline.
func WithTimeout(d time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := json.Marshal(stamp(Envelope{Error: "request timed out", ErrorCode: CodeTimeout}))
			http.TimeoutHandler(next, d, string(body)).ServeHTTP(jsonOnTimeout{w}, r)
		})
	}
}

// jsonOnTimeout labels the timeout body as JSON. http.TimeoutHandler writes
// it without a content type, while completed responses bring their own.
type jsonOnTimeout struct{ http.ResponseWriter }

func (w jsonOnTimeout) WriteHeader(code int) {
	if code == http.StatusServiceUnavailable && w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
	w.ResponseWriter.WriteHeader(code)
}
