package httpx

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	CodeRateLimited            = "Server.RateLimited"
	CodeRateLimiterUnavailable = "Server.RateLimiterUnavailable"
)

// Limiter reports whether one more request from key fits the current window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type RateLimitOptions struct {
	Logger *slog.Logger
	// FailOpen lets requests through when the limiter itself errors.
	FailOpen   bool
	RetryAfter time.Duration
}

// WithRateLimit keys requests by client address and rejects those the
// limiter refuses with 429.
func WithRateLimit(l Limiter, opts RateLimitOptions) Middleware {
	retryAfter := ""
	if secs := int(opts.RetryAfter.Seconds()); secs > 0 {
		retryAfter = strconv.Itoa(secs)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, err := l.Allow(r.Context(), clientKey(r))
			switch {
			case err != nil:
				if opts.Logger != nil {
					opts.Logger.Warn("rate limiter error", "err", err)
				}
				if !opts.FailOpen {
					WriteError(w, http.StatusServiceUnavailable, CodeRateLimiterUnavailable, "rate limiter unavailable")
					return
				}
			case !ok:
				if retryAfter != "" {
					w.Header().Set("Retry-After", retryAfter)
				}
				WriteError(w, http.StatusTooManyRequests, CodeRateLimited, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimiter is an in-process fixed-window Limiter for single-instance
// deployments.
type RateLimiter struct {
	limit  int
	window time.Duration

	mu        sync.Mutex
	windows   map[string]*window
	nextSweep time.Time
	now       func() time.Time
}

type window struct {
	count int
	ends  time.Time
}

func NewRateLimiter(limit int, per time.Duration) *RateLimiter {
	return &RateLimiter{limit: limit, window: per, windows: map[string]*window{}, now: time.Now}
}

func (rl *RateLimiter) Allow(_ context.Context, key string) (bool, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweep(now)
	w, ok := rl.windows[key]
	if !ok || !now.Before(w.ends) {
		rl.windows[key] = &window{count: 1, ends: now.Add(rl.window)}
		return true, nil
	}
	if w.count >= rl.limit {
		return false, nil
	}
	w.count++
	return true, nil
}

// sweep drops expired windows at most once per window length so idle
// clients do not accumulate.
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Before(rl.nextSweep) {
		return
	}
	for k, w := range rl.windows {
		if !now.Before(w.ends) {
			delete(rl.windows, k)
		}
	}
	rl.nextSweep = now.Add(rl.window)
}

// clientKey prefers the first X-Forwarded-For hop, as set by the ingress.
func clientKey(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
