package httpx

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Defaults used when a CORSPolicy leaves the list empty. They cover the
// JSON API: reads, creates, PUT updates and DELETE unassignments.
var (
	DefaultCORSMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	DefaultCORSHeaders = []string{"Content-Type", RequestIDHeader}
)

// CORSPolicy defines the CORS headers to emit for matching origins.
type CORSPolicy struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           time.Duration
}

type corsHeaders struct {
	origins     []string
	methods     string
	headers     string
	expose      string
	maxAge      string
	credentials bool
}

func (cfg CORSPolicy) compile() corsHeaders {
	methods := normalizeList(cfg.AllowedMethods)
	if len(methods) == 0 {
		methods = DefaultCORSMethods
	}
	headers := normalizeList(cfg.AllowedHeaders)
	if len(headers) == 0 {
		headers = DefaultCORSHeaders
	}
	c := corsHeaders{
		origins:     normalizeList(cfg.AllowedOrigins),
		methods:     strings.ToUpper(strings.Join(methods, ", ")),
		headers:     strings.Join(headers, ", "),
		expose:      RequestIDHeader,
		credentials: cfg.AllowCredentials,
	}
	if secs := int(cfg.MaxAge.Seconds()); secs > 0 {
		c.maxAge = strconv.Itoa(secs)
	}
	return c
}

// WithCORS answers preflights and tags responses for allowed origins.
// With no AllowedOrigins it is a no-op.
func WithCORS(cfg CORSPolicy) Middleware {
	c := cfg.compile()
	if len(c.origins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			allow, ok := matchOrigin(origin, c.origins, c.credentials)
			if origin == "" || !ok {
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("Access-Control-Allow-Origin", allow)
			h.Set("Access-Control-Expose-Headers", c.expose)
			h.Add("Vary", "Origin")
			if c.credentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}

			if r.Method != http.MethodOptions || r.Header.Get("Access-Control-Request-Method") == "" {
				next.ServeHTTP(w, r)
				return
			}
			h.Set("Access-Control-Allow-Methods", c.methods)
			h.Set("Access-Control-Allow-Headers", c.headers)
			if c.maxAge != "" {
				h.Set("Access-Control-Max-Age", c.maxAge)
			}
			h.Add("Vary", "Access-Control-Request-Method")
			h.Add("Vary", "Access-Control-Request-Headers")
			w.WriteHeader(http.StatusNoContent)
		})
	}
}

func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// matchOrigin echoes the origin back when credentials are allowed, since
// browsers reject "*" on credentialed requests.
func matchOrigin(origin string, allowed []string, allowCredentials bool) (string, bool) {
	for _, candidate := range allowed {
		switch {
		case candidate == "*" && allowCredentials:
			return origin, true
		case candidate == "*":
			return "*", true
		case strings.EqualFold(candidate, origin):
			return origin, true
		}
	}
	return "", false
}
