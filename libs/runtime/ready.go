package runtime

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// ReadyCheck is a named dependency check for /readyz.
type ReadyCheck struct {
	Name     string
	Check    func(context.Context) error
	Optional bool
}

// NewBaseMuxWithReady registers /healthz and /readyz. Optional checks are
// reported in the body but never flip the status to 503.
func NewBaseMuxWithReady(checks ...ReadyCheck) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		failures, degraded := runChecks(r.Context(), checks)
		if len(failures) > 0 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(strings.Join(append(failures, degraded...), "; ")))
			return
		}
		w.WriteHeader(http.StatusOK)
		if len(degraded) > 0 {
			_, _ = w.Write([]byte("ok (degraded: " + strings.Join(degraded, "; ") + ")"))
			return
		}
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

func runChecks(ctx context.Context, checks []ReadyCheck) (failures, degraded []string) {
	for _, check := range checks {
		if check.Check == nil {
			continue
		}
		checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := check.Check(checkCtx)
		cancel()
		if err == nil {
			continue
		}
		name := check.Name
		if name == "" {
			name = "dependency"
		}
		if check.Optional {
			degraded = append(degraded, name+": "+err.Error())
			continue
		}
		failures = append(failures, name+": "+err.Error())
	}
	return failures, degraded
}
