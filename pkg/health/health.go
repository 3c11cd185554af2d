package health

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// CheckFunc validates a single dependency. A non-nil error marks the
// service as not ready.
type CheckFunc func(ctx context.Context) error

// Liveness reports process liveness. It always succeeds while the
// process can serve requests.
func Liveness() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}

// Readiness runs all checks in parallel and reports 200 only when every
// check passes. Each invocation is bounded by a 5 second deadline.
func Readiness(checks ...CheckFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		g, ctx := errgroup.WithContext(ctx)
		for _, check := range checks {
			g.Go(func() error {
				return check(ctx)
			})
		}

		if err := g.Wait(); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
