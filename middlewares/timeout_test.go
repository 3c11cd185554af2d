package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/beacon/internal"
	"github.com/dmitrymomot/beacon/middlewares"
)

func TestTimeout(t *testing.T) {
	t.Parallel()

	t.Run("fast handler completes", func(t *testing.T) {
		t.Parallel()

		rec := serveWith(middlewares.Timeout(time.Second), func(c internal.Context) error {
			return c.String(http.StatusOK, "done")
		}, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, "done", rec.Body.String())
	})

	t.Run("slow handler times out", func(t *testing.T) {
		t.Parallel()

		var caught error
		app := internal.New(
			internal.WithMiddleware(middlewares.Timeout(10*time.Millisecond)),
			internal.WithErrorHandler(func(c internal.Context, err error) error {
				caught = err
				return c.NoContent(http.StatusGatewayTimeout)
			}),
		)
		app.Handle(http.MethodGet, "/slow", func(c internal.Context) error {
			select {
			case <-middlewares.GetTimeoutContext(c).Done():
			case <-time.After(5 * time.Second):
			}
			return nil
		})

		rec := httptest.NewRecorder()
		app.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/slow", nil))

		assert.Equal(t, http.StatusGatewayTimeout, rec.Code)

		te, ok := middlewares.AsTimeoutError(caught)
		require.True(t, ok)
		assert.Equal(t, 10*time.Millisecond, te.Duration)
	})
}
