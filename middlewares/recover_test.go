package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/beacon/internal"
	"github.com/dmitrymomot/beacon/middlewares"
)

func TestRecover(t *testing.T) {
	t.Parallel()

	t.Run("panic becomes a PanicError", func(t *testing.T) {
		t.Parallel()

		var caught error
		app := internal.New(
			internal.WithMiddleware(middlewares.Recover()),
			internal.WithErrorHandler(func(c internal.Context, err error) error {
				caught = err
				return c.NoContent(http.StatusInternalServerError)
			}),
		)
		app.Handle(http.MethodGet, "/", func(internal.Context) error {
			panic("boom")
		})

		rec := httptest.NewRecorder()
		app.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		pe, ok := middlewares.AsPanicError(caught)
		require.True(t, ok)
		assert.Equal(t, "boom", pe.Value)
		assert.NotEmpty(t, pe.Stack)
	})

	t.Run("stack capture can be disabled", func(t *testing.T) {
		t.Parallel()

		var caught error
		app := internal.New(
			internal.WithMiddleware(middlewares.Recover(middlewares.WithRecoverDisablePrintStack())),
			internal.WithErrorHandler(func(c internal.Context, err error) error {
				caught = err
				return c.NoContent(http.StatusInternalServerError)
			}),
		)
		app.Handle(http.MethodGet, "/", func(internal.Context) error {
			panic("boom")
		})

		app.Router().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		pe, ok := middlewares.AsPanicError(caught)
		require.True(t, ok)
		assert.Nil(t, pe.Stack)
	})

	t.Run("no panic passes through", func(t *testing.T) {
		t.Parallel()

		rec := serveWith(middlewares.Recover(), func(c internal.Context) error {
			return c.String(http.StatusOK, "fine")
		}, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, "fine", rec.Body.String())
	})
}
