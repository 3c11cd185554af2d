package internal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func serve(app *App, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	app.Router().ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestAppRouting(t *testing.T) {
	t.Parallel()

	bundle := NewBundle("shop").Controller("products", func() Controller {
		ctrl := &struct{ Base }{}
		ctrl.Handle("action_show", func(c Context, params ...string) any {
			return "product:" + params[0]
		})
		ctrl.Handle("action_index", func(Context, ...string) any { return "catalog" })
		return ctrl
	})
	app := New(WithBundles(bundle))
	app.GET("/products", "shop.products@index")
	app.GET("/products/{id}", "shop.products@show")

	t.Run("static route", func(t *testing.T) {
		t.Parallel()

		rec := serve(app, http.MethodGet, "/products")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "catalog", rec.Body.String())
	})

	t.Run("url params become positional params", func(t *testing.T) {
		t.Parallel()

		rec := serve(app, http.MethodGet, "/products/42")
		assert.Equal(t, "product:42", rec.Body.String())
	})

	t.Run("unmatched route renders the 404 page", func(t *testing.T) {
		t.Parallel()

		rec := serve(app, http.MethodGet, "/nowhere")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "404")
	})
}

func TestAppRawHandler(t *testing.T) {
	t.Parallel()

	app := New()
	app.Handle(http.MethodGet, "/ping", func(c Context) error {
		return c.String(http.StatusOK, "pong")
	})
	app.Handle(http.MethodGet, "/fail", func(c Context) error {
		return ErrForbidden("nope")
	})

	rec := serve(app, http.MethodGet, "/ping")
	assert.Equal(t, "pong", rec.Body.String())

	rec = serve(app, http.MethodGet, "/fail")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "nope")
}

func TestAppMiddleware(t *testing.T) {
	t.Parallel()

	app := New(WithMiddleware(func(next HandlerFunc) HandlerFunc {
		return func(c Context) error {
			c.SetHeader("X-Trace", "on")
			return next(c)
		}
	}))
	app.Handle(http.MethodGet, "/", func(c Context) error {
		return c.NoContent(http.StatusOK)
	})

	rec := serve(app, http.MethodGet, "/")
	assert.Equal(t, "on", rec.Header().Get("X-Trace"))
}

func TestAppHealthEndpoints(t *testing.T) {
	t.Parallel()

	app := New(WithHealthChecks(
		WithReadinessCheck(func(ctx context.Context) error { return nil }),
	))

	rec := serve(app, http.MethodGet, "/health/live")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(app, http.MethodGet, "/health/ready")
	assert.Equal(t, http.StatusOK, rec.Code)
}
