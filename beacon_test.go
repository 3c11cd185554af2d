package beacon_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/beacon"
	"github.com/dmitrymomot/beacon/pkg/session"
	"github.com/dmitrymomot/beacon/pkg/view"
)

type greeter struct {
	beacon.Base
}

func newGreeter() beacon.Controller {
	g := &greeter{}
	g.Layout = "main"
	g.Handle("action_index", g.index)
	g.Handle("action_hello", g.hello)
	return g
}

func (g *greeter) index(beacon.Context, ...string) any { return nil }

func (g *greeter) hello(c beacon.Context, params ...string) any {
	if len(params) == 0 {
		return beacon.ErrBadRequest("name required")
	}
	return "hello, " + params[0]
}

func newTestApp(t *testing.T) *beacon.App {
	t.Helper()

	sessions, err := beacon.NewSession(beacon.SessionConfig{Driver: session.DriverMemory}, beacon.SessionResources{})
	require.NoError(t, err)

	views := beacon.NewViewRegistry()
	views.Register("main", view.HTML("<main>welcome</main>"))

	bundle := beacon.NewBundle("site").Controller("greeter", newGreeter)

	app := beacon.New(
		beacon.WithBundles(bundle),
		beacon.WithViews(views),
		beacon.WithSession(sessions),
	)
	app.GET("/", "site.greeter@index")
	app.GET("/hello/{name}", "site.greeter@hello")
	return app
}

func TestAppDispatch(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	t.Run("layout renders on nil return", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		app.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "<main>welcome</main>", rec.Body.String())
	})

	t.Run("url param reaches the action", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		app.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/hello/ana", nil))

		assert.Equal(t, "hello, ana", rec.Body.String())
	})

	t.Run("http error becomes its status page", func(t *testing.T) {
		t.Parallel()

		app := beacon.New(beacon.WithBundles(
			beacon.NewBundle("site").Controller("greeter", newGreeter),
		))
		app.GET("/hello", "site.greeter@hello")

		rec := httptest.NewRecorder()
		app.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/hello", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "name required")
	})
}

func TestPrepareFacade(t *testing.T) {
	t.Parallel()

	resp := beacon.Prepare("plain")
	assert.Equal(t, http.StatusOK, resp.StatusCode())

	resp = beacon.Prepare(beacon.ErrNotFound("gone"))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode())
}
