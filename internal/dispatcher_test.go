package internal

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/beacon/pkg/view"
)

func dispatch(t *testing.T, app *App, method, destination string, params []string) (Response, *httptest.ResponseRecorder) {
	t.Helper()

	req := httptest.NewRequest(method, "/", nil)
	rec := httptest.NewRecorder()
	c := newContext(rec, req, app)

	resp := app.dispatcher.Call(c, destination, params)
	require.NoError(t, resp.Render(context.Background(), rec))
	return resp, rec
}

func TestDispatcherActionLookup(t *testing.T) {
	t.Parallel()

	bundle := NewBundle("shop").Controller("cart", func() Controller {
		ctrl := &struct{ Base }{}
		ctrl.Handle("action_show", func(c Context, params ...string) any {
			return "show:" + strings.Join(params, ",")
		})
		return ctrl
	})
	app := New(WithBundles(bundle))

	resp, rec := dispatch(t, app, http.MethodGet, "shop.cart@show", []string{"42", "edit"})
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, "show:42,edit", rec.Body.String())
}

func TestDispatcherRESTfulLookup(t *testing.T) {
	t.Parallel()

	newAPI := func() Controller {
		ctrl := &struct{ Base }{}
		ctrl.RESTful = true
		ctrl.Handle("get_users", func(Context, ...string) any { return "list" })
		ctrl.Handle("post_users", func(Context, ...string) any { return "created" })
		return ctrl
	}
	app := New(WithBundles(NewBundle("api").Controller("v1", newAPI)))

	t.Run("verb selects the action", func(t *testing.T) {
		t.Parallel()

		_, rec := dispatch(t, app, http.MethodGet, "api.v1@users", nil)
		assert.Equal(t, "list", rec.Body.String())

		_, rec = dispatch(t, app, http.MethodPost, "api.v1@users", nil)
		assert.Equal(t, "created", rec.Body.String())
	})

	t.Run("unhandled verb is a soft 404", func(t *testing.T) {
		t.Parallel()

		resp, _ := dispatch(t, app, http.MethodDelete, "api.v1@users", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode())
	})
}

func TestDispatcherBackreference(t *testing.T) {
	t.Parallel()

	bundle := NewBundle("pages")
	bundle.Controller("docs", func() Controller {
		ctrl := &struct{ Base }{}
		ctrl.Handle("action_show42", func(c Context, params ...string) any {
			return "doc:" + strings.Join(params, ",")
		})
		ctrl.Handle("action_index", func(Context, ...string) any { return "home" })
		return ctrl
	})
	app := New(WithBundles(bundle))

	t.Run("token consumes the parameter", func(t *testing.T) {
		t.Parallel()

		_, rec := dispatch(t, app, http.MethodGet, "pages.docs@show(:1)", []string{"42", "extra"})
		assert.Equal(t, "doc:extra", rec.Body.String())
	})

	t.Run("residual token defaults to index", func(t *testing.T) {
		t.Parallel()

		_, rec := dispatch(t, app, http.MethodGet, "pages.docs@(:1)", nil)
		assert.Equal(t, "home", rec.Body.String())
	})
}

func TestDispatcherSoftNotFound(t *testing.T) {
	t.Parallel()

	app := New()

	tests := []struct {
		name        string
		destination string
	}{
		{"malformed destination", "users"},
		{"empty method", "users@"},
		{"unknown controller", "nobody@index"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resp, rec := dispatch(t, app, http.MethodGet, tt.destination, nil)
			assert.Equal(t, http.StatusNotFound, resp.StatusCode())
			assert.Contains(t, rec.Body.String(), "404")
		})
	}
}

func TestDispatcherFilterShortCircuit(t *testing.T) {
	t.Parallel()

	var actionRan, afterRan bool

	bundle := NewBundle("admin").Controller("panel", func() Controller {
		ctrl := &struct{ Base }{}
		ctrl.Handle("action_index", func(Context, ...string) any {
			actionRan = true
			return "panel"
		})
		ctrl.Filter(FilterBefore, "deny")
		ctrl.Filter(FilterAfter, "audit")
		return ctrl
	})

	app := New(
		WithBundles(bundle),
		WithBeforeFilter("deny", func(Context, ...string) any {
			return Redirect(http.StatusFound, "/denied")
		}),
		WithAfterFilter("audit", func(_ Context, resp Response, _ ...string) {
			afterRan = true
			assert.Equal(t, http.StatusFound, resp.StatusCode())
		}),
	)

	resp, rec := dispatch(t, app, http.MethodGet, "admin.panel@index", nil)

	assert.False(t, actionRan, "short-circuited action must not run")
	assert.True(t, afterRan, "after filters run even on short-circuit")
	assert.Equal(t, http.StatusFound, resp.StatusCode())
	assert.Equal(t, "/denied", rec.Header().Get("Location"))
}

func TestDispatcherFilterScoping(t *testing.T) {
	t.Parallel()

	bundle := NewBundle("site").Controller("pages", func() Controller {
		ctrl := &struct{ Base }{}
		ctrl.Handle("action_index", func(Context, ...string) any { return "public" })
		ctrl.Handle("action_edit", func(Context, ...string) any { return "editing" })
		ctrl.Filter(FilterBefore, "deny").Except("index")
		return ctrl
	})
	app := New(
		WithBundles(bundle),
		WithBeforeFilter("deny", func(Context, ...string) any {
			return ErrorResponse(http.StatusForbidden)
		}),
	)

	_, rec := dispatch(t, app, http.MethodGet, "site.pages@index", nil)
	assert.Equal(t, "public", rec.Body.String())

	resp, _ := dispatch(t, app, http.MethodGet, "site.pages@edit", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode())
}

func TestDispatcherLayout(t *testing.T) {
	t.Parallel()

	views := view.NewRegistry()
	views.Register("main", view.HTML("<main>layout</main>"))

	bundle := NewBundle("site").Controller("home", func() Controller {
		ctrl := &struct{ Base }{}
		ctrl.Layout = "main"
		ctrl.Handle("action_index", func(Context, ...string) any { return nil })
		ctrl.Handle("action_about", func(Context, ...string) any { return "about" })
		return ctrl
	})
	app := New(WithBundles(bundle), WithViews(views))

	t.Run("nil return renders the bound layout", func(t *testing.T) {
		t.Parallel()

		_, rec := dispatch(t, app, http.MethodGet, "site.home@index", nil)
		assert.Equal(t, "<main>layout</main>", rec.Body.String())
	})

	t.Run("explicit return wins over the layout", func(t *testing.T) {
		t.Parallel()

		_, rec := dispatch(t, app, http.MethodGet, "site.home@about", nil)
		assert.Equal(t, "about", rec.Body.String())
	})
}

func TestDispatcherLayoutComposition(t *testing.T) {
	t.Parallel()

	views := view.NewRegistry()
	views.RegisterLayout("shell", func(content view.View) view.View {
		return view.Func(func(ctx context.Context, w io.Writer) error {
			if _, err := io.WriteString(w, "<main>"); err != nil {
				return err
			}
			if err := content.Render(ctx, w); err != nil {
				return err
			}
			_, err := io.WriteString(w, "</main>")
			return err
		})
	})

	bundle := NewBundle("site").Controller("home", func() Controller {
		ctrl := &struct{ Base }{}
		ctrl.Layout = "shell"
		ctrl.Handle("action_about", func(Context, ...string) any {
			return view.HTML("<p>about</p>")
		})
		ctrl.Handle("action_plain", func(Context, ...string) any { return "plain" })
		return ctrl
	})
	app := New(WithBundles(bundle), WithViews(views))

	t.Run("view result renders inside the layout", func(t *testing.T) {
		t.Parallel()

		_, rec := dispatch(t, app, http.MethodGet, "site.home@about", nil)
		assert.Equal(t, "<main><p>about</p></main>", rec.Body.String())
	})

	t.Run("non-view result bypasses the layout", func(t *testing.T) {
		t.Parallel()

		_, rec := dispatch(t, app, http.MethodGet, "site.home@plain", nil)
		assert.Equal(t, "plain", rec.Body.String())
	})
}

func TestDispatcherBundleBoot(t *testing.T) {
	t.Parallel()

	t.Run("boot runs once", func(t *testing.T) {
		t.Parallel()

		boots := 0
		bundle := NewBundle("shop").OnBoot(func(context.Context) error {
			boots++
			return nil
		})
		bundle.Controller("cart", func() Controller {
			ctrl := &struct{ Base }{}
			ctrl.Handle("action_index", func(Context, ...string) any { return "cart" })
			return ctrl
		})
		app := New(WithBundles(bundle))

		dispatch(t, app, http.MethodGet, "shop.cart@index", nil)
		dispatch(t, app, http.MethodGet, "shop.cart@index", nil)

		assert.Equal(t, 1, boots)
	})

	t.Run("boot failure is a 500", func(t *testing.T) {
		t.Parallel()

		bundle := NewBundle("broken").OnBoot(func(context.Context) error {
			return errors.New("db unreachable")
		})
		bundle.Controller("any", func() Controller { return &struct{ Base }{} })
		app := New(WithBundles(bundle))

		resp, _ := dispatch(t, app, http.MethodGet, "broken.any@index", nil)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode())
	})
}

type stubContainer struct {
	registrations map[string]Controller
}

func (s *stubContainer) Registered(key string) bool {
	_, ok := s.registrations[key]
	return ok
}

func (s *stubContainer) Resolve(key string) (Controller, error) {
	ctrl, ok := s.registrations[key]
	if !ok {
		return nil, errors.New("not registered")
	}
	return ctrl, nil
}

func TestDispatcherContainerWinsOverFactory(t *testing.T) {
	t.Parallel()

	fromContainer := &struct{ Base }{}
	fromContainer.Handle("action_index", func(Context, ...string) any { return "injected" })

	bundle := NewBundle("shop").Controller("cart", func() Controller {
		ctrl := &struct{ Base }{}
		ctrl.Handle("action_index", func(Context, ...string) any { return "factory" })
		return ctrl
	})
	app := New(
		WithBundles(bundle),
		WithContainer(&stubContainer{registrations: map[string]Controller{
			Identifier("shop", "cart"): fromContainer,
		}}),
	)

	_, rec := dispatch(t, app, http.MethodGet, "shop.cart@index", nil)
	assert.Equal(t, "injected", rec.Body.String())
}

func TestBuiltinFilters(t *testing.T) {
	t.Parallel()

	t.Run("auth redirects guests", func(t *testing.T) {
		t.Parallel()

		bundle := NewBundle("account").Controller("profile", func() Controller {
			ctrl := &struct{ Base }{}
			ctrl.Handle("action_show", func(Context, ...string) any { return "profile" })
			ctrl.Filter(FilterBefore, "auth")
			return ctrl
		})
		app := New(WithBundles(bundle))

		resp, rec := dispatch(t, app, http.MethodGet, "account.profile@show", nil)
		assert.Equal(t, http.StatusFound, resp.StatusCode())
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("auth redirect target override", func(t *testing.T) {
		t.Parallel()

		bundle := NewBundle("account").Controller("billing", func() Controller {
			ctrl := &struct{ Base }{}
			ctrl.Handle("action_show", func(Context, ...string) any { return "billing" })
			ctrl.Filter(FilterBefore, "auth", "/signin")
			return ctrl
		})
		app := New(WithBundles(bundle))

		_, rec := dispatch(t, app, http.MethodGet, "account.billing@show", nil)
		assert.Equal(t, "/signin", rec.Header().Get("Location"))
	})

	t.Run("csrf rejects mutating requests without a token", func(t *testing.T) {
		t.Parallel()

		bundle := NewBundle("account").Controller("settings", func() Controller {
			ctrl := &struct{ Base }{}
			ctrl.Handle("action_update", func(Context, ...string) any { return "saved" })
			ctrl.Filter(FilterBefore, "csrf")
			return ctrl
		})
		app := New(WithBundles(bundle))

		resp, _ := dispatch(t, app, http.MethodPost, "account.settings@update", nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode())

		resp, _ = dispatch(t, app, http.MethodGet, "account.settings@update", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode())
	})
}
