package internal

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/beacon/pkg/cookie"
	"github.com/dmitrymomot/beacon/pkg/health"
	"github.com/dmitrymomot/beacon/pkg/job"
	"github.com/dmitrymomot/beacon/pkg/logger"
	"github.com/dmitrymomot/beacon/pkg/session"
	"github.com/dmitrymomot/beacon/pkg/view"
)

// Default server timeouts (hardcoded, opinionated).
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1MB
	defaultShutdownTimeout   = 30 * time.Second
)

// App orchestrates the application lifecycle: routing, the controller
// dispatch pipeline, sessions, jobs, and graceful shutdown.
// Configuration is done via New(); routes are declared afterwards.
type App struct {
	router                  chi.Router
	logger                  *slog.Logger
	cookies                 *cookie.Manager
	sessions                *session.Manager
	bundles                 *Bundles
	views                   *view.Registry
	filters                 *FilterRegistry
	dispatcher              *Dispatcher
	jobs                    JobClient
	jobWorker               *job.Manager
	errorHandler            ErrorHandler
	notFoundHandler         HandlerFunc
	methodNotAllowedHandler HandlerFunc
	healthConfig            *healthConfig
	middlewares             []Middleware
	staticRoutes            []staticRoute
}

// staticRoute represents a static file handler mount point.
type staticRoute struct {
	handler http.Handler
	pattern string
}

// New creates a new application with the given options.
//
// Example:
//
//	app := beacon.New(
//	    beacon.WithBundles(admin, shop),
//	    beacon.WithSession(sessions),
//	)
//	app.GET("/users/{id}", "users@show")
func New(opts ...Option) *App {
	a := &App{
		router:  chi.NewRouter(),
		logger:  logger.NewNope(),
		cookies: cookie.New(),
		bundles: NewBundles(),
		views:   view.NewRegistry(),
		filters: NewFilterRegistry(),
	}

	for _, opt := range opts {
		opt(a)
	}

	a.dispatcher = NewDispatcher(a.bundles, a.views, a.filters, a.logger)
	a.setup()
	return a
}

// Router returns the underlying chi.Router.
func (a *App) Router() chi.Router {
	return a.router
}

// Bundles returns the registered bundle set.
func (a *App) Bundles() *Bundles {
	return a.bundles
}

// Views returns the view registry.
func (a *App) Views() *view.Registry {
	return a.views
}

// JobWorker returns the job worker if configured, nil otherwise.
func (a *App) JobWorker() *job.Manager {
	return a.jobWorker
}

// GET routes a pattern to a destination for GET requests.
func (a *App) GET(pattern, destination string) {
	a.router.Method(http.MethodGet, pattern, a.destinationHandler(destination))
}

// POST routes a pattern to a destination for POST requests.
func (a *App) POST(pattern, destination string) {
	a.router.Method(http.MethodPost, pattern, a.destinationHandler(destination))
}

// PUT routes a pattern to a destination for PUT requests.
func (a *App) PUT(pattern, destination string) {
	a.router.Method(http.MethodPut, pattern, a.destinationHandler(destination))
}

// PATCH routes a pattern to a destination for PATCH requests.
func (a *App) PATCH(pattern, destination string) {
	a.router.Method(http.MethodPatch, pattern, a.destinationHandler(destination))
}

// DELETE routes a pattern to a destination for DELETE requests.
func (a *App) DELETE(pattern, destination string) {
	a.router.Method(http.MethodDelete, pattern, a.destinationHandler(destination))
}

// Any routes a pattern to a destination for every HTTP verb. Combined
// with RESTful controllers the verb selects the action.
func (a *App) Any(pattern, destination string) {
	a.router.Handle(pattern, a.destinationHandler(destination))
}

// Handle registers a raw handler outside the controller pipeline.
func (a *App) Handle(method, pattern string, h HandlerFunc) {
	a.router.Method(method, pattern, a.wrapHandler(h))
}

// Mount attaches an http.Handler subtree at the pattern.
func (a *App) Mount(pattern string, h http.Handler) {
	a.router.Mount(pattern, h)
}

// Run starts a single HTTP server and blocks until shutdown.
// If job workers are configured, they start automatically before serving
// requests and stop gracefully during shutdown.
//
// Example:
//
//	err := app.Run(":8080", beacon.Logger(slog))
func (a *App) Run(addr string, opts ...RunOption) error {
	cfg := buildRunConfig(opts...)
	if addr != "" {
		cfg.address = addr
	}

	startupHooks := cfg.startupHooks
	shutdownHooks := cfg.shutdownHooks

	if a.jobWorker != nil {
		startupHooks = append([]func(context.Context) error{a.jobWorker.StartFunc()}, startupHooks...)
		shutdownHooks = append(shutdownHooks, a.jobWorker.Shutdown())
	}

	return runServer(runtimeConfig{
		handler:         a.router,
		address:         cfg.address,
		logger:          cfg.logger,
		shutdownTimeout: cfg.shutdownTimeout,
		startupHooks:    startupHooks,
		shutdownHooks:   shutdownHooks,
		baseCtx:         cfg.baseCtx,
	})
}

// setup configures the router with middleware, static mounts, and
// health endpoints.
func (a *App) setup() {
	if a.notFoundHandler != nil {
		a.router.NotFound(a.wrapHandler(a.notFoundHandler))
	} else {
		a.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
			_ = ErrorResponse(http.StatusNotFound).Render(r.Context(), w)
		})
	}
	if a.methodNotAllowedHandler != nil {
		a.router.MethodNotAllowed(a.wrapHandler(a.methodNotAllowedHandler))
	}

	for _, mw := range a.middlewares {
		a.router.Use(a.adaptMiddleware(mw))
	}

	for _, sr := range a.staticRoutes {
		a.router.Mount(sr.pattern, sr.handler)
	}

	if a.healthConfig != nil {
		a.router.Get(a.healthConfig.livenessPath, health.Liveness())
		a.router.Get(a.healthConfig.readinessPath, health.Readiness(a.healthConfig.checks...))
	}
}

// destinationHandler bridges HTTP to the dispatch pipeline: URL
// parameters become positional params in declaration order, the
// destination's response renders to the wrapped writer.
func (a *App) destinationHandler(destination string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := newContext(w, r, a)
		resp := a.dispatcher.Call(c, destination, routeParams(r))
		if c.Written() {
			return
		}
		if err := resp.Render(r.Context(), c.ResponseWriter()); err != nil {
			a.handleError(c, err)
		}
	}
}

// routeParams collects chi URL parameter values in declaration order.
// The wildcard placeholder is not a positional parameter.
func routeParams(r *http.Request) []string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return nil
	}
	params := make([]string, 0, len(rctx.URLParams.Keys))
	for i, key := range rctx.URLParams.Keys {
		if key == "*" {
			continue
		}
		params = append(params, rctx.URLParams.Values[i])
	}
	return params
}

// wrapHandler converts a HandlerFunc to http.HandlerFunc using the
// app's error handler.
func (a *App) wrapHandler(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := newContext(w, r, a)
		if err := h(c); err != nil {
			a.handleError(c, err)
		}
	}
}

// adaptMiddleware lifts a context-aware Middleware onto the chi chain.
func (a *App) adaptMiddleware(mw Middleware) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c := newContext(w, r, a)
			h := mw(func(c Context) error {
				next.ServeHTTP(c.Response(), c.Request())
				return nil
			})
			if err := h(c); err != nil {
				a.handleError(c, err)
			}
		})
	}
}

// handleError renders errors from raw handlers. HTTPError values keep
// their status; everything else becomes the standardized 500 page.
func (a *App) handleError(c Context, err error) {
	if c.Written() {
		return
	}
	if a.errorHandler != nil {
		_ = a.errorHandler(c, err)
		return
	}

	resp := ErrorResponse(http.StatusInternalServerError)
	if httpErr := AsHTTPError(err); httpErr != nil {
		resp = Prepare(httpErr)
	}
	if err := resp.Render(c.Context(), c.Response()); err != nil {
		a.logger.ErrorContext(c.Context(), "failed to render error response", slog.Any("error", err))
	}
}

// healthConfig holds health check endpoint configuration.
type healthConfig struct {
	checks        []health.CheckFunc
	livenessPath  string
	readinessPath string
}

// Default health check paths.
const (
	defaultLivenessPath  = "/health/live"
	defaultReadinessPath = "/health/ready"
)

// HealthOption configures health check endpoints.
type HealthOption func(*healthConfig)

// WithLivenessPath sets a custom liveness endpoint path.
// Defaults to "/health/live".
func WithLivenessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.livenessPath = path
		}
	}
}

// WithReadinessPath sets a custom readiness endpoint path.
// Defaults to "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.readinessPath = path
		}
	}
}

// WithReadinessCheck adds a readiness check.
// Checks run in parallel during the readiness probe.
//
// Example:
//
//	beacon.WithReadinessCheck(db.Healthcheck(pool))
func WithReadinessCheck(fn health.CheckFunc) HealthOption {
	return func(c *healthConfig) {
		if fn != nil {
			c.checks = append(c.checks, fn)
		}
	}
}
