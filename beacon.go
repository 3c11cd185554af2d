package beacon

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/beacon/internal"
	"github.com/dmitrymomot/beacon/pkg/cookie"
	"github.com/dmitrymomot/beacon/pkg/health"
	"github.com/dmitrymomot/beacon/pkg/job"
	"github.com/dmitrymomot/beacon/pkg/logger"
	"github.com/dmitrymomot/beacon/pkg/session"
	"github.com/dmitrymomot/beacon/pkg/view"
)

// Type aliases - public API
type (
	// App orchestrates the application lifecycle.
	// It manages HTTP routing, the controller dispatch pipeline, and
	// graceful shutdown.
	App = internal.App

	// Context provides request/response access and helper methods.
	Context = internal.Context

	// Controller is implemented by dispatchable handler objects.
	Controller = internal.Controller

	// Base is the canonical Controller implementation for embedding.
	Base = internal.Base

	// Action is a controller method body.
	Action = internal.Action

	// Bundle is a named, independently bootable group of controllers.
	Bundle = internal.Bundle

	// Bundles is the registry destinations resolve against.
	Bundles = internal.Bundles

	// Container is the dependency-injection extension point for
	// controller resolution.
	Container = internal.Container

	// Destination identifies a controller action.
	Destination = internal.Destination

	// Dispatcher maps destination strings to controller actions.
	Dispatcher = internal.Dispatcher

	// Response is the canonical result of a dispatched action.
	Response = internal.Response

	// BeforeFilter runs ahead of an action; a non-nil return
	// short-circuits the pipeline.
	BeforeFilter = internal.BeforeFilter

	// AfterFilter runs after the response is normalized.
	AfterFilter = internal.AfterFilter

	// FilterCollection is an ordered group of named filters.
	FilterCollection = internal.FilterCollection

	// FilterRegistry maps filter names to their functions.
	FilterRegistry = internal.FilterRegistry

	// HandlerFunc is the signature for raw route handlers.
	HandlerFunc = internal.HandlerFunc

	// Middleware wraps a HandlerFunc to add cross-cutting concerns.
	Middleware = internal.Middleware

	// ErrorHandler handles errors returned from raw handlers.
	ErrorHandler = internal.ErrorHandler

	// HTTPError carries an HTTP status code with a user-facing message.
	HTTPError = internal.HTTPError

	// HTTPErrorOption configures an HTTPError.
	HTTPErrorOption = internal.HTTPErrorOption

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// HealthOption configures health check endpoints.
	HealthOption = internal.HealthOption

	// ResponseWriter wraps http.ResponseWriter with pre-write hooks.
	ResponseWriter = internal.ResponseWriter

	// ContextExtractor extracts a slog attribute from context.
	// Used with WithLogger to add request-scoped values to logs.
	ContextExtractor = logger.ContextExtractor

	// CookieOption configures the cookie manager.
	CookieOption = cookie.Option

	// View is a renderable template component.
	View = view.View

	// Layout composes a content view into a full page.
	Layout = view.Layout

	// ViewRegistry holds named views and layouts.
	ViewRegistry = view.Registry

	// SessionManager loads, saves, and sweeps session records.
	SessionManager = session.Manager

	// SessionConfig selects and configures the session driver.
	SessionConfig = session.Config

	// SessionResources carries driver dependencies (DB pool, redis
	// client, cookie codec).
	SessionResources = session.Resources

	// SessionPayload is the per-request session data bag.
	SessionPayload = session.Payload

	// JobOption configures the job manager.
	JobOption = job.Option

	// EnqueueOption configures job enqueueing.
	EnqueueOption = job.EnqueueOption

	// EnqueuerOption configures the job enqueuer.
	EnqueuerOption = job.EnqueuerOption

	// JobManager handles background job processing.
	JobManager = job.Manager

	// JobEnqueuer provides job enqueueing without worker processing.
	JobEnqueuer = job.Enqueuer
)

// Filter events for Controller.Filter declarations.
const (
	FilterBefore = internal.FilterBefore
	FilterAfter  = internal.FilterAfter
)

// DefaultBundle is assumed when a destination names no bundle.
const DefaultBundle = internal.DefaultBundle

// Constructors

// New creates a new application with the given options.
// Routes are declared on the returned App.
//
// Example:
//
//	app := beacon.New(
//	    beacon.WithBundles(shop),
//	    beacon.WithSession(sessions),
//	    beacon.WithMiddleware(middlewares.RequestID()),
//	)
//	app.GET("/products/{id}", "shop.products@show")
//
//	err := app.Run(":8080", beacon.Logger(slog))
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// NewBundle creates an empty bundle.
//
// Example:
//
//	shop := beacon.NewBundle("shop").
//	    OnBoot(func(ctx context.Context) error { return warmCache(ctx) }).
//	    Controller("products", func() beacon.Controller { return NewProducts(repo) })
func NewBundle(name string) *Bundle {
	return internal.NewBundle(name)
}

// NewViewRegistry creates an empty view registry.
func NewViewRegistry() *ViewRegistry {
	return view.NewRegistry()
}

// NewSession creates a session manager for the configured driver.
// Configuration faults (missing pool, missing servers) fail here, not
// at request time.
//
// Example:
//
//	sessions, err := beacon.NewSession(beacon.SessionConfig{
//	    Driver:   session.DriverDatabase,
//	    Lifetime: 2 * time.Hour,
//	}, beacon.SessionResources{DB: pool})
func NewSession(cfg SessionConfig, res SessionResources) (*SessionManager, error) {
	return session.New(cfg, res)
}

// App options

// WithBundles registers bundles with the application.
func WithBundles(bundles ...*Bundle) Option {
	return internal.WithBundles(bundles...)
}

// WithContainer installs a dependency-injection container consulted
// before bundle factories during controller resolution.
func WithContainer(c Container) Option {
	return internal.WithContainer(c)
}

// WithViews sets the view registry used for layout binding.
func WithViews(v *ViewRegistry) Option {
	return internal.WithViews(v)
}

// WithMiddleware adds global middleware to the application.
// Middleware is applied in the order provided.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithBeforeFilter registers a named before-filter available to
// controller filter declarations.
func WithBeforeFilter(name string, f BeforeFilter) Option {
	return internal.WithBeforeFilter(name, f)
}

// WithAfterFilter registers a named after-filter available to
// controller filter declarations.
func WithAfterFilter(name string, f AfterFilter) Option {
	return internal.WithAfterFilter(name, f)
}

// WithStaticFiles mounts a static file handler at the given pattern.
// Directory listings are disabled. Files are served with default cache headers.
//
// Example:
//
//	//go:embed public
//	var assets embed.FS
//
//	beacon.New(
//	    beacon.WithStaticFiles("/static/", assets, "public"),
//	)
func WithStaticFiles(pattern string, fsys fs.FS, subDir string) Option {
	return internal.WithStaticFiles(pattern, fsys, subDir)
}

// WithErrorHandler sets a custom error handler for raw handler errors.
func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

// WithNotFoundHandler sets a custom 404 handler.
func WithNotFoundHandler(h HandlerFunc) Option {
	return internal.WithNotFoundHandler(h)
}

// WithMethodNotAllowedHandler sets a custom 405 handler.
func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return internal.WithMethodNotAllowedHandler(h)
}

// WithHealthChecks enables health check endpoints with optional configuration.
// Liveness (/health/live): Always returns OK if process is running.
// Readiness (/health/ready): Runs all configured checks.
//
// Example:
//
//	beacon.WithHealthChecks(
//	    beacon.WithReadinessCheck(db.Healthcheck(pool)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealthChecks(opts...)
}

// WithLogger creates a logger with a component name and optional extractors.
// The component name is added to every log entry for easy filtering.
// Extractors pull values from context (e.g., request_id, user_id).
func WithLogger(component string, extractors ...ContextExtractor) Option {
	return internal.WithLogger(component, extractors...)
}

// WithCustomLogger sets a fully custom logger.
func WithCustomLogger(l *slog.Logger) Option {
	return internal.WithCustomLogger(l)
}

// WithCookieOptions configures the cookie manager.
//
// Example:
//
//	beacon.New(
//	    beacon.WithCookieOptions(
//	        beacon.WithCookieSecret(os.Getenv("APP_KEY")),
//	        beacon.WithCookieSecure(true),
//	    ),
//	)
func WithCookieOptions(opts ...CookieOption) Option {
	return internal.WithCookieOptions(opts...)
}

// WithSession enables per-request session management. Sessions start
// explicitly via c.StartSession() and save automatically before the
// response is written.
func WithSession(m *SessionManager) Option {
	return internal.WithSession(m)
}

// Health check options

// WithLivenessPath sets a custom liveness endpoint path.
// Defaults to "/health/live".
func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

// WithReadinessPath sets a custom readiness endpoint path.
// Defaults to "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

// WithReadinessCheck adds a readiness check.
// Checks run in parallel during readiness probe.
func WithReadinessCheck(fn health.CheckFunc) HealthOption {
	return internal.WithReadinessCheck(fn)
}

// Run options

// Address sets the HTTP server address.
// Defaults to ":8080".
func Address(addr string) RunOption {
	return internal.Address(addr)
}

// Logger sets the runtime logger.
// If nil, logging is disabled.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout sets the timeout for graceful shutdown.
// This applies to both the HTTP server and shutdown hooks.
// Defaults to 30 seconds.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// StartupHook registers a function to run before the listener opens.
// Hooks are called in the order they were registered. If any hook
// fails, the server does not start.
//
// Example:
//
//	beacon.StartupHook(warmCaches)
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook registers a cleanup function to run during shutdown.
// Hooks are called in the order they were registered.
// Each hook receives a context with the shutdown timeout.
//
// Example:
//
//	beacon.ShutdownHook(db.Shutdown(pool))
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets a custom base context for signal handling.
// Useful for testing or when integrating with existing context hierarchies.
// Defaults to context.Background() if not set.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// Context helpers

// ContextValue retrieves a typed value from the context.
// Returns the zero value of T if the key is not found or type assertion fails.
//
// Example:
//
//	type tenantKey struct{}
//
//	tenant := beacon.ContextValue[string](c, tenantKey{})
func ContextValue[T any](c Context, key any) T {
	return internal.ContextValue[T](c, key)
}

// Param retrieves a typed URL parameter.
func Param[T ~string | ~int | ~int64 | ~float64 | ~bool](c Context, name string) T {
	return internal.Param[T](c, name)
}

// Query retrieves a typed query parameter.
func Query[T ~string | ~int | ~int64 | ~float64 | ~bool](c Context, name string) T {
	return internal.Query[T](c, name)
}

// QueryDefault retrieves a typed query parameter with a default value.
func QueryDefault[T ~string | ~int | ~int64 | ~float64 | ~bool](c Context, name string, defaultValue T) T {
	return internal.QueryDefault[T](c, name, defaultValue)
}

// Responses

// Prepare normalizes an arbitrary action result into a Response.
func Prepare(v any) Response {
	return internal.Prepare(v)
}

// ErrorResponse is the standardized status page used for every soft
// not-found and failure outcome.
func ErrorResponse(code int) Response {
	return internal.ErrorResponse(code)
}

// Redirect responds with a Location header and the given status code.
func Redirect(code int, location string) Response {
	return internal.Redirect(code, location)
}

// HTML responds with a rendered view and the given status code.
func HTML(code int, v View) Response {
	return internal.HTML(code, v)
}

// Text responds with a plain text body and the given status code.
func Text(code int, s string) Response {
	return internal.Text(code, s)
}

// JSON responds with a JSON-encoded body and the given status code.
func JSON(code int, v any) Response {
	return internal.JSON(code, v)
}

// NoContent responds with an empty body and the given status code.
func NoContent(code int) Response {
	return internal.NoContent(code)
}

// HTTP errors

// NewHTTPError creates an HTTPError with the given status code and message.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.NewHTTPError(code, message, opts...)
}

// WithError attaches the underlying cause to an HTTPError for logging.
func WithError(err error) HTTPErrorOption {
	return internal.WithError(err)
}

func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrBadRequest(message, opts...)
}

func ErrUnauthorized(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrUnauthorized(message, opts...)
}

func ErrForbidden(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrForbidden(message, opts...)
}

func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrNotFound(message, opts...)
}

func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrInternal(message, opts...)
}

// Cookie options

// WithCookieSecret sets the secret for signing and encryption.
// Panics when the secret is shorter than 32 bytes.
func WithCookieSecret(secret string) CookieOption {
	return cookie.WithSecret(secret)
}

// WithCookieDomain sets the cookie domain.
func WithCookieDomain(domain string) CookieOption {
	return cookie.WithDomain(domain)
}

// WithCookiePath sets the cookie path.
func WithCookiePath(path string) CookieOption {
	return cookie.WithPath(path)
}

// WithCookieSecure sets the Secure flag.
func WithCookieSecure(secure bool) CookieOption {
	return cookie.WithSecure(secure)
}

// WithCookieHTTPOnly sets the HttpOnly flag.
func WithCookieHTTPOnly(httpOnly bool) CookieOption {
	return cookie.WithHTTPOnly(httpOnly)
}

// WithCookieSameSite sets the SameSite attribute.
func WithCookieSameSite(ss http.SameSite) CookieOption {
	return cookie.WithSameSite(ss)
}

// Cookie errors for checking return values.
var (
	ErrCookieNotFound  = cookie.ErrNotFound
	ErrCookieNoSecret  = cookie.ErrNoSecret
	ErrCookieBadSecret = cookie.ErrBadSecret
	ErrCookieBadSig    = cookie.ErrBadSig
	ErrCookieDecrypt   = cookie.ErrDecrypt
)

// Session errors for checking return values.
var (
	ErrSessionNotConfigured  = session.ErrNotConfigured
	ErrSessionNotStarted     = session.ErrNotStarted
	ErrSessionAlreadyStarted = session.ErrAlreadyStarted
	ErrSessionNotFound       = session.ErrNotFound
	ErrSessionExpired        = session.ErrExpired
)

// Job options

// WithJobs enables both job enqueueing and worker processing using River.
// A pgxpool.Pool is required for the job queue. Workers are started automatically
// when the app runs and stopped gracefully during shutdown.
//
// Example:
//
//	beacon.New(
//	    beacon.WithJobs(pool,
//	        beacon.WithTask(tasks.NewSendWelcome(mailer)),
//	        beacon.WithJobQueue("email", 10),
//	    ),
//	)
func WithJobs(pool *pgxpool.Pool, opts ...JobOption) Option {
	return internal.WithJobs(pool, opts...)
}

// WithJobEnqueuer enables job enqueueing without worker processing.
// Use this for web servers that dispatch work to separate worker processes.
func WithJobEnqueuer(pool *pgxpool.Pool, opts ...EnqueuerOption) Option {
	return internal.WithJobEnqueuer(pool, opts...)
}

// WithJobWorker enables job processing without enqueueing capability.
// Workers are started automatically when the app runs and stopped
// gracefully during shutdown.
func WithJobWorker(pool *pgxpool.Pool, opts ...JobOption) Option {
	return internal.WithJobWorker(pool, opts...)
}

// Job registration options - re-exported from pkg/job

// WithTask registers a task handler using structural typing.
// The task must implement Name() and Handle(ctx, P) methods.
func WithTask[P any, T interface {
	Name() string
	Handle(context.Context, P) error
}](task T) JobOption {
	return job.WithTask[P, T](task)
}

// WithScheduledTask registers a periodic task.
// The task must implement Name(), Schedule(), and Handle(ctx) methods.
func WithScheduledTask[T interface {
	Name() string
	Schedule() string
	Handle(context.Context) error
}](task T) JobOption {
	return job.WithScheduledTask[T](task)
}

// WithScheduledFunc registers a periodic task from a bare function.
//
// Example:
//
//	beacon.WithScheduledFunc("sweep_sessions", "0 * * * *", sessions.SweepFunc())
func WithScheduledFunc(name, schedule string, fn func(context.Context) error) JobOption {
	return job.WithScheduledFunc(name, schedule, fn)
}

// WithJobQueue configures a named queue with the specified number of workers.
func WithJobQueue(name string, workers int) JobOption {
	return job.WithQueue(name, workers)
}

// WithJobLogger sets the logger for job processing.
func WithJobLogger(l *slog.Logger) JobOption {
	return job.WithLogger(l)
}

// WithJobMaxWorkers sets the default maximum number of workers.
func WithJobMaxWorkers(n int) JobOption {
	return job.WithMaxWorkers(n)
}

// Enqueue options - re-exported from pkg/job

// InQueue specifies which queue to use for the job.
func InQueue(name string) EnqueueOption {
	return job.InQueue(name)
}

// ScheduledAt schedules the job to run at a specific time.
func ScheduledAt(t time.Time) EnqueueOption {
	return job.ScheduledAt(t)
}

// ScheduledIn schedules the job to run after a duration.
func ScheduledIn(d time.Duration) EnqueueOption {
	return job.ScheduledIn(d)
}

// MaxAttempts sets the maximum number of retry attempts for the job.
func MaxAttempts(n int) EnqueueOption {
	return job.MaxAttempts(n)
}

// UniqueFor ensures only one job with this key exists for the specified duration.
func UniqueFor(d time.Duration) EnqueueOption {
	return job.UniqueFor(d)
}

// UniqueKey sets a custom unique key for deduplication.
func UniqueKey(key string) EnqueueOption {
	return job.UniqueKey(key)
}

// JobPriority sets the job priority (lower numbers = higher priority).
func JobPriority(p int) EnqueueOption {
	return job.Priority(p)
}

// JobTags adds metadata tags to the job.
func JobTags(tags ...string) EnqueueOption {
	return job.Tags(tags...)
}

// Job errors for checking return values.
var (
	ErrJobNotConfigured     = job.ErrNotConfigured
	ErrJobUnknownTask       = job.ErrUnknownTask
	ErrJobInvalidPayload    = job.ErrInvalidPayload
	ErrJobHealthcheckFailed = job.ErrHealthcheckFailed
	ErrJobPoolRequired      = job.ErrPoolRequired
)

// JobHealthcheck returns a health check function for the job manager.
func JobHealthcheck(m *JobManager) health.CheckFunc {
	return job.Healthcheck(m)
}
