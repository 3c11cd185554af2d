package internal

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/beacon/pkg/cookie"
	"github.com/dmitrymomot/beacon/pkg/job"
	"github.com/dmitrymomot/beacon/pkg/logger"
	"github.com/dmitrymomot/beacon/pkg/session"
	"github.com/dmitrymomot/beacon/pkg/view"
)

// Option configures the application.
type Option func(*App)

// WithBundles registers bundles with the application. A default bundle
// always exists; destinations without a bundle segment resolve against
// it.
//
// Example:
//
//	admin := beacon.NewBundle("admin").
//	    Controller("users", func() beacon.Controller { return NewUsers() })
//
//	beacon.New(
//	    beacon.WithBundles(admin),
//	)
func WithBundles(bundles ...*Bundle) Option {
	return func(a *App) {
		for _, b := range bundles {
			a.bundles.Add(b)
		}
	}
}

// WithContainer installs a dependency-injection container consulted
// before bundle factories during controller resolution.
func WithContainer(c Container) Option {
	return func(a *App) {
		a.bundles.SetContainer(c)
	}
}

// WithViews sets the view registry used for layout binding and view
// lookups.
//
// Example:
//
//	views := view.NewRegistry()
//	views.Register("main", layouts.Main())
//
//	beacon.New(
//	    beacon.WithViews(views),
//	)
func WithViews(v *view.Registry) Option {
	return func(a *App) {
		if v != nil {
			a.views = v
		}
	}
}

// WithMiddleware adds global middleware to the application.
// Middleware is applied in the order provided.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithBeforeFilter registers a named before-filter available to
// controller filter declarations.
//
// Example:
//
//	beacon.WithBeforeFilter("admin", func(c beacon.Context, params ...string) any {
//	    sess, err := c.Session()
//	    if err != nil || sess.GetString("role") != "admin" {
//	        return beacon.ErrForbidden("admins only")
//	    }
//	    return nil
//	})
func WithBeforeFilter(name string, f BeforeFilter) Option {
	return func(a *App) {
		a.filters.Before(name, f)
	}
}

// WithAfterFilter registers a named after-filter available to
// controller filter declarations.
func WithAfterFilter(name string, f AfterFilter) Option {
	return func(a *App) {
		a.filters.After(name, f)
	}
}

// WithStaticFiles mounts a static file handler at the given pattern.
// Directory listings are disabled. Files are served with default cache
// headers.
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
	return func(a *App) {
		subFS, err := fs.Sub(fsys, subDir)
		if err != nil {
			panic(err)
		}

		fileServer := http.FileServerFS(subFS)

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Block directory listings
			if strings.HasSuffix(r.URL.Path, "/") {
				http.NotFound(w, r)
				return
			}

			w.Header().Set("Cache-Control", "public, max-age=3600")
			w.Header().Set("X-Content-Type-Options", "nosniff")

			fileServer.ServeHTTP(w, r)
		})

		a.staticRoutes = append(a.staticRoutes, staticRoute{handler, pattern})
	}
}

// WithErrorHandler sets a custom error handler for raw handler errors.
//
// Example:
//
//	beacon.WithErrorHandler(func(c beacon.Context, err error) error {
//	    return c.JSON(http.StatusInternalServerError, map[string]string{
//	        "error": err.Error(),
//	    })
//	})
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		a.errorHandler = h
	}
}

// WithNotFoundHandler sets a custom 404 handler for unmatched routes.
//
// Example:
//
//	beacon.WithNotFoundHandler(func(c beacon.Context) error {
//	    return c.String(http.StatusNotFound, "Page not found")
//	})
func WithNotFoundHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.notFoundHandler = h
	}
}

// WithMethodNotAllowedHandler sets a custom 405 handler.
func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.methodNotAllowedHandler = h
	}
}

// WithHealthChecks enables health check endpoints with optional configuration.
// Liveness (/health/live): Always returns OK if the process is running.
// Readiness (/health/ready): Runs all configured checks.
//
// Example:
//
//	beacon.WithHealthChecks(
//	    beacon.WithReadinessCheck(db.Healthcheck(pool)),
//	    beacon.WithReadinessCheck(redis.Healthcheck(client)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return func(a *App) {
		cfg := &healthConfig{
			livenessPath:  defaultLivenessPath,
			readinessPath: defaultReadinessPath,
		}
		for _, opt := range opts {
			opt(cfg)
		}
		a.healthConfig = cfg
	}
}

// WithLogger creates a logger with a component name and optional extractors.
// The component name is added to every log entry for easy filtering.
// Extractors pull values from context (e.g., request_id, user_id).
//
// Example:
//
//	beacon.New(
//	    beacon.WithLogger("web", requestIDExtractor),
//	)
func WithLogger(component string, extractors ...logger.ContextExtractor) Option {
	return func(a *App) {
		a.logger = logger.New(extractors...).With("component", component)
	}
}

// WithCustomLogger sets a fully custom logger.
//
// Example:
//
//	customLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
//	beacon.New(
//	    beacon.WithCustomLogger(customLogger),
//	)
func WithCustomLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithCookieOptions configures the cookie manager.
//
// Example:
//
//	beacon.New(
//	    beacon.WithCookieOptions(
//	        cookie.WithSecret(os.Getenv("APP_KEY")),
//	        cookie.WithSecure(true),
//	    ),
//	)
func WithCookieOptions(opts ...cookie.Option) Option {
	return func(a *App) {
		a.cookies = cookie.New(opts...)
	}
}

// WithSession enables per-request session management. Sessions are
// started explicitly via c.StartSession() and saved automatically
// before the response is written.
//
// Example:
//
//	sessions, err := session.New(session.Config{
//	    Driver:   session.DriverDatabase,
//	    Lifetime: 2 * time.Hour,
//	}, session.Resources{DB: pool})
//
//	beacon.New(
//	    beacon.WithSession(sessions),
//	)
func WithSession(m *session.Manager) Option {
	return func(a *App) {
		a.sessions = m
	}
}

// WithJobs enables both job enqueueing and worker processing using River.
// A pgxpool.Pool is required for the job queue. Workers are started
// automatically when the app runs and stopped gracefully during shutdown.
//
// Example:
//
//	beacon.New(
//	    beacon.WithJobs(pool,
//	        job.WithTask(tasks.NewSendWelcome(mailer)),
//	        job.WithScheduledFunc("sweep_sessions", "0 * * * *", sessions.SweepFunc()),
//	        job.WithQueue("email", 10),
//	    ),
//	)
func WithJobs(pool *pgxpool.Pool, opts ...job.Option) Option {
	return func(a *App) {
		jm, err := job.NewManager(pool, opts...)
		if err != nil {
			panic(fmt.Sprintf("job manager: %v", err))
		}
		a.jobs = jm
		a.jobWorker = jm
	}
}

// WithJobEnqueuer enables job enqueueing without worker processing.
// Use this for web servers that dispatch work to separate worker
// processes.
//
// Example:
//
//	beacon.New(
//	    beacon.WithJobEnqueuer(pool),
//	)
//	// c.Enqueue("send_email", payload) works
func WithJobEnqueuer(pool *pgxpool.Pool, opts ...job.EnqueuerOption) Option {
	return func(a *App) {
		je, err := job.NewEnqueuer(pool, opts...)
		if err != nil {
			panic(fmt.Sprintf("job enqueuer: %v", err))
		}
		a.jobs = je
	}
}

// WithJobWorker enables job processing without enqueueing capability.
// Workers are started automatically when the app runs and stopped
// gracefully during shutdown. If workers need to enqueue follow-up
// tasks, use WithJobs instead.
//
// Example:
//
//	beacon.New(
//	    beacon.WithJobWorker(pool,
//	        job.WithTask(tasks.NewSendEmail(mailer)),
//	    ),
//	)
//	// c.Enqueue() returns job.ErrNotConfigured
func WithJobWorker(pool *pgxpool.Pool, opts ...job.Option) Option {
	return func(a *App) {
		jm, err := job.NewManager(pool, opts...)
		if err != nil {
			panic(fmt.Sprintf("job worker: %v", err))
		}
		a.jobWorker = jm
	}
}
