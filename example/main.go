package main

import (
	"context"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/beacon"
	"github.com/dmitrymomot/beacon/example/controllers"
	"github.com/dmitrymomot/beacon/example/views"
	"github.com/dmitrymomot/beacon/middlewares"
	"github.com/dmitrymomot/beacon/pkg/cache"
	"github.com/dmitrymomot/beacon/pkg/config"
	"github.com/dmitrymomot/beacon/pkg/cookie"
	"github.com/dmitrymomot/beacon/pkg/db"
	"github.com/dmitrymomot/beacon/pkg/logger"
	"github.com/dmitrymomot/beacon/pkg/redis"
	"github.com/dmitrymomot/beacon/pkg/session"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		logger.New().Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	log := logger.NewWithSentry(logger.SentryConfig{
		DSN: cfg.SentryDSN,
	}, middlewares.RequestIDExtractor()).With("component", cfg.Name)

	// Backing stores. The database pool also carries the job queue.
	var (
		pool        *pgxpool.Pool
		runOpts     []beacon.RunOption
		healthOpts  []beacon.HealthOption
		sessionOpts []beacon.Option
	)

	if cfg.DatabaseURL != "" {
		pool, err = db.Connect(ctx, cfg.DatabaseURL, db.WithMinConns(2))
		if err != nil {
			log.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		runOpts = append(runOpts, beacon.ShutdownHook(db.Shutdown(pool)))
		healthOpts = append(healthOpts, beacon.WithReadinessCheck(db.Healthcheck(pool)))
	}

	sessions, err := buildSessions(ctx, cfg, pool, &runOpts, &healthOpts)
	if err != nil {
		log.Error("failed to configure sessions", "error", err)
		os.Exit(1)
	}
	sessionOpts = append(sessionOpts, beacon.WithSession(sessions))

	// Background jobs: periodic sweep of expired session records.
	if pool != nil {
		if err := session.Migrate(ctx, pool, log); err != nil {
			log.Error("failed to run session migrations", "error", err)
			os.Exit(1)
		}
		sessionOpts = append(sessionOpts, beacon.WithJobs(pool,
			beacon.WithScheduledFunc("sweep_sessions", "0 * * * *", sessions.SweepFunc()),
			beacon.WithJobLogger(log),
		))
	}

	registry := beacon.NewViewRegistry()
	registry.Register("main", views.Main())
	registry.RegisterLayout("main", views.Shell())

	site := beacon.NewBundle("site").
		Controller("pages", controllers.NewPages).
		Controller("auth", controllers.NewAuth).
		Controller("account", controllers.NewAccount)

	opts := []beacon.Option{
		beacon.WithCustomLogger(log),
		beacon.WithCookieOptions(
			beacon.WithCookieSecret(cfg.Key),
			beacon.WithCookieHTTPOnly(true),
		),
		beacon.WithBundles(site),
		beacon.WithViews(registry),
		beacon.WithMiddleware(
			middlewares.RequestID(),
			middlewares.Recover(),
			startSession,
		),
		beacon.WithHealthChecks(healthOpts...),
	}
	opts = append(opts, sessionOpts...)

	app := beacon.New(opts...)

	app.GET("/", "site.pages@index")
	app.GET("/{page}", "site.pages@(:1)")
	app.GET("/login", "site.auth@show")
	app.POST("/login", "site.auth@login")
	app.POST("/logout", "site.auth@logout")
	app.GET("/account", "site.account@show")

	runOpts = append(runOpts, beacon.Logger(log), beacon.ShutdownTimeout(30*time.Second))
	if err := app.Run(cfg.Address, runOpts...); err != nil {
		log.Error("application error", "error", err)
		os.Exit(1)
	}
}

// startSession provisions the session for every request so filters and
// actions can rely on it.
func startSession(next beacon.HandlerFunc) beacon.HandlerFunc {
	return func(c beacon.Context) error {
		if err := c.StartSession(); err != nil {
			return err
		}
		return next(c)
	}
}

// buildSessions constructs the session manager for the configured
// driver, wiring driver resources and their health checks.
func buildSessions(ctx context.Context, cfg config.Config, pool *pgxpool.Pool, runOpts *[]beacon.RunOption, healthOpts *[]beacon.HealthOption) (*beacon.SessionManager, error) {
	res := beacon.SessionResources{DB: pool}

	switch cfg.Session.Driver {
	case session.DriverMemory, "":
		// With a Redis URL configured the memory driver stores records
		// in the shared cache instead of the per-process map.
		if cfg.RedisURL != "" {
			client, err := redis.Open(ctx, cfg.RedisURL)
			if err != nil {
				return nil, err
			}
			res.Cache = cache.NewRedis(client, cache.WithPrefix("sessions"))
			*runOpts = append(*runOpts, beacon.ShutdownHook(redis.Shutdown(client)))
			*healthOpts = append(*healthOpts, beacon.WithReadinessCheck(redis.Healthcheck(client)))
		}
	case session.DriverCookie:
		codec, err := cookie.NewCodec(cfg.Key)
		if err != nil {
			return nil, err
		}
		res.Codec = codec
	case session.DriverRedis:
		client, err := redis.Open(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		res.Redis = client
		*runOpts = append(*runOpts, beacon.ShutdownHook(redis.Shutdown(client)))
		*healthOpts = append(*healthOpts, beacon.WithReadinessCheck(redis.Healthcheck(client)))
	}

	return beacon.NewSession(beacon.SessionConfig{
		Driver:     cfg.Session.Driver,
		Lifetime:   cfg.Session.Lifetime,
		CookieName: cfg.Session.CookieName,
		Path:       cfg.Session.Path,
		Servers:    cfg.Session.MemcacheServers,
	}, res)
}
