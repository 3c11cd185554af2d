package session

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/beacon/pkg/cache"
	"github.com/dmitrymomot/beacon/pkg/cookie"
	"github.com/dmitrymomot/beacon/pkg/id"
)

// Driver names accepted by Config.Driver.
const (
	DriverMemory   = "memory"
	DriverCookie   = "cookie"
	DriverDatabase = "database"
	DriverFile     = "file"
	DriverMemcache = "memcache"
	DriverRedis    = "redis"
)

// Config selects and parameterizes the session driver.
type Config struct {
	// Driver is one of the Driver* constants.
	Driver string
	// Lifetime bounds session inactivity. Zero falls back to two hours.
	Lifetime time.Duration
	// CookieName is the client cookie carrying the session token.
	CookieName string
	// Path is the storage directory for the file driver.
	Path string
	// Servers lists memcache addresses for the memcache driver.
	Servers []string
}

// Resources are the external handles drivers draw from. Only the
// handle matching the configured driver needs to be set.
type Resources struct {
	DB    *pgxpool.Pool
	Redis redis.UniversalClient
	Codec *cookie.Codec

	// Cache replaces the memory driver's in-process store with a shared
	// backend such as cache.NewRedis. Nil keeps the per-process default.
	Cache cache.Cache
}

// Manager constructs one Payload per request and owns the driver.
type Manager struct {
	driver     Driver
	lifetime   time.Duration
	cookieName string
}

// New validates the configuration and builds the driver. Configuration
// faults surface here, before the first request, never during one.
func New(cfg Config, res Resources) (*Manager, error) {
	if cfg.Lifetime <= 0 {
		cfg.Lifetime = 2 * time.Hour
	}
	if cfg.CookieName == "" {
		cfg.CookieName = "beacon_session"
	}

	var (
		drv Driver
		err error
	)
	switch cfg.Driver {
	case DriverMemory, "":
		drv = newMemoryDriver(cfg.Lifetime, res.Cache)
	case DriverCookie:
		if res.Codec == nil {
			err = ErrMissingKey
		} else {
			drv = newCookieDriver(res.Codec)
		}
	case DriverDatabase:
		if res.DB == nil {
			err = ErrMissingDB
		} else {
			drv = newDatabaseDriver(res.DB)
		}
	case DriverFile:
		if cfg.Path == "" {
			err = ErrMissingPath
		} else {
			drv, err = newFileDriver(cfg.Path)
		}
	case DriverMemcache:
		if len(cfg.Servers) == 0 {
			err = ErrMissingServers
		} else {
			drv = newMemcacheDriver(cfg.Servers)
		}
	case DriverRedis:
		if res.Redis == nil {
			err = ErrMissingRedis
		} else {
			drv = newRedisDriver(res.Redis)
		}
	default:
		err = errors.Join(ErrUnknownDriver, errors.New(cfg.Driver))
	}
	if err != nil {
		return nil, err
	}

	return &Manager{
		driver:     drv,
		lifetime:   cfg.Lifetime,
		cookieName: cfg.CookieName,
	}, nil
}

// Start loads the session identified by token or creates a fresh one
// when the token is empty, unknown, or expired. Every payload carries a
// CSRF token after Start.
func (m *Manager) Start(ctx context.Context, token string) (*Payload, error) {
	p := &Payload{
		driver:   m.driver,
		lifetime: m.lifetime,
	}

	if token != "" {
		rec, err := m.driver.Load(ctx, token)
		switch {
		case err == nil && time.Since(rec.LastActivity) <= m.lifetime:
			p.rec = rec
			p.exists = true
		case err == nil:
			_ = m.driver.Destroy(ctx, rec.ID)
		case errors.Is(err, ErrNotFound), errors.Is(err, ErrDecode), errors.Is(err, ErrExpired):
			// stale or tampered token, fall through to a fresh session
		default:
			return nil, err
		}
	}

	if p.rec == nil {
		p.rec = newRecord(id.NewULID())
	}
	if _, ok := p.rec.Data[TokenKey]; !ok {
		p.rec.Data[TokenKey] = newToken()
	}
	return p, nil
}

// CookieName returns the configured client cookie name.
func (m *Manager) CookieName() string {
	return m.cookieName
}

// Lifetime returns the configured inactivity bound.
func (m *Manager) Lifetime() time.Duration {
	return m.lifetime
}

// SweepFunc returns a job body that purges expired records. Wire it as
// a scheduled task; drivers with native expiry make it a cheap no-op.
func (m *Manager) SweepFunc() func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return m.driver.Sweep(ctx, time.Now().Add(-m.lifetime))
	}
}
