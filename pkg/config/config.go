package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Errors.
var (
	ErrReadFile   = errors.New("config: failed to read file")
	ErrParseFile  = errors.New("config: failed to parse file")
	ErrMissingKey = errors.New("config: application key is required")
	ErrShortKey   = errors.New("config: application key must be at least 32 bytes")
)

// Config holds the application configuration loaded from a YAML file with
// environment overrides. Zero values fall back to the documented defaults.
type Config struct {
	// Name is the application name, used as the default logger component.
	Name string `yaml:"name"`

	// Key is the application secret used for cookie signing and encryption.
	// It must be at least 32 bytes; startup fails without it.
	Key string `yaml:"key"`

	// Address is the HTTP listen address. Defaults to ":8080".
	Address string `yaml:"address"`

	Session SessionConfig `yaml:"session"`

	// DatabaseURL and RedisURL configure the optional backing stores.
	DatabaseURL string `yaml:"database_url"`
	RedisURL    string `yaml:"redis_url"`

	// SentryDSN enables the Sentry log destination when non-empty.
	SentryDSN string `yaml:"sentry_dsn"`
}

// SessionConfig selects and tunes the session driver.
type SessionConfig struct {
	// Driver is one of: memory, cookie, database, file, memcache, redis.
	Driver string `yaml:"driver"`

	// Lifetime is how long an idle session survives. Defaults to 2h.
	Lifetime time.Duration `yaml:"lifetime"`

	// CookieName is the session cookie name. Defaults to "beacon_session".
	CookieName string `yaml:"cookie_name"`

	// Path is the directory for the file driver.
	Path string `yaml:"path"`

	// MemcacheServers lists memcached addresses for the memcache driver.
	MemcacheServers []string `yaml:"memcache_servers"`
}

// Load reads configuration from a YAML file and applies environment
// overrides (APP_KEY, APP_ADDRESS, DATABASE_URL, REDIS_URL, SENTRY_DSN,
// SESSION_DRIVER). A missing file is not an error when path is empty;
// configuration then comes from the environment alone.
func Load(path string) (Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("%w: %s", ErrReadFile, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("%w: %s", ErrParseFile, err)
		}
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	if cfg.Key == "" {
		return cfg, ErrMissingKey
	}
	if len(cfg.Key) < 32 {
		return cfg, ErrShortKey
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	override(&cfg.Key, "APP_KEY")
	override(&cfg.Address, "APP_ADDRESS")
	override(&cfg.DatabaseURL, "DATABASE_URL")
	override(&cfg.RedisURL, "REDIS_URL")
	override(&cfg.SentryDSN, "SENTRY_DSN")
	override(&cfg.Session.Driver, "SESSION_DRIVER")
}

func override(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Name == "" {
		cfg.Name = "beacon"
	}
	if cfg.Address == "" {
		cfg.Address = ":8080"
	}
	if cfg.Session.Driver == "" {
		cfg.Session.Driver = "memory"
	}
	if cfg.Session.Lifetime == 0 {
		cfg.Session.Lifetime = 2 * time.Hour
	}
	if cfg.Session.CookieName == "" {
		cfg.Session.CookieName = "beacon_session"
	}
}
