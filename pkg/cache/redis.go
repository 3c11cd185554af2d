package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a cache backed by Redis. Values are stored as raw bytes; the
// caller owns serialization.
type Redis struct {
	client redis.UniversalClient
	opts   *redisOptions
}

// RedisOption configures the Redis cache.
type RedisOption func(*redisOptions)

type redisOptions struct {
	prefix     string
	defaultTTL time.Duration
}

// WithPrefix namespaces all keys as "<prefix>:<key>".
func WithPrefix(prefix string) RedisOption {
	return func(o *redisOptions) {
		o.prefix = prefix
	}
}

// WithRedisDefaultTTL sets the TTL used when Set receives a zero duration.
// Default: 5 minutes.
func WithRedisDefaultTTL(d time.Duration) RedisOption {
	return func(o *redisOptions) {
		if d != 0 {
			o.defaultTTL = d
		}
	}
}

// NewRedis creates a new Redis-backed cache. The client should be obtained
// from pkg/redis.Open.
func NewRedis(client redis.UniversalClient, opts ...RedisOption) *Redis {
	o := &redisOptions{defaultTTL: 5 * time.Minute}
	for _, opt := range opts {
		opt(o)
	}
	return &Redis{client: client, opts: o}
}

// Get retrieves a value by key.
// Returns ErrNotFound if the key does not exist.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.prefixed(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Set stores a value with the given TTL.
// Negative TTL maps to Redis's "no expiration".
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = r.opts.defaultTTL
	}
	return r.client.Set(ctx, r.prefixed(key), value, max(ttl, 0)).Err()
}

// Delete removes a key.
func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefixed(key)).Err()
}

// Has checks whether a key exists.
func (r *Redis) Has(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, r.prefixed(key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Clear removes all entries. With a prefix configured only matching keys are
// removed via SCAN (non-blocking); without one the whole DB is flushed.
func (r *Redis) Clear(ctx context.Context) error {
	if r.opts.prefix == "" {
		return r.client.FlushDB(ctx).Err()
	}

	pattern := r.opts.prefix + ":*"
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if cursor = next; cursor == 0 {
			return nil
		}
	}
}

// Close is a no-op; the Redis client lifecycle is owned by the caller.
func (r *Redis) Close() error {
	return nil
}

func (r *Redis) prefixed(key string) string {
	if r.opts.prefix == "" {
		return key
	}
	return r.opts.prefix + ":" + key
}

var _ Cache = (*Redis)(nil)
