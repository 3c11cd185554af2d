package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisDriver stores records in Redis with native TTL expiry.
type redisDriver struct {
	client redis.UniversalClient
}

func newRedisDriver(client redis.UniversalClient) *redisDriver {
	return &redisDriver{client: client}
}

func (d *redisDriver) Load(ctx context.Context, id string) (*Record, error) {
	b, err := d.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeRecord(b)
}

func (d *redisDriver) Save(ctx context.Context, rec *Record, lifetime time.Duration) error {
	b, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	return d.client.Set(ctx, sessionKey(rec.ID), b, lifetime).Err()
}

func (d *redisDriver) Destroy(ctx context.Context, id string) error {
	return d.client.Del(ctx, sessionKey(id)).Err()
}

func (d *redisDriver) Sweep(context.Context, time.Time) error {
	return nil
}

// sessionKey namespaces session records in shared stores.
func sessionKey(id string) string {
	return "session:" + id
}

var _ Driver = (*redisDriver)(nil)
