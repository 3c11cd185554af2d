package session

import (
	"context"
	"errors"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
)

// memcacheDriver stores records in memcached with native TTL expiry.
type memcacheDriver struct {
	client *memcache.Client
}

func newMemcacheDriver(servers []string) *memcacheDriver {
	return &memcacheDriver{client: memcache.New(servers...)}
}

func (d *memcacheDriver) Load(_ context.Context, id string) (*Record, error) {
	item, err := d.client.Get(sessionKey(id))
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeRecord(item.Value)
}

func (d *memcacheDriver) Save(_ context.Context, rec *Record, lifetime time.Duration) error {
	b, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	return d.client.Set(&memcache.Item{
		Key:        sessionKey(rec.ID),
		Value:      b,
		Expiration: int32(lifetime / time.Second),
	})
}

func (d *memcacheDriver) Destroy(_ context.Context, id string) error {
	err := d.client.Delete(sessionKey(id))
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil
	}
	return err
}

func (d *memcacheDriver) Sweep(context.Context, time.Time) error {
	return nil
}

var _ Driver = (*memcacheDriver)(nil)
