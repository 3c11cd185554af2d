package session

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrymomot/beacon/pkg/cache"
)

// memoryDriver keeps records in a byte cache, an in-process map unless
// a shared backend is injected through Resources.Cache. The backend
// owns expiry, so Sweep is a no-op.
type memoryDriver struct {
	store cache.Cache
}

func newMemoryDriver(lifetime time.Duration, store cache.Cache) *memoryDriver {
	if store == nil {
		store = cache.NewMemory(cache.WithDefaultTTL(lifetime))
	}
	return &memoryDriver{store: store}
}

func (d *memoryDriver) Load(ctx context.Context, id string) (*Record, error) {
	b, err := d.store.Get(ctx, id)
	if errors.Is(err, cache.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeRecord(b)
}

func (d *memoryDriver) Save(ctx context.Context, rec *Record, lifetime time.Duration) error {
	b, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	return d.store.Set(ctx, rec.ID, b, lifetime)
}

func (d *memoryDriver) Destroy(ctx context.Context, id string) error {
	return d.store.Delete(ctx, id)
}

func (d *memoryDriver) Sweep(context.Context, time.Time) error {
	return nil
}

var _ Driver = (*memoryDriver)(nil)
