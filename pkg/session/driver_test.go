package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/beacon/pkg/cache"
	"github.com/dmitrymomot/beacon/pkg/cookie"
)

func TestMemoryDriver(t *testing.T) {
	t.Parallel()

	drv := newMemoryDriver(time.Hour, nil)
	ctx := t.Context()

	rec := newRecord("abc123")
	rec.Data["user_id"] = "42"

	require.NoError(t, drv.Save(ctx, rec, time.Hour))

	loaded, err := drv.Load(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "42", loaded.Data["user_id"])

	require.NoError(t, drv.Destroy(ctx, "abc123"))

	_, err = drv.Load(ctx, "abc123")
	assert.ErrorIs(t, err, ErrNotFound)
}

// countingCache wraps a cache backend and counts writes, proving the
// driver stores records through the injected backend.
type countingCache struct {
	cache.Cache
	sets int
}

func (c *countingCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.sets++
	return c.Cache.Set(ctx, key, value, ttl)
}

func TestMemoryDriverInjectedBackend(t *testing.T) {
	t.Parallel()

	backend := &countingCache{Cache: cache.NewMemory()}
	drv := newMemoryDriver(time.Hour, backend)
	ctx := t.Context()

	rec := newRecord("shared1")
	rec.Data["user_id"] = "7"
	require.NoError(t, drv.Save(ctx, rec, time.Hour))
	assert.Equal(t, 1, backend.sets)

	loaded, err := drv.Load(ctx, "shared1")
	require.NoError(t, err)
	assert.Equal(t, "7", loaded.Data["user_id"])

	mgr, err := New(Config{Driver: DriverMemory}, Resources{Cache: backend})
	require.NoError(t, err)

	p, err := mgr.Start(ctx, "")
	require.NoError(t, err)
	_, err = p.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, backend.sets)
}

func TestFileDriver(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	drv, err := newFileDriver(dir)
	require.NoError(t, err)
	ctx := t.Context()

	t.Run("roundtrip", func(t *testing.T) {
		rec := newRecord("file1")
		rec.Data["color"] = "red"
		require.NoError(t, drv.Save(ctx, rec, time.Hour))

		loaded, err := drv.Load(ctx, "file1")
		require.NoError(t, err)
		assert.Equal(t, "red", loaded.Data["color"])

		require.NoError(t, drv.Destroy(ctx, "file1"))
		_, err = drv.Load(ctx, "file1")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("rejects path traversal", func(t *testing.T) {
		_, err := drv.Load(ctx, "../etc/passwd")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("destroy missing is not an error", func(t *testing.T) {
		assert.NoError(t, drv.Destroy(ctx, "never-existed"))
	})

	t.Run("sweep removes stale files", func(t *testing.T) {
		stale := newRecord("stale1")
		fresh := newRecord("fresh1")
		require.NoError(t, drv.Save(ctx, stale, time.Hour))
		require.NoError(t, drv.Save(ctx, fresh, time.Hour))

		past := time.Now().Add(-2 * time.Hour)
		require.NoError(t, os.Chtimes(filepath.Join(dir, "stale1.json"), past, past))

		require.NoError(t, drv.Sweep(ctx, time.Now().Add(-time.Hour)))

		_, err := drv.Load(ctx, "stale1")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = drv.Load(ctx, "fresh1")
		assert.NoError(t, err)
	})
}

func TestCookieDriver(t *testing.T) {
	t.Parallel()

	codec, err := cookie.NewCodec("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	drv := newCookieDriver(codec)
	ctx := t.Context()

	t.Run("record roundtrips through the token", func(t *testing.T) {
		t.Parallel()

		rec := newRecord("tok1")
		rec.Data["theme"] = "dark"

		token, err := drv.EncodeToken(rec)
		require.NoError(t, err)
		assert.NotContains(t, token, "dark")

		loaded, err := drv.Load(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "tok1", loaded.ID)
		assert.Equal(t, "dark", loaded.Data["theme"])
	})

	t.Run("tampered token reads as missing", func(t *testing.T) {
		t.Parallel()

		_, err := drv.Load(ctx, "garbage-token")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
