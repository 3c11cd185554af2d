package cache_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/beacon/pkg/cache"
)

func TestMemory_SetGet(t *testing.T) {
	t.Parallel()
	c := cache.NewMemory(cache.WithCleanupInterval(0))
	defer c.Close()

	require.NoError(t, c.Set(t.Context(), "k", []byte("v"), time.Minute))

	got, err := c.Get(t.Context(), "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestMemory_GetMissing(t *testing.T) {
	t.Parallel()
	c := cache.NewMemory(cache.WithCleanupInterval(0))
	defer c.Close()

	_, err := c.Get(t.Context(), "missing")
	require.ErrorIs(t, err, cache.ErrNotFound)
}

func TestMemory_Expiration(t *testing.T) {
	t.Parallel()
	c := cache.NewMemory(cache.WithCleanupInterval(0))
	defer c.Close()

	require.NoError(t, c.Set(t.Context(), "k", []byte("v"), 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	_, err := c.Get(t.Context(), "k")
	require.ErrorIs(t, err, cache.ErrNotFound)

	ok, err := c.Has(t.Context(), "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemory_NegativeTTLNeverExpires(t *testing.T) {
	t.Parallel()
	c := cache.NewMemory(cache.WithDefaultTTL(time.Nanosecond), cache.WithCleanupInterval(0))
	defer c.Close()

	require.NoError(t, c.Set(t.Context(), "k", []byte("v"), -1))
	time.Sleep(5 * time.Millisecond)

	got, err := c.Get(t.Context(), "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestMemory_DeleteAndClear(t *testing.T) {
	t.Parallel()
	c := cache.NewMemory(cache.WithCleanupInterval(0))
	defer c.Close()

	require.NoError(t, c.Set(t.Context(), "a", []byte("1"), time.Minute))
	require.NoError(t, c.Set(t.Context(), "b", []byte("2"), time.Minute))

	require.NoError(t, c.Delete(t.Context(), "a"))
	_, err := c.Get(t.Context(), "a")
	require.ErrorIs(t, err, cache.ErrNotFound)

	require.NoError(t, c.Clear(t.Context()))
	_, err = c.Get(t.Context(), "b")
	require.ErrorIs(t, err, cache.ErrNotFound)
}

func TestMemory_Closed(t *testing.T) {
	t.Parallel()
	c := cache.NewMemory(cache.WithCleanupInterval(0))
	require.NoError(t, c.Close())
	require.NoError(t, c.Close()) // idempotent

	require.ErrorIs(t, c.Set(t.Context(), "k", nil, 0), cache.ErrClosed)
	require.ErrorIs(t, c.Delete(t.Context(), "k"), cache.ErrClosed)
	require.ErrorIs(t, c.Clear(t.Context()), cache.ErrClosed)
}
