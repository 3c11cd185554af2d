package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterCollectionSpec(t *testing.T) {
	t.Parallel()

	fc := newFilterCollection("auth | csrf|", "admin")
	assert.Equal(t, []string{"auth", "csrf"}, fc.Names())
	assert.Equal(t, []string{"admin"}, fc.Params())
}

func TestFilterCollectionAppliesTo(t *testing.T) {
	t.Parallel()

	t.Run("unrestricted admits everything", func(t *testing.T) {
		t.Parallel()

		fc := newFilterCollection("auth")
		assert.True(t, fc.AppliesTo("index"))
		assert.True(t, fc.AppliesTo("show"))
	})

	t.Run("only restricts to listed methods", func(t *testing.T) {
		t.Parallel()

		fc := newFilterCollection("auth").Only("edit", "destroy")
		assert.True(t, fc.AppliesTo("edit"))
		assert.False(t, fc.AppliesTo("index"))
	})

	t.Run("except excludes listed methods", func(t *testing.T) {
		t.Parallel()

		fc := newFilterCollection("auth").Except("index")
		assert.False(t, fc.AppliesTo("index"))
		assert.True(t, fc.AppliesTo("edit"))
	})

	t.Run("only wins over except", func(t *testing.T) {
		t.Parallel()

		fc := newFilterCollection("auth").Only("edit").Except("edit")
		assert.True(t, fc.AppliesTo("edit"))
	})
}

func TestFilterRegistry(t *testing.T) {
	t.Parallel()

	r := NewFilterRegistry()

	t.Run("builtins preloaded", func(t *testing.T) {
		t.Parallel()

		_, ok := r.beforeFilter("auth")
		assert.True(t, ok)
		_, ok = r.beforeFilter("csrf")
		assert.True(t, ok)
	})

	t.Run("custom registration", func(t *testing.T) {
		t.Parallel()

		r.Before("noop", func(Context, ...string) any { return nil })
		r.After("audit", func(Context, Response, ...string) {})

		_, ok := r.beforeFilter("noop")
		require.True(t, ok)
		_, ok = r.afterFilter("audit")
		require.True(t, ok)

		_, ok = r.beforeFilter("missing")
		assert.False(t, ok)
	})
}
