package id_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/beacon/pkg/id"
)

func TestNewULID(t *testing.T) {
	t.Parallel()

	t.Run("format", func(t *testing.T) {
		t.Parallel()

		v := id.NewULID()
		require.Len(t, v, 26)
		for _, r := range v {
			assert.True(t, strings.ContainsRune("0123456789ABCDEFGHJKMNPQRSTVWXYZ", r), "unexpected char %q", r)
		}
	})

	t.Run("unique", func(t *testing.T) {
		t.Parallel()

		seen := make(map[string]struct{}, 1000)
		for range 1000 {
			v := id.NewULID()
			_, dup := seen[v]
			require.False(t, dup, "duplicate ULID %s", v)
			seen[v] = struct{}{}
		}
	})

	t.Run("sortable", func(t *testing.T) {
		t.Parallel()

		// IDs generated in the same millisecond share a timestamp prefix,
		// so only assert non-decreasing order across a small gap.
		a := id.NewULID()
		b := id.NewULID()
		assert.LessOrEqual(t, a[:10], b[:10])
	})
}
