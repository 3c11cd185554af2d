package internal

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseWriterBeforeWriteHooks(t *testing.T) {
	t.Parallel()

	t.Run("hooks run before first byte", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		w := NewResponseWriter(rec)

		w.OnBeforeWrite(func() {
			w.Header().Set("Set-Cookie", "sid=abc")
		})

		_, err := w.Write([]byte("body"))
		require.NoError(t, err)

		assert.Equal(t, "sid=abc", rec.Header().Get("Set-Cookie"))
		assert.Equal(t, "body", rec.Body.String())
	})

	t.Run("hooks run once", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		w := NewResponseWriter(rec)

		calls := 0
		w.OnBeforeWrite(func() { calls++ })

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("a"))
		_, _ = w.Write([]byte("b"))

		assert.Equal(t, 1, calls)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})
}

func TestResponseWriterState(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	w := NewResponseWriter(rec)

	assert.False(t, w.Written())
	assert.Equal(t, http.StatusOK, w.Status())

	w.WriteHeader(http.StatusTeapot)
	w.WriteHeader(http.StatusOK) // ignored

	assert.True(t, w.Written())
	assert.Equal(t, http.StatusTeapot, w.Status())
	assert.Equal(t, http.StatusTeapot, rec.Code)

	n, err := w.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, int64(5), w.Size())
}
