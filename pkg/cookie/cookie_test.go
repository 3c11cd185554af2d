package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/beacon/pkg/cookie"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// roundTrip replays cookies written by a previous response into a new request.
func roundTrip(t *testing.T, rec *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func TestManager_Plain(t *testing.T) {
	t.Parallel()
	m := cookie.New()

	rec := httptest.NewRecorder()
	m.Set(rec, "theme", "dark", 3600)

	got, err := m.Get(roundTrip(t, rec), "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", got)
}

func TestManager_GetMissing(t *testing.T) {
	t.Parallel()
	m := cookie.New()

	_, err := m.Get(httptest.NewRequest(http.MethodGet, "/", nil), "nope")
	require.ErrorIs(t, err, cookie.ErrNotFound)
}

func TestManager_Delete(t *testing.T) {
	t.Parallel()
	m := cookie.New()

	rec := httptest.NewRecorder()
	m.Delete(rec, "theme")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
	assert.Empty(t, cookies[0].Value)
}

func TestWithSecret_ShortSecretPanics(t *testing.T) {
	t.Parallel()

	assert.PanicsWithError(t, cookie.ErrBadSecret.Error(), func() {
		cookie.New(cookie.WithSecret("too-short"))
	})
}

func TestManager_Signed(t *testing.T) {
	t.Parallel()
	m := cookie.New(cookie.WithSecret(testSecret))

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		require.NoError(t, m.SetSigned(rec, "uid", "42", 0))

		got, err := m.GetSigned(roundTrip(t, rec), "uid")
		require.NoError(t, err)
		assert.Equal(t, "42", got)
	})

	t.Run("tampered value rejected", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		require.NoError(t, m.SetSigned(rec, "uid", "42", 0))

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		c := rec.Result().Cookies()[0]
		c.Value = "x" + c.Value
		r.AddCookie(c)

		_, err := m.GetSigned(r, "uid")
		require.ErrorIs(t, err, cookie.ErrBadSig)
	})

	t.Run("no secret", func(t *testing.T) {
		t.Parallel()
		bare := cookie.New()
		require.ErrorIs(t, bare.SetSigned(httptest.NewRecorder(), "a", "b", 0), cookie.ErrNoSecret)
	})
}

func TestManager_Encrypted(t *testing.T) {
	t.Parallel()
	m := cookie.New(cookie.WithSecret(testSecret))

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		require.NoError(t, m.SetEncrypted(rec, "data", "secret payload", 0))

		// Ciphertext must not leak plaintext.
		assert.NotContains(t, rec.Result().Cookies()[0].Value, "secret payload")

		got, err := m.GetEncrypted(roundTrip(t, rec), "data")
		require.NoError(t, err)
		assert.Equal(t, "secret payload", got)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "data", Value: "not-a-ciphertext"})

		_, err := m.GetEncrypted(r, "data")
		require.ErrorIs(t, err, cookie.ErrDecrypt)
	})
}

func TestCodec(t *testing.T) {
	t.Parallel()

	t.Run("short secret rejected", func(t *testing.T) {
		t.Parallel()
		_, err := cookie.NewCodec("short")
		require.ErrorIs(t, err, cookie.ErrBadSecret)
	})

	t.Run("empty secret rejected", func(t *testing.T) {
		t.Parallel()
		_, err := cookie.NewCodec("")
		require.ErrorIs(t, err, cookie.ErrNoSecret)
	})

	t.Run("encrypt round trip", func(t *testing.T) {
		t.Parallel()
		codec, err := cookie.NewCodec(testSecret)
		require.NoError(t, err)

		sealed, err := codec.Encrypt([]byte(`{"id":"abc"}`))
		require.NoError(t, err)

		plain, err := codec.Decrypt(sealed)
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"abc"}`, string(plain))
	})

	t.Run("sign round trip", func(t *testing.T) {
		t.Parallel()
		codec, err := cookie.NewCodec(testSecret)
		require.NoError(t, err)

		value, err := codec.Verify(codec.Sign([]byte("hello")))
		require.NoError(t, err)
		assert.Equal(t, "hello", string(value))
	})
}
