package session

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrymomot/beacon/pkg/cookie"
)

// cookieDriver seals the whole record into the client token, so the
// server stores nothing. Load decrypts the token; Save, Destroy, and
// Sweep have no server-side work to do.
type cookieDriver struct {
	codec *cookie.Codec
}

func newCookieDriver(codec *cookie.Codec) *cookieDriver {
	return &cookieDriver{codec: codec}
}

// Load treats id as the encrypted token produced by EncodeToken.
func (d *cookieDriver) Load(_ context.Context, id string) (*Record, error) {
	plaintext, err := d.codec.Decrypt(id)
	if err != nil {
		if errors.Is(err, cookie.ErrDecrypt) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return decodeRecord(plaintext)
}

func (d *cookieDriver) Save(context.Context, *Record, time.Duration) error {
	return nil
}

func (d *cookieDriver) Destroy(context.Context, string) error {
	return nil
}

func (d *cookieDriver) Sweep(context.Context, time.Time) error {
	return nil
}

func (d *cookieDriver) EncodeToken(rec *Record) (string, error) {
	b, err := encodeRecord(rec)
	if err != nil {
		return "", err
	}
	return d.codec.Encrypt(b)
}

var _ TokenDriver = (*cookieDriver)(nil)
