package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Well-known payload keys.
const (
	// TokenKey holds the CSRF token inside every session.
	TokenKey = "_token"
	// OldInputKey holds flashed form input for redisplay after a redirect.
	OldInputKey = "_old_input"
)

// Record is the persisted shape of a session. Flash data lives in two
// generations: NewFlash was written during the current request and
// survives exactly one more request as OldFlash.
type Record struct {
	ID           string         `json:"id"`
	Data         map[string]any `json:"data"`
	NewFlash     map[string]any `json:"new_flash"`
	OldFlash     map[string]any `json:"old_flash"`
	LastActivity time.Time      `json:"last_activity"`
}

func newRecord(id string) *Record {
	return &Record{
		ID:           id,
		Data:         make(map[string]any),
		NewFlash:     make(map[string]any),
		OldFlash:     make(map[string]any),
		LastActivity: time.Now(),
	}
}

// normalize fills nil maps after decoding.
func (r *Record) normalize() {
	if r.Data == nil {
		r.Data = make(map[string]any)
	}
	if r.NewFlash == nil {
		r.NewFlash = make(map[string]any)
	}
	if r.OldFlash == nil {
		r.OldFlash = make(map[string]any)
	}
}

func encodeRecord(r *Record) ([]byte, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, errors.Join(ErrEncode, err)
	}
	return b, nil
}

func decodeRecord(b []byte) (*Record, error) {
	var r Record
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, errors.Join(ErrDecode, err)
	}
	r.normalize()
	return &r, nil
}

// Driver persists session records. Implementations are safe for
// concurrent use.
type Driver interface {
	// Load returns the record stored under id. Missing records return
	// ErrNotFound.
	Load(ctx context.Context, id string) (*Record, error)

	// Save persists the record. Lifetime bounds how long the record
	// must survive; drivers with native expiry use it as the TTL.
	Save(ctx context.Context, rec *Record, lifetime time.Duration) error

	// Destroy removes the record stored under id. Destroying a missing
	// record is not an error.
	Destroy(ctx context.Context, id string) error

	// Sweep removes records whose last activity predates before.
	// Drivers with native expiry implement it as a no-op.
	Sweep(ctx context.Context, before time.Time) error
}

// TokenDriver is implemented by drivers that carry the whole record in
// the client token instead of a server-side store. The manager sends
// EncodeToken output to the client in place of the record ID.
type TokenDriver interface {
	Driver
	EncodeToken(rec *Record) (string, error)
}
