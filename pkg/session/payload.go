package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/dmitrymomot/beacon/pkg/id"
)

// Payload is the per-request session data bag. Exactly one payload
// exists per request; it is created by Manager.Start and flushed back
// through the driver by Save before the response body is written.
//
// Payload is not safe for concurrent use. A request handles its own
// payload on a single goroutine.
type Payload struct {
	rec       *Record
	driver    Driver
	lifetime  time.Duration
	exists    bool
	keep      map[string]struct{}
	reflash   bool
	destroyed bool
}

// Has reports whether key resolves through data or either flash
// generation.
func (p *Payload) Has(key string) bool {
	_, ok := p.lookup(key)
	return ok
}

// Get returns the value stored under key. Regular data wins over flash
// data; the current request's flashes win over the previous request's.
func (p *Payload) Get(key string) (any, bool) {
	return p.lookup(key)
}

// GetString returns the value under key when it is a string.
func (p *Payload) GetString(key string) string {
	v, ok := p.lookup(key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

func (p *Payload) lookup(key string) (any, bool) {
	if v, ok := p.rec.Data[key]; ok {
		return v, true
	}
	if v, ok := p.rec.NewFlash[key]; ok {
		return v, true
	}
	if v, ok := p.rec.OldFlash[key]; ok {
		return v, true
	}
	return nil, false
}

// Put stores a value that persists across requests until forgotten.
func (p *Payload) Put(key string, value any) {
	p.rec.Data[key] = value
}

// Flash stores a value visible to the current and the next request
// only. After the next request's save it is gone.
func (p *Payload) Flash(key string, value any) {
	p.rec.NewFlash[key] = value
}

// Keep promotes old flash values back into the new generation so they
// survive one more request. With no keys it keeps everything.
func (p *Payload) Keep(keys ...string) {
	if len(keys) == 0 {
		p.reflash = true
		return
	}
	if p.keep == nil {
		p.keep = make(map[string]struct{}, len(keys))
	}
	for _, k := range keys {
		p.keep[k] = struct{}{}
	}
}

// Reflash keeps all old flash values for one more request.
func (p *Payload) Reflash() {
	p.reflash = true
}

// Forget removes key from data and both flash generations.
func (p *Payload) Forget(key string) {
	delete(p.rec.Data, key)
	delete(p.rec.NewFlash, key)
	delete(p.rec.OldFlash, key)
}

// Flush clears all session data and issues a fresh CSRF token.
func (p *Payload) Flush() {
	p.rec.Data = make(map[string]any)
	p.rec.NewFlash = make(map[string]any)
	p.rec.OldFlash = make(map[string]any)
	p.keep = nil
	p.reflash = false
	p.rec.Data[TokenKey] = newToken()
}

// ID returns the session identifier.
func (p *Payload) ID() string {
	return p.rec.ID
}

// Token returns the CSRF token bound to this session.
func (p *Payload) Token() string {
	s, _ := p.rec.Data[TokenKey].(string)
	return s
}

// RegenerateToken replaces the CSRF token, invalidating outstanding
// forms.
func (p *Payload) RegenerateToken() string {
	t := newToken()
	p.rec.Data[TokenKey] = t
	return t
}

// Regenerate assigns a fresh session ID while keeping the data. The
// record previously stored under the old ID is destroyed. Call after
// privilege changes to defend against session fixation.
func (p *Payload) Regenerate(ctx context.Context) error {
	old := p.rec.ID
	p.rec.ID = id.NewULID()
	if p.exists {
		if err := p.driver.Destroy(ctx, old); err != nil {
			return err
		}
		p.exists = false
	}
	return nil
}

// Save ages the flash generations and persists the record. The returned
// token is what the client cookie must carry: the encoded record for
// token drivers, the session ID otherwise. A destroyed payload is not
// resurrected; Save returns an empty token.
func (p *Payload) Save(ctx context.Context) (string, error) {
	if p.destroyed {
		return "", nil
	}
	p.age()
	p.rec.LastActivity = time.Now()

	if err := p.driver.Save(ctx, p.rec, p.lifetime); err != nil {
		return "", err
	}
	p.exists = true

	if td, ok := p.driver.(TokenDriver); ok {
		return td.EncodeToken(p.rec)
	}
	return p.rec.ID, nil
}

// Destroy removes the record from the store and empties the payload.
// The payload stays dead for the rest of the request; later Saves are
// no-ops.
func (p *Payload) Destroy(ctx context.Context) error {
	if err := p.driver.Destroy(ctx, p.rec.ID); err != nil {
		return err
	}
	p.exists = false
	p.destroyed = true
	p.Flush()
	return nil
}

// Destroyed reports whether Destroy has been called on this payload.
func (p *Payload) Destroyed() bool {
	return p.destroyed
}

// age rotates flash generations: values flashed during this request
// become readable by the next one, values from the previous request
// fall away unless kept.
func (p *Payload) age() {
	old := p.rec.NewFlash
	if p.reflash {
		for k, v := range p.rec.OldFlash {
			if _, shadowed := old[k]; !shadowed {
				old[k] = v
			}
		}
	} else if len(p.keep) > 0 {
		for k := range p.keep {
			if v, ok := p.rec.OldFlash[k]; ok {
				if _, shadowed := old[k]; !shadowed {
					old[k] = v
				}
			}
		}
	}
	p.rec.OldFlash = old
	p.rec.NewFlash = make(map[string]any)
	p.keep = nil
	p.reflash = false
}

// newToken returns a 40-char hex CSRF token.
func newToken() string {
	b := make([]byte, 20)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
