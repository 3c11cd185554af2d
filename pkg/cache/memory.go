package cache

import (
	"context"
	"sync"
	"time"
)

// memEntry holds a cached value with its expiration time.
type memEntry struct {
	expiresAt time.Time // zero value = never expires
	value     []byte
}

func (e memEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Memory is an in-process cache with TTL-based expiration and a background
// janitor that removes expired entries. It is safe for concurrent use.
type Memory struct {
	items  map[string]memEntry
	opts   *memoryOptions
	done   chan struct{}
	mu     sync.Mutex
	closed bool
}

// MemoryOption configures the Memory cache.
type MemoryOption func(*memoryOptions)

type memoryOptions struct {
	defaultTTL      time.Duration
	cleanupInterval time.Duration
}

// WithDefaultTTL sets the TTL used when Set receives a zero duration.
// Default: 5 minutes.
func WithDefaultTTL(d time.Duration) MemoryOption {
	return func(o *memoryOptions) {
		if d != 0 {
			o.defaultTTL = d
		}
	}
}

// WithCleanupInterval sets how often expired entries are swept.
// Zero disables the janitor (entries are still lazily expired on access).
// Default: 1 minute.
func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(o *memoryOptions) {
		o.cleanupInterval = d
	}
}

// NewMemory creates a new in-memory cache.
//
// Example:
//
//	c := cache.NewMemory(
//	    cache.WithDefaultTTL(5 * time.Minute),
//	    cache.WithCleanupInterval(30 * time.Second),
//	)
//	defer c.Close()
func NewMemory(opts ...MemoryOption) *Memory {
	o := &memoryOptions{
		defaultTTL:      5 * time.Minute,
		cleanupInterval: time.Minute,
	}
	for _, opt := range opts {
		opt(o)
	}

	m := &Memory{
		items: make(map[string]memEntry),
		opts:  o,
		done:  make(chan struct{}),
	}

	if o.cleanupInterval > 0 {
		go m.janitor()
	}

	return m
}

// Get retrieves a value by key.
// Returns ErrNotFound if the key does not exist or has expired.
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.items[key]
	if !ok {
		return nil, ErrNotFound
	}
	if e.expired(time.Now()) {
		delete(m.items, key)
		return nil, ErrNotFound
	}
	return e.value, nil
}

// Set stores a value with the given TTL.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	if ttl == 0 {
		ttl = m.opts.defaultTTL
	}
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	m.items[key] = memEntry{value: value, expiresAt: expiresAt}
	return nil
}

// Delete removes a key from the cache.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	delete(m.items, key)
	return nil
}

// Has checks whether a key exists and has not expired.
func (m *Memory) Has(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.items[key]
	if !ok {
		return false, nil
	}
	if e.expired(time.Now()) {
		delete(m.items, key)
		return false, nil
	}
	return true, nil
}

// Clear removes all entries from the cache.
func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.items = make(map[string]memEntry)
	return nil
}

// Close stops the janitor goroutine and marks the cache as closed.
// Close is idempotent.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	close(m.done)
	return nil
}

// janitor periodically removes expired entries.
func (m *Memory) janitor() {
	ticker := time.NewTicker(m.opts.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.deleteExpired()
		}
	}
}

func (m *Memory) deleteExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for key, e := range m.items {
		if e.expired(now) {
			delete(m.items, key)
		}
	}
}

var _ Cache = (*Memory)(nil)
