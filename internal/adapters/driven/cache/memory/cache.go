// Package memory provides an in-process answer cache with per-entry
// expiry. Suitable for single-binary deployments and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

var _ driven.AnswerCache = (*Cache)(nil)

type entry struct {
	payload   []byte
	expiresAt time.Time
}

// Cache stores answer payloads keyed by cache key. Expired entries are
// dropped lazily on read.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// New creates an empty in-memory cache.
func New() *Cache {
	return &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the cached payload for key, if present and unexpired.
func (c *Cache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && c.now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false, nil
	}
	return e.payload, true, nil
}

// Set stores payload under key. A zero ttl means the entry never
// expires.
func (c *Cache) Set(_ context.Context, key string, payload []byte, ttl time.Duration) error {
	var expiresAt time.Time
	if ttl != 0 {
		expiresAt = c.now().Add(ttl)
	}

	stored := make([]byte, len(payload))
	copy(stored, payload)

	c.mu.Lock()
	c.entries[key] = entry{payload: stored, expiresAt: expiresAt}
	c.mu.Unlock()
	return nil
}

// Len reports the number of entries currently held, including any not
// yet reaped expired ones.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
