package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type cacheEntry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache keeps generated artifacts for the life of the process, keyed by a
// random id. Entries expire after ttl and are swept by Start.
type Cache[V any] struct {
	mu    sync.RWMutex
	store map[string]*cacheEntry[V]
	ttl   time.Duration
	now   func() time.Time
}

func NewCache[V any](ttl time.Duration) *Cache[V] {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache[V]{
		store: make(map[string]*cacheEntry[V]),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Put stores v under a new id and returns the id.
func (c *Cache[V]) Put(v V) string {
	id := uuid.NewString()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[id] = &cacheEntry[V]{value: v, expiresAt: c.now().Add(c.ttl)}
	return id
}

// Get retrieves a value if present and not expired.
func (c *Cache[V]) Get(id string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var zero V
	e, ok := c.store[id]
	if !ok || c.now().After(e.expiresAt) {
		return zero, false
	}
	return e.value, true
}

func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Clear removes all entries.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = make(map[string]*cacheEntry[V])
}

// Sweep removes expired entries and reports how many were dropped.
func (c *Cache[V]) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	n := 0
	for id, e := range c.store {
		if now.After(e.expiresAt) {
			delete(c.store, id)
			n++
		}
	}
	return n
}

// Start sweeps periodically until ctx is done.
func (c *Cache[V]) Start(ctx context.Context, every time.Duration) {
	if every <= 0 {
		every = 5 * time.Minute
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Sweep()
		}
	}
}
