// Package cache provides the session-scoped, time-bounded memoization of
// analysis results used to absorb repeated navigations within a short window.
package cache

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"focusd/internal/logging"
)

const (
	defaultMaxSize = 1000
	defaultTTL     = 60 * time.Second
)

// entry holds a cached result with the metadata required for hit checks.
type entry[V any] struct {
	value     V
	sessionID string
	storedAt  time.Time
}

// ResultCache memoizes analysis results keyed by (url, domain). A hit
// requires the exact same session id and an entry younger than the TTL; any
// mismatch is a miss, never an error. The underlying LRU bounds memory; the
// TTL bounds staleness.
type ResultCache[V any] struct {
	lru    *lru.Cache[string, entry[V]]
	ttl    time.Duration
	logger logging.Logger
	now    func() time.Time
}

// New creates a result cache. Non-positive maxSize/ttl fall back to defaults.
func New[V any](maxSize int, ttl time.Duration) (*ResultCache[V], error) {
	if maxSize <= 0 {
		maxSize = defaultMaxSize
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	inner, err := lru.New[string, entry[V]](maxSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}
	return &ResultCache[V]{
		lru:    inner,
		ttl:    ttl,
		logger: logging.NewComponentLogger("cache"),
		now:    time.Now,
	}, nil
}

func key(url, domain string) string {
	return url + "\x00" + domain
}

// Get returns the cached value for (url, domain) when the session id matches
// and the entry is within the TTL.
func (c *ResultCache[V]) Get(url, domain, sessionID string) (V, bool) {
	var zero V

	e, ok := c.lru.Get(key(url, domain))
	if !ok {
		return zero, false
	}
	if e.sessionID != sessionID {
		return zero, false
	}
	if c.now().Sub(e.storedAt) > c.ttl {
		// Expired — evict so the LRU bookkeeping stays clean.
		c.lru.Remove(key(url, domain))
		return zero, false
	}
	return e.value, true
}

// Put stores a value for (url, domain), unconditionally overwriting any
// existing entry for the same key.
func (c *ResultCache[V]) Put(url, domain, sessionID string, value V) {
	c.lru.Add(key(url, domain), entry[V]{
		value:     value,
		sessionID: sessionID,
		storedAt:  c.now(),
	})
}

// Sweep removes all expired entries regardless of session. Safe to call
// concurrently with reads and writes, and on an empty cache.
func (c *ResultCache[V]) Sweep() int {
	removed := 0
	now := c.now()
	for _, k := range c.lru.Keys() {
		if e, ok := c.lru.Peek(k); ok && now.Sub(e.storedAt) > c.ttl {
			c.lru.Remove(k)
			removed++
		}
	}
	if removed > 0 {
		c.logger.Debug("swept %d expired entries", removed)
	}
	return removed
}

// Len returns the number of entries currently stored, expired or not.
func (c *ResultCache[V]) Len() int {
	return c.lru.Len()
}

// Purge drops every entry.
func (c *ResultCache[V]) Purge() {
	c.lru.Purge()
}

// StartSweeper runs Sweep on the given interval until ctx is canceled.
func (c *ResultCache[V]) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.Sweep()
			}
		}
	}()
}

// setClock overrides the time source, for tests.
func (c *ResultCache[V]) setClock(now func() time.Time) {
	c.now = now
}
