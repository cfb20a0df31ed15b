package cache

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/google/uuid"
)

// RistrettoSessionCache keeps live sessions by ID and evicts them after ttl of inactivity.
type RistrettoSessionCache[T any] struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

func NewSessionCache[T any](maxItems int64, ttl time.Duration) (*RistrettoSessionCache[T], error) {
	if maxItems <= 0 {
		return nil, fmt.Errorf("session cache size must be positive, got %d", maxItems)
	}
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10 * maxItems,
		MaxCost:     maxItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create session cache failed: %w", err)
	}
	return &RistrettoSessionCache[T]{cache: c, ttl: ttl}, nil
}

func (c *RistrettoSessionCache[T]) Get(id uuid.UUID) (T, bool) {
	var zero T
	v, ok := c.cache.Get(id.String())
	if !ok {
		return zero, false
	}
	session, ok := v.(T)
	if !ok {
		return zero, false
	}
	// sliding expiration
	c.cache.SetWithTTL(id.String(), session, 1, c.ttl)
	return session, true
}

// Set stores the session and waits until it is visible to Get. It reports false
// when the cache did not admit the session, which happens once it is full.
func (c *RistrettoSessionCache[T]) Set(id uuid.UUID, session T) bool {
	if !c.cache.SetWithTTL(id.String(), session, 1, c.ttl) {
		return false
	}
	c.cache.Wait()
	_, ok := c.cache.Get(id.String())
	return ok
}

func (c *RistrettoSessionCache[T]) Delete(id uuid.UUID) { c.cache.Del(id.String()) }

func (c *RistrettoSessionCache[T]) Close() { c.cache.Close() }
