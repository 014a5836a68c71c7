// Package cache holds the gateway's short-lived read replicas: dashboard
// aggregates, lookup tables, and warehouse stats. Entries are idempotent
// query results, so concurrent refreshes racing to the same slot are fine;
// last write wins.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"time"

	"github.com/dgraph-io/ristretto"
)

const (
	// Keep up to ~64 MiB of cached responses in memory.
	defaultMaxCost = 64 << 20
	// Rule of thumb from Ristretto: ~10x expected live keys.
	defaultNumCounters = 100_000
	defaultBufferItems = 64
)

// ResponseCache is a TTL cache for upstream response payloads. It is
// constructed once at startup and handed to whoever needs it; nothing in
// the gateway reaches for a package-level cache singleton.
type ResponseCache struct {
	store *ristretto.Cache
	ttl   time.Duration
}

// New creates a response cache with the given default TTL
func New(ttl time.Duration) *ResponseCache {
	store, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: defaultNumCounters,
		MaxCost:     defaultMaxCost,
		BufferItems: defaultBufferItems,
	})
	if err != nil {
		// Invalid config should never happen with static values.
		panic(err)
	}

	return &ResponseCache{
		store: store,
		ttl:   ttl,
	}
}

// TTL returns the cache's default time-to-live
func (c *ResponseCache) TTL() time.Duration {
	return c.ttl
}

// GetBytes returns a cached payload by key
func (c *ResponseCache) GetBytes(key string) ([]byte, bool) {
	value, ok := c.store.Get(key)
	if !ok {
		return nil, false
	}
	payload, ok := value.([]byte)
	if !ok {
		return nil, false
	}
	return payload, true
}

// SetBytes stores a payload under key with the default TTL
func (c *ResponseCache) SetBytes(key string, payload []byte) {
	if c.ttl <= 0 || len(payload) == 0 {
		return
	}
	if c.store.SetWithTTL(key, payload, int64(len(payload)), c.ttl) {
		// Ristretto sets are asynchronous. Wait ensures the value can be
		// read by the next request that races in behind this one.
		c.store.Wait()
	}
}

// Close releases the cache's resources
func (c *ResponseCache) Close() {
	c.store.Close()
}

// Key builds a stable cache key from a route section and its filter params
func Key(section string, params url.Values) string {
	hash := sha256.Sum256([]byte(section + "?" + params.Encode()))
	return hex.EncodeToString(hash[:])
}
