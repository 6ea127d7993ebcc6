package common

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// DefaultExpiration applies when Set is called with a zero expiration.
const DefaultExpiration = 30 * time.Minute

// CacheRepository defines a minimal interface for a key/value cache.
// The values are stored as raw []byte, which you can marshal/unmarshal
// from JSON or other formats as needed.
type CacheRepository interface {
	Get(key string) (value []byte, found bool)
	Set(key string, value []byte, expiration time.Duration)
	Delete(key string)
}

var _ CacheRepository = (*cacheStore)(nil)

// cacheStore holds few entries (one per credential set), so expired items are
// dropped lazily instead of by a janitor goroutine that would outlive the store.
type cacheStore struct {
	items *cache.Cache
}

// NewCacheStore returns an in-process CacheRepository backed by go-cache.
// It starts no background goroutine.
func NewCacheStore() CacheRepository {
	return &cacheStore{items: cache.New(DefaultExpiration, 0)}
}

// Get returns a copy of the stored bytes; expired entries are evicted here.
func (c *cacheStore) Get(key string) ([]byte, bool) {
	v, found := c.items.Get(key)
	if !found {
		c.items.Delete(key)
		return nil, false
	}
	b, ok := v.([]byte)
	if !ok {
		return nil, false
	}
	return append([]byte(nil), b...), true
}

// Set stores a copy of value. A negative expiration removes the key.
func (c *cacheStore) Set(key string, value []byte, expiration time.Duration) {
	if expiration < 0 {
		c.items.Delete(key)
		return
	}
	c.items.Set(key, append([]byte(nil), value...), expiration)
}

func (c *cacheStore) Delete(key string) {
	c.items.Delete(key)
}
