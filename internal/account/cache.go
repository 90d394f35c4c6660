package account

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultCacheTTL is how long an admin-category set is reused.
const DefaultCacheTTL = 60 * time.Second

// cacheSize bounds the number of users held at once.
const cacheSize = 4096

// Cache memoises each user's administered categories for a fixed TTL. It is
// safe for concurrent use.
type Cache struct {
	lru *expirable.LRU[int64, []int64]
}

// NewCache returns an empty cache with the given TTL.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{lru: expirable.NewLRU[int64, []int64](cacheSize, nil, ttl)}
}

// Get returns the cached set for userID, calling load on a miss or expiry.
// A failed load is not cached.
func (c *Cache) Get(userID int64, load func() ([]int64, error)) ([]int64, error) {
	if ids, ok := c.lru.Get(userID); ok {
		return ids, nil
	}
	ids, err := load()
	if err != nil {
		return nil, err
	}
	c.lru.Add(userID, ids)
	return ids, nil
}
