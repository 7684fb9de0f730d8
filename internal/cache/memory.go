package cache

import (
	"context"
	"sync"
	"time"
)

type MemoryUserListCache struct {
	mu         sync.Mutex
	ttl        time.Duration
	now        func() time.Time
	payload    []byte
	expires    time.Time
	generation uint64
}

func NewMemoryUserListCache(ttl time.Duration) *MemoryUserListCache {
	return &MemoryUserListCache{ttl: ttl, now: time.Now}
}

func (c *MemoryUserListCache) Get(_ context.Context) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.payload == nil || !c.now().Before(c.expires) {
		c.payload = nil
		return nil, false, nil
	}
	return append([]byte(nil), c.payload...), true, nil
}

func (c *MemoryUserListCache) Generation(_ context.Context) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.generation, nil
}

func (c *MemoryUserListCache) Set(_ context.Context, payload []byte, generation uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ttl <= 0 || generation != c.generation {
		return nil
	}
	c.payload = append([]byte(nil), payload...)
	c.expires = c.now().Add(c.ttl)
	return nil
}

func (c *MemoryUserListCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.payload = nil
	return nil
}
