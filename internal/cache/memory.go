package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const memorySweepInterval = time.Minute

// memoryClient implements Client on top of go-cache, which handles TTLs and
// expired-entry sweeping so we do not have to.
type memoryClient struct {
	store  *gocache.Cache
	prefix string

	// mu serializes GetDel so a code can only ever be claimed once even
	// when two callbacks race on the same key.
	mu sync.Mutex

	hits   atomic.Int64
	misses atomic.Int64
}

// NewMemory builds the in-process driver.
func NewMemory(cfg Config) *memoryClient {
	ttl := cfg.DefaultTTL
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &memoryClient{
		store:  gocache.New(ttl, memorySweepInterval),
		prefix: cfg.Prefix,
	}
}

func (c *memoryClient) key(k string) string { return prefixed(c.prefix, k) }

func (c *memoryClient) Get(ctx context.Context, key string) ([]byte, error) {
	v, ok := c.store.Get(c.key(key))
	if !ok {
		c.misses.Add(1)
		return nil, ErrNotFound
	}
	b, ok := v.([]byte)
	if !ok {
		c.misses.Add(1)
		return nil, ErrNotFound
	}
	c.hits.Add(1)
	return append([]byte(nil), b...), nil
}

func (c *memoryClient) GetDel(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := c.key(key)
	v, ok := c.store.Get(k)
	if !ok {
		c.misses.Add(1)
		return nil, ErrNotFound
	}
	c.store.Delete(k)
	b, ok := v.([]byte)
	if !ok {
		c.misses.Add(1)
		return nil, ErrNotFound
	}
	c.hits.Add(1)
	return append([]byte(nil), b...), nil
}

func (c *memoryClient) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	d := ttl
	if d <= 0 {
		d = gocache.NoExpiration
	}
	c.store.Set(c.key(key), append([]byte(nil), value...), d)
	return nil
}

func (c *memoryClient) Delete(ctx context.Context, key string) error {
	c.store.Delete(c.key(key))
	return nil
}

func (c *memoryClient) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := c.store.Get(c.key(key))
	return ok, nil
}

func (c *memoryClient) Ping(ctx context.Context) error { return nil }

func (c *memoryClient) Close() error {
	c.store.Flush()
	return nil
}

func (c *memoryClient) Stats(ctx context.Context) (Stats, error) {
	return Stats{
		Driver: "memory",
		Keys:   int64(c.store.ItemCount()),
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}, nil
}
