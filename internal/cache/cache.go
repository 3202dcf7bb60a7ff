package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

const memoryCleanupInterval = 10 * time.Minute

// Client wraps redis.Client but fails safe by swallowing connectivity errors.
// Without a redis address it keeps entries in process memory instead.
type Client struct {
	client *redis.Client
	local  *gocache.Cache
}

// New creates a cache client. An empty addr selects the in-process store.
func New(addr, password string, db int) *Client {
	if addr == "" {
		return NewMemory()
	}
	opts := &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}
	return &Client{client: redis.NewClient(opts)}
}

// NewMemory creates a client backed only by process memory.
func NewMemory() *Client {
	return &Client{local: gocache.New(gocache.NoExpiration, memoryCleanupInterval)}
}

// Ping reports whether the backing store is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Get returns value or nil if missing or redis unavailable.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if c == nil {
		return nil, nil
	}
	if c.local != nil {
		if v, ok := c.local.Get(key); ok {
			return v.([]byte), nil
		}
		return nil, nil
	}
	res, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		// fail safe: behave like cache miss
		return nil, nil
	}
	return res, nil
}

// Set stores value with TTL, ignoring redis errors.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.SetStrict(ctx, key, value, ttl); err != nil {
		// fail safe: ignore redis errors
		return nil
	}
	return nil
}

// SetStrict stores value with TTL and reports redis errors. A zero ttl keeps the key forever.
func (c *Client) SetStrict(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c == nil {
		return nil
	}
	if c.local != nil {
		if ttl <= 0 {
			ttl = gocache.NoExpiration
		}
		c.local.Set(key, append([]byte(nil), value...), ttl)
		return nil
	}
	return c.client.Set(ctx, key, value, ttl).Err()
}

// Delete removes a key, ignoring redis errors.
func (c *Client) Delete(ctx context.Context, key string) error {
	if err := c.DeleteStrict(ctx, key); err != nil {
		return nil
	}
	return nil
}

// DeleteStrict removes a key and reports redis errors.
func (c *Client) DeleteStrict(ctx context.Context, key string) error {
	if c == nil {
		return nil
	}
	if c.local != nil {
		c.local.Delete(key)
		return nil
	}
	return c.client.Del(ctx, key).Err()
}

// Close releases the redis connection pool.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
