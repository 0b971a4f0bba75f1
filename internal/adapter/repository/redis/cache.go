package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/truckparts/backend/internal/infrastructure/metrics"
)

// Cache implements usecase.Cache using Redis. A cache miss is reported as
// (nil, nil) so callers fall through to the database without error handling.
type Cache struct {
	client  *redis.Client
	prefix  string
	metrics *metrics.Metrics
}

// NewCache creates a new Cache.
func NewCache(client *redis.Client, m *metrics.Metrics) *Cache {
	return &Cache{
		client:  client,
		prefix:  "cache:",
		metrics: m,
	}
}

// Get retrieves a value by key.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	c.observe("get")
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		c.observeError("get")
		return nil, err
	}
	return data, nil
}

// Set stores a value with TTL.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.observe("set")
	if err := c.client.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		c.observeError("set")
		return err
	}
	return nil
}

// Delete removes a key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	c.observe("del")
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		c.observeError("del")
		return err
	}
	return nil
}

func (c *Cache) observe(op string) {
	if c.metrics != nil {
		c.metrics.RedisOperations.WithLabelValues(op).Inc()
	}
}

func (c *Cache) observeError(op string) {
	if c.metrics != nil {
		c.metrics.RedisErrors.WithLabelValues(op).Inc()
	}
}
