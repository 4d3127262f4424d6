package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/foodapp/storefront/internal/api/metrics"
)

const menuPrefix = "menu:"

// MenuCache stores menu reads as JSON under the menu: prefix.
type MenuCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewMenuCache(client *redis.Client, ttl time.Duration) *MenuCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &MenuCache{client: client, ttl: ttl}
}

func (c *MenuCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := c.client.Get(ctx, menuPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.MenuCacheTotal.WithLabelValues("miss").Inc()
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("menu cache get: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("menu cache decode %s: %w", key, err)
	}
	metrics.MenuCacheTotal.WithLabelValues("hit").Inc()
	return true, nil
}

func (c *MenuCache) Set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("menu cache encode %s: %w", key, err)
	}
	return c.client.Set(ctx, menuPrefix+key, raw, c.ttl).Err()
}

// Invalidate deletes every key under the menu prefix.
func (c *MenuCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, menuPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("menu cache scan: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
