package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/foodapp/storefront/internal/infrastructure/config"
)

const defaultTimeout = 5 * time.Second

// Connect opens a client for cfg and pings it.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}

	return client, nil
}

// Stores groups the Redis-backed adapters sharing one client.
type Stores struct {
	Carts    *CartStore
	Sessions *SessionStore
	Menu     *MenuCache
	Dedup    *DedupChecker
}

// NewStores builds every Redis adapter on client.
func NewStores(client *redis.Client, cfg config.RedisConfig) Stores {
	return Stores{
		Carts:    NewCartStore(client),
		Sessions: NewSessionStore(client),
		Menu:     NewMenuCache(client, cfg.MenuCacheTTL),
		Dedup:    NewDedupChecker(client),
	}
}
