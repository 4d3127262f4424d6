package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/foodapp/storefront/internal/core/domain"
)

const cartTTL = 30 * 24 * time.Hour

// CartStore keeps each customer's cart lines as one JSON document.
// Key format: cart:<owner>
type CartStore struct {
	client *redis.Client
}

func NewCartStore(client *redis.Client) *CartStore {
	return &CartStore{client: client}
}

func (s *CartStore) Load(ctx context.Context, owner int64) ([]domain.CartLine, error) {
	raw, err := s.client.Get(ctx, s.key(owner)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	var lines []domain.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return lines, nil
}

func (s *CartStore) Save(ctx context.Context, owner int64, lines []domain.CartLine) error {
	raw, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	return s.client.Set(ctx, s.key(owner), raw, cartTTL).Err()
}

func (s *CartStore) Delete(ctx context.Context, owner int64) error {
	return s.client.Del(ctx, s.key(owner)).Err()
}

func (s *CartStore) key(owner int64) string {
	return fmt.Sprintf("cart:%d", owner)
}
