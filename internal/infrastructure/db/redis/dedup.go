package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/foodapp/storefront/internal/core/domain"
)

const dedupTTL = 24 * time.Hour

// DedupChecker remembers notified order transitions.
// Key format: notify:<order_id>:<status>
type DedupChecker struct {
	client *redis.Client
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client}
}

// Claim records the transition and reports whether this caller was the first
// to do so. The key expires after dedupTTL.
func (d *DedupChecker) Claim(ctx context.Context, orderID int64, status domain.OrderStatus) (bool, error) {
	ok, err := d.client.SetNX(ctx, d.key(orderID, status), "1", dedupTTL).Result()
	if err != nil {
		return false, fmt.Errorf("dedup claim: %w", err)
	}
	return ok, nil
}

func (d *DedupChecker) key(orderID int64, status domain.OrderStatus) string {
	return fmt.Sprintf("notify:%d:%s", orderID, status)
}
