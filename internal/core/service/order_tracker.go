package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/foodapp/storefront/internal/core/domain"
	"github.com/foodapp/storefront/internal/core/ports"
)

type orderTracker struct {
	interval time.Duration
	notifier ports.Notifier
	log      zerolog.Logger
}

// NewOrderTracker returns an OrderTracker that re-fetches the order every
// interval. notifier may be nil.
func NewOrderTracker(interval time.Duration, notifier ports.Notifier, log zerolog.Logger) ports.OrderTracker {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &orderTracker{interval: interval, notifier: notifier, log: log}
}

func (t *orderTracker) Track(ctx context.Context, orderID int64, initial *domain.Order, fetch ports.OrderFetcher, updates chan<- ports.TrackUpdate) error {
	current := initial
	if current == nil {
		o, err := fetch(ctx, orderID)
		if err != nil {
			return fmt.Errorf("track order %d: %w", orderID, err)
		}
		current = o
	}

	if !emit(ctx, updates, ports.TrackUpdate{Order: current, Progress: domain.ProgressFor(current.Status)}) {
		return ctx.Err()
	}
	if current.Status.IsTerminal() {
		return nil
	}

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		next, err := fetch(ctx, orderID)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if domain.IsAuthFailure(err) {
				return fmt.Errorf("track order %d: %w", orderID, err)
			}
			t.log.Warn().Err(err).Int64("order_id", orderID).Msg("order poll failed")
			continue
		}

		prev := current.Status
		current = next
		if next.Status == prev {
			continue
		}

		t.log.Debug().Int64("order_id", orderID).Str("from", string(prev)).Str("to", string(next.Status)).Msg("order status changed")
		if t.notifier != nil {
			t.notifier.OrderStatusChanged(ctx, next, prev, next.Status)
		}
		if !emit(ctx, updates, ports.TrackUpdate{Order: next, Progress: domain.ProgressFor(next.Status), Previous: prev}) {
			return ctx.Err()
		}
		if next.Status.IsTerminal() {
			return nil
		}
	}
}

func emit(ctx context.Context, updates chan<- ports.TrackUpdate, u ports.TrackUpdate) bool {
	select {
	case updates <- u:
		return true
	case <-ctx.Done():
		return false
	}
}
