package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/foodapp/storefront/internal/core/domain"
	"github.com/foodapp/storefront/internal/core/ports"
)

const defaultNotificationLimit = 20

type notificationService struct {
	dedup ports.NotificationDedup
	queue ports.NotificationQueue
	repo  ports.NotificationRepository
	log   zerolog.Logger
}

// NewNotificationService returns the NotificationService. Transitions are
// deduplicated, then queued for background persistence.
func NewNotificationService(
	dedup ports.NotificationDedup,
	queue ports.NotificationQueue,
	repo ports.NotificationRepository,
	log zerolog.Logger,
) ports.NotificationService {
	return &notificationService{dedup: dedup, queue: queue, repo: repo, log: log}
}

// OrderStatusChanged records one notification per order and status. Failures
// are logged; notifying never interrupts tracking.
func (s *notificationService) OrderStatusChanged(ctx context.Context, order *domain.Order, from, to domain.OrderStatus) {
	first, err := s.dedup.Claim(ctx, order.ID, to)
	if err != nil {
		s.log.Warn().Err(err).Int64("order_id", order.ID).Msg("dedup claim failed, notifying anyway")
	} else if !first {
		s.log.Debug().Int64("order_id", order.ID).Str("status", string(to)).Msg("duplicate notification skipped")
		return
	}

	n := &domain.Notification{
		ID:        uuid.NewString(),
		UserID:    order.UserID,
		OrderID:   order.ID,
		Status:    to,
		Type:      domain.NotificationOrderUpdate,
		Title:     "Order Status Updated",
		Message:   fmt.Sprintf("Your order is now %s", strings.ToLower(string(to))),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.queue.Enqueue(ctx, n); err != nil {
		s.log.Warn().Err(err).Int64("order_id", order.ID).Str("from", string(from)).Msg("failed to queue notification")
	}
}

func (s *notificationService) List(ctx context.Context, userID int64, limit int) ([]domain.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultNotificationLimit
	}
	out, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	if out == nil {
		out = []domain.Notification{}
	}
	return out, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID int64, id string) error {
	if err := s.repo.MarkRead(ctx, userID, id); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}
