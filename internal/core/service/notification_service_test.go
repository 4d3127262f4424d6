package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/foodapp/storefront/internal/core/domain"
)

func TestNotificationService_DeduplicatesTransitions(t *testing.T) {
	dedup := &stubDedup{}
	queue := &stubQueue{}
	svc := NewNotificationService(dedup, queue, &stubNotificationRepo{}, zerolog.Nop())
	order := &domain.Order{ID: 4, UserID: 10}

	svc.OrderStatusChanged(context.Background(), order, domain.StatusPending, domain.StatusConfirmed)
	svc.OrderStatusChanged(context.Background(), order, domain.StatusPending, domain.StatusConfirmed)
	svc.OrderStatusChanged(context.Background(), order, domain.StatusConfirmed, domain.StatusPreparing)

	if len(queue.queued) != 2 {
		t.Fatalf("expected 2 queued notifications, got %d", len(queue.queued))
	}
	n := queue.queued[0]
	if n.UserID != 10 || n.OrderID != 4 || n.Status != domain.StatusConfirmed {
		t.Errorf("unexpected notification %+v", n)
	}
	if n.Message != "Your order is now confirmed" {
		t.Errorf("unexpected message %q", n.Message)
	}
	if n.ID == "" || n.CreatedAt.IsZero() {
		t.Error("notification id and timestamp must be set")
	}
}

func TestNotificationService_ConcurrentStreamsNotifyOnce(t *testing.T) {
	queue := &stubQueue{}
	svc := NewNotificationService(&stubDedup{}, queue, &stubNotificationRepo{}, zerolog.Nop())
	order := &domain.Order{ID: 9, UserID: 3}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.OrderStatusChanged(context.Background(), order, domain.StatusPending, domain.StatusConfirmed)
		}()
	}
	wg.Wait()

	if len(queue.queued) != 1 {
		t.Fatalf("expected one notification across concurrent streams, got %d", len(queue.queued))
	}
}

func TestNotificationService_DedupFailureStillNotifies(t *testing.T) {
	queue := &stubQueue{}
	svc := NewNotificationService(&stubDedup{claimErr: errors.New("redis down")}, queue, &stubNotificationRepo{}, zerolog.Nop())

	svc.OrderStatusChanged(context.Background(), &domain.Order{ID: 1, UserID: 1}, domain.StatusReady, domain.StatusCompleted)

	if len(queue.queued) != 1 {
		t.Fatalf("expected the notification to be queued, got %d", len(queue.queued))
	}
}

func TestNotificationService_ListAndMarkRead(t *testing.T) {
	repo := &stubNotificationRepo{items: []domain.Notification{
		{ID: "a", UserID: 1},
		{ID: "b", UserID: 2},
	}}
	svc := NewNotificationService(&stubDedup{}, &stubQueue{}, repo, zerolog.Nop())
	ctx := context.Background()

	list, err := svc.List(ctx, 1, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].ID != "a" {
		t.Errorf("unexpected list %+v", list)
	}

	if err := svc.MarkRead(ctx, 1, "b"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("marking another user's notification must fail, got %v", err)
	}
	if err := svc.MarkRead(ctx, 1, "a"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
