package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/foodapp/storefront/internal/core/domain"
)

type recordingSink struct {
	mu   sync.Mutex
	got  []*domain.Notification
	fail bool
}

func (s *recordingSink) Insert(_ context.Context, n *domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("mongo down")
	}
	s.got = append(s.got, n)
	return nil
}

func (s *recordingSink) snapshot() []*domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*domain.Notification(nil), s.got...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestDispatcher_PreservesPerUserOrder(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(3, sink, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	statuses := []domain.OrderStatus{domain.StatusConfirmed, domain.StatusPreparing, domain.StatusReady, domain.StatusCompleted}
	for _, st := range statuses {
		if err := d.Enqueue(ctx, &domain.Notification{ID: string(st), UserID: 42, Status: st}); err != nil {
			t.Fatalf("enqueue failed: %v", err)
		}
	}

	waitFor(t, func() bool { return len(sink.snapshot()) == len(statuses) })
	for i, n := range sink.snapshot() {
		if n.Status != statuses[i] {
			t.Errorf("position %d: got %s, want %s", i, n.Status, statuses[i])
		}
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(4, &recordingSink{}, zerolog.Nop())
	for _, id := range []int64{0, 1, 7, 42, -3} {
		a, b := d.shardIndex(id), d.shardIndex(id)
		if a != b || a < 0 || a >= 4 {
			t.Errorf("user %d: unstable or out of range shard %d/%d", id, a, b)
		}
	}
}

func TestDispatcher_EnqueueAfterStop(t *testing.T) {
	d := NewDispatcher(1, &recordingSink{}, zerolog.Nop())

	// No workers are running; a full buffer leaves only the stop signal ready.
	for i := 0; i < channelBuffer; i++ {
		d.workers[0] <- &domain.Notification{}
	}
	close(d.done)

	err := d.Enqueue(context.Background(), &domain.Notification{UserID: 1})
	if !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
}

func TestDispatcher_SinkFailureDoesNotStopWorker(t *testing.T) {
	sink := &recordingSink{fail: true}
	d := NewDispatcher(1, sink, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	if err := d.Enqueue(ctx, &domain.Notification{ID: "a", UserID: 1}); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	waitFor(t, func() bool { return len(d.workers[0]) == 0 })
	time.Sleep(10 * time.Millisecond)

	sink.mu.Lock()
	sink.fail = false
	sink.mu.Unlock()

	if err := d.Enqueue(ctx, &domain.Notification{ID: "b", UserID: 1}); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	waitFor(t, func() bool {
		for _, n := range sink.snapshot() {
			if n.ID == "b" {
				return true
			}
		}
		return false
	})
}
