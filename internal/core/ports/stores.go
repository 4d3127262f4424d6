package ports

import (
	"context"
	"io"
	"time"

	"github.com/foodapp/storefront/internal/core/domain"
)

// CartStore persists a customer's cart lines between requests and restarts.
type CartStore interface {
	// Load returns the saved lines, or nil when nothing was saved.
	Load(ctx context.Context, owner int64) ([]domain.CartLine, error)
	Save(ctx context.Context, owner int64, lines []domain.CartLine) error
	Delete(ctx context.Context, owner int64) error
}

// SessionStore holds session records. Get returns domain.ErrSessionExpired
// when the record is gone.
type SessionStore interface {
	Save(ctx context.Context, s *domain.Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}

// MenuCache caches menu service reads.
type MenuCache interface {
	// Get decodes the cached value into dst and reports whether it was found.
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any) error
	// Invalidate drops every cached menu entry.
	Invalidate(ctx context.Context) error
}

// NotificationDedup remembers which order transitions were already notified.
type NotificationDedup interface {
	// Claim reports true only for the first caller per order and status.
	Claim(ctx context.Context, orderID int64, status domain.OrderStatus) (bool, error)
}

// NotificationRepository persists user notifications.
type NotificationRepository interface {
	Insert(ctx context.Context, n *domain.Notification) error
	// ListByUser returns the newest notifications first.
	ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, userID int64, id string) error
}

// ImageStore is a disk for uploaded images.
type ImageStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// URL is the public address of a stored key.
	URL(key string) string
}

// AuditLog records user status changes.
type AuditLog interface {
	Record(ctx context.Context, entry domain.StatusAudit)
}

// NotificationQueue hands notifications to background delivery.
type NotificationQueue interface {
	Enqueue(ctx context.Context, n *domain.Notification) error
}
