package domain

import "time"

// NotificationType classifies a user notification.
type NotificationType string

const (
	NotificationOrderUpdate NotificationType = "order_update"
	NotificationSystem      NotificationType = "system"
)

// Notification is a one-shot message shown to a user.
type Notification struct {
	ID        string           `json:"id" bson:"_id"`
	UserID    int64            `json:"userId" bson:"user_id"`
	OrderID   int64            `json:"orderId,omitempty" bson:"order_id,omitempty"`
	Status    OrderStatus      `json:"status,omitempty" bson:"status,omitempty"`
	Type      NotificationType `json:"type" bson:"type"`
	Title     string           `json:"title" bson:"title"`
	Message   string           `json:"message" bson:"message"`
	Read      bool             `json:"isRead" bson:"read"`
	CreatedAt time.Time        `json:"createdAt" bson:"created_at"`
}
