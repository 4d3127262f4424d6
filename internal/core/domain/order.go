package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle stage of a placed order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusConfirmed OrderStatus = "CONFIRMED"
	StatusPreparing OrderStatus = "PREPARING"
	StatusReady     OrderStatus = "READY"
	StatusCompleted OrderStatus = "COMPLETED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// progression is the happy path, in display order.
var progression = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusPreparing,
	StatusReady,
	StatusCompleted,
}

// validTransitions defines the allowed state machine transitions. Staff may
// only advance one step at a time; any non-terminal order may be cancelled.
var validTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusCompleted, StatusCancelled},
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	return s == StatusCancelled || s.StepIndex() >= 0
}

// IsTerminal reports whether no further status changes are expected.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// StepIndex is the position of s in the linear progression, or -1 for
// CANCELLED and unknown statuses.
func (s OrderStatus) StepIndex() int {
	for i, st := range progression {
		if st == s {
			return i
		}
	}
	return -1
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// OrderType is how the customer receives the order.
type OrderType string

const (
	OrderDineIn   OrderType = "DINE_IN"
	OrderTakeaway OrderType = "TAKEAWAY"
	OrderDelivery OrderType = "DELIVERY"
)

// Valid reports whether t is a known order type.
func (t OrderType) Valid() bool {
	return t == OrderDineIn || t == OrderTakeaway || t == OrderDelivery
}

// OrderItem is one line of a placed order.
type OrderItem struct {
	OrderItemID         int64           `json:"orderItemId,omitempty"`
	ItemID              int64           `json:"itemId"`
	ItemName            string          `json:"itemName"`
	Quantity            int             `json:"quantity"`
	UnitPrice           decimal.Decimal `json:"unitPrice"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	SpecialInstructions string          `json:"specialInstructions,omitempty"`
}

// Order is the read-only projection of an order owned by the order service.
type Order struct {
	ID                 int64           `json:"orderId"`
	UserID             int64           `json:"userId"`
	TotalAmount        decimal.Decimal `json:"totalAmount"`
	Status             OrderStatus     `json:"orderStatus"`
	OrderType          OrderType       `json:"orderType"`
	CustomerName       string          `json:"customerName"`
	CustomerPhone      string          `json:"customerPhone"`
	DeliveryAddress    string          `json:"deliveryAddress,omitempty"`
	CustomerNotes      string          `json:"customerNotes,omitempty"`
	OrderDate          time.Time       `json:"orderDate"`
	EstimatedReadyTime *time.Time      `json:"estimatedReadyTime,omitempty"`
	CompletedAt        *time.Time      `json:"completedAt,omitempty"`
	StaffID            *int64          `json:"staffId,omitempty"`
	Items              []OrderItem     `json:"orderItems"`
}

// OrderItemRequest is one line of a new order.
type OrderItemRequest struct {
	ItemID              int64  `json:"itemId"`
	Quantity            int    `json:"quantity"`
	SpecialInstructions string `json:"specialInstructions,omitempty"`
}

// OrderRequest is the payload the order service expects on creation.
type OrderRequest struct {
	UserID          int64              `json:"userId"`
	CustomerName    string             `json:"customerName"`
	CustomerPhone   string             `json:"customerPhone"`
	DeliveryAddress string             `json:"deliveryAddress,omitempty"`
	CustomerNotes   string             `json:"customerNotes,omitempty"`
	OrderType       OrderType          `json:"orderType"`
	Items           []OrderItemRequest `json:"orderItems"`
}
