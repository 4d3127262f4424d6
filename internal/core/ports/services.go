package ports

import (
	"context"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/foodapp/storefront/internal/core/domain"
)

// CartService owns every customer's in-progress cart.
type CartService interface {
	Get(ctx context.Context, owner int64) domain.Cart
	// AddItem resolves itemID against the menu and adds it to the cart.
	AddItem(ctx context.Context, owner, itemID int64, quantity int, instructions string) (domain.Cart, error)
	UpdateQuantity(ctx context.Context, owner, itemID int64, quantity int) domain.Cart
	UpdateInstructions(ctx context.Context, owner, itemID int64, instructions string) domain.Cart
	RemoveItem(ctx context.Context, owner, itemID int64) domain.Cart
	Clear(ctx context.Context, owner int64)
}

// AuthResult is a freshly opened session and its client token.
type AuthResult struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	Session   *domain.Session `json:"-"`
}

// SessionService opens, validates and closes sessions.
type SessionService interface {
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// Register creates the account and then logs it in.
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Logout(ctx context.Context, sessionID string) error
	Current(ctx context.Context, sessionID string) (*domain.Session, error)
	// Validate checks the token signature and that its session still exists.
	Validate(ctx context.Context, token string) (*domain.Session, error)
	UpdateProfile(ctx context.Context, sess *domain.Session, in ProfileInput) (*domain.Session, error)
	// Watch re-checks the session every interval and calls onGone once when it
	// disappears. It returns when ctx is done or after onGone.
	Watch(ctx context.Context, sessionID string, interval time.Duration, onGone func())
}

// TrackUpdate is one observation of a tracked order.
type TrackUpdate struct {
	Order    *domain.Order   `json:"order"`
	Progress domain.Progress `json:"progress"`
	// Previous is empty on the first observation.
	Previous domain.OrderStatus `json:"previousStatus,omitempty"`
}

// OrderFetcher loads a single order for tracking.
type OrderFetcher func(ctx context.Context, orderID int64) (*domain.Order, error)

// OrderTracker follows an order until it reaches a terminal status.
type OrderTracker interface {
	// Track emits an update on every status change and returns nil once the
	// order is COMPLETED or CANCELLED. A failed initial fetch is returned.
	Track(ctx context.Context, orderID int64, initial *domain.Order, fetch OrderFetcher, updates chan<- TrackUpdate) error
}

// Notifier is told about order status transitions.
type Notifier interface {
	OrderStatusChanged(ctx context.Context, order *domain.Order, from, to domain.OrderStatus)
}

// Pagination describes one page of a listing.
type Pagination struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalItems   int `json:"totalItems"`
	ItemsPerPage int `json:"itemsPerPage"`
}

// UserPage is a page of users with its pagination.
type UserPage struct {
	Users      []domain.User
	Pagination Pagination
}

// StatusUpdateInput is an admin's request to block or unblock a user.
type StatusUpdateInput struct {
	UserID int64
	Status domain.UserStatus
	Reason string
}

// AdminUserService backs the admin user-management routes.
type AdminUserService interface {
	List(ctx context.Context, token string, filter UserFilter) (*UserPage, error)
	// SetStatus returns the current user together with domain.ErrNoChangeNeeded
	// when the requested status is already in effect.
	SetStatus(ctx context.Context, actor *domain.Session, in StatusUpdateInput) (*domain.User, error)
}

// CheckoutInput is the checkout form.
type CheckoutInput struct {
	CustomerName    string
	CustomerPhone   string
	DeliveryAddress string
	CustomerNotes   string
	OrderType       domain.OrderType
}

// CheckoutResult is the placed order and the quote it was priced at.
type CheckoutResult struct {
	Order *domain.Order `json:"order"`
	Quote domain.Quote  `json:"quote"`
}

// CheckoutService turns a cart into an order.
type CheckoutService interface {
	Quote(ctx context.Context, owner int64, orderType domain.OrderType) domain.Quote
	Checkout(ctx context.Context, sess *domain.Session, in CheckoutInput) (*CheckoutResult, error)
}

// MenuQuery filters and sorts menu items locally.
type MenuQuery struct {
	Query      string
	CategoryID int64
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Available  *bool
	Dietary    string
	SortBy     string
	SortOrder  string
}

// MenuService serves the menu through a cache and relays admin edits.
type MenuService interface {
	Categories(ctx context.Context, activeOnly bool) ([]domain.Category, error)
	Items(ctx context.Context, q MenuQuery) ([]domain.MenuItem, error)
	Item(ctx context.Context, id int64) (*domain.MenuItem, error)

	CreateItem(ctx context.Context, token string, in MenuItemInput) (*domain.MenuItem, error)
	UpdateItem(ctx context.Context, token string, id int64, in MenuItemInput) (*domain.MenuItem, error)
	DeleteItem(ctx context.Context, token string, id int64) error
	SetAvailability(ctx context.Context, token string, id int64, available bool) (*domain.MenuItem, error)
	CreateCategory(ctx context.Context, token string, in CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, token string, id int64, in CategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, token string, id int64) error
}

// OrderService exposes orders to customers and staff.
type OrderService interface {
	Mine(ctx context.Context, sess *domain.Session) ([]domain.Order, error)
	// Get enforces ownership for customers.
	Get(ctx context.Context, sess *domain.Session, id int64) (*domain.Order, error)
	Cancel(ctx context.Context, sess *domain.Session, id int64) (*domain.Order, error)
	List(ctx context.Context, sess *domain.Session, status domain.OrderStatus) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, sess *domain.Session, id int64, status domain.OrderStatus) (*domain.Order, error)
}

// UploadedImage describes a stored image.
type UploadedImage struct {
	URL         string
	Filename    string
	Size        int64
	ContentType string
}

// UploadService stores menu images.
type UploadService interface {
	StoreImage(ctx context.Context, r io.Reader, size int64) (*UploadedImage, error)
}

// NotificationService records and lists user notifications.
type NotificationService interface {
	Notifier
	List(ctx context.Context, userID int64, limit int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, userID int64, id string) error
}
