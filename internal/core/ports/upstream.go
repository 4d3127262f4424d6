package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/foodapp/storefront/internal/core/domain"
)

// RegisterInput carries a new account's details to the user service.
type RegisterInput struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	PhoneNumber string
	Address     string
}

// ProfileInput carries the editable profile fields.
type ProfileInput struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Address     string `json:"address,omitempty"`
}

// UserFilter is forwarded verbatim as the user listing query. Empty fields are
// omitted.
type UserFilter struct {
	Page   int
	Limit  int
	Role   string
	Status string
	Search string
}

// StatusChange is the body of a user status update.
type StatusChange struct {
	Status    domain.UserStatus `json:"status"`
	Reason    string            `json:"reason"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// UserDirectory is the user service. Calls that act on behalf of a signed-in
// user take the upstream bearer token.
type UserDirectory interface {
	// Login returns the user and the upstream token issued for them.
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	GetUser(ctx context.Context, token string, id int64) (*domain.User, error)
	UpdateProfile(ctx context.Context, token string, id int64, in ProfileInput) (*domain.User, error)
	ListUsers(ctx context.Context, token string, filter UserFilter) ([]domain.User, error)
	UpdateStatus(ctx context.Context, token string, id int64, change StatusChange) (*domain.User, error)
}

// MenuItemInput is the writable part of a menu item.
type MenuItemInput struct {
	CategoryID      int64           `json:"categoryId"`
	Name            string          `json:"itemName"`
	Description     string          `json:"description,omitempty"`
	Price           decimal.Decimal `json:"price"`
	IsAvailable     bool            `json:"isAvailable"`
	ImageURL        string          `json:"imageUrl,omitempty"`
	PreparationTime *int            `json:"preparationTime,omitempty"`
	Ingredients     string          `json:"ingredients,omitempty"`
	DietaryInfo     string          `json:"dietaryInfo,omitempty"`
	Calories        *int            `json:"calories,omitempty"`
}

// CategoryInput is the writable part of a category.
type CategoryInput struct {
	Name         string `json:"categoryName"`
	Description  string `json:"description,omitempty"`
	ImageURL     string `json:"imageUrl,omitempty"`
	IsActive     bool   `json:"isActive"`
	DisplayOrder int    `json:"displayOrder"`
}

// MenuCatalog is the menu service. Reads are public; writes need a staff or
// admin token.
type MenuCatalog interface {
	Categories(ctx context.Context) ([]domain.Category, error)
	ActiveCategories(ctx context.Context) ([]domain.Category, error)
	Items(ctx context.Context) ([]domain.MenuItem, error)
	ItemsByCategory(ctx context.Context, categoryID int64) ([]domain.MenuItem, error)
	Item(ctx context.Context, id int64) (*domain.MenuItem, error)

	CreateItem(ctx context.Context, token string, in MenuItemInput) (*domain.MenuItem, error)
	UpdateItem(ctx context.Context, token string, id int64, in MenuItemInput) (*domain.MenuItem, error)
	DeleteItem(ctx context.Context, token string, id int64) error
	SetAvailability(ctx context.Context, token string, id int64, available bool) (*domain.MenuItem, error)

	CreateCategory(ctx context.Context, token string, in CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, token string, id int64, in CategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, token string, id int64) error
}

// OrderBackend is the order service.
type OrderBackend interface {
	Create(ctx context.Context, token string, req domain.OrderRequest) (*domain.Order, error)
	Get(ctx context.Context, token string, id int64) (*domain.Order, error)
	ListByUser(ctx context.Context, token string, userID int64) ([]domain.Order, error)
	// List returns every order, or only those in status when it is non-empty.
	List(ctx context.Context, token string, status domain.OrderStatus) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, token string, id int64, status domain.OrderStatus) (*domain.Order, error)
	Cancel(ctx context.Context, token string, id int64) (*domain.Order, error)
}
