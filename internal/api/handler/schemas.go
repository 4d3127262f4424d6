package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/foodapp/storefront/internal/core/domain"
	"github.com/foodapp/storefront/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type registerRequest struct {
	Email           string `json:"email"           validate:"required,email"`
	Password        string `json:"password"        validate:"required,password"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	FirstName       string `json:"firstName"       validate:"required,min=2"`
	LastName        string `json:"lastName"        validate:"required,min=2"`
	PhoneNumber     string `json:"phoneNumber"     validate:"omitempty,phone"`
	Address         string `json:"address"         validate:"omitempty,max=255"`
}

type profileRequest struct {
	FirstName   string `json:"firstName"   validate:"required,min=2"`
	LastName    string `json:"lastName"    validate:"required,min=2"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,phone"`
	Address     string `json:"address"     validate:"omitempty,max=255"`
}

type authResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      domain.User `json:"user"`
}

type sessionResponse struct {
	User      domain.User `json:"user"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

type guardQuery struct {
	Role      string `query:"role"      validate:"omitempty,oneof=CUSTOMER STAFF ADMIN"`
	Mode      string `query:"mode"      validate:"omitempty,oneof=redirect fallback"`
	ReturnURL string `query:"returnUrl" validate:"omitempty,max=2048"`
}

type guardResponse struct {
	State    domain.GuardState `json:"state"`
	Redirect string            `json:"redirect,omitempty"`
}

// --- Menu ---

type categoriesQuery struct {
	Active bool `query:"active"`
}

type menuSearchQuery struct {
	Query      string `query:"query"      validate:"max=100"`
	CategoryID int64  `query:"categoryId" validate:"gte=0"`
	MinPrice   string `query:"minPrice"   validate:"omitempty,numeric"`
	MaxPrice   string `query:"maxPrice"   validate:"omitempty,numeric"`
	Available  string `query:"available"  validate:"omitempty,oneof=true false"`
	Dietary    string `query:"dietary"    validate:"max=50"`
	SortBy     string `query:"sortBy"     validate:"omitempty,oneof=name price preparation calories"`
	SortOrder  string `query:"sortOrder"  validate:"omitempty,oneof=asc desc"`
}

type menuItemRequest struct {
	CategoryID      int64   `json:"categoryId"      validate:"required,min=1"`
	Name            string  `json:"itemName"        validate:"required,min=2,max=100"`
	Description     string  `json:"description"     validate:"max=500"`
	Price           float64 `json:"price"           validate:"required,gte=0.01"`
	IsAvailable     *bool   `json:"isAvailable"`
	ImageURL        string  `json:"imageUrl"        validate:"max=500"`
	PreparationTime *int    `json:"preparationTime" validate:"omitempty,min=1"`
	Ingredients     string  `json:"ingredients"     validate:"max=500"`
	DietaryInfo     string  `json:"dietaryInfo"     validate:"max=200"`
	Calories        *int    `json:"calories"        validate:"omitempty,min=0"`
}

func (r menuItemRequest) toInput() ports.MenuItemInput {
	available := true
	if r.IsAvailable != nil {
		available = *r.IsAvailable
	}
	return ports.MenuItemInput{
		CategoryID:      r.CategoryID,
		Name:            r.Name,
		Description:     r.Description,
		Price:           decimal.NewFromFloat(r.Price),
		IsAvailable:     available,
		ImageURL:        r.ImageURL,
		PreparationTime: r.PreparationTime,
		Ingredients:     r.Ingredients,
		DietaryInfo:     r.DietaryInfo,
		Calories:        r.Calories,
	}
}

type categoryRequest struct {
	Name         string `json:"categoryName" validate:"required,min=2,max=100"`
	Description  string `json:"description"  validate:"max=500"`
	ImageURL     string `json:"imageUrl"     validate:"max=500"`
	IsActive     *bool  `json:"isActive"`
	DisplayOrder int    `json:"displayOrder" validate:"gte=0"`
}

func (r categoryRequest) toInput() ports.CategoryInput {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return ports.CategoryInput{
		Name:         r.Name,
		Description:  r.Description,
		ImageURL:     r.ImageURL,
		IsActive:     active,
		DisplayOrder: r.DisplayOrder,
	}
}

type availabilityRequest struct {
	IsAvailable *bool `json:"isAvailable" validate:"required"`
}

// --- Cart & checkout ---

type addCartItemRequest struct {
	ItemID              int64  `json:"itemId"              validate:"required,min=1"`
	Quantity            int    `json:"quantity"            validate:"omitempty,min=1"`
	SpecialInstructions string `json:"specialInstructions" validate:"max=100"`
}

type updateCartItemRequest struct {
	Quantity            *int    `json:"quantity"`
	SpecialInstructions *string `json:"specialInstructions" validate:"omitempty,max=100"`
}

type cartResponse struct {
	Items                    []domain.CartLine `json:"items"`
	TotalItems               int               `json:"totalItems"`
	TotalPrice               decimal.Decimal   `json:"totalPrice"`
	EstimatedPreparationTime int               `json:"estimatedPreparationTime"`
}

func newCartResponse(cart domain.Cart) cartResponse {
	items := cart.Lines
	if items == nil {
		items = []domain.CartLine{}
	}
	return cartResponse{
		Items:                    items,
		TotalItems:               cart.TotalItems(),
		TotalPrice:               cart.TotalPrice().Round(2),
		EstimatedPreparationTime: cart.TotalPreparationTime(),
	}
}

type quoteQuery struct {
	OrderType string `query:"orderType" validate:"omitempty,oneof=DINE_IN TAKEAWAY DELIVERY"`
}

type checkoutRequest struct {
	CustomerName    string `json:"customerName"    validate:"required,min=2,max=100"`
	CustomerPhone   string `json:"customerPhone"   validate:"required,phone"`
	DeliveryAddress string `json:"deliveryAddress" validate:"required_if=OrderType DELIVERY,max=255"`
	CustomerNotes   string `json:"customerNotes"   validate:"max=500"`
	OrderType       string `json:"orderType"       validate:"required,oneof=DINE_IN TAKEAWAY DELIVERY"`
}

// --- Orders ---

type orderDetailResponse struct {
	Order    *domain.Order   `json:"order"`
	Progress domain.Progress `json:"progress"`
}

type orderStatusQuery struct {
	Status string `query:"status" validate:"omitempty,oneof=PENDING CONFIRMED PREPARING READY COMPLETED CANCELLED"`
}

type orderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING CONFIRMED PREPARING READY COMPLETED CANCELLED"`
}

// --- Notifications ---

type notificationsQuery struct {
	Limit int `query:"limit" validate:"gte=0,lte=100"`
}

// --- Admin ---

// blockUserRequest keeps userId and status untyped so that wrong JSON types
// surface as VALIDATION_ERROR rather than a bind failure.
type blockUserRequest struct {
	UserID any `json:"userId"`
	Status any `json:"status"`
	Reason any `json:"reason"`
}

type userListQuery struct {
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
	Role   string `query:"role"`
	Status string `query:"status"`
	Search string `query:"search"`
}

// adminEnvelope is the response shape of the admin proxy routes.
type adminEnvelope struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message"`
	Data       any               `json:"data"`
	Error      *envelopeError    `json:"error,omitempty"`
	Pagination *ports.Pagination `json:"pagination,omitempty"`
}

type envelopeError struct {
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

type uploadResponse struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"imageUrl,omitempty"`
	Filename string `json:"filename,omitempty"`
	Size     int64  `json:"size,omitempty"`
	Type     string `json:"type,omitempty"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}
