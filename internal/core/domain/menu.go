package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category groups menu items.
type Category struct {
	ID           int64     `json:"categoryId"`
	Name         string    `json:"categoryName"`
	Description  string    `json:"description,omitempty"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	IsActive     bool      `json:"isActive"`
	DisplayOrder int       `json:"displayOrder"`
	CreatedAt    time.Time `json:"createdAt,omitzero"`
	UpdatedAt    time.Time `json:"updatedAt,omitzero"`
}

// MenuItem is an orderable dish as published by the menu service.
type MenuItem struct {
	ID              int64           `json:"itemId"`
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
	CreatedAt       time.Time       `json:"createdAt,omitzero"`
	UpdatedAt       time.Time       `json:"updatedAt,omitzero"`
}
