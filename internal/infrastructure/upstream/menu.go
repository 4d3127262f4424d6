package upstream

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/foodapp/storefront/internal/core/domain"
	"github.com/foodapp/storefront/internal/core/ports"
)

// MenuClient talks to the menu service.
type MenuClient struct {
	c *Client
}

var _ ports.MenuCatalog = (*MenuClient)(nil)

// NewMenuClient returns a ports.MenuCatalog backed by the menu service.
func NewMenuClient(baseURL string, hc *http.Client) *MenuClient {
	return &MenuClient{c: NewClient("menu", baseURL, hc)}
}

// Categories returns every category, active or not.
func (m *MenuClient) Categories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	if err := m.c.do(ctx, http.MethodGet, "/api/categories/all", "", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *MenuClient) ActiveCategories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	if err := m.c.do(ctx, http.MethodGet, "/api/categories", "", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Items returns every item including unavailable ones; availability is
// filtered locally.
func (m *MenuClient) Items(ctx context.Context) ([]domain.MenuItem, error) {
	var out []domain.MenuItem
	if err := m.c.do(ctx, http.MethodGet, "/api/items/all", "", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *MenuClient) ItemsByCategory(ctx context.Context, categoryID int64) ([]domain.MenuItem, error) {
	var out []domain.MenuItem
	if err := m.c.do(ctx, http.MethodGet, "/api/items/category/"+itoa(categoryID), "", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *MenuClient) Item(ctx context.Context, id int64) (*domain.MenuItem, error) {
	var out domain.MenuItem
	if err := m.c.do(ctx, http.MethodGet, "/api/items/"+itoa(id), "", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (m *MenuClient) CreateItem(ctx context.Context, token string, in ports.MenuItemInput) (*domain.MenuItem, error) {
	var out domain.MenuItem
	if err := m.c.do(ctx, http.MethodPost, "/api/items", token, nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (m *MenuClient) UpdateItem(ctx context.Context, token string, id int64, in ports.MenuItemInput) (*domain.MenuItem, error) {
	var out domain.MenuItem
	if err := m.c.do(ctx, http.MethodPut, "/api/items/"+itoa(id), token, nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (m *MenuClient) DeleteItem(ctx context.Context, token string, id int64) error {
	return m.c.do(ctx, http.MethodDelete, "/api/items/"+itoa(id), token, nil, nil, nil)
}

func (m *MenuClient) SetAvailability(ctx context.Context, token string, id int64, available bool) (*domain.MenuItem, error) {
	q := url.Values{"isAvailable": {strconv.FormatBool(available)}}
	var out domain.MenuItem
	if err := m.c.do(ctx, http.MethodPatch, "/api/items/"+itoa(id)+"/availability", token, q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (m *MenuClient) CreateCategory(ctx context.Context, token string, in ports.CategoryInput) (*domain.Category, error) {
	var out domain.Category
	if err := m.c.do(ctx, http.MethodPost, "/api/categories", token, nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (m *MenuClient) UpdateCategory(ctx context.Context, token string, id int64, in ports.CategoryInput) (*domain.Category, error) {
	var out domain.Category
	if err := m.c.do(ctx, http.MethodPut, "/api/categories/"+itoa(id), token, nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (m *MenuClient) DeleteCategory(ctx context.Context, token string, id int64) error {
	return m.c.do(ctx, http.MethodDelete, "/api/categories/"+itoa(id), token, nil, nil, nil)
}
