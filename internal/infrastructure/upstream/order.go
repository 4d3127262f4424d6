package upstream

import (
	"context"
	"net/http"
	"net/url"

	"github.com/foodapp/storefront/internal/core/domain"
	"github.com/foodapp/storefront/internal/core/ports"
)

// OrderClient talks to the order service.
type OrderClient struct {
	c *Client
}

var _ ports.OrderBackend = (*OrderClient)(nil)

// NewOrderClient returns a ports.OrderBackend backed by the order service.
func NewOrderClient(baseURL string, hc *http.Client) *OrderClient {
	return &OrderClient{c: NewClient("order", baseURL, hc)}
}

func (o *OrderClient) Create(ctx context.Context, token string, req domain.OrderRequest) (*domain.Order, error) {
	var out domain.Order
	if err := o.c.do(ctx, http.MethodPost, "/api/orders", token, nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (o *OrderClient) Get(ctx context.Context, token string, id int64) (*domain.Order, error) {
	var out domain.Order
	if err := o.c.do(ctx, http.MethodGet, "/api/orders/"+itoa(id), token, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (o *OrderClient) ListByUser(ctx context.Context, token string, userID int64) ([]domain.Order, error) {
	var out []domain.Order
	if err := o.c.do(ctx, http.MethodGet, "/api/orders/user/"+itoa(userID), token, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (o *OrderClient) List(ctx context.Context, token string, status domain.OrderStatus) ([]domain.Order, error) {
	path := "/api/orders"
	if status != "" {
		path = "/api/orders/status/" + url.PathEscape(string(status))
	}
	var out []domain.Order
	if err := o.c.do(ctx, http.MethodGet, path, token, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (o *OrderClient) UpdateStatus(ctx context.Context, token string, id int64, status domain.OrderStatus) (*domain.Order, error) {
	q := url.Values{"status": {string(status)}}
	var out domain.Order
	if err := o.c.do(ctx, http.MethodPut, "/api/orders/"+itoa(id)+"/status", token, q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Cancel deletes the order upstream, which the order service treats as a
// cancellation, then reads it back.
func (o *OrderClient) Cancel(ctx context.Context, token string, id int64) (*domain.Order, error) {
	if err := o.c.do(ctx, http.MethodDelete, "/api/orders/"+itoa(id), token, nil, nil, nil); err != nil {
		return nil, err
	}
	return o.Get(ctx, token, id)
}
