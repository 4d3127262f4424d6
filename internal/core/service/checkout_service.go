package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/foodapp/storefront/internal/core/domain"
	"github.com/foodapp/storefront/internal/core/ports"
)

type checkoutService struct {
	carts  ports.CartService
	orders ports.OrderBackend
	log    zerolog.Logger
}

// NewCheckoutService returns the CheckoutService.
func NewCheckoutService(carts ports.CartService, orders ports.OrderBackend, log zerolog.Logger) ports.CheckoutService {
	return &checkoutService{carts: carts, orders: orders, log: log}
}

func (s *checkoutService) Quote(ctx context.Context, owner int64, orderType domain.OrderType) domain.Quote {
	return domain.NewQuote(s.carts.Get(ctx, owner).TotalPrice(), orderType)
}

func (s *checkoutService) Checkout(ctx context.Context, sess *domain.Session, in ports.CheckoutInput) (*ports.CheckoutResult, error) {
	owner := sess.User.ID
	cart := s.carts.Get(ctx, owner)
	if cart.IsEmpty() {
		return nil, domain.ErrEmptyCart
	}
	if !in.OrderType.Valid() {
		return nil, fmt.Errorf("%w: unknown order type %q", domain.ErrValidation, in.OrderType)
	}
	if in.OrderType == domain.OrderDelivery && in.DeliveryAddress == "" {
		return nil, fmt.Errorf("%w: delivery address is required for delivery orders", domain.ErrValidation)
	}

	req := domain.OrderRequest{
		UserID:          owner,
		CustomerName:    in.CustomerName,
		CustomerPhone:   in.CustomerPhone,
		DeliveryAddress: in.DeliveryAddress,
		CustomerNotes:   in.CustomerNotes,
		OrderType:       in.OrderType,
		Items:           make([]domain.OrderItemRequest, 0, len(cart.Lines)),
	}
	for _, l := range cart.Lines {
		req.Items = append(req.Items, domain.OrderItemRequest{
			ItemID:              l.ItemID,
			Quantity:            l.Quantity,
			SpecialInstructions: l.SpecialInstructions,
		})
	}
	quote := domain.NewQuote(cart.TotalPrice(), in.OrderType)

	order, err := s.orders.Create(ctx, sess.UpstreamToken, req)
	if err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}
	s.carts.Clear(ctx, owner)

	s.log.Info().
		Int64("order_id", order.ID).
		Int64("user_id", owner).
		Str("order_type", string(in.OrderType)).
		Str("total", quote.Total.StringFixed(2)).
		Msg("order placed")

	return &ports.CheckoutResult{Order: order, Quote: quote.Round()}, nil
}
