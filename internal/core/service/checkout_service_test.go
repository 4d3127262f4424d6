package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/foodapp/storefront/internal/core/domain"
	"github.com/foodapp/storefront/internal/core/ports"
)

func checkoutFixture(t *testing.T) (ports.CartService, *stubOrders, ports.CheckoutService) {
	t.Helper()
	carts := NewCartService(newStubCartStore(), menuFixture(), zerolog.Nop())
	orders := newStubOrders()
	return carts, orders, NewCheckoutService(carts, orders, zerolog.Nop())
}

func fillCart(t *testing.T, carts ports.CartService, owner int64) {
	t.Helper()
	ctx := context.Background()
	if _, err := carts.AddItem(ctx, owner, 1, 2, "well done"); err != nil {
		t.Fatalf("add pizza: %v", err)
	}
	if _, err := carts.AddItem(ctx, owner, 2, 1, ""); err != nil {
		t.Fatalf("add salad: %v", err)
	}
}

func TestCheckoutService_QuoteEndToEnd(t *testing.T) {
	carts, _, svc := checkoutFixture(t)
	fillCart(t, carts, 5)

	q := svc.Quote(context.Background(), 5, domain.OrderDelivery).Round()

	for name, got := range map[string]string{
		"subtotal": q.Subtotal.StringFixed(2),
		"fee":      q.DeliveryFee.StringFixed(2),
		"tax":      q.Tax.StringFixed(2),
		"total":    q.Total.StringFixed(2),
	} {
		want := map[string]string{"subtotal": "32.00", "fee": "5.99", "tax": "2.56", "total": "40.55"}[name]
		if got != want {
			t.Errorf("%s = %s, want %s", name, got, want)
		}
	}
}

func TestCheckoutService_PlacesOrderAndClearsCart(t *testing.T) {
	carts, orders, svc := checkoutFixture(t)
	fillCart(t, carts, 5)
	sess := sessionFor(5, domain.RoleCustomer)

	res, err := svc.Checkout(context.Background(), sess, ports.CheckoutInput{
		CustomerName:    "Ana Diaz",
		CustomerPhone:   "+1 555 0100",
		DeliveryAddress: "1 Main St",
		OrderType:       domain.OrderDelivery,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Order.Status != domain.StatusPending {
		t.Errorf("expected PENDING order, got %q", res.Order.Status)
	}
	if res.Quote.Total.StringFixed(2) != "40.55" {
		t.Errorf("expected total 40.55, got %s", res.Quote.Total.StringFixed(2))
	}

	req := orders.created[0]
	if len(req.Items) != 2 || req.Items[0].Quantity != 2 || req.Items[0].SpecialInstructions != "well done" {
		t.Errorf("unexpected order lines %+v", req.Items)
	}
	if !carts.Get(context.Background(), 5).IsEmpty() {
		t.Error("cart should be cleared after a successful checkout")
	}
}

func TestCheckoutService_EmptyCart(t *testing.T) {
	_, orders, svc := checkoutFixture(t)

	_, err := svc.Checkout(context.Background(), sessionFor(5, domain.RoleCustomer), ports.CheckoutInput{OrderType: domain.OrderTakeaway})
	if !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	if len(orders.created) != 0 {
		t.Error("no order should be created")
	}
}

func TestCheckoutService_DeliveryNeedsAddress(t *testing.T) {
	carts, _, svc := checkoutFixture(t)
	fillCart(t, carts, 5)

	_, err := svc.Checkout(context.Background(), sessionFor(5, domain.RoleCustomer), ports.CheckoutInput{
		CustomerName: "Ana", CustomerPhone: "5550100", OrderType: domain.OrderDelivery,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestCheckoutService_UpstreamFailureKeepsCart(t *testing.T) {
	carts, orders, svc := checkoutFixture(t)
	fillCart(t, carts, 5)
	orders.err = domain.ErrUpstreamUnavailable

	_, err := svc.Checkout(context.Background(), sessionFor(5, domain.RoleCustomer), ports.CheckoutInput{
		CustomerName: "Ana", CustomerPhone: "5550100", OrderType: domain.OrderDineIn,
	})
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if carts.Get(context.Background(), 5).TotalItems() != 3 {
		t.Error("cart must survive a failed checkout")
	}
}
