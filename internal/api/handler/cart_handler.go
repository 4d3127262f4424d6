package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/foodapp/storefront/internal/api/metrics"
	"github.com/foodapp/storefront/internal/core/domain"
	"github.com/foodapp/storefront/internal/core/ports"
)

// CartHandler exposes the caller's cart and checkout.
type CartHandler struct {
	carts    ports.CartService
	checkout ports.CheckoutService
}

func NewCartHandler(carts ports.CartService, checkout ports.CheckoutService) *CartHandler {
	return &CartHandler{carts: carts, checkout: checkout}
}

// Get returns the cart with its totals.
//
// @Summary      Get cart
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  cartResponse
// @Router       /v1/cart [get]
func (h *CartHandler) Get(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newCartResponse(h.carts.Get(c.Request().Context(), sess.User.ID)))
}

// AddItem adds a menu item, or bumps its quantity when already present.
//
// @Summary      Add an item to the cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      addCartItemRequest  true  "Item"
// @Success      200   {object}  cartResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/cart/items [post]
func (h *CartHandler) AddItem(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	var req addCartItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart, err := h.carts.AddItem(c.Request().Context(), sess.User.ID, req.ItemID, req.Quantity, req.SpecialInstructions)
	if err != nil {
		return err
	}
	metrics.CartMutationsTotal.WithLabelValues("add").Inc()
	return c.JSON(http.StatusOK, newCartResponse(cart))
}

// UpdateItem changes a line's quantity and/or instructions. A quantity of
// zero or less removes the line.
//
// @Summary      Update a cart line
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        itemId  path      int                    true  "Menu item id"
// @Param        body    body      updateCartItemRequest  true  "Changes"
// @Success      200     {object}  cartResponse
// @Failure      422     {object}  errorResponse
// @Router       /v1/cart/items/{itemId} [put]
func (h *CartHandler) UpdateItem(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	itemID, err := pathID(c, "itemId")
	if err != nil {
		return err
	}
	var req updateCartItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	cart := h.carts.Get(ctx, sess.User.ID)
	if req.SpecialInstructions != nil {
		cart = h.carts.UpdateInstructions(ctx, sess.User.ID, itemID, *req.SpecialInstructions)
		metrics.CartMutationsTotal.WithLabelValues("instructions").Inc()
	}
	if req.Quantity != nil {
		cart = h.carts.UpdateQuantity(ctx, sess.User.ID, itemID, *req.Quantity)
		metrics.CartMutationsTotal.WithLabelValues("update").Inc()
	}
	return c.JSON(http.StatusOK, newCartResponse(cart))
}

// RemoveItem drops a line. Removing an absent item is not an error.
//
// @Summary      Remove a cart line
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Param        itemId  path      int  true  "Menu item id"
// @Success      200     {object}  cartResponse
// @Router       /v1/cart/items/{itemId} [delete]
func (h *CartHandler) RemoveItem(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	itemID, err := pathID(c, "itemId")
	if err != nil {
		return err
	}
	cart := h.carts.RemoveItem(c.Request().Context(), sess.User.ID, itemID)
	metrics.CartMutationsTotal.WithLabelValues("remove").Inc()
	return c.JSON(http.StatusOK, newCartResponse(cart))
}

// Clear empties the cart.
//
// @Summary      Clear the cart
// @Tags         cart
// @Security     BearerAuth
// @Success      204
// @Router       /v1/cart [delete]
func (h *CartHandler) Clear(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	h.carts.Clear(c.Request().Context(), sess.User.ID)
	metrics.CartMutationsTotal.WithLabelValues("clear").Inc()
	return c.NoContent(http.StatusNoContent)
}

// Quote prices the cart for an order type.
//
// @Summary      Price the cart
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Param        orderType  query     string  false  "Order type"  Enums(DINE_IN, TAKEAWAY, DELIVERY)
// @Success      200        {object}  domain.Quote
// @Router       /v1/cart/quote [get]
func (h *CartHandler) Quote(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	var q quoteQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}
	orderType := domain.OrderDelivery
	if q.OrderType != "" {
		orderType = domain.OrderType(q.OrderType)
	}
	quote := h.checkout.Quote(c.Request().Context(), sess.User.ID, orderType)
	return c.JSON(http.StatusOK, quote.Round())
}

// Checkout places an order from the cart and clears it.
//
// @Summary      Checkout
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      checkoutRequest  true  "Checkout form"
// @Success      201   {object}  ports.CheckoutResult
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /v1/checkout [post]
func (h *CartHandler) Checkout(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	var req checkoutRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.checkout.Checkout(c.Request().Context(), sess, ports.CheckoutInput{
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerPhone:   strings.TrimSpace(req.CustomerPhone),
		DeliveryAddress: strings.TrimSpace(req.DeliveryAddress),
		CustomerNotes:   req.CustomerNotes,
		OrderType:       domain.OrderType(req.OrderType),
	})
	if err != nil {
		return err
	}
	metrics.OrdersPlacedTotal.WithLabelValues(req.OrderType).Inc()
	return c.JSON(http.StatusCreated, res)
}
