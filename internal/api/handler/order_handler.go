package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/foodapp/storefront/internal/api/metrics"
	"github.com/foodapp/storefront/internal/core/domain"
	"github.com/foodapp/storefront/internal/core/ports"
)

// OrderHandler serves customer and staff order views, including the live
// tracking stream.
type OrderHandler struct {
	orders         ports.OrderService
	tracker        ports.OrderTracker
	sessions       ports.SessionService
	sessionRecheck time.Duration
	log            zerolog.Logger
}

func NewOrderHandler(
	orders ports.OrderService,
	tracker ports.OrderTracker,
	sessions ports.SessionService,
	sessionRecheck time.Duration,
	log zerolog.Logger,
) *OrderHandler {
	return &OrderHandler{
		orders:         orders,
		tracker:        tracker,
		sessions:       sessions,
		sessionRecheck: sessionRecheck,
		log:            log,
	}
}

// Mine lists the caller's orders.
//
// @Summary      My orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Order
// @Router       /v1/orders [get]
func (h *OrderHandler) Mine(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	orders, err := h.orders.Mine(c.Request().Context(), sess)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

// Get returns one order with its progress bar.
//
// @Summary      Order detail
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Order id"
// @Success      200  {object}  orderDetailResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	order, err := h.orders.Get(c.Request().Context(), sess, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderDetailResponse{Order: order, Progress: domain.ProgressFor(order.Status)})
}

// Cancel cancels an order that has not reached a terminal status.
//
// @Summary      Cancel an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Order id"
// @Success      200  {object}  orderDetailResponse
// @Failure      404  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /v1/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	order, err := h.orders.Cancel(c.Request().Context(), sess, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderDetailResponse{Order: order, Progress: domain.ProgressFor(order.Status)})
}

// Track streams order updates as Server-Sent Events until the order reaches
// a terminal status, the client goes away, or the session ends.
//
// Events: "order" (one per status change), "error", "session_expired", "done".
//
// @Summary      Track an order
// @Tags         orders
// @Produce      text/event-stream
// @Security     BearerAuth
// @Param        id            path   int     true   "Order id"
// @Param        access_token  query  string  false  "Session token for clients that cannot set headers"
// @Success      200
// @Failure      404  {object}  errorResponse
// @Router       /v1/orders/{id}/track [get]
func (h *OrderHandler) Track(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	fetch := func(ctx context.Context, orderID int64) (*domain.Order, error) {
		return h.orders.Get(ctx, sess, orderID)
	}

	// The first fetch happens before the stream opens so that a missing or
	// foreign order still gets a plain HTTP error.
	initial, err := fetch(ctx, id)
	if err != nil {
		return err
	}

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	metrics.ActiveTrackingStreams.Inc()
	defer metrics.ActiveTrackingStreams.Dec()

	log := h.log.With().Int64("order_id", id).Str("session", sess.ID).Logger()
	log.Debug().Msg("tracking stream opened")

	sessionGone := make(chan struct{})
	go h.sessions.Watch(ctx, sess.ID, h.sessionRecheck, func() { close(sessionGone) })

	updates := make(chan ports.TrackUpdate)
	done := make(chan error, 1)
	go func() { done <- h.tracker.Track(ctx, id, initial, fetch, updates) }()

	for {
		select {
		case u := <-updates:
			if err := writeEvent(w, "order", u); err != nil {
				log.Debug().Err(err).Msg("tracking stream write failed")
				return nil
			}

		case <-sessionGone:
			_ = writeEvent(w, "session_expired", map[string]string{"message": "Your session has expired. Please sign in again."})
			return nil

		case err := <-done:
			switch {
			case err == nil:
				_ = writeEvent(w, "done", map[string]string{"message": "Order tracking finished"})
			case errors.Is(err, context.Canceled):
			case domain.IsAuthFailure(err):
				if lerr := h.sessions.Logout(context.WithoutCancel(ctx), sess.ID); lerr != nil {
					log.Warn().Err(lerr).Msg("forced logout failed")
				}
				_ = writeEvent(w, "session_expired", map[string]string{"message": "Your session has expired. Please sign in again."})
			default:
				log.Warn().Err(err).Msg("order tracking stopped")
				_ = writeEvent(w, "error", map[string]string{"message": "Failed to load order details"})
			}
			return nil

		case <-ctx.Done():
			log.Debug().Msg("tracking stream closed by client")
			return nil
		}
	}
}

// writeEvent writes one SSE frame and flushes it.
func writeEvent(w *echo.Response, event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	w.Flush()
	return nil
}

// List returns all orders, optionally in one status. Staff only.
//
// @Summary      List orders
// @Tags         staff
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Order status"
// @Success      200     {array}   domain.Order
// @Failure      403     {object}  errorResponse
// @Router       /v1/staff/orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	var q orderStatusQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}
	orders, err := h.orders.List(c.Request().Context(), sess, domain.OrderStatus(q.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

// UpdateStatus moves an order along its lifecycle. Staff only.
//
// @Summary      Update order status
// @Tags         staff
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                 true  "Order id"
// @Param        body  body      orderStatusRequest  true  "New status"
// @Success      200   {object}  orderDetailResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/staff/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req orderStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	order, err := h.orders.UpdateStatus(c.Request().Context(), sess, id, domain.OrderStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderDetailResponse{Order: order, Progress: domain.ProgressFor(order.Status)})
}
