package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/foodapp/storefront/internal/core/ports"
)

// NotificationHandler lists and acknowledges the caller's notifications.
type NotificationHandler struct {
	notifications ports.NotificationService
}

func NewNotificationHandler(notifications ports.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List returns the newest notifications first.
//
// @Summary      My notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Maximum entries (default 20, max 100)"
// @Success      200    {array}   domain.Notification
// @Router       /v1/notifications [get]
func (h *NotificationHandler) List(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	var q notificationsQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}
	list, err := h.notifications.List(c.Request().Context(), sess.User.ID, q.Limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// MarkRead flags one notification as read.
//
// @Summary      Mark a notification read
// @Tags         notifications
// @Security     BearerAuth
// @Param        id   path  string  true  "Notification id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.notifications.MarkRead(c.Request().Context(), sess.User.ID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
