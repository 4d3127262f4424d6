package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/foodapp/storefront/internal/core/domain"
	"github.com/foodapp/storefront/internal/core/ports"
)

// AdminUserHandler serves the admin user-management routes. Every outcome is
// rendered as an adminEnvelope with a machine-readable error code.
type AdminUserHandler struct {
	admin ports.AdminUserService
	log   zerolog.Logger
}

func NewAdminUserHandler(admin ports.AdminUserService, log zerolog.Logger) *AdminUserHandler {
	return &AdminUserHandler{admin: admin, log: log}
}

// List proxies the user listing and paginates the result.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page (default 1)"
// @Param        limit   query     int     false  "Page size (default 50)"
// @Param        role    query     string  false  "Role, or all"
// @Param        status  query     string  false  "Status, or all"
// @Param        search  query     string  false  "Free-text search"
// @Success      200     {object}  adminEnvelope
// @Failure      503     {object}  adminEnvelope
// @Router       /api/admin/users [get]
func (h *AdminUserHandler) List(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	var q userListQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, adminEnvelope{
			Message: "Invalid query parameters",
			Data:    []domain.User{},
			Error:   &envelopeError{Code: "VALIDATION_ERROR", Details: "page and limit must be numbers"},
		})
	}

	page, err := h.admin.List(c.Request().Context(), sess.UpstreamToken, ports.UserFilter{
		Page:   q.Page,
		Limit:  q.Limit,
		Role:   q.Role,
		Status: q.Status,
		Search: q.Search,
	})
	if err != nil {
		return h.upstreamFailure(c, err, []domain.User{}, "Failed to fetch users from User Service")
	}

	return c.JSON(http.StatusOK, adminEnvelope{
		Success:    true,
		Message:    "Users retrieved successfully",
		Data:       page.Users,
		Pagination: &page.Pagination,
	})
}

// BlockUser blocks or unblocks an account.
//
// @Summary      Block or unblock a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      blockUserRequest  true  "{userId, status, reason}"
// @Success      200   {object}  adminEnvelope
// @Failure      400   {object}  adminEnvelope
// @Failure      403   {object}  adminEnvelope
// @Failure      404   {object}  adminEnvelope
// @Failure      503   {object}  adminEnvelope
// @Router       /api/admin/block-user [put]
func (h *AdminUserHandler) BlockUser(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}

	var req blockUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, invalid("Invalid request body", "body must be a JSON object"))
	}

	userID, ok := req.UserID.(float64)
	if !ok || userID < 1 || userID != math.Trunc(userID) {
		return c.JSON(http.StatusBadRequest, invalid("Invalid or missing userId", "userId must be a valid number"))
	}
	status, _ := req.Status.(string)
	if !domain.UserStatus(status).Valid() {
		return c.JSON(http.StatusBadRequest, invalid("Invalid status. Must be ACTIVE or BLOCKED", "status must be either ACTIVE or BLOCKED"))
	}
	reason, ok := req.Reason.(string)
	if req.Reason != nil && !ok {
		return c.JSON(http.StatusBadRequest, invalid("Invalid reason", "reason must be a string"))
	}

	in := ports.StatusUpdateInput{UserID: int64(userID), Status: domain.UserStatus(status), Reason: strings.TrimSpace(reason)}
	user, err := h.admin.SetStatus(c.Request().Context(), sess, in)
	switch {
	case err == nil:
		verb := "unblocked"
		if in.Status == domain.UserBlocked {
			verb = "blocked"
		}
		return c.JSON(http.StatusOK, adminEnvelope{
			Success: true,
			Message: fmt.Sprintf("User %s has been %s successfully", user.FullName(), verb),
			Data:    user,
		})

	case errors.Is(err, domain.ErrNoChangeNeeded):
		return c.JSON(http.StatusBadRequest, adminEnvelope{
			Message: "User is already " + strings.ToLower(status),
			Data:    user,
			Error:   &envelopeError{Code: "NO_CHANGE_NEEDED", Details: "User status is already " + status},
		})

	case errors.Is(err, domain.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, adminEnvelope{
			Message: "User not found",
			Error:   &envelopeError{Code: "USER_NOT_FOUND", Details: fmt.Sprintf("No user found with ID %d", in.UserID)},
		})

	case errors.Is(err, domain.ErrCannotBlockAdmin):
		return c.JSON(http.StatusForbidden, adminEnvelope{
			Message: "Cannot block admin users",
			Error:   &envelopeError{Code: "FORBIDDEN_ACTION", Details: "Admin users cannot be blocked for security reasons"},
		})

	case errors.Is(err, domain.ErrValidation):
		return c.JSON(http.StatusBadRequest, invalid("Invalid request", err.Error()))
	}

	return h.upstreamFailure(c, err, nil, "Failed to update user status")
}

func invalid(message, details string) adminEnvelope {
	return adminEnvelope{
		Message: message,
		Error:   &envelopeError{Code: "VALIDATION_ERROR", Details: details},
	}
}

// upstreamFailure renders user service failures: 503 when unreachable, the
// upstream status for HTTP errors, 500 for anything else.
func (h *AdminUserHandler) upstreamFailure(c echo.Context, err error, empty any, fallback string) error {
	h.log.Warn().Err(err).Str("path", c.Path()).Msg("user service call failed")

	if errors.Is(err, domain.ErrUpstreamUnavailable) {
		return c.JSON(http.StatusServiceUnavailable, adminEnvelope{
			Message: "User Service is not available",
			Data:    empty,
			Error:   &envelopeError{Code: "SERVICE_UNAVAILABLE", Details: "Cannot connect to User Service"},
		})
	}

	var ue *domain.UpstreamError
	if errors.As(err, &ue) {
		var details any
		switch {
		case json.Valid(ue.Body):
			details = json.RawMessage(ue.Body)
		case len(ue.Body) > 0:
			details = string(ue.Body)
		}
		return c.JSON(ue.StatusCode, adminEnvelope{
			Message: ue.Message,
			Data:    empty,
			Error:   &envelopeError{Code: "USER_SERVICE_ERROR", Details: details},
		})
	}

	return c.JSON(http.StatusInternalServerError, adminEnvelope{
		Message: fallback,
		Data:    empty,
		Error:   &envelopeError{Code: "NETWORK_ERROR", Details: err.Error()},
	})
}
