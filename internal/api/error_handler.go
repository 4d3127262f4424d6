package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/foodapp/storefront/internal/api/handler"
	"github.com/foodapp/storefront/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var ve *handler.ValidationError
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity, errorResponse{Error: "validation failed", Fields: ve.Fields}
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, errorResponse{Error: "authentication required"}
	case errors.Is(err, domain.ErrSessionExpired):
		return http.StatusUnauthorized, errorResponse{Error: "session expired, please sign in again"}
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrCannotBlockAdmin):
		return http.StatusForbidden, errorResponse{Error: "access forbidden"}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, errorResponse{Error: "user not found"}
	case errors.Is(err, domain.ErrOrderNotFound):
		return http.StatusNotFound, errorResponse{Error: "order not found"}
	case errors.Is(err, domain.ErrItemNotFound):
		return http.StatusNotFound, errorResponse{Error: "menu item not found"}
	case errors.Is(err, domain.ErrEmptyCart):
		return http.StatusBadRequest, errorResponse{Error: "cart is empty"}
	case errors.Is(err, domain.ErrNoChangeNeeded):
		return http.StatusBadRequest, errorResponse{Error: "no change needed"}
	case errors.Is(err, domain.ErrItemUnavailable):
		return http.StatusConflict, errorResponse{Error: "menu item is not available"}
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusUnprocessableEntity, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		log.Warn().Err(err).Str("path", c.Path()).Msg("backend service unavailable")
		return http.StatusServiceUnavailable, errorResponse{Error: "service temporarily unavailable"}
	case errors.Is(err, domain.ErrUpstreamNetwork):
		log.Warn().Err(err).Str("path", c.Path()).Msg("backend network error")
		return http.StatusBadGateway, errorResponse{Error: "backend service error"}
	}

	var ue *domain.UpstreamError
	if errors.As(err, &ue) {
		if ue.StatusCode == http.StatusNotFound {
			return http.StatusNotFound, errorResponse{Error: ue.Message}
		}
		if ue.StatusCode >= 400 && ue.StatusCode < 500 {
			return ue.StatusCode, errorResponse{Error: ue.Message}
		}
		log.Error().Err(err).Str("path", c.Path()).Msg("backend service failed")
		return http.StatusBadGateway, errorResponse{Error: "backend service error"}
	}
	if errors.Is(err, domain.ErrNotFound) {
		return http.StatusNotFound, errorResponse{Error: "not found"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
