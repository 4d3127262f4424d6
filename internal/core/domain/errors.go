package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation     = errors.New("validation failed")
	ErrNotFound       = errors.New("not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrOrderNotFound  = errors.New("order not found")
	ErrItemNotFound   = errors.New("menu item not found")
	ErrForbidden      = errors.New("access forbidden")
	ErrUnauthorized   = errors.New("authentication required")
	ErrSessionExpired = errors.New("session expired")

	ErrInvalidTransition = errors.New("invalid status transition")
	ErrItemUnavailable   = errors.New("menu item is not available")
	ErrEmptyCart         = errors.New("cart is empty")

	ErrCannotBlockAdmin = errors.New("cannot block admin users")
	ErrNoChangeNeeded   = errors.New("no change needed")

	// ErrUpstreamUnavailable means a backend service could not be reached
	// (connection refused or timed out).
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")
	// ErrUpstreamNetwork covers transport failures that are not plain
	// unavailability.
	ErrUpstreamNetwork = errors.New("upstream network error")
)

// UpstreamError is a non-2xx answer from a backend service.
type UpstreamError struct {
	Service    string
	StatusCode int
	Message    string
	Body       []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s service: status %d: %s", e.Service, e.StatusCode, e.Message)
}

// Is lets callers match upstream 404s with errors.Is(err, ErrNotFound).
func (e *UpstreamError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == 404
}

// IsAuthFailure reports whether err is an upstream 401 or 403.
func IsAuthFailure(err error) bool {
	var ue *UpstreamError
	if !errors.As(err, &ue) {
		return false
	}
	return ue.StatusCode == 401 || ue.StatusCode == 403
}
