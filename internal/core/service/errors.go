package service

import (
	"errors"

	"github.com/foodapp/storefront/internal/core/domain"
)

// translateNotFound replaces an upstream 404 with the more specific sentinel.
func translateNotFound(err, notFound error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return notFound
	}
	return err
}
