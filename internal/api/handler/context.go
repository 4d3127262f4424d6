package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/foodapp/storefront/internal/api/middleware"
	"github.com/foodapp/storefront/internal/core/domain"
)

// currentSession returns the caller's session. Routes behind RequireRole
// always have one; the check guards against wiring mistakes.
func currentSession(c echo.Context) (*domain.Session, error) {
	sess := middleware.Session(c)
	if sess == nil {
		return nil, domain.ErrUnauthorized
	}
	return sess, nil
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// bindAndValidate decodes the request into req and runs the struct-tag rules.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}
