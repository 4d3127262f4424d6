package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/foodapp/storefront/internal/core/domain"
)

// guardPanel is the in-place body rendered when access is denied in fallback
// mode.
type guardPanel struct {
	Error        string            `json:"error"`
	State        domain.GuardState `json:"state"`
	RequiredRole domain.Role       `json:"requiredRole,omitempty"`
	LoginURL     string            `json:"loginUrl,omitempty"`
}

// RequireRole gates a route group on the caller's role. An empty role only
// requires a signed-in user. In redirect mode denied callers are sent to the
// login or unauthorized page; in fallback mode they get a 401 or 403 panel.
func RequireRole(required domain.Role, mode domain.GuardMode) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := Session(c)
			state := domain.SessionAbsent
			if sess != nil {
				state = domain.SessionPresent
			}

			d := domain.EvaluateGuard(state, sess, required, mode, c.Request().URL.RequestURI())
			if d.Allowed() {
				return next(c)
			}
			if d.Redirect != "" {
				return c.Redirect(http.StatusFound, d.Redirect)
			}

			if d.State == domain.GuardUnauthenticated {
				return c.JSON(http.StatusUnauthorized, guardPanel{
					Error:    "authentication required",
					State:    d.State,
					LoginURL: domain.LoginPath,
				})
			}
			return c.JSON(http.StatusForbidden, guardPanel{
				Error:        "access forbidden",
				State:        d.State,
				RequiredRole: required,
			})
		}
	}
}
