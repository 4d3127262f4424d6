package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/foodapp/storefront/internal/core/domain"
	"github.com/foodapp/storefront/internal/core/ports"
)

// SessionKey is the echo.Context key holding the caller's *domain.Session.
const SessionKey = "session"

// tokenQueryParam carries the token for clients that cannot set headers,
// such as EventSource.
const tokenQueryParam = "access_token"

// Session returns the session attached by Authenticate, or nil for anonymous
// requests.
func Session(c echo.Context) *domain.Session {
	sess, _ := c.Get(SessionKey).(*domain.Session)
	return sess
}

// Authenticate resolves the bearer token to a live session and attaches it.
// Requests without a usable token continue anonymously; RequireRole decides
// what they may reach.
//
// When a handler fails because a backend service rejected the session's
// upstream token, the session is destroyed and the request answers 401.
// Routes listed in credentialRoutes check credentials rather than the session,
// so their 401s pass through without a logout.
func Authenticate(sessions ports.SessionService, log zerolog.Logger, credentialRoutes ...string) echo.MiddlewareFunc {
	skip := make(map[string]bool, len(credentialRoutes))
	for _, p := range credentialRoutes {
		skip[p] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			if token := bearerToken(c); token != "" {
				sess, err := sessions.Validate(ctx, token)
				switch {
				case err == nil:
					c.Set(SessionKey, sess)
				case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrSessionExpired):
				default:
					return fmt.Errorf("validate session: %w", err)
				}
			}

			err := next(c)
			if err == nil || !domain.IsAuthFailure(err) {
				return err
			}

			sess := Session(c)
			if sess == nil || skip[c.Path()] {
				return err
			}
			if lerr := sessions.Logout(ctx, sess.ID); lerr != nil {
				log.Warn().Err(lerr).Str("session", sess.ID).Msg("forced logout failed")
			}
			log.Info().
				Str("session", sess.ID).
				Int64("user_id", sess.User.ID).
				Msg("backend rejected session token, logged out")
			return fmt.Errorf("%w: %v", domain.ErrSessionExpired, err)
		}
	}
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	return c.QueryParam(tokenQueryParam)
}
