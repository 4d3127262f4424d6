package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/foodapp/storefront/internal/api/middleware"
	"github.com/foodapp/storefront/internal/core/domain"
	"github.com/foodapp/storefront/internal/core/ports"
)

type AuthHandler struct {
	sessions ports.SessionService
}

func NewAuthHandler(sessions ports.SessionService) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

// Register creates an account and signs it in.
//
// @Summary      Register a new customer
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration form"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /v1/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.sessions.Register(c.Request().Context(), ports.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, authResponse{Token: res.Token, ExpiresAt: res.ExpiresAt, User: res.Session.User})
}

// Login authenticates against the user service and opens a session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.sessions.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{Token: res.Token, ExpiresAt: res.ExpiresAt, User: res.Session.User})
}

// Logout destroys the caller's session.
//
// @Summary      Logout
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  errorResponse
// @Router       /v1/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	if err := h.sessions.Logout(c.Request().Context(), sess.ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the signed-in user.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{User: sess.User, ExpiresAt: sess.ExpiresAt})
}

// UpdateMe edits the signed-in user's profile.
//
// @Summary      Update profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      profileRequest  true  "Profile fields"
// @Success      200   {object}  sessionResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/auth/me [put]
func (h *AuthHandler) UpdateMe(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	var req profileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	updated, err := h.sessions.UpdateProfile(c.Request().Context(), sess, ports.ProfileInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{User: updated.User, ExpiresAt: updated.ExpiresAt})
}

// Guard evaluates whether the caller may see content gated on a role, so
// clients can decide between rendering, a panel, or a redirect.
//
// @Summary      Evaluate the role guard
// @Tags         auth
// @Produce      json
// @Param        role       query     string  false  "Required role"  Enums(CUSTOMER, STAFF, ADMIN)
// @Param        mode       query     string  false  "Denial mode"    Enums(redirect, fallback)
// @Param        returnUrl  query     string  false  "Path to come back to after login"
// @Success      200        {object}  guardResponse
// @Failure      422        {object}  errorResponse
// @Router       /v1/auth/guard [get]
func (h *AuthHandler) Guard(c echo.Context) error {
	var q guardQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	mode := domain.GuardFallback
	if q.Mode == "redirect" {
		mode = domain.GuardRedirect
	}
	sess := middleware.Session(c)
	state := domain.SessionAbsent
	if sess != nil {
		state = domain.SessionPresent
	}

	d := domain.EvaluateGuard(state, sess, domain.Role(q.Role), mode, q.ReturnURL)
	return c.JSON(http.StatusOK, guardResponse{State: d.State, Redirect: d.Redirect})
}
