package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/foodapp/storefront/internal/core/domain"
	"github.com/foodapp/storefront/internal/core/ports"
)

type stubSessions struct {
	sessions    map[string]*domain.Session
	validateErr error
	loggedOut   []string
}

func (s *stubSessions) Login(context.Context, string, string) (*ports.AuthResult, error) {
	return nil, errors.New("not implemented")
}

func (s *stubSessions) Register(context.Context, ports.RegisterInput) (*ports.AuthResult, error) {
	return nil, errors.New("not implemented")
}

func (s *stubSessions) Logout(_ context.Context, id string) error {
	s.loggedOut = append(s.loggedOut, id)
	return nil
}

func (s *stubSessions) Current(context.Context, string) (*domain.Session, error) {
	return nil, domain.ErrSessionExpired
}

func (s *stubSessions) Validate(_ context.Context, token string) (*domain.Session, error) {
	if s.validateErr != nil {
		return nil, s.validateErr
	}
	sess, ok := s.sessions[token]
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return sess, nil
}

func (s *stubSessions) UpdateProfile(context.Context, *domain.Session, ports.ProfileInput) (*domain.Session, error) {
	return nil, errors.New("not implemented")
}

func (s *stubSessions) Watch(context.Context, string, time.Duration, func()) {}

func newStubSessions() *stubSessions {
	return &stubSessions{sessions: map[string]*domain.Session{
		"good-token": {ID: "s1", User: domain.User{ID: 5, Role: domain.RoleCustomer}},
	}}
}

func TestAuthenticate_ValidTokenAttachesSession(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Authenticate(newStubSessions(), zerolog.Nop())(func(c echo.Context) error {
		called = true
		sess := Session(c)
		if sess == nil || sess.ID != "s1" {
			t.Fatalf("session not attached: %+v", sess)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestAuthenticate_QueryTokenForEventStreams(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?access_token=good-token", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Authenticate(newStubSessions(), zerolog.Nop())(func(c echo.Context) error {
		if Session(c) == nil {
			t.Fatalf("expected session from query token")
		}
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestAuthenticate_AnonymousRequests(t *testing.T) {
	cases := map[string]string{
		"missing header": "",
		"wrong scheme":   "Token good-token",
		"unknown token":  "Bearer forged",
		"empty bearer":   "Bearer ",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			called := false
			handler := Authenticate(newStubSessions(), zerolog.Nop())(func(c echo.Context) error {
				called = true
				if Session(c) != nil {
					t.Fatalf("expected anonymous request")
				}
				return nil
			})
			if err := handler(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if !called {
				t.Fatalf("next not called")
			}
		})
	}
}

func TestAuthenticate_StoreFailureIsReturned(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	c := e.NewContext(req, httptest.NewRecorder())

	stub := newStubSessions()
	stub.validateErr = errors.New("redis down")
	handler := Authenticate(stub, zerolog.Nop())(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err == nil {
		t.Fatalf("expected error")
	}
}

func TestAuthenticate_UpstreamRejectionForcesLogout(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	c := e.NewContext(req, httptest.NewRecorder())

	stub := newStubSessions()
	handler := Authenticate(stub, zerolog.Nop())(func(c echo.Context) error {
		return &domain.UpstreamError{Service: "order", StatusCode: http.StatusUnauthorized, Message: "token expired"}
	})

	err := handler(c)
	if !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if len(stub.loggedOut) != 1 || stub.loggedOut[0] != "s1" {
		t.Fatalf("expected session s1 to be logged out, got %v", stub.loggedOut)
	}
}

func TestAuthenticate_OtherErrorsPassThrough(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	c := e.NewContext(req, httptest.NewRecorder())

	stub := newStubSessions()
	handler := Authenticate(stub, zerolog.Nop())(func(c echo.Context) error {
		return &domain.UpstreamError{Service: "menu", StatusCode: http.StatusNotFound}
	})

	err := handler(c)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected the 404 to pass through, got %v", err)
	}
	if len(stub.loggedOut) != 0 {
		t.Fatalf("expected no logout, got %v", stub.loggedOut)
	}
}

func TestAuthenticate_FailedLoginKeepsExistingSession(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/auth/login")

	stub := newStubSessions()
	handler := Authenticate(stub, zerolog.Nop(), "/v1/auth/login", "/v1/auth/register")(func(c echo.Context) error {
		return &domain.UpstreamError{Service: "user", StatusCode: http.StatusUnauthorized, Message: "Invalid credentials"}
	})

	err := handler(c)
	var ue *domain.UpstreamError
	if !errors.As(err, &ue) || ue.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected the upstream 401 to pass through, got %v", err)
	}
	if errors.Is(err, domain.ErrSessionExpired) {
		t.Error("a failed login must not report the session as expired")
	}
	if len(stub.loggedOut) != 0 {
		t.Fatalf("expected no logout, got %v", stub.loggedOut)
	}
}
