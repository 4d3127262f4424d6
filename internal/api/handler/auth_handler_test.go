package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/foodapp/storefront/internal/core/domain"
	"github.com/foodapp/storefront/internal/core/ports"
)

func TestLogin_Success(t *testing.T) {
	expires := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	sessions := &stubSessions{result: &ports.AuthResult{Token: "tok", ExpiresAt: expires, Session: customerSession}}
	h := NewAuthHandler(sessions)

	c, rec := newContext(http.MethodPost, "/v1/auth/login", `{"email":"ana@example.com","password":"secret1"}`, nil)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var out authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Token != "tok" || !out.ExpiresAt.Equal(expires) || out.User.Email != "ana@example.com" {
		t.Errorf("unexpected response: %+v", out)
	}
}

func TestLogin_InvalidEmail(t *testing.T) {
	h := NewAuthHandler(&stubSessions{})

	c, _ := newContext(http.MethodPost, "/v1/auth/login", `{"email":"nope","password":"secret1"}`, nil)
	err := h.Login(c)

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := ve.Fields["email"]; !ok {
		t.Errorf("expected email field, got %v", ve.Fields)
	}
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("ValidationError must unwrap to ErrValidation")
	}
}

func TestLogin_UpstreamRejection(t *testing.T) {
	h := NewAuthHandler(&stubSessions{err: domain.ErrUnauthorized})

	c, _ := newContext(http.MethodPost, "/v1/auth/login", `{"email":"ana@example.com","password":"secret1"}`, nil)
	if err := h.Login(c); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestRegister_FieldRules(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		field string
	}{
		{"weak password", `{"email":"a@b.co","password":"alllower1","confirmPassword":"alllower1","firstName":"Ana","lastName":"Diaz"}`, "password"},
		{"mismatch", `{"email":"a@b.co","password":"Secret123","confirmPassword":"Secret124","firstName":"Ana","lastName":"Diaz"}`, "confirmPassword"},
		{"short name", `{"email":"a@b.co","password":"Secret123","confirmPassword":"Secret123","firstName":"A","lastName":"Diaz"}`, "firstName"},
		{"bad phone", `{"email":"a@b.co","password":"Secret123","confirmPassword":"Secret123","firstName":"Ana","lastName":"Diaz","phoneNumber":"call me"}`, "phoneNumber"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewAuthHandler(&stubSessions{})
			c, _ := newContext(http.MethodPost, "/v1/auth/register", tc.body, nil)

			var ve *ValidationError
			if err := h.Register(c); !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if _, ok := ve.Fields[tc.field]; !ok {
				t.Errorf("expected %s field error, got %v", tc.field, ve.Fields)
			}
		})
	}
}

func TestRegister_Created(t *testing.T) {
	sessions := &stubSessions{result: &ports.AuthResult{Token: "tok", Session: customerSession}}
	h := NewAuthHandler(sessions)

	c, rec := newContext(http.MethodPost, "/v1/auth/register",
		`{"email":"ana@example.com","password":"Secret123","confirmPassword":"Secret123","firstName":"Ana","lastName":"Diaz","phoneNumber":"+1 (555) 010-0100"}`, nil)
	if err := h.Register(c); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestLogout_RequiresSession(t *testing.T) {
	h := NewAuthHandler(&stubSessions{})

	c, _ := newContext(http.MethodPost, "/v1/auth/logout", "", nil)
	if err := h.Logout(c); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestLogout_DestroysSession(t *testing.T) {
	sessions := &stubSessions{}
	h := NewAuthHandler(sessions)

	c, rec := newContext(http.MethodPost, "/v1/auth/logout", "", customerSession)
	if err := h.Logout(c); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if rec.Code != http.StatusNoContent || len(sessions.loggedOut) != 1 {
		t.Errorf("expected 204 and one logout, got %d %v", rec.Code, sessions.loggedOut)
	}
}

func TestGuard_States(t *testing.T) {
	cases := []struct {
		name     string
		target   string
		sess     *domain.Session
		state    domain.GuardState
		redirect string
	}{
		{"anonymous redirect", "/v1/auth/guard?role=STAFF&mode=redirect&returnUrl=/kitchen", nil, domain.GuardUnauthenticated, "/auth/login?returnUrl=%2Fkitchen"},
		{"anonymous fallback", "/v1/auth/guard?role=STAFF", nil, domain.GuardUnauthenticated, ""},
		{"customer on staff page", "/v1/auth/guard?role=STAFF&mode=redirect", customerSession, domain.GuardForbidden, "/unauthorized"},
		{"admin on staff page", "/v1/auth/guard?role=STAFF", adminSession, domain.GuardAuthorized, ""},
		{"any signed-in user", "/v1/auth/guard", customerSession, domain.GuardAuthorized, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewAuthHandler(&stubSessions{})
			c, rec := newContext(http.MethodGet, tc.target, "", tc.sess)
			if err := h.Guard(c); err != nil {
				t.Fatalf("Guard: %v", err)
			}
			var out guardResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if out.State != tc.state || out.Redirect != tc.redirect {
				t.Errorf("got %+v, want state=%s redirect=%q", out, tc.state, tc.redirect)
			}
		})
	}
}

func TestGuard_RejectsUnknownRole(t *testing.T) {
	h := NewAuthHandler(&stubSessions{})
	c, _ := newContext(http.MethodGet, "/v1/auth/guard?role=OWNER", "", nil)

	var ve *ValidationError
	if err := h.Guard(c); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
