package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/foodapp/storefront/internal/core/domain"
	"github.com/foodapp/storefront/internal/core/ports"
)

// UserClient talks to the user service.
type UserClient struct {
	c *Client
}

var _ ports.UserDirectory = (*UserClient)(nil)

// NewUserClient returns a ports.UserDirectory backed by the user service.
func NewUserClient(baseURL string, hc *http.Client) *UserClient {
	return &UserClient{c: NewClient("user", baseURL, hc)}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User      domain.User `json:"user"`
	Token     string      `json:"token"`
	ExpiresIn int64       `json:"expiresIn,omitempty"`
}

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Address     string `json:"address,omitempty"`
}

func (u *UserClient) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	var resp loginResponse
	if err := u.c.do(ctx, http.MethodPost, "/api/users/login", "", nil, loginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, "", err
	}
	if resp.Token == "" {
		return nil, "", errors.New("user service: login answered without a token")
	}
	return &resp.User, resp.Token, nil
}

func (u *UserClient) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	body := registerRequest{
		Email:       in.Email,
		Password:    in.Password,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		PhoneNumber: in.PhoneNumber,
		Address:     in.Address,
	}
	var user domain.User
	if err := u.c.do(ctx, http.MethodPost, "/api/users/register", "", nil, body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserClient) GetUser(ctx context.Context, token string, id int64) (*domain.User, error) {
	var user domain.User
	if err := u.c.do(ctx, http.MethodGet, "/api/users/"+itoa(id), token, nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserClient) UpdateProfile(ctx context.Context, token string, id int64, in ports.ProfileInput) (*domain.User, error) {
	var user domain.User
	if err := u.c.do(ctx, http.MethodPut, "/api/users/"+itoa(id), token, nil, in, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers forwards the filter as query parameters, skipping empty ones.
func (u *UserClient) ListUsers(ctx context.Context, token string, f ports.UserFilter) ([]domain.User, error) {
	q := url.Values{}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Role != "" {
		q.Set("role", f.Role)
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}

	var users []domain.User
	if err := u.c.do(ctx, http.MethodGet, "/api/users", token, q, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (u *UserClient) UpdateStatus(ctx context.Context, token string, id int64, change ports.StatusChange) (*domain.User, error) {
	var user domain.User
	if err := u.c.do(ctx, http.MethodPut, "/api/users/"+itoa(id)+"/status", token, nil, change, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
