package handler

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/foodapp/storefront/internal/api/middleware"
	"github.com/foodapp/storefront/internal/core/domain"
	"github.com/foodapp/storefront/internal/core/ports"
)

var (
	customerSession = &domain.Session{ID: "sess-c", UpstreamToken: "up-c", User: domain.User{ID: 7, Email: "ana@example.com", FirstName: "Ana", LastName: "Diaz", Role: domain.RoleCustomer}}
	adminSession    = &domain.Session{ID: "sess-a", UpstreamToken: "up-a", User: domain.User{ID: 1, Email: "root@example.com", FirstName: "Root", Role: domain.RoleAdmin}}
)

// newContext builds an echo context with the validator installed. A non-nil
// sess is attached the way Authenticate would.
func newContext(method, target, body string, sess *domain.Session) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if sess != nil {
		c.Set(middleware.SessionKey, sess)
	}
	return c, rec
}

// --- sessions ---

type stubSessions struct {
	result    *ports.AuthResult
	err       error
	loggedOut []string
	watchGone bool
}

func (s *stubSessions) Login(context.Context, string, string) (*ports.AuthResult, error) {
	return s.result, s.err
}

func (s *stubSessions) Register(context.Context, ports.RegisterInput) (*ports.AuthResult, error) {
	return s.result, s.err
}

func (s *stubSessions) Logout(_ context.Context, id string) error {
	s.loggedOut = append(s.loggedOut, id)
	return nil
}

func (s *stubSessions) Current(context.Context, string) (*domain.Session, error) {
	return nil, domain.ErrSessionExpired
}

func (s *stubSessions) Validate(context.Context, string) (*domain.Session, error) {
	return nil, domain.ErrUnauthorized
}

func (s *stubSessions) UpdateProfile(_ context.Context, sess *domain.Session, in ports.ProfileInput) (*domain.Session, error) {
	out := *sess
	out.User.FirstName = in.FirstName
	out.User.LastName = in.LastName
	return &out, nil
}

func (s *stubSessions) Watch(ctx context.Context, _ string, _ time.Duration, onGone func()) {
	if s.watchGone {
		onGone()
		return
	}
	<-ctx.Done()
}

// --- menu ---

type stubMenu struct {
	items map[int64]*domain.MenuItem
}

func (m *stubMenu) Item(_ context.Context, id int64) (*domain.MenuItem, error) {
	it, ok := m.items[id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	return it, nil
}

func newStubMenu() *stubMenu {
	prep := 10
	return &stubMenu{items: map[int64]*domain.MenuItem{
		1: {ID: 1, Name: "Burger", Price: decimal.RequireFromString("12.50"), IsAvailable: true, PreparationTime: &prep},
		2: {ID: 2, Name: "Fries", Price: decimal.RequireFromString("3.50"), IsAvailable: true},
		3: {ID: 3, Name: "Soup", Price: decimal.RequireFromString("6.00"), IsAvailable: false},
	}}
}

// --- cart store ---

type memCartStore struct {
	mu    sync.Mutex
	lines map[int64][]domain.CartLine
}

func newMemCartStore() *memCartStore {
	return &memCartStore{lines: map[int64][]domain.CartLine{}}
}

func (s *memCartStore) Load(_ context.Context, owner int64) ([]domain.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lines[owner], nil
}

func (s *memCartStore) Save(_ context.Context, owner int64, lines []domain.CartLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines[owner] = append([]domain.CartLine(nil), lines...)
	return nil
}

func (s *memCartStore) Delete(_ context.Context, owner int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lines, owner)
	return nil
}

// --- order backend ---

type stubOrders struct {
	orders  map[int64]*domain.Order
	created []domain.OrderRequest
	getErr  error
}

func (o *stubOrders) Create(_ context.Context, _ string, req domain.OrderRequest) (*domain.Order, error) {
	o.created = append(o.created, req)
	return &domain.Order{ID: 100, UserID: req.UserID, Status: domain.StatusPending, OrderType: req.OrderType}, nil
}

func (o *stubOrders) Get(_ context.Context, _ string, id int64) (*domain.Order, error) {
	if o.getErr != nil {
		return nil, o.getErr
	}
	ord, ok := o.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return ord, nil
}

func (o *stubOrders) ListByUser(context.Context, string, int64) ([]domain.Order, error) {
	return nil, nil
}

func (o *stubOrders) List(context.Context, string, domain.OrderStatus) ([]domain.Order, error) {
	return nil, nil
}

func (o *stubOrders) UpdateStatus(context.Context, string, int64, domain.OrderStatus) (*domain.Order, error) {
	return nil, errors.New("not implemented")
}

func (o *stubOrders) Cancel(context.Context, string, int64) (*domain.Order, error) {
	return nil, errors.New("not implemented")
}

// --- user directory ---

type stubUsers struct {
	users     map[int64]*domain.User
	list      []domain.User
	err       error
	updateErr error
	updates   []ports.StatusChange
	filters   []ports.UserFilter
}

func (u *stubUsers) Login(context.Context, string, string) (*domain.User, string, error) {
	return nil, "", errors.New("not implemented")
}

func (u *stubUsers) Register(context.Context, ports.RegisterInput) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (u *stubUsers) GetUser(_ context.Context, _ string, id int64) (*domain.User, error) {
	if u.err != nil {
		return nil, u.err
	}
	usr, ok := u.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return usr, nil
}

func (u *stubUsers) UpdateProfile(context.Context, string, int64, ports.ProfileInput) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (u *stubUsers) ListUsers(_ context.Context, _ string, f ports.UserFilter) ([]domain.User, error) {
	u.filters = append(u.filters, f)
	if u.err != nil {
		return nil, u.err
	}
	return u.list, nil
}

func (u *stubUsers) UpdateStatus(_ context.Context, _ string, id int64, change ports.StatusChange) (*domain.User, error) {
	if u.updateErr != nil {
		return nil, u.updateErr
	}
	u.updates = append(u.updates, change)
	out := *u.users[id]
	out.Status = change.Status
	return &out, nil
}

type recordingAudit struct {
	entries []domain.StatusAudit
}

func (a *recordingAudit) Record(_ context.Context, e domain.StatusAudit) {
	a.entries = append(a.entries, e)
}
