package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/foodapp/storefront/internal/core/domain"
	"github.com/foodapp/storefront/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Storage stubs
// ---------------------------------------------------------------------------

type stubCartStore struct {
	mu      sync.Mutex
	saved   map[int64][]domain.CartLine
	loadErr error
	saveErr error
	saves   int
	deletes int
}

func newStubCartStore() *stubCartStore {
	return &stubCartStore{saved: make(map[int64][]domain.CartLine)}
}

func (s *stubCartStore) Load(_ context.Context, owner int64) ([]domain.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return append([]domain.CartLine(nil), s.saved[owner]...), nil
}

func (s *stubCartStore) Save(_ context.Context, owner int64, lines []domain.CartLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved[owner] = append([]domain.CartLine(nil), lines...)
	return nil
}

func (s *stubCartStore) Delete(_ context.Context, owner int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes++
	if s.saveErr != nil {
		return s.saveErr
	}
	delete(s.saved, owner)
	return nil
}

type stubSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	getErr   error
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]*domain.Session)}
}

func (s *stubSessionStore) Save(_ context.Context, sess *domain.Session, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sess
	s.sessions[sess.ID] = &cp
	return nil
}

func (s *stubSessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionExpired
	}
	cp := *sess
	return &cp, nil
}

func (s *stubSessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

type stubCache struct {
	entries     map[string][]byte
	invalidated int
}

func newStubCache() *stubCache { return &stubCache{entries: make(map[string][]byte)} }

func (c *stubCache) Get(_ context.Context, key string, dst any) (bool, error) {
	raw, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *stubCache) Set(_ context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	return nil
}

func (c *stubCache) Invalidate(context.Context) error {
	c.invalidated++
	c.entries = make(map[string][]byte)
	return nil
}

type stubImages struct {
	puts map[string][]byte
	err  error
}

func (s *stubImages) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	if s.err != nil {
		return s.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if s.puts == nil {
		s.puts = make(map[string][]byte)
	}
	s.puts[key] = data
	return nil
}

func (s *stubImages) URL(key string) string { return "/images/" + key }

type stubAudit struct {
	entries []domain.StatusAudit
}

func (a *stubAudit) Record(_ context.Context, e domain.StatusAudit) { a.entries = append(a.entries, e) }

type stubDedup struct {
	mu       sync.Mutex
	seen     map[string]bool
	claimErr error
}

func (d *stubDedup) Claim(_ context.Context, orderID int64, status domain.OrderStatus) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.claimErr != nil {
		return false, d.claimErr
	}
	if d.seen == nil {
		d.seen = make(map[string]bool)
	}
	key := fmt.Sprintf("%d:%s", orderID, status)
	if d.seen[key] {
		return false, nil
	}
	d.seen[key] = true
	return true, nil
}

type stubQueue struct {
	mu     sync.Mutex
	queued []*domain.Notification
}

func (q *stubQueue) Enqueue(_ context.Context, n *domain.Notification) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.queued = append(q.queued, n)
	return nil
}

type stubNotificationRepo struct {
	items []domain.Notification
}

func (r *stubNotificationRepo) Insert(_ context.Context, n *domain.Notification) error {
	r.items = append(r.items, *n)
	return nil
}

func (r *stubNotificationRepo) ListByUser(_ context.Context, userID int64, limit int) ([]domain.Notification, error) {
	var out []domain.Notification
	for _, n := range r.items {
		if n.UserID == userID && len(out) < limit {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *stubNotificationRepo) MarkRead(_ context.Context, userID int64, id string) error {
	for i := range r.items {
		if r.items[i].ID == id && r.items[i].UserID == userID {
			r.items[i].Read = true
			return nil
		}
	}
	return domain.ErrNotFound
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls []string
}

func (n *recordingNotifier) OrderStatusChanged(_ context.Context, _ *domain.Order, from, to domain.OrderStatus) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, string(from)+"->"+string(to))
}

func (n *recordingNotifier) Calls() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.calls...)
}

// ---------------------------------------------------------------------------
// Upstream stubs
// ---------------------------------------------------------------------------

type stubMenu struct {
	items      map[int64]domain.MenuItem
	categories []domain.Category
	calls      int
	writeErr   error
}

func newStubMenu(items ...domain.MenuItem) *stubMenu {
	m := &stubMenu{items: make(map[int64]domain.MenuItem)}
	for _, it := range items {
		m.items[it.ID] = it
	}
	return m
}

func (m *stubMenu) Categories(context.Context) ([]domain.Category, error) {
	m.calls++
	return append([]domain.Category(nil), m.categories...), nil
}

func (m *stubMenu) ActiveCategories(context.Context) ([]domain.Category, error) {
	m.calls++
	var out []domain.Category
	for _, c := range m.categories {
		if c.IsActive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *stubMenu) Items(context.Context) ([]domain.MenuItem, error) {
	m.calls++
	out := make([]domain.MenuItem, 0, len(m.items))
	for id := int64(1); id <= int64(len(m.items)); id++ {
		if it, ok := m.items[id]; ok {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *stubMenu) ItemsByCategory(ctx context.Context, categoryID int64) ([]domain.MenuItem, error) {
	all, _ := m.Items(ctx)
	var out []domain.MenuItem
	for _, it := range all {
		if it.CategoryID == categoryID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *stubMenu) Item(_ context.Context, id int64) (*domain.MenuItem, error) {
	m.calls++
	it, ok := m.items[id]
	if !ok {
		return nil, &domain.UpstreamError{Service: "menu", StatusCode: 404, Message: "Menu item not found"}
	}
	return &it, nil
}

func (m *stubMenu) CreateItem(_ context.Context, _ string, in ports.MenuItemInput) (*domain.MenuItem, error) {
	if m.writeErr != nil {
		return nil, m.writeErr
	}
	it := domain.MenuItem{ID: int64(len(m.items) + 1), CategoryID: in.CategoryID, Name: in.Name, Price: in.Price, IsAvailable: in.IsAvailable}
	m.items[it.ID] = it
	return &it, nil
}

func (m *stubMenu) UpdateItem(_ context.Context, _ string, id int64, in ports.MenuItemInput) (*domain.MenuItem, error) {
	if m.writeErr != nil {
		return nil, m.writeErr
	}
	it, ok := m.items[id]
	if !ok {
		return nil, &domain.UpstreamError{Service: "menu", StatusCode: 404}
	}
	it.Name, it.Price = in.Name, in.Price
	m.items[id] = it
	return &it, nil
}

func (m *stubMenu) DeleteItem(_ context.Context, _ string, id int64) error {
	if _, ok := m.items[id]; !ok {
		return &domain.UpstreamError{Service: "menu", StatusCode: 404}
	}
	delete(m.items, id)
	return nil
}

func (m *stubMenu) SetAvailability(_ context.Context, _ string, id int64, available bool) (*domain.MenuItem, error) {
	it, ok := m.items[id]
	if !ok {
		return nil, &domain.UpstreamError{Service: "menu", StatusCode: 404}
	}
	it.IsAvailable = available
	m.items[id] = it
	return &it, nil
}

func (m *stubMenu) CreateCategory(_ context.Context, _ string, in ports.CategoryInput) (*domain.Category, error) {
	c := domain.Category{ID: int64(len(m.categories) + 1), Name: in.Name, IsActive: in.IsActive, DisplayOrder: in.DisplayOrder}
	m.categories = append(m.categories, c)
	return &c, nil
}

func (m *stubMenu) UpdateCategory(_ context.Context, _ string, id int64, in ports.CategoryInput) (*domain.Category, error) {
	for i := range m.categories {
		if m.categories[i].ID == id {
			m.categories[i].Name = in.Name
			return &m.categories[i], nil
		}
	}
	return nil, &domain.UpstreamError{Service: "menu", StatusCode: 404}
}

func (m *stubMenu) DeleteCategory(_ context.Context, _ string, id int64) error {
	for i := range m.categories {
		if m.categories[i].ID == id {
			m.categories = append(m.categories[:i], m.categories[i+1:]...)
			return nil
		}
	}
	return &domain.UpstreamError{Service: "menu", StatusCode: 404}
}

type stubUsers struct {
	users        map[int64]*domain.User
	passwords    map[string]string
	loginErr     error
	listed       []ports.UserFilter
	statusCalls  []ports.StatusChange
	updateErr    error
	registerSeen []ports.RegisterInput
}

func newStubUsers(users ...domain.User) *stubUsers {
	s := &stubUsers{users: make(map[int64]*domain.User), passwords: make(map[string]string)}
	for i := range users {
		u := users[i]
		s.users[u.ID] = &u
		s.passwords[u.Email] = "Secret123"
	}
	return s
}

func (s *stubUsers) Login(_ context.Context, email, password string) (*domain.User, string, error) {
	if s.loginErr != nil {
		return nil, "", s.loginErr
	}
	if s.passwords[email] != password {
		return nil, "", &domain.UpstreamError{Service: "user", StatusCode: 401, Message: "Invalid credentials"}
	}
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, "upstream-" + email, nil
		}
	}
	return nil, "", errors.New("inconsistent stub")
}

func (s *stubUsers) Register(_ context.Context, in ports.RegisterInput) (*domain.User, error) {
	s.registerSeen = append(s.registerSeen, in)
	u := &domain.User{ID: int64(len(s.users) + 100), Email: in.Email, FirstName: in.FirstName, LastName: in.LastName, Role: domain.RoleCustomer}
	s.users[u.ID] = u
	s.passwords[in.Email] = in.Password
	cp := *u
	return &cp, nil
}

func (s *stubUsers) GetUser(_ context.Context, _ string, id int64) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, &domain.UpstreamError{Service: "user", StatusCode: 404, Message: "User not found"}
	}
	cp := *u
	return &cp, nil
}

func (s *stubUsers) UpdateProfile(_ context.Context, _ string, id int64, in ports.ProfileInput) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, &domain.UpstreamError{Service: "user", StatusCode: 404}
	}
	u.FirstName, u.LastName, u.PhoneNumber, u.Address = in.FirstName, in.LastName, in.PhoneNumber, in.Address
	cp := *u
	return &cp, nil
}

func (s *stubUsers) ListUsers(_ context.Context, _ string, f ports.UserFilter) ([]domain.User, error) {
	s.listed = append(s.listed, f)
	out := make([]domain.User, 0, len(s.users))
	for id := int64(1); id <= int64(len(s.users)); id++ {
		if u, ok := s.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (s *stubUsers) UpdateStatus(_ context.Context, _ string, id int64, change ports.StatusChange) (*domain.User, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	s.statusCalls = append(s.statusCalls, change)
	u := s.users[id]
	u.Status = change.Status
	cp := *u
	return &cp, nil
}

type stubOrders struct {
	mu      sync.Mutex
	orders  map[int64]*domain.Order
	created []domain.OrderRequest
	err     error
}

func newStubOrders(orders ...domain.Order) *stubOrders {
	s := &stubOrders{orders: make(map[int64]*domain.Order)}
	for i := range orders {
		o := orders[i]
		s.orders[o.ID] = &o
	}
	return s
}

func (s *stubOrders) Create(_ context.Context, _ string, req domain.OrderRequest) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	s.created = append(s.created, req)
	o := &domain.Order{ID: int64(len(s.orders) + 1), UserID: req.UserID, Status: domain.StatusPending, OrderType: req.OrderType}
	s.orders[o.ID] = o
	cp := *o
	return &cp, nil
}

func (s *stubOrders) Get(_ context.Context, _ string, id int64) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	o, ok := s.orders[id]
	if !ok {
		return nil, &domain.UpstreamError{Service: "order", StatusCode: 404, Message: "Order not found"}
	}
	cp := *o
	return &cp, nil
}

func (s *stubOrders) ListByUser(_ context.Context, _ string, userID int64) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *stubOrders) List(_ context.Context, _ string, status domain.OrderStatus) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Order
	for _, o := range s.orders {
		if status == "" || o.Status == status {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *stubOrders) UpdateStatus(_ context.Context, _ string, id int64, status domain.OrderStatus) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := s.orders[id]
	o.Status = status
	cp := *o
	return &cp, nil
}

func (s *stubOrders) Cancel(ctx context.Context, token string, id int64) (*domain.Order, error) {
	return s.UpdateStatus(ctx, token, id, domain.StatusCancelled)
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

func sessionFor(id int64, role domain.Role) *domain.Session {
	return &domain.Session{
		ID:            "sess-" + string(role),
		User:          domain.User{ID: id, Email: "u@example.com", Role: role},
		UpstreamToken: "upstream",
		ExpiresAt:     time.Now().Add(time.Hour),
	}
}
