package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/foodapp/storefront/internal/core/domain"
	"github.com/foodapp/storefront/internal/core/ports"
)

// itemFinder resolves a menu item by id.
type itemFinder interface {
	Item(ctx context.Context, id int64) (*domain.MenuItem, error)
}

type cartService struct {
	mu      sync.Mutex
	locks   map[int64]*ownerLock
	pending map[int64]domain.Cart
	store   ports.CartStore
	menu    itemFinder
	log     zerolog.Logger
}

type ownerLock struct {
	mu   sync.Mutex
	refs int
}

// NewCartService returns a CartService backed by store. Every operation reads
// the stored cart first; a copy is held in memory only while saving it fails.
func NewCartService(store ports.CartStore, menu itemFinder, log zerolog.Logger) ports.CartService {
	return &cartService{
		locks:   make(map[int64]*ownerLock),
		pending: make(map[int64]domain.Cart),
		store:   store,
		menu:    menu,
		log:     log,
	}
}

// lock serialises operations on one owner's cart and returns the unlock func.
func (s *cartService) lock(owner int64) func() {
	s.mu.Lock()
	l, ok := s.locks[owner]
	if !ok {
		l = &ownerLock{}
		s.locks[owner] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		if l.refs--; l.refs == 0 {
			delete(s.locks, owner)
		}
		s.mu.Unlock()
	}
}

// load returns the owner's cart. An unsaved copy wins over the store.
// Callers must hold the owner lock.
func (s *cartService) load(ctx context.Context, owner int64) domain.Cart {
	s.mu.Lock()
	p, ok := s.pending[owner]
	s.mu.Unlock()
	if ok {
		return p.Clone()
	}

	lines, err := s.store.Load(ctx, owner)
	if err != nil {
		s.log.Warn().Err(err).Int64("owner", owner).Msg("failed to load saved cart, starting empty")
		return domain.Cart{}
	}
	return domain.Cart{Lines: lines}.Clone()
}

// persist saves the full line list. Failures are logged and swallowed.
// Callers must hold the owner lock.
func (s *cartService) persist(ctx context.Context, owner int64, c domain.Cart) {
	var err error
	if c.IsEmpty() {
		err = s.store.Delete(ctx, owner)
	} else {
		err = s.store.Save(ctx, owner, c.Lines)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.log.Warn().Err(err).Int64("owner", owner).Msg("failed to persist cart")
		s.pending[owner] = c.Clone()
		return
	}
	delete(s.pending, owner)
}

func (s *cartService) Get(ctx context.Context, owner int64) domain.Cart {
	unlock := s.lock(owner)
	defer unlock()
	return s.load(ctx, owner)
}

func (s *cartService) AddItem(ctx context.Context, owner, itemID int64, quantity int, instructions string) (domain.Cart, error) {
	item, err := s.menu.Item(ctx, itemID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("add to cart: %w", err)
	}
	if !item.IsAvailable {
		return domain.Cart{}, fmt.Errorf("add to cart: %w: %s", domain.ErrItemUnavailable, item.Name)
	}
	return s.mutate(ctx, owner, func(c *domain.Cart) { c.AddItem(*item, quantity, instructions) }), nil
}

func (s *cartService) UpdateQuantity(ctx context.Context, owner, itemID int64, quantity int) domain.Cart {
	return s.mutate(ctx, owner, func(c *domain.Cart) { c.UpdateQuantity(itemID, quantity) })
}

func (s *cartService) UpdateInstructions(ctx context.Context, owner, itemID int64, instructions string) domain.Cart {
	return s.mutate(ctx, owner, func(c *domain.Cart) { c.UpdateInstructions(itemID, instructions) })
}

func (s *cartService) RemoveItem(ctx context.Context, owner, itemID int64) domain.Cart {
	return s.mutate(ctx, owner, func(c *domain.Cart) { c.RemoveItem(itemID) })
}

func (s *cartService) Clear(ctx context.Context, owner int64) {
	s.mutate(ctx, owner, func(c *domain.Cart) { c.Clear() })
}

func (s *cartService) mutate(ctx context.Context, owner int64, fn func(*domain.Cart)) domain.Cart {
	unlock := s.lock(owner)
	defer unlock()
	c := s.load(ctx, owner)
	fn(&c)
	s.persist(ctx, owner, c)
	return c.Clone()
}
