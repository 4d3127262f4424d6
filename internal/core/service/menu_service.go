package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/foodapp/storefront/internal/core/domain"
	"github.com/foodapp/storefront/internal/core/ports"
)

// Cache keys for menu reads.
const (
	keyCategories       = "categories"
	keyActiveCategories = "categories:active"
	keyItems            = "items"
)

func keyCategoryItems(id int64) string { return fmt.Sprintf("items:category:%d", id) }
func keyItem(id int64) string          { return fmt.Sprintf("item:%d", id) }

type menuService struct {
	catalog ports.MenuCatalog
	cache   ports.MenuCache
	log     zerolog.Logger
}

// NewMenuService returns a MenuService reading through cache.
func NewMenuService(catalog ports.MenuCatalog, cache ports.MenuCache, log zerolog.Logger) ports.MenuService {
	return &menuService{catalog: catalog, cache: cache, log: log}
}

// cached serves key from the cache or loads and stores it. Cache failures
// degrade to a direct upstream read.
func cached[T any](ctx context.Context, s *menuService, key string, load func(context.Context) (T, error)) (T, error) {
	var v T
	hit, err := s.cache.Get(ctx, key, &v)
	switch {
	case err != nil:
		s.log.Warn().Err(err).Str("key", key).Msg("menu cache read failed")
	case hit:
		return v, nil
	}

	v, err = load(ctx)
	if err != nil {
		return v, err
	}
	if err := s.cache.Set(ctx, key, v); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("menu cache write failed")
	}
	return v, nil
}

func (s *menuService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("menu cache invalidation failed")
	}
}

func (s *menuService) Categories(ctx context.Context, activeOnly bool) ([]domain.Category, error) {
	key, load := keyCategories, s.catalog.Categories
	if activeOnly {
		key, load = keyActiveCategories, s.catalog.ActiveCategories
	}
	cats, err := cached(ctx, s, key, load)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	slices.SortStableFunc(cats, func(a, b domain.Category) int { return cmp.Compare(a.DisplayOrder, b.DisplayOrder) })
	return cats, nil
}

func (s *menuService) Items(ctx context.Context, q ports.MenuQuery) ([]domain.MenuItem, error) {
	var (
		items []domain.MenuItem
		err   error
	)
	if q.CategoryID > 0 {
		items, err = cached(ctx, s, keyCategoryItems(q.CategoryID), func(ctx context.Context) ([]domain.MenuItem, error) {
			return s.catalog.ItemsByCategory(ctx, q.CategoryID)
		})
	} else {
		items, err = cached(ctx, s, keyItems, s.catalog.Items)
	}
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	return SearchItems(items, q), nil
}

func (s *menuService) Item(ctx context.Context, id int64) (*domain.MenuItem, error) {
	item, err := cached(ctx, s, keyItem(id), func(ctx context.Context) (*domain.MenuItem, error) {
		return s.catalog.Item(ctx, id)
	})
	if err != nil {
		return nil, translateNotFound(err, domain.ErrItemNotFound)
	}
	return item, nil
}

func (s *menuService) CreateItem(ctx context.Context, token string, in ports.MenuItemInput) (*domain.MenuItem, error) {
	item, err := s.catalog.CreateItem(ctx, token, in)
	if err != nil {
		return nil, fmt.Errorf("create menu item: %w", err)
	}
	s.invalidate(ctx)
	return item, nil
}

func (s *menuService) UpdateItem(ctx context.Context, token string, id int64, in ports.MenuItemInput) (*domain.MenuItem, error) {
	item, err := s.catalog.UpdateItem(ctx, token, id, in)
	if err != nil {
		return nil, translateNotFound(err, domain.ErrItemNotFound)
	}
	s.invalidate(ctx)
	return item, nil
}

func (s *menuService) DeleteItem(ctx context.Context, token string, id int64) error {
	if err := s.catalog.DeleteItem(ctx, token, id); err != nil {
		return translateNotFound(err, domain.ErrItemNotFound)
	}
	s.invalidate(ctx)
	return nil
}

func (s *menuService) SetAvailability(ctx context.Context, token string, id int64, available bool) (*domain.MenuItem, error) {
	item, err := s.catalog.SetAvailability(ctx, token, id, available)
	if err != nil {
		return nil, translateNotFound(err, domain.ErrItemNotFound)
	}
	s.invalidate(ctx)
	return item, nil
}

func (s *menuService) CreateCategory(ctx context.Context, token string, in ports.CategoryInput) (*domain.Category, error) {
	cat, err := s.catalog.CreateCategory(ctx, token, in)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	s.invalidate(ctx)
	return cat, nil
}

func (s *menuService) UpdateCategory(ctx context.Context, token string, id int64, in ports.CategoryInput) (*domain.Category, error) {
	cat, err := s.catalog.UpdateCategory(ctx, token, id, in)
	if err != nil {
		return nil, translateNotFound(err, domain.ErrNotFound)
	}
	s.invalidate(ctx)
	return cat, nil
}

func (s *menuService) DeleteCategory(ctx context.Context, token string, id int64) error {
	if err := s.catalog.DeleteCategory(ctx, token, id); err != nil {
		return translateNotFound(err, domain.ErrNotFound)
	}
	s.invalidate(ctx)
	return nil
}

// SearchItems applies q's filters and ordering to items. Text matches are
// case-insensitive over name, description and ingredients.
func SearchItems(items []domain.MenuItem, q ports.MenuQuery) []domain.MenuItem {
	needle := strings.ToLower(strings.TrimSpace(q.Query))
	dietary := strings.ToLower(strings.TrimSpace(q.Dietary))
	if dietary == "all" {
		dietary = ""
	}

	out := make([]domain.MenuItem, 0, len(items))
	for _, it := range items {
		if needle != "" &&
			!strings.Contains(strings.ToLower(it.Name), needle) &&
			!strings.Contains(strings.ToLower(it.Description), needle) &&
			!strings.Contains(strings.ToLower(it.Ingredients), needle) {
			continue
		}
		if q.CategoryID > 0 && it.CategoryID != q.CategoryID {
			continue
		}
		if q.MinPrice != nil && it.Price.LessThan(*q.MinPrice) {
			continue
		}
		if q.MaxPrice != nil && it.Price.GreaterThan(*q.MaxPrice) {
			continue
		}
		if q.Available != nil && it.IsAvailable != *q.Available {
			continue
		}
		if dietary != "" && !strings.Contains(strings.ToLower(it.DietaryInfo), dietary) {
			continue
		}
		out = append(out, it)
	}

	var less func(a, b domain.MenuItem) int
	switch q.SortBy {
	case "price":
		less = func(a, b domain.MenuItem) int { return a.Price.Cmp(b.Price) }
	case "preparation":
		less = func(a, b domain.MenuItem) int { return cmp.Compare(derefInt(a.PreparationTime), derefInt(b.PreparationTime)) }
	case "calories":
		less = func(a, b domain.MenuItem) int { return cmp.Compare(derefInt(a.Calories), derefInt(b.Calories)) }
	case "name", "":
		less = func(a, b domain.MenuItem) int {
			return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	}
	if less != nil {
		if q.SortOrder == "desc" {
			asc := less
			less = func(a, b domain.MenuItem) int { return asc(b, a) }
		}
		slices.SortStableFunc(out, less)
	}
	return out
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
