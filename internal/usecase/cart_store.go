package usecase

import (
	"context"
	"time"

	domain "github.com/aq2208/gorder-storefront/internal/entity"
	"github.com/shopspring/decimal"
)

// CartStore holds one cart per user. userID is always passed explicitly.
type CartStore struct {
	catalog CatalogSource
	carts   CartRepo
	now     Clock
}

func NewCartStore(catalog CatalogSource, carts CartRepo, now Clock) *CartStore {
	if now == nil {
		now = time.Now
	}
	return &CartStore{catalog: catalog, carts: carts, now: now}
}

func (s *CartStore) Menu(ctx context.Context) ([]domain.MenuItem, error) {
	cat, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return cat.Items(), nil
}

// AddItem treats a nil quantity as 1 kg.
func (s *CartStore) AddItem(ctx context.Context, userID, menuItemID string, quantity *decimal.Decimal) (domain.Cart, error) {
	qty := decimal.NewFromInt(1)
	if quantity != nil {
		qty = *quantity
	}

	cat, err := s.loadCatalog(ctx)
	if err != nil {
		return domain.Cart{}, err
	}
	cart, err := s.load(ctx, userID, cat)
	if err != nil {
		return domain.Cart{}, err
	}

	next := cart.Clone()
	if err := next.AddItem(cat, menuItemID, qty); err != nil {
		return domain.Cart{}, err
	}
	next.UpdatedAt = s.now().UTC()
	if err := s.carts.Save(ctx, next); err != nil {
		return domain.Cart{}, err
	}
	return next, nil
}

// RemoveItem is a no-op for lines that do not exist.
func (s *CartStore) RemoveItem(ctx context.Context, userID, menuItemID string) (domain.Cart, error) {
	cat, err := s.loadCatalog(ctx)
	if err != nil {
		return domain.Cart{}, err
	}
	cart, err := s.load(ctx, userID, cat)
	if err != nil {
		return domain.Cart{}, err
	}

	next := cart.Clone()
	if !next.RemoveItem(cat, menuItemID) {
		return cart, nil
	}
	next.UpdatedAt = s.now().UTC()
	if err := s.carts.Save(ctx, next); err != nil {
		return domain.Cart{}, err
	}
	return next, nil
}

func (s *CartStore) GetCart(ctx context.Context, userID string) (domain.Cart, error) {
	cat, err := s.loadCatalog(ctx)
	if err != nil {
		return domain.Cart{}, err
	}
	return s.load(ctx, userID, cat)
}

func (s *CartStore) load(ctx context.Context, userID string, cat *domain.Catalog) (domain.Cart, error) {
	cart, err := s.carts.Load(ctx, userID)
	if err != nil {
		return domain.Cart{}, err
	}
	cart.UserID = userID
	cart.Reprice(cat)
	return cart, nil
}

func (s *CartStore) loadCatalog(ctx context.Context) (*domain.Catalog, error) {
	items, err := s.catalog.ListMenuItems(ctx)
	if err != nil {
		return nil, err
	}
	return domain.NewCatalog(items)
}
