package catalog

import (
	"context"

	domain "github.com/aq2208/gorder-storefront/internal/entity"
	"github.com/aq2208/gorder-storefront/internal/usecase"
	"github.com/shopspring/decimal"
)

// Static serves a menu fixed at startup, typically from configuration.
type Static struct {
	items []domain.MenuItem
}

func NewStatic(items []domain.MenuItem) *Static {
	return &Static{items: append([]domain.MenuItem(nil), items...)}
}

func (s *Static) ListMenuItems(_ context.Context) ([]domain.MenuItem, error) {
	return append([]domain.MenuItem(nil), s.items...), nil
}

// DefaultMenu is the storefront's stock menu, priced per kg.
func DefaultMenu() []domain.MenuItem {
	return []domain.MenuItem{
		{ID: "chicken", Name: "Chicken", Description: "Farm fresh curry cut chicken", PricePerKg: decimal.NewFromInt(800)},
		{ID: "chicken_boneless", Name: "Chicken Boneless", Description: "Boneless breast and thigh", PricePerKg: decimal.NewFromInt(1000)},
		{ID: "prawns_small", Name: "Prawns (Small)", Description: "Cleaned and deveined", PricePerKg: decimal.NewFromInt(1200)},
		{ID: "prawns_big", Name: "Prawns (Big)", Description: "Tiger prawns, cleaned", PricePerKg: decimal.NewFromInt(1400)},
		{ID: "mutton", Name: "Mutton", Description: "Goat meat, curry cut", PricePerKg: decimal.NewFromInt(1500)},
	}
}

var _ usecase.CatalogSource = (*Static)(nil)
