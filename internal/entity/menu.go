package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Storage scales: prices and rates carry cents, quantities carry grams.
// Line amounts and totals therefore never need more than MoneyScale places.
const (
	PriceScale    = 2
	QuantityScale = 3
	MoneyScale    = PriceScale + QuantityScale
)

// fitsScale reports whether d has no significant digits beyond places.
func fitsScale(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}

type MenuItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	PricePerKg  decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
}

// PriceBook resolves the current per-kg price of a menu item.
type PriceBook interface {
	PriceOf(menuItemID string) (decimal.Decimal, bool)
}

// Catalog is a read-only, id-indexed view over the menu. Order of items is preserved.
type Catalog struct {
	items []MenuItem
	byID  map[string]MenuItem
}

func NewCatalog(items []MenuItem) (*Catalog, error) {
	c := &Catalog{
		items: make([]MenuItem, 0, len(items)),
		byID:  make(map[string]MenuItem, len(items)),
	}
	for _, it := range items {
		if it.ID == "" {
			return nil, fmt.Errorf("menu item %q: empty id", it.Name)
		}
		if it.PricePerKg.IsNegative() {
			return nil, fmt.Errorf("menu item %s: negative price", it.ID)
		}
		if !fitsScale(it.PricePerKg, PriceScale) {
			return nil, fmt.Errorf("menu item %s: price %s has more than %d decimal places", it.ID, it.PricePerKg, PriceScale)
		}
		if _, dup := c.byID[it.ID]; dup {
			return nil, fmt.Errorf("menu item %s: duplicate id", it.ID)
		}
		c.byID[it.ID] = it
		c.items = append(c.items, it)
	}
	return c, nil
}

func (c *Catalog) Items() []MenuItem {
	out := make([]MenuItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Catalog) Lookup(id string) (MenuItem, bool) {
	it, ok := c.byID[id]
	return it, ok
}

func (c *Catalog) PriceOf(id string) (decimal.Decimal, bool) {
	it, ok := c.byID[id]
	if !ok {
		return decimal.Zero, false
	}
	return it.PricePerKg, true
}

var _ PriceBook = (*Catalog)(nil)
