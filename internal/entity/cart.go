package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one (item, kg) pair. UnitPrice is the per-kg price the line was last priced at.
type CartLine struct {
	MenuItemID string          `json:"menu_item_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"price"`
}

func (l CartLine) Amount() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

type Cart struct {
	UserID    string          `json:"user_id"`
	Lines     []CartLine      `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func NewCart(userID string) Cart {
	return Cart{UserID: userID, Lines: []CartLine{}, Subtotal: decimal.Zero}
}

// AddItem merges quantity into the existing line for id or appends a new one.
// The cart is left untouched when it returns an error.
func (c *Cart) AddItem(prices PriceBook, id string, quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return fmt.Errorf("%w: got %s", ErrInvalidQuantity, quantity)
	}
	if !fitsScale(quantity, QuantityScale) {
		return fmt.Errorf("%w: %s has more than %d decimal places", ErrInvalidQuantity, quantity, QuantityScale)
	}
	price, ok := prices.PriceOf(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidItem, id)
	}

	merged := false
	for i := range c.Lines {
		if c.Lines[i].MenuItemID == id {
			c.Lines[i].Quantity = c.Lines[i].Quantity.Add(quantity)
			merged = true
			break
		}
	}
	if !merged {
		c.Lines = append(c.Lines, CartLine{MenuItemID: id, Quantity: quantity, UnitPrice: price})
	}
	c.Reprice(prices)
	return nil
}

// RemoveItem drops the whole line for id. It reports whether a line was removed.
func (c *Cart) RemoveItem(prices PriceBook, id string) bool {
	kept := c.Lines[:0]
	removed := false
	for _, l := range c.Lines {
		if l.MenuItemID == id {
			removed = true
			continue
		}
		kept = append(kept, l)
	}
	c.Lines = kept
	c.Reprice(prices)
	return removed
}

// Reprice refreshes unit prices from the price book and recomputes the subtotal.
// Lines whose item is no longer listed keep their last known price.
// Lines with a non-positive quantity are dropped.
func (c *Cart) Reprice(prices PriceBook) {
	if c.Lines == nil {
		c.Lines = []CartLine{}
	}
	kept := c.Lines[:0]
	for _, l := range c.Lines {
		if !l.Quantity.IsPositive() {
			continue
		}
		if prices != nil {
			if p, ok := prices.PriceOf(l.MenuItemID); ok {
				l.UnitPrice = p
			}
		}
		kept = append(kept, l)
	}
	c.Lines = kept
	c.Subtotal = SumLines(c.Lines)
}

func (c *Cart) Clear() {
	c.Lines = []CartLine{}
	c.Subtotal = decimal.Zero
}

func (c Cart) IsEmpty() bool { return len(c.Lines) == 0 }

// TotalWeight is the sum of line quantities in kg.
func (c Cart) TotalWeight() decimal.Decimal {
	w := decimal.Zero
	for _, l := range c.Lines {
		w = w.Add(l.Quantity)
	}
	return w
}

// Clone returns a copy whose lines do not alias the receiver's.
func (c Cart) Clone() Cart {
	out := c
	out.Lines = make([]CartLine, len(c.Lines))
	copy(out.Lines, c.Lines)
	return out
}

func SumLines(lines []CartLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Amount())
	}
	return sum
}
