package usecase

import (
	"context"

	domain "github.com/aq2208/gorder-storefront/internal/entity"
	"github.com/shopspring/decimal"
)

type Pricing struct {
	rates domain.RateSource
	carts *CartStore
}

func NewPricing(rates domain.RateSource, carts *CartStore) *Pricing {
	return &Pricing{rates: rates, carts: carts}
}

// Price has no side effects; callers may invoke it on every region change.
func (p *Pricing) Price(cart domain.Cart, region string) domain.Quote {
	return domain.Price(cart, region, p.rates)
}

func (p *Pricing) CourierRate(region string) decimal.Decimal {
	return p.rates.RateFor(region)
}

// RateTier is the bounded label for a free-text delivery region.
func (p *Pricing) RateTier(region string) string {
	return p.rates.TierFor(region)
}

// Preview prices the user's current cart for the checkout page.
func (p *Pricing) Preview(ctx context.Context, userID, region string) (domain.Quote, error) {
	cart, err := p.carts.GetCart(ctx, userID)
	if err != nil {
		return domain.Quote{}, err
	}
	return p.Price(cart, region), nil
}
