package domain

import "github.com/shopspring/decimal"

// Quote is the checkout price breakdown for a cart shipped to a region.
type Quote struct {
	Region         string          `json:"state"`
	TotalWeight    decimal.Decimal `json:"total_weight"`
	RatePerKg      decimal.Decimal `json:"charges_per_kg"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	CourierCharges decimal.Decimal `json:"courier_charges"`
	GrandTotal     decimal.Decimal `json:"total_amount"`
}

// Price is pure: courier = rate(region) * weight, grand total = subtotal + courier.
// The subtotal is recomputed from the lines rather than trusted from the cart.
func Price(cart Cart, region string, rates RateSource) Quote {
	weight := cart.TotalWeight()
	rate := rates.RateFor(region)
	subtotal := SumLines(cart.Lines)
	courier := rate.Mul(weight)
	return Quote{
		Region:         NormalizeRegion(region),
		TotalWeight:    weight,
		RatePerKg:      rate,
		Subtotal:       subtotal,
		CourierCharges: courier,
		GrandTotal:     subtotal.Add(courier),
	}
}
