package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// OtherRegion is the fallback bucket for regions without their own tier.
const OtherRegion = "other"

// RateSource resolves the courier rate per kg for a destination region.
type RateSource interface {
	RateFor(region string) decimal.Decimal
	// TierFor names the tier RateFor charged: an explicit region key or OtherRegion.
	TierFor(region string) string
}

type RateTier struct {
	Region    string          `json:"state"`
	RatePerKg decimal.Decimal `json:"charges_per_kg"`
}

type RateTable struct {
	rates    map[string]decimal.Decimal
	fallback decimal.Decimal
}

// NewRateTable builds a table from region -> rate. An "other" entry in rates overrides fallback.
func NewRateTable(rates map[string]decimal.Decimal, fallback decimal.Decimal) (*RateTable, error) {
	t := &RateTable{rates: make(map[string]decimal.Decimal, len(rates)), fallback: fallback}
	for region, rate := range rates {
		key := NormalizeRegion(region)
		if key == "" {
			return nil, fmt.Errorf("shipping rate: empty region")
		}
		if rate.IsNegative() {
			return nil, fmt.Errorf("shipping rate %q: negative rate %s", key, rate)
		}
		if !fitsScale(rate, PriceScale) {
			return nil, fmt.Errorf("shipping rate %q: %s has more than %d decimal places", key, rate, PriceScale)
		}
		if key == OtherRegion {
			t.fallback = rate
			continue
		}
		t.rates[key] = rate
	}
	if t.fallback.IsNegative() || !fitsScale(t.fallback, PriceScale) {
		return nil, fmt.Errorf("shipping rate %q: invalid rate %s", OtherRegion, t.fallback)
	}
	return t, nil
}

func DefaultRateTable() *RateTable {
	t, _ := NewRateTable(map[string]decimal.Decimal{
		"andhra pradesh": decimal.NewFromInt(80),
		"telangana":      decimal.NewFromInt(100),
	}, decimal.NewFromInt(150))
	return t
}

func NormalizeRegion(region string) string {
	return strings.ToLower(strings.TrimSpace(region))
}

// RateFor never fails: unknown and empty regions resolve to the fallback rate.
func (t *RateTable) RateFor(region string) decimal.Decimal {
	if r, ok := t.rates[NormalizeRegion(region)]; ok {
		return r
	}
	return t.fallback
}

func (t *RateTable) TierFor(region string) string {
	key := NormalizeRegion(region)
	if _, ok := t.rates[key]; ok {
		return key
	}
	return OtherRegion
}

// Tiers lists the explicit regions alphabetically, followed by the fallback bucket.
func (t *RateTable) Tiers() []RateTier {
	out := make([]RateTier, 0, len(t.rates)+1)
	for region, rate := range t.rates {
		out = append(out, RateTier{Region: region, RatePerKg: rate})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Region < out[j].Region })
	return append(out, RateTier{Region: OtherRegion, RatePerKg: t.fallback})
}

var _ RateSource = (*RateTable)(nil)
