package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateTable_DefaultTiers(t *testing.T) {
	rates := DefaultRateTable()

	cases := map[string]int64{
		"andhra pradesh":   80,
		"Andhra Pradesh":   80,
		"  TELANGANA ":     100,
		"telangana":        100,
		"karnataka":        150,
		"other":            150,
		"":                 150,
		"ap":               150,
		"telangana state":  150,
		"\u0000weird\tkey": 150,
	}
	for region, want := range cases {
		assert.True(t, rates.RateFor(region).Equal(decimal.NewFromInt(want)), "region %q", region)
	}
}

func TestRateTable_TierFor(t *testing.T) {
	rates := DefaultRateTable()

	assert.Equal(t, "telangana", rates.TierFor("  TELANGANA "))
	assert.Equal(t, "andhra pradesh", rates.TierFor("Andhra Pradesh"))
	assert.Equal(t, OtherRegion, rates.TierFor("karnataka"))
	assert.Equal(t, OtherRegion, rates.TierFor(""))
	assert.Equal(t, OtherRegion, rates.TierFor("other"))
	assert.Equal(t, OtherRegion, rates.TierFor("\u0000weird\tkey"))
}

func TestRateTable_OtherEntryOverridesFallback(t *testing.T) {
	rates, err := NewRateTable(map[string]decimal.Decimal{
		"Kerala": decimal.NewFromInt(120),
		"OTHER":  decimal.NewFromInt(200),
	}, decimal.NewFromInt(150))
	require.NoError(t, err)

	assert.True(t, rates.RateFor("kerala").Equal(decimal.NewFromInt(120)))
	assert.True(t, rates.RateFor("goa").Equal(decimal.NewFromInt(200)))

	tiers := rates.Tiers()
	require.Len(t, tiers, 2)
	assert.Equal(t, "kerala", tiers[0].Region)
	assert.Equal(t, OtherRegion, tiers[1].Region)
}

func TestRateTable_RejectsNegativeRates(t *testing.T) {
	_, err := NewRateTable(map[string]decimal.Decimal{"goa": decimal.NewFromInt(-1)}, decimal.NewFromInt(150))
	assert.Error(t, err)

	_, err = NewRateTable(nil, decimal.NewFromInt(-1))
	assert.Error(t, err)

	_, err = NewRateTable(map[string]decimal.Decimal{"goa": decimal.RequireFromString("80.005")}, decimal.NewFromInt(150))
	assert.Error(t, err)
	_, err = NewRateTable(nil, decimal.RequireFromString("150.001"))
	assert.Error(t, err)
}

func TestPrice_AmountsFitMoneyScale(t *testing.T) {
	cat, err := NewCatalog([]MenuItem{{ID: "chicken", PricePerKg: decimal.RequireFromString("10.99")}})
	require.NoError(t, err)
	rates, err := NewRateTable(map[string]decimal.Decimal{"goa": decimal.RequireFromString("80.55")}, decimal.NewFromInt(150))
	require.NoError(t, err)

	cart := NewCart("u1")
	require.NoError(t, cart.AddItem(cat, "chicken", decimal.RequireFromString("0.001")))
	require.NoError(t, cart.AddItem(cat, "chicken", decimal.RequireFromString("1.233")))

	q := Price(cart, "goa", rates)
	// 1.234 * 10.99 = 13.56166, 1.234 * 80.55 = 99.3987
	assert.True(t, q.Subtotal.Equal(decimal.RequireFromString("13.56166")))
	assert.True(t, q.CourierCharges.Equal(decimal.RequireFromString("99.3987")))
	for _, d := range []decimal.Decimal{q.Subtotal, q.CourierCharges, q.GrandTotal} {
		assert.True(t, d.Equal(d.Truncate(MoneyScale)), "%s needs more than %d places", d, MoneyScale)
	}
	assert.True(t, q.GrandTotal.Equal(q.Subtotal.Add(q.CourierCharges)))
}

func TestPrice_ChickenToTelangana(t *testing.T) {
	cat, err := NewCatalog([]MenuItem{{ID: "chicken", PricePerKg: decimal.NewFromInt(500)}})
	require.NoError(t, err)
	cart := NewCart("u1")
	require.NoError(t, cart.AddItem(cat, "chicken", decimal.NewFromInt(2)))
	require.True(t, cart.Subtotal.Equal(decimal.NewFromInt(1000)))

	q := Price(cart, "telangana", DefaultRateTable())

	assert.True(t, q.TotalWeight.Equal(decimal.NewFromInt(2)))
	assert.True(t, q.RatePerKg.Equal(decimal.NewFromInt(100)))
	assert.True(t, q.CourierCharges.Equal(decimal.NewFromInt(200)))
	assert.True(t, q.GrandTotal.Equal(decimal.NewFromInt(1200)))
	assert.Equal(t, "telangana", q.Region)
}

func TestPrice_EmptyCart(t *testing.T) {
	q := Price(NewCart("u1"), "andhra pradesh", DefaultRateTable())

	assert.True(t, q.TotalWeight.IsZero())
	assert.True(t, q.CourierCharges.IsZero())
	assert.True(t, q.GrandTotal.IsZero())
	assert.True(t, q.RatePerKg.Equal(decimal.NewFromInt(80)))
}

func TestPrice_IdentityAndIdempotence(t *testing.T) {
	cat, err := NewCatalog([]MenuItem{
		{ID: "a", PricePerKg: decimal.RequireFromString("333.33")},
		{ID: "b", PricePerKg: decimal.RequireFromString("0.1")},
	})
	require.NoError(t, err)
	cart := NewCart("u1")
	require.NoError(t, cart.AddItem(cat, "a", decimal.RequireFromString("0.3")))
	require.NoError(t, cart.AddItem(cat, "b", decimal.RequireFromString("0.7")))

	for _, region := range []string{"andhra pradesh", "telangana", "goa", ""} {
		first := Price(cart, region, DefaultRateTable())
		second := Price(cart, region, DefaultRateTable())

		assert.True(t, first.GrandTotal.Equal(first.Subtotal.Add(first.CourierCharges)), "region %q", region)
		assert.True(t, first.CourierCharges.Equal(first.RatePerKg.Mul(first.TotalWeight)))
		assert.Equal(t, first, second)
	}
	assert.True(t, cart.Subtotal.Equal(SumLines(cart.Lines)), "pricing does not mutate the cart")
}
