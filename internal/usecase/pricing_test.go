package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPricing_PreviewTelangana(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.carts.AddItem(ctx, "u1", "chicken", kg("2"))
	require.NoError(t, err)

	q, err := f.pricing.Preview(ctx, "u1", "Telangana")
	require.NoError(t, err)
	assert.Equal(t, "telangana", q.Region)
	assert.True(t, q.Subtotal.Equal(decimal.NewFromInt(1000)))
	assert.True(t, q.CourierCharges.Equal(decimal.NewFromInt(200)))
	assert.True(t, q.GrandTotal.Equal(decimal.NewFromInt(1200)))
}

func TestPricing_PreviewDoesNotMutateCart(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	_, err := f.carts.AddItem(ctx, "u1", "mutton", kg("1"))
	require.NoError(t, err)

	before, err := f.carts.GetCart(ctx, "u1")
	require.NoError(t, err)
	for _, region := range []string{"andhra pradesh", "telangana", "kerala", ""} {
		_, err := f.pricing.Preview(ctx, "u1", region)
		require.NoError(t, err)
	}
	after, err := f.carts.GetCart(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestPricing_EmptyCartCostsNothing(t *testing.T) {
	f := newFixture(t, nil)
	q, err := f.pricing.Preview(context.Background(), "nobody", "kerala")
	require.NoError(t, err)
	assert.True(t, q.GrandTotal.IsZero())
	assert.True(t, q.RatePerKg.Equal(decimal.NewFromInt(150)))
}

func TestPricing_CourierRate(t *testing.T) {
	f := newFixture(t, nil)
	assert.True(t, f.pricing.CourierRate("  ANDHRA PRADESH ").Equal(decimal.NewFromInt(80)))
	assert.True(t, f.pricing.CourierRate("goa").Equal(decimal.NewFromInt(150)))
}
