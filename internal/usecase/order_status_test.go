package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aq2208/gorder-storefront/internal/adapter/memory"
	domain "github.com/aq2208/gorder-storefront/internal/entity"
	"github.com/aq2208/gorder-storefront/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placeOne(t *testing.T, f *fixture) *domain.Order {
	t.Helper()
	ctx := context.Background()
	_, err := f.carts.AddItem(ctx, "u1", "chicken", kg("1"))
	require.NoError(t, err)
	o, err := f.ledger.PlaceOrder(ctx, usecase.PlaceOrderInput{UserID: "u1", Delivery: delivery("telangana")})
	require.NoError(t, err)
	return o
}

func TestUpdateStatus_Lifecycle(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	o := placeOne(t, f)

	require.NoError(t, f.ledger.UpdateStatus(ctx, o.ID, domain.StatusConfirmed))
	// redelivery of the same event is a no-op
	require.NoError(t, f.ledger.UpdateStatus(ctx, o.ID, domain.StatusConfirmed))
	require.NoError(t, f.ledger.UpdateStatus(ctx, o.ID, domain.StatusDelivered))

	got, err := f.ledger.GetOrder(ctx, "u1", o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, got.Status)

	st, err := f.ledger.CurrentStatus(ctx, "u1", o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, st)
}

func TestUpdateStatus_RejectsIllegalMoves(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	o := placeOne(t, f)

	err := f.ledger.UpdateStatus(ctx, o.ID, domain.StatusDelivered)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	require.NoError(t, f.ledger.UpdateStatus(ctx, o.ID, domain.StatusCancelled))
	err = f.ledger.UpdateStatus(ctx, o.ID, domain.StatusConfirmed)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestUpdateStatus_UnknownOrder(t *testing.T) {
	f := newFixture(t, nil)
	err := f.ledger.UpdateStatus(context.Background(), "missing", domain.StatusConfirmed)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// flakyCache stops accepting writes once broken is set.
type flakyCache struct {
	*memory.KV
	broken bool
}

func (c *flakyCache) SetStatus(ctx context.Context, orderID, status string) error {
	if c.broken {
		return errors.New("redis: connection refused")
	}
	return c.KV.SetStatus(ctx, orderID, status)
}

// racingRepo reports every guarded update as lost to a concurrent writer.
type racingRepo struct {
	*memory.Store
}

func (racingRepo) UpdateStatusIf(context.Context, string, domain.Status, domain.Status) (bool, error) {
	return false, nil
}

func TestCurrentStatus_LedgerWinsOverStaleCache(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	cache := &flakyCache{KV: f.kv}
	ledger := usecase.NewLedger(f.carts, f.pricing, f.store, f.kv, usecase.WithStatusCache(cache))

	_, err := f.carts.AddItem(ctx, "u1", "chicken", kg("1"))
	require.NoError(t, err)
	o, err := ledger.PlaceOrder(ctx, usecase.PlaceOrderInput{UserID: "u1", Delivery: delivery("telangana")})
	require.NoError(t, err)
	require.NoError(t, f.kv.SetStatus(ctx, o.ID, string(domain.StatusPending)))

	cache.broken = true
	require.NoError(t, ledger.UpdateStatus(ctx, o.ID, domain.StatusConfirmed))

	listed, err := ledger.ListOrders(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, domain.StatusConfirmed, listed[0].Status)

	st, err := ledger.CurrentStatus(ctx, "u1", o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, st)

	// once the cache recovers it is rewritten from the ledger
	cache.broken = false
	_, err = ledger.CurrentStatus(ctx, "u1", o.ID)
	require.NoError(t, err)
	cached, ok, err := f.kv.GetStatus(ctx, o.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, string(domain.StatusConfirmed), cached)
}

func TestUpdateStatus_LostRaceIsRetryable(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	o := placeOne(t, f)

	ledger := usecase.NewLedger(f.carts, f.pricing, racingRepo{f.store}, f.kv)
	err := ledger.UpdateStatus(ctx, o.ID, domain.StatusConfirmed)
	assert.ErrorIs(t, err, usecase.ErrStatusRace)
	assert.NotErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCurrentStatus_FallsBackToLedger(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	o := placeOne(t, f)

	// a garbage cache value must not leak out
	require.NoError(t, f.kv.SetStatus(ctx, o.ID, "???"))
	st, err := f.ledger.CurrentStatus(ctx, "u1", o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, st)
}
