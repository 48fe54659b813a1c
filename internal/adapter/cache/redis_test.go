package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	domain "github.com/aq2208/gorder-storefront/internal/entity"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestRedisIdempotencyStore(t *testing.T) {
	mr, rdb := newRedis(t)
	s := NewRedisIdempotencyStore(rdb, time.Minute)
	ctx := context.Background()

	ok, err := s.TryLock(ctx, "u1", "k")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.TryLock(ctx, "u1", "k")
	require.NoError(t, err)
	assert.False(t, ok, "second lock must fail while the first is held")

	ok, err = s.TryLock(ctx, "u2", "k")
	require.NoError(t, err)
	assert.True(t, ok, "keys are scoped per user")

	_, found, err := s.Recall(ctx, "u1", "k")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Remember(ctx, "u1", "k", "ord-1"))
	id, found, err := s.Recall(ctx, "u1", "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "ord-1", id)

	require.NoError(t, s.Release(ctx, "u1", "k"))
	ok, err = s.TryLock(ctx, "u1", "k")
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(2 * time.Minute)
	_, found, err = s.Recall(ctx, "u1", "k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCache_Status(t *testing.T) {
	_, rdb := newRedis(t)
	c := NewRedisCache(rdb, 0)
	ctx := context.Background()

	_, ok, err := c.GetStatus(ctx, "ord-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.SetStatus(ctx, "ord-1", "confirmed"))
	st, ok, err := c.GetStatus(ctx, "ord-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "confirmed", st)
}

func TestRedisCache_Unavailable(t *testing.T) {
	mr, rdb := newRedis(t)
	c := NewRedisCache(rdb, 0)
	mr.Close()

	err := c.SetStatus(context.Background(), "ord-1", "pending")
	assert.ErrorIs(t, err, domain.ErrCollaboratorUnavailable)
}

func TestRedisSessionStore(t *testing.T) {
	mr, rdb := newRedis(t)
	s := NewRedisSessionStore(rdb)
	ctx := context.Background()

	exp := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	require.NoError(t, s.Put(ctx, domain.Session{ID: "s1", UserID: "u1", ExpiresAt: exp}))

	got, ok, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "u1", got.UserID)
	assert.True(t, exp.Equal(got.ExpiresAt))

	mr.FastForward(2 * time.Hour)
	_, ok, err = s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, domain.Session{ID: "s2", UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)}))
	require.NoError(t, s.Delete(ctx, "s2"))
	_, ok, err = s.Get(ctx, "s2")
	require.NoError(t, err)
	assert.False(t, ok)

	err = s.Put(ctx, domain.Session{ID: "s3", UserID: "u1", ExpiresAt: time.Now().Add(-time.Minute)})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}
