package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/aq2208/gorder-storefront/internal/entity"
	"github.com/aq2208/gorder-storefront/internal/usecase"
	"github.com/redis/go-redis/v9"
)

// RedisSessionStore keeps session -> user bindings with the session's own expiry as TTL.
type RedisSessionStore struct {
	rdb *redis.Client
	now func() time.Time
}

func NewRedisSessionStore(rdb *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, now: time.Now}
}

func sessionKey(id string) string { return "session:" + id }

func (s *RedisSessionStore) Put(ctx context.Context, sess domain.Session) error {
	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return fmt.Errorf("%w: session already expired", domain.ErrUnauthenticated)
	}
	err := s.rdb.HSet(ctx, sessionKey(sess.ID),
		"user_id", sess.UserID,
		"expires_at", sess.ExpiresAt.UTC().Format(time.RFC3339Nano),
	).Err()
	if err == nil {
		err = s.rdb.Expire(ctx, sessionKey(sess.ID), ttl).Err()
	}
	if err != nil {
		return fmt.Errorf("%w: redis put session: %v", domain.ErrCollaboratorUnavailable, err)
	}
	return nil
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (domain.Session, bool, error) {
	vals, err := s.rdb.HGetAll(ctx, sessionKey(id)).Result()
	if errors.Is(err, redis.Nil) || (err == nil && len(vals) == 0) {
		return domain.Session{}, false, nil
	}
	if err != nil {
		return domain.Session{}, false, fmt.Errorf("%w: redis get session: %v", domain.ErrCollaboratorUnavailable, err)
	}
	exp, err := time.Parse(time.RFC3339Nano, vals["expires_at"])
	if err != nil {
		return domain.Session{}, false, nil
	}
	return domain.Session{ID: id, UserID: vals["user_id"], ExpiresAt: exp}, true, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("%w: redis delete session: %v", domain.ErrCollaboratorUnavailable, err)
	}
	return nil
}

var _ usecase.SessionStore = (*RedisSessionStore)(nil)
