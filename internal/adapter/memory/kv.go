package memory

import (
	"context"
	"sync"
	"time"

	domain "github.com/aq2208/gorder-storefront/internal/entity"
	"github.com/aq2208/gorder-storefront/internal/usecase"
)

type entry struct {
	value   string
	expires time.Time
}

// KV stands in for Redis: sessions, idempotency keys and the status cache.
type KV struct {
	mu   sync.Mutex
	data map[string]entry
	ttl  time.Duration
	now  func() time.Time
}

func NewKV(ttl time.Duration) *KV {
	return &KV{data: map[string]entry{}, ttl: ttl, now: time.Now}
}

func (k *KV) get(key string) (string, bool) {
	e, ok := k.data[key]
	if !ok {
		return "", false
	}
	if !e.expires.IsZero() && !k.now().Before(e.expires) {
		delete(k.data, key)
		return "", false
	}
	return e.value, true
}

func (k *KV) set(key, value string, ttl time.Duration) {
	e := entry{value: value}
	if ttl > 0 {
		e.expires = k.now().Add(ttl)
	}
	k.data[key] = e
}

func (k *KV) TryLock(_ context.Context, scope, key string) (bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	lock := "idemp:" + scope + ":" + key
	if _, held := k.get(lock); held {
		return false, nil
	}
	k.set(lock, "1", k.ttl)
	return true, nil
}

func (k *KV) Remember(_ context.Context, scope, key, value string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.set("idemp:map:"+scope+":"+key, value, k.ttl)
	return nil
}

func (k *KV) Recall(_ context.Context, scope, key string) (string, bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	v, ok := k.get("idemp:map:" + scope + ":" + key)
	return v, ok, nil
}

func (k *KV) Release(_ context.Context, scope, key string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.data, "idemp:"+scope+":"+key)
	return nil
}

func (k *KV) SetStatus(_ context.Context, orderID, status string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.set("order:status:"+orderID, status, 0)
	return nil
}

func (k *KV) GetStatus(_ context.Context, orderID string) (string, bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	v, ok := k.get("order:status:" + orderID)
	return v, ok, nil
}

// Sessions is a view of KV satisfying usecase.SessionStore. Expiry is left to the caller.
type Sessions struct{ k *KV }

func (k *KV) Sessions() Sessions { return Sessions{k: k} }

func (s Sessions) Put(_ context.Context, sess domain.Session) error {
	s.k.mu.Lock()
	defer s.k.mu.Unlock()
	s.k.data["session:"+sess.ID] = entry{value: sess.UserID, expires: sess.ExpiresAt}
	return nil
}

func (s Sessions) Get(_ context.Context, id string) (domain.Session, bool, error) {
	s.k.mu.Lock()
	defer s.k.mu.Unlock()
	e, ok := s.k.data["session:"+id]
	if !ok {
		return domain.Session{}, false, nil
	}
	return domain.Session{ID: id, UserID: e.value, ExpiresAt: e.expires}, true, nil
}

func (s Sessions) Delete(_ context.Context, id string) error {
	s.k.mu.Lock()
	defer s.k.mu.Unlock()
	delete(s.k.data, "session:"+id)
	return nil
}

var (
	_ usecase.IdempotencyStore = (*KV)(nil)
	_ usecase.StatusCache      = (*KV)(nil)
	_ usecase.SessionStore     = Sessions{}
)
