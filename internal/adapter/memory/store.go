// Package memory keeps carts, orders, users and the outbox in process memory.
// It backs the "memory" storage driver for local runs and the use-case tests.
package memory

import (
	"context"
	"sync"
	"time"

	domain "github.com/aq2208/gorder-storefront/internal/entity"
	"github.com/aq2208/gorder-storefront/internal/usecase"
)

type outboxRow struct {
	usecase.OutboxRecord
	sent          bool
	nextAttemptAt time.Time
}

// Store shares one mutex across all tables so Commit is atomic.
type Store struct {
	mu      sync.Mutex
	carts   map[string]domain.Cart
	orders  map[string]domain.Order
	users   map[string]domain.User
	outbox  []*outboxRow
	nextOut int64
	now     func() time.Time

	// FailCommit makes the next Commit calls fail, to exercise rollback paths.
	FailCommit error
}

func NewStore() *Store {
	return &Store{
		carts:  map[string]domain.Cart{},
		orders: map[string]domain.Order{},
		users:  map[string]domain.User{},
		now:    time.Now,
	}
}

func (s *Store) Load(_ context.Context, userID string) (domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[userID]
	if !ok {
		return domain.NewCart(userID), nil
	}
	return c.Clone(), nil
}

func (s *Store) Save(_ context.Context, cart domain.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cart.IsEmpty() {
		delete(s.carts, cart.UserID)
		return nil
	}
	s.carts[cart.UserID] = cart.Clone()
	return nil
}

func (s *Store) Commit(_ context.Context, o *domain.Order, msg usecase.OutboxMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailCommit != nil {
		return s.FailCommit
	}
	if _, dup := s.orders[o.ID]; dup {
		return domain.ErrInvalidCheckout
	}
	s.orders[o.ID] = cloneOrder(*o)
	delete(s.carts, o.UserID)
	s.nextOut++
	s.outbox = append(s.outbox, &outboxRow{
		OutboxRecord:  usecase.OutboxRecord{ID: s.nextOut, Channel: msg.Channel, Payload: append([]byte(nil), msg.Payload...)},
		nextAttemptAt: s.now(),
	})
	return nil
}

func (s *Store) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Order{}
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, cloneOrder(o))
		}
	}
	return out, nil
}

func (s *Store) GetByID(_ context.Context, id string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := cloneOrder(o)
	return &c, nil
}

func (s *Store) UpdateStatusIf(_ context.Context, id string, from, to domain.Status) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	s.orders[id] = o
	return true, nil
}

func (s *Store) FetchPending(_ context.Context, limit int) ([]usecase.OutboxRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	var out []usecase.OutboxRecord
	for _, r := range s.outbox {
		if len(out) >= limit {
			break
		}
		if r.sent || r.nextAttemptAt.After(now) {
			continue
		}
		out = append(out, r.OutboxRecord)
	}
	return out, nil
}

func (s *Store) MarkSent(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.outbox {
		if r.ID == id {
			r.sent = true
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *Store) MarkFailed(_ context.Context, id int64, nextAttempt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.outbox {
		if r.ID == id {
			r.RetryCount++
			r.nextAttemptAt = nextAttempt
			return nil
		}
	}
	return domain.ErrNotFound
}

// PendingOutbox counts messages not yet relayed.
func (s *Store) PendingOutbox() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.outbox {
		if !r.sent {
			n++
		}
	}
	return n
}

func (s *Store) GetUser(id string) (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	return u, ok
}

func cloneOrder(o domain.Order) domain.Order {
	o.Lines = append([]domain.CartLine(nil), o.Lines...)
	return o
}

var (
	_ usecase.CartRepo   = (*Store)(nil)
	_ usecase.OrderRepo  = (*Store)(nil)
	_ usecase.OutboxRepo = (*Store)(nil)
)
