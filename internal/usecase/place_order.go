package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domain "github.com/aq2208/gorder-storefront/internal/entity"
	"github.com/google/uuid"
)

var ErrDuplicate = errors.New("duplicate idempotency key")

type PlaceOrderInput struct {
	UserID, IdempotencyKey string
	Delivery               domain.DeliveryDetails
}

// Ledger is the append-only record of placed orders.
type Ledger struct {
	carts   *CartStore
	pricing *Pricing
	repo    OrderRepo
	idem    IdempotencyStore
	cache   StatusCache
	newID   func() string
	now     Clock
}

type LedgerOption func(*Ledger)

func WithIDGenerator(fn func() string) LedgerOption { return func(l *Ledger) { l.newID = fn } }
func WithClock(now Clock) LedgerOption              { return func(l *Ledger) { l.now = now } }
func WithStatusCache(c StatusCache) LedgerOption    { return func(l *Ledger) { l.cache = c } }

func NewLedger(carts *CartStore, pricing *Pricing, repo OrderRepo, idem IdempotencyStore, opts ...LedgerOption) *Ledger {
	l := &Ledger{
		carts:   carts,
		pricing: pricing,
		repo:    repo,
		idem:    idem,
		newID:   uuid.NewString,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// RateTier reports which courier tier a delivery region falls into.
func (l *Ledger) RateTier(region string) string {
	return l.pricing.RateTier(region)
}

// PlaceOrder validates, prices and commits the user's cart as a pending order.
// On any error nothing is persisted and the cart is left as it was.
func (l *Ledger) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*domain.Order, error) {
	delivery := in.Delivery.Normalize()
	if err := delivery.Validate(); err != nil {
		return nil, err
	}

	useIdem := l.idem != nil && in.IdempotencyKey != ""
	if useIdem {
		// Fast path: idempotency recall
		if id, ok, _ := l.idem.Recall(ctx, in.UserID, in.IdempotencyKey); ok {
			return l.GetOrder(ctx, in.UserID, id)
		}
		ok, err := l.idem.TryLock(ctx, in.UserID, in.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrDuplicate
		}
	}

	order, err := l.commit(ctx, in.UserID, delivery)
	if err != nil {
		if useIdem {
			_ = l.idem.Release(ctx, in.UserID, in.IdempotencyKey)
		}
		return nil, err
	}

	if useIdem {
		_ = l.idem.Remember(ctx, in.UserID, in.IdempotencyKey, order.ID)
	}
	if l.cache != nil {
		_ = l.cache.SetStatus(ctx, order.ID, string(order.Status))
	}
	return order, nil
}

func (l *Ledger) commit(ctx context.Context, userID string, delivery domain.DeliveryDetails) (*domain.Order, error) {
	cart, err := l.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, fmt.Errorf("%w: cart is empty", domain.ErrInvalidCheckout)
	}

	quote := l.pricing.Price(cart, delivery.Region)
	order, err := domain.NewOrder(l.newID(), userID, cart, quote, delivery, l.now())
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(NewOrderPlacedMsg(order))
	if err != nil {
		return nil, fmt.Errorf("marshal outbox payload: %w", err)
	}
	if err := l.repo.Commit(ctx, &order, OutboxMessage{Channel: ChannelOrderPlaced, Payload: payload}); err != nil {
		return nil, err
	}
	return &order, nil
}
