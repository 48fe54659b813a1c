package usecase

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/aq2208/gorder-storefront/internal/entity"
)

// ErrStatusRace means another status event moved the order between our read and write.
// It is transient: a redelivered event re-reads the current status.
var ErrStatusRace = errors.New("concurrent status update")

// ListOrders returns the user's orders, most recent first.
func (l *Ledger) ListOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	orders, err := l.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	domain.SortForHistory(orders)
	return orders, nil
}

// GetOrder hides orders owned by other users behind ErrNotFound.
func (l *Ledger) GetOrder(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	o, err := l.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil || o.UserID != userID {
		return nil, fmt.Errorf("order %s: %w", orderID, domain.ErrNotFound)
	}
	return o, nil
}

// UpdateStatus applies a transition reported by the fulfillment process.
// It returns ErrInvalidTransition when the move is not allowed from the current status.
func (l *Ledger) UpdateStatus(ctx context.Context, orderID string, to domain.Status) error {
	o, err := l.repo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if o == nil {
		return fmt.Errorf("order %s: %w", orderID, domain.ErrNotFound)
	}
	if o.Status == to {
		return nil
	}
	if !o.Status.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, o.Status, to)
	}

	ok, err := l.repo.UpdateStatusIf(ctx, orderID, o.Status, to)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: order %s moved away from %s", ErrStatusRace, orderID, o.Status)
	}

	// Cache best-effort
	if l.cache != nil {
		_ = l.cache.SetStatus(ctx, orderID, string(to))
	}
	return nil
}

// CurrentStatus reports the ledger's status. A status cache that disagrees is rewritten.
func (l *Ledger) CurrentStatus(ctx context.Context, userID, orderID string) (domain.Status, error) {
	o, err := l.GetOrder(ctx, userID, orderID)
	if err != nil {
		return "", err
	}
	if l.cache != nil {
		if s, ok, err := l.cache.GetStatus(ctx, orderID); err == nil && (!ok || s != string(o.Status)) {
			_ = l.cache.SetStatus(ctx, orderID, string(o.Status))
		}
	}
	return o.Status, nil
}
