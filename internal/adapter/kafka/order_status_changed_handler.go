package kafka

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aq2208/gorder-storefront/internal/adapter/observ"
	domain "github.com/aq2208/gorder-storefront/internal/entity"
	"github.com/aq2208/gorder-storefront/internal/usecase"
)

// StatusUpdater is satisfied by *usecase.Ledger.
type StatusUpdater interface {
	UpdateStatus(ctx context.Context, orderID string, to domain.Status) error
}

type OrderStatusChangedHandler struct {
	Ledger StatusUpdater
}

func NewOrderStatusChangedHandler(l StatusUpdater) *OrderStatusChangedHandler {
	return &OrderStatusChangedHandler{Ledger: l}
}

// MapStatus translates the fulfillment gateway's vocabulary into ledger statuses.
func MapStatus(external string) (domain.Status, bool) {
	switch strings.ToUpper(strings.TrimSpace(external)) {
	case "CONFIRMED", "SUCCESS", "ACCEPTED":
		return domain.StatusConfirmed, true
	case "DELIVERED":
		return domain.StatusDelivered, true
	case "CANCELLED", "CANCELED", "FAILED", "REJECTED":
		return domain.StatusCancelled, true
	}
	return domain.ParseStatus(external)
}

func (h *OrderStatusChangedHandler) Handle(ctx context.Context, ev usecase.OrderStatusChangedMsg) error {
	to, ok := MapStatus(ev.Status)
	if !ok || ev.OrderID == "" {
		observ.StatusEvents.WithLabelValues("unknown", "skipped").Inc()
		return fmt.Errorf("%w: order %q status %q", ErrSkip, ev.OrderID, ev.Status)
	}

	err := h.Ledger.UpdateStatus(ctx, ev.OrderID, to)
	switch {
	case err == nil:
		observ.StatusEvents.WithLabelValues(string(to), "ok").Inc()
		return nil
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrInvalidTransition):
		observ.StatusEvents.WithLabelValues(string(to), "skipped").Inc()
		return fmt.Errorf("%w: %v", ErrSkip, err)
	default:
		observ.StatusEvents.WithLabelValues(string(to), "error").Inc()
		return err
	}
}
