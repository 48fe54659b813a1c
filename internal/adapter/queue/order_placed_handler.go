package queue

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/aq2208/gorder-storefront/internal/entity"
	"github.com/aq2208/gorder-storefront/internal/usecase"
)

// OrderPlacedHandler forwards placed orders to the fulfillment gateway via gRPC.
type OrderPlacedHandler struct {
	GW usecase.FulfillmentGateway
}

func NewOrderPlacedHandler(gw usecase.FulfillmentGateway) *OrderPlacedHandler {
	return &OrderPlacedHandler{GW: gw}
}

// HandlePlaced is intended to be used with the JSON adapter (queue.JSONHandler[OrderPlacedMsg]).
func (h *OrderPlacedHandler) HandlePlaced(ctx context.Context, msg usecase.OrderPlacedMsg) error {
	if msg.OrderID == "" {
		return fmt.Errorf("%w: order.placed without orderId", ErrPoison)
	}
	err := h.GW.SubmitOrder(ctx, msg)
	if errors.Is(err, domain.ErrInvalidCheckout) {
		// rejected by fulfillment; retrying will not change the answer
		return fmt.Errorf("%w: %v", ErrPoison, err)
	}
	return err
}

// Handler wires HandlePlaced into a raw delivery handler for the Router.
func (h *OrderPlacedHandler) Handler() Handler {
	return JSONHandler[usecase.OrderPlacedMsg]{HandleFunc: h.HandlePlaced}
}
