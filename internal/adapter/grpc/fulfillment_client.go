package grpc

import (
	"context"
	"fmt"
	"time"

	domain "github.com/aq2208/gorder-storefront/internal/entity"
	"github.com/aq2208/gorder-storefront/internal/usecase"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const SubmitOrderMethod = "/fulfillment.v1.FulfillmentService/SubmitOrder"

// FulfillmentClient implements usecase.FulfillmentGateway. Orders travel as a
// google.protobuf.Struct so the storefront carries no generated stubs.
type FulfillmentClient struct {
	conn    grpc.ClientConnInterface
	timeout time.Duration
	ua      string
}

func NewFulfillmentClient(conn grpc.ClientConnInterface, timeout time.Duration, userAgent string) *FulfillmentClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &FulfillmentClient{conn: conn, timeout: timeout, ua: userAgent}
}

func (c *FulfillmentClient) SubmitOrder(ctx context.Context, msg usecase.OrderPlacedMsg) error {
	// ensure per-call timeout if caller didn't set one
	if _, ok := ctx.Deadline(); !ok && c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	if c.ua != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "user-agent", c.ua)
	}
	ctx = metadata.AppendToOutgoingContext(ctx, "x-order-id", msg.OrderID)

	req, err := orderStruct(msg)
	if err != nil {
		return err
	}
	resp := &structpb.Struct{}
	if err := c.conn.Invoke(ctx, SubmitOrderMethod, req, resp); err != nil {
		return mapStatus(msg.OrderID, err)
	}
	return nil
}

func orderStruct(msg usecase.OrderPlacedMsg) (*structpb.Struct, error) {
	lines := make([]any, 0, len(msg.Lines))
	for _, l := range msg.Lines {
		lines = append(lines, map[string]any{
			"menuItemId": l.MenuItemID,
			"quantityKg": l.QuantityKg,
			"unitPrice":  l.UnitPrice,
		})
	}
	s, err := structpb.NewStruct(map[string]any{
		"orderId":        msg.OrderID,
		"userId":         msg.UserID,
		"lines":          lines,
		"subtotal":       msg.Subtotal,
		"courierCharges": msg.CourierCharges,
		"totalAmount":    msg.TotalAmount,
		"delivery": map[string]any{
			"address": msg.Delivery.Address,
			"pincode": msg.Delivery.Pincode,
			"phone":   msg.Delivery.Phone,
			"region":  msg.Delivery.Region,
		},
		"status":    string(msg.Status),
		"createdAt": msg.CreatedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return nil, fmt.Errorf("build fulfillment request: %w", err)
	}
	return s, nil
}

func mapStatus(orderID string, err error) error {
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.AlreadyExists:
		// resubmission after a redelivery
		return nil
	case codes.InvalidArgument, codes.FailedPrecondition:
		return fmt.Errorf("%w: fulfillment rejected order %s: %s", domain.ErrInvalidCheckout, orderID, st.Message())
	default:
		return fmt.Errorf("%w: fulfillment submit %s: %v", domain.ErrCollaboratorUnavailable, orderID, err)
	}
}

var _ usecase.FulfillmentGateway = (*FulfillmentClient)(nil)
