package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// transitions lists the moves the fulfillment process may make. Delivered and cancelled are terminal.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusDelivered, StatusCancelled},
}

func ParseStatus(s string) (Status, bool) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusPending, StatusConfirmed, StatusDelivered, StatusCancelled:
		return st, true
	}
	return "", false
}

func (s Status) CanTransitionTo(to Status) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

type DeliveryDetails struct {
	Address string `json:"delivery_address"`
	Pincode string `json:"pincode"`
	Phone   string `json:"phone"`
	Region  string `json:"state"`
}

func (d DeliveryDetails) Normalize() DeliveryDetails {
	return DeliveryDetails{
		Address: strings.TrimSpace(d.Address),
		Pincode: strings.TrimSpace(d.Pincode),
		Phone:   strings.TrimSpace(d.Phone),
		Region:  strings.TrimSpace(d.Region),
	}
}

func (d DeliveryDetails) Validate() error {
	var missing []string
	if strings.TrimSpace(d.Address) == "" {
		missing = append(missing, "delivery_address")
	}
	if strings.TrimSpace(d.Pincode) == "" {
		missing = append(missing, "pincode")
	}
	if strings.TrimSpace(d.Phone) == "" {
		missing = append(missing, "phone")
	}
	if strings.TrimSpace(d.Region) == "" {
		missing = append(missing, "state")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidCheckout, strings.Join(missing, ", "))
	}
	return nil
}

// Order is immutable after creation except for Status.
type Order struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	Lines          []CartLine      `json:"items"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	CourierCharges decimal.Decimal `json:"courier_charges"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	DeliveryDetails
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// NewOrder snapshots the cart lines and the quote into a pending order.
func NewOrder(id, userID string, cart Cart, quote Quote, delivery DeliveryDetails, now time.Time) (Order, error) {
	if cart.IsEmpty() {
		return Order{}, fmt.Errorf("%w: cart is empty", ErrInvalidCheckout)
	}
	if err := delivery.Validate(); err != nil {
		return Order{}, err
	}
	o := Order{
		ID:              id,
		UserID:          userID,
		Lines:           cart.Clone().Lines,
		Subtotal:        quote.Subtotal,
		CourierCharges:  quote.CourierCharges,
		TotalAmount:     quote.GrandTotal,
		DeliveryDetails: delivery,
		Status:          StatusPending,
		CreatedAt:       now.UTC(),
	}
	return o, o.Validate()
}

func (o *Order) Validate() error {
	if o.ID == "" || o.UserID == "" {
		return fmt.Errorf("%w: order and user id required", ErrInvalidCheckout)
	}
	if len(o.Lines) == 0 {
		return fmt.Errorf("%w: order has no lines", ErrInvalidCheckout)
	}
	if o.Subtotal.IsNegative() || o.CourierCharges.IsNegative() {
		return ErrInvalidAmount
	}
	if !o.TotalAmount.Equal(o.Subtotal.Add(o.CourierCharges)) {
		return fmt.Errorf("%w: total %s != subtotal %s + courier %s",
			ErrInvalidAmount, o.TotalAmount, o.Subtotal, o.CourierCharges)
	}
	return nil
}

func (o Order) TotalWeight() decimal.Decimal {
	w := decimal.Zero
	for _, l := range o.Lines {
		w = w.Add(l.Quantity)
	}
	return w
}

// SortForHistory orders most recent first; ties on CreatedAt fall back to ascending id.
func SortForHistory(orders []Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		a, b := orders[i], orders[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
