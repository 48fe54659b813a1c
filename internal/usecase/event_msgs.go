package usecase

import (
	"time"

	domain "github.com/aq2208/gorder-storefront/internal/entity"
)

const ChannelOrderPlaced = "order.placed"

// Written to the outbox at checkout, relayed to the broker, consumed by the fulfillment forwarder.
type OrderPlacedMsg struct {
	OrderID        string        `json:"orderId"`
	UserID         string        `json:"userId"`
	Lines          []LineMsg     `json:"lines"`
	Subtotal       string        `json:"subtotal"`
	CourierCharges string        `json:"courierCharges"`
	TotalAmount    string        `json:"totalAmount"`
	Delivery       DeliveryMsg   `json:"delivery"`
	Status         domain.Status `json:"status"`
	CreatedAt      time.Time     `json:"createdAt"`
}

type LineMsg struct {
	MenuItemID string `json:"menuItemId"`
	QuantityKg string `json:"quantityKg"`
	UnitPrice  string `json:"unitPrice"`
}

type DeliveryMsg struct {
	Address string `json:"address"`
	Pincode string `json:"pincode"`
	Phone   string `json:"phone"`
	Region  string `json:"region"`
}

func NewOrderPlacedMsg(o domain.Order) OrderPlacedMsg {
	lines := make([]LineMsg, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, LineMsg{
			MenuItemID: l.MenuItemID,
			QuantityKg: l.Quantity.String(),
			UnitPrice:  l.UnitPrice.String(),
		})
	}
	return OrderPlacedMsg{
		OrderID:        o.ID,
		UserID:         o.UserID,
		Lines:          lines,
		Subtotal:       o.Subtotal.String(),
		CourierCharges: o.CourierCharges.String(),
		TotalAmount:    o.TotalAmount.String(),
		Delivery: DeliveryMsg{
			Address: o.Address,
			Pincode: o.Pincode,
			Phone:   o.Phone,
			Region:  o.Region,
		},
		Status:    o.Status,
		CreatedAt: o.CreatedAt,
	}
}

// Sent by the fulfillment gateway on Kafka
type OrderStatusChangedMsg struct {
	OrderID string `json:"orderId"`
	UserID  string `json:"userId"`
	Status  string `json:"status"` // e.g. "CONFIRMED", "DELIVERED", "CANCELLED"
	Reason  string `json:"reason,omitempty"`
}
