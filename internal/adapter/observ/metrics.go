package observ

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersPlaced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_orders_placed_total",
			Help: "Orders committed to the ledger, by courier rate tier",
		},
		[]string{"tier"},
	)

	OrderRevenue = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_order_revenue_total",
			Help: "Sum of grand totals of placed orders",
		},
	)

	CheckoutRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_checkout_rejections_total",
			Help: "Checkout attempts that did not produce an order, by reason",
		},
		[]string{"reason"},
	)

	CartMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cart_mutations_total",
			Help: "Cart add/remove operations, by outcome",
		},
		[]string{"op", "result"},
	)

	OutboxRelayed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_outbox_relayed_total",
			Help: "Outbox messages handed to the broker, by channel and result",
		},
		[]string{"channel", "result"},
	)

	StatusEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_order_status_events_total",
			Help: "Fulfillment status events applied to the ledger, by status and result",
		},
		[]string{"status", "result"},
	)
)

// Result maps an error onto the "result" label.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
