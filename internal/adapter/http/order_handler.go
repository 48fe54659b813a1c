package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aq2208/gorder-storefront/internal/adapter/http/middleware"
	"github.com/aq2208/gorder-storefront/internal/adapter/observ"
	domain "github.com/aq2208/gorder-storefront/internal/entity"
	"github.com/aq2208/gorder-storefront/internal/usecase"
	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	ledger *usecase.Ledger
}

func NewOrderHandler(l *usecase.Ledger) *OrderHandler {
	return &OrderHandler{ledger: l}
}

type placeOrderReq struct {
	DeliveryAddress string `json:"delivery_address"`
	Pincode         string `json:"pincode"`
	Phone           string `json:"phone"`
	State           string `json:"state"`
}

// POST /api/orders
func (h *OrderHandler) Place(c *gin.Context) {
	var req placeOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}

	idemKey := c.GetHeader("X-Idempotency-Key") // prevent duplicated requests

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	order, err := h.ledger.PlaceOrder(ctx, usecase.PlaceOrderInput{
		UserID:         middleware.UserID(c),
		IdempotencyKey: idemKey,
		Delivery: domain.DeliveryDetails{
			Address: req.DeliveryAddress,
			Pincode: req.Pincode,
			Phone:   req.Phone,
			Region:  req.State,
		},
	})
	if err != nil {
		observ.CheckoutRejections.WithLabelValues(rejectionReason(err)).Inc()
		writeError(c, err)
		return
	}

	observ.OrdersPlaced.WithLabelValues(h.ledger.RateTier(order.Region)).Inc()
	observ.OrderRevenue.Add(order.TotalAmount.InexactFloat64())
	c.JSON(http.StatusCreated, order)
}

// GET /api/orders
func (h *OrderHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	orders, err := h.ledger.ListOrders(ctx, middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GET /api/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	order, err := h.ledger.GetOrder(ctx, middleware.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if st, err := h.ledger.CurrentStatus(ctx, order.UserID, order.ID); err == nil {
		order.Status = st
	}
	c.JSON(http.StatusOK, order)
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCheckout):
		return "invalid_checkout"
	case errors.Is(err, usecase.ErrDuplicate):
		return "duplicate"
	case errors.Is(err, domain.ErrCollaboratorUnavailable):
		return "unavailable"
	default:
		return "other"
	}
}
