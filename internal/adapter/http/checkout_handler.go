package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/aq2208/gorder-storefront/internal/adapter/http/middleware"
	domain "github.com/aq2208/gorder-storefront/internal/entity"
	"github.com/aq2208/gorder-storefront/internal/usecase"
	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	pricing *usecase.Pricing
}

func NewCheckoutHandler(p *usecase.Pricing) *CheckoutHandler {
	return &CheckoutHandler{pricing: p}
}

// GET /api/courier-charges/:state
func (h *CheckoutHandler) CourierCharges(c *gin.Context) {
	state := c.Param("state")
	c.JSON(http.StatusOK, domain.RateTier{
		Region:    domain.NormalizeRegion(state),
		RatePerKg: h.pricing.CourierRate(state),
	})
}

// GET /api/checkout/preview?state=
func (h *CheckoutHandler) Preview(c *gin.Context) {
	state := c.Query("state")
	if strings.TrimSpace(state) == "" {
		badRequest(c, "state is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	q, err := h.pricing.Preview(ctx, middleware.UserID(c), state)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}
