package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aq2208/gorder-storefront/internal/adapter/http/middleware"
	"github.com/aq2208/gorder-storefront/internal/adapter/observ"
	domain "github.com/aq2208/gorder-storefront/internal/entity"
	"github.com/aq2208/gorder-storefront/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CartHandler struct {
	carts *usecase.CartStore
}

func NewCartHandler(carts *usecase.CartStore) *CartHandler {
	return &CartHandler{carts: carts}
}

type addItemReq struct {
	MenuItemID string           `json:"menu_item_id" binding:"required"`
	Quantity   *decimal.Decimal `json:"quantity"`
}

type cartItemResp struct {
	MenuItemID string          `json:"menu_item_id"`
	Name       string          `json:"name"`
	ImageURL   string          `json:"image_url,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Amount     decimal.Decimal `json:"amount"`
}

type cartResp struct {
	Items       []cartItemResp  `json:"items"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	TotalWeight decimal.Decimal `json:"total_weight"`
}

// GET /api/cart
func (h *CartHandler) Get(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	cart, err := h.carts.GetCart(ctx, middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	h.respond(ctx, c, http.StatusOK, cart)
}

// POST /api/cart/add
func (h *CartHandler) Add(c *gin.Context) {
	var req addItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "menu_item_id is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	cart, err := h.carts.AddItem(ctx, middleware.UserID(c), req.MenuItemID, req.Quantity)
	observ.CartMutations.WithLabelValues("add", observ.Result(err)).Inc()
	if err != nil {
		writeError(c, err)
		return
	}
	h.respond(ctx, c, http.StatusOK, cart)
}

// DELETE /api/cart/item/:id
func (h *CartHandler) Remove(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	cart, err := h.carts.RemoveItem(ctx, middleware.UserID(c), c.Param("id"))
	observ.CartMutations.WithLabelValues("remove", observ.Result(err)).Inc()
	if err != nil {
		writeError(c, err)
		return
	}
	h.respond(ctx, c, http.StatusOK, cart)
}

// respond decorates lines with menu names; a line whose item left the menu keeps its id only.
func (h *CartHandler) respond(ctx context.Context, c *gin.Context, status int, cart domain.Cart) {
	names := map[string]domain.MenuItem{}
	if items, err := h.carts.Menu(ctx); err == nil {
		for _, it := range items {
			names[it.ID] = it
		}
	}
	out := cartResp{
		Items:       make([]cartItemResp, 0, len(cart.Lines)),
		Subtotal:    cart.Subtotal,
		TotalWeight: cart.TotalWeight(),
	}
	for _, l := range cart.Lines {
		it := names[l.MenuItemID]
		out.Items = append(out.Items, cartItemResp{
			MenuItemID: l.MenuItemID,
			Name:       it.Name,
			ImageURL:   it.ImageURL,
			Quantity:   l.Quantity,
			Price:      l.UnitPrice,
			Amount:     l.Amount(),
		})
	}
	c.JSON(status, out)
}
