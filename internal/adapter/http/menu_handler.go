package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aq2208/gorder-storefront/internal/usecase"
	"github.com/gin-gonic/gin"
)

type MenuHandler struct {
	carts *usecase.CartStore
}

func NewMenuHandler(carts *usecase.CartStore) *MenuHandler {
	return &MenuHandler{carts: carts}
}

// GET /api/menu
func (h *MenuHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	items, err := h.carts.Menu(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}
