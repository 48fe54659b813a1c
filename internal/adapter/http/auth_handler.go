package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/aq2208/gorder-storefront/internal/adapter/http/middleware"
	"github.com/aq2208/gorder-storefront/internal/usecase"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth *usecase.Auth
}

func NewAuthHandler(a *usecase.Auth) *AuthHandler {
	return &AuthHandler{auth: a}
}

type loginReq struct {
	SessionID string `json:"session_id"`
}

// POST /api/auth/login
// Accepts the identity provider's session id in the body or the X-Session-ID header.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	_ = c.ShouldBindJSON(&req)
	sid := strings.TrimSpace(req.SessionID)
	if sid == "" {
		sid = strings.TrimSpace(c.GetHeader("X-Session-ID"))
	}
	if sid == "" {
		badRequest(c, "session_id is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	out, err := h.auth.Login(ctx, sid)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/auth/profile
func (h *AuthHandler) Profile(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	u, err := h.auth.Profile(ctx, middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.auth.Logout(ctx, middleware.Token(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
