package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	domain "github.com/aq2208/gorder-storefront/internal/entity"
	"github.com/gin-gonic/gin"
)

const (
	ctxUserID = "user_id"
	ctxToken  = "session_token"
)

// Authenticator resolves a session token to a user id. *usecase.Auth satisfies it.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (string, error)
}

type SessionAuth struct {
	auth Authenticator
}

func NewSessionAuth(a Authenticator) *SessionAuth {
	return &SessionAuth{auth: a}
}

// Require rejects requests without a live session and stores the caller's user id in the context.
// The Authorization header may carry the token with or without the "Bearer " prefix.
func (a *SessionAuth) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("Authorization"))
		if len(raw) > 7 && strings.EqualFold(raw[:7], "bearer ") {
			raw = strings.TrimSpace(raw[7:])
		}
		if raw == "" {
			unauth(c, "invalid_request", "missing session token")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		uid, err := a.auth.Authenticate(ctx, raw)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthenticated) {
				unauth(c, "invalid_token", "session expired or invalid")
				return
			}
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "unavailable", "error_description": "session store unavailable"})
			return
		}

		c.Set(ctxUserID, uid)
		c.Set(ctxToken, raw)
		c.Next()
	}
}

// UserID returns the id stored by Require.
func UserID(c *gin.Context) string { return c.GetString(ctxUserID) }

// Token returns the raw session token stored by Require.
func Token(c *gin.Context) string { return c.GetString(ctxToken) }

func unauth(c *gin.Context, code, desc string) {
	c.Header("WWW-Authenticate", `Bearer error="`+code+`", error_description="`+desc+`"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": code, "error_description": desc})
}
