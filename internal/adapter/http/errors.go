package http

import (
	"context"
	"errors"
	"net/http"

	domain "github.com/aq2208/gorder-storefront/internal/entity"
	"github.com/aq2208/gorder-storefront/internal/logging"
	"github.com/aq2208/gorder-storefront/internal/usecase"
	"github.com/gin-gonic/gin"
)

type errorResp struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// statusOf is the single place domain errors become HTTP status codes.
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidItem):
		return http.StatusNotFound, "invalid_item"
	case errors.Is(err, domain.ErrInvalidQuantity):
		return http.StatusBadRequest, "invalid_quantity"
	case errors.Is(err, domain.ErrInvalidCheckout):
		return http.StatusBadRequest, "invalid_checkout"
	case errors.Is(err, usecase.ErrDuplicate):
		return http.StatusConflict, "duplicate_request"
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrCollaboratorUnavailable):
		return http.StatusServiceUnavailable, "unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func writeError(c *gin.Context, err error) {
	status, code := statusOf(err)
	resp := errorResp{Error: code}
	if status < http.StatusInternalServerError {
		resp.Message = err.Error()
	} else {
		_ = c.Error(err)
		logging.From(c).Error("request failed", "err", err)
	}
	c.AbortWithStatusJSON(status, resp)
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResp{Error: "bad_request", Message: msg})
}
