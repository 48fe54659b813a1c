package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	domain "github.com/aq2208/gorder-storefront/internal/entity"
	"github.com/aq2208/gorder-storefront/internal/usecase"
	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("add: %w", domain.ErrInvalidItem), http.StatusNotFound},
		{domain.ErrInvalidQuantity, http.StatusBadRequest},
		{fmt.Errorf("%w: missing phone", domain.ErrInvalidCheckout), http.StatusBadRequest},
		{usecase.ErrDuplicate, http.StatusConflict},
		{domain.ErrUnauthenticated, http.StatusUnauthorized},
		{domain.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("mysql: %w", domain.ErrCollaboratorUnavailable), http.StatusServiceUnavailable},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		got, _ := statusOf(tc.err)
		assert.Equal(t, tc.want, got, tc.err.Error())
	}
}
