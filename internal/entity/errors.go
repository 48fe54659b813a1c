package domain

import "errors"

var (
	ErrInvalidItem             = errors.New("invalid menu item")
	ErrInvalidQuantity         = errors.New("quantity must be positive")
	ErrInvalidCheckout         = errors.New("invalid checkout")
	ErrInvalidAmount           = errors.New("invalid amount")
	ErrInvalidTransition       = errors.New("invalid status transition")
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")
	ErrUnauthenticated         = errors.New("unauthenticated")
	ErrNotFound                = errors.New("not found")
)
