package services

import "errors"

// Service-level sentinel errors. Store-level conditions (not found,
// insufficient stock, duplicates) surface from the repositories package.
var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrNegativeAmount     = errors.New("amount must not be negative")
	ErrNotInCart          = errors.New("product not in cart")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
