package domain

import (
	"errors"
	"fmt"
)

var (
	// Catalog errors
	ErrProductNotFound  = errors.New("product not found")
	ErrBrandNotFound    = errors.New("brand not found")
	ErrCategoryNotFound = errors.New("category not found")

	// Stock ledger errors
	ErrStockNotFound     = errors.New("stock record not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidDelta      = errors.New("delta must be a non-zero integer")
	ErrMissingReason     = errors.New("movement reason is required")

	// Order errors
	ErrOrderNotFound        = errors.New("order not found")
	ErrEmptyOrder           = errors.New("order must contain at least one item")
	ErrInvalidQuantity      = errors.New("quantity must be positive")
	ErrOrderNotPending      = errors.New("order is not pending")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")

	// Credential errors
	ErrCredentialNotFound = errors.New("credential not found")
	ErrRefreshUnavailable = errors.New("credential has no refresh token")
)

// InsufficientStockError reports which product could not cover a requested
// decrement and how much is actually available. It unwraps to
// ErrInsufficientStock so callers can match with errors.Is.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Available   int64
	Requested   int64
}

func (e *InsufficientStockError) Error() string {
	name := e.ProductName
	if name == "" {
		name = e.ProductID
	}

	return fmt.Sprintf("insufficient stock for %s: available %d, requested %d", name, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}
