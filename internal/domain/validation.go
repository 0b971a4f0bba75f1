package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidProductName = errors.New("invalid product name")
	ErrInvalidPrice       = errors.New("invalid price")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrReasonTooLong      = errors.New("movement reason too long")
	ErrReferenceTooLong   = errors.New("movement reference too long")
)

// Validation constants
const (
	MaxProductNameLength = 255
	MaxReasonLength      = 100
	MaxReferenceLength   = 100
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateProductName validates a product name.
func ValidateProductName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidProductName)
	}

	if len(name) > MaxProductNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidProductName, MaxProductNameLength)
	}

	return nil
}

// ValidatePrice validates a product price.
func ValidatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidPrice)
	}

	return nil
}

// ValidateMovement validates ledger movement inputs. It runs before any
// lock is acquired.
func ValidateMovement(delta int64, reason, reference string) error {
	if delta == 0 {
		return ErrInvalidDelta
	}

	if strings.TrimSpace(reason) == "" {
		return ErrMissingReason
	}

	if len(reason) > MaxReasonLength {
		return fmt.Errorf("%w: exceeds %d characters", ErrReasonTooLong, MaxReasonLength)
	}

	if len(reference) > MaxReferenceLength {
		return fmt.Errorf("%w: exceeds %d characters", ErrReferenceTooLong, MaxReferenceLength)
	}

	return nil
}

// ValidateEmail validates email format. Empty is allowed (guest orders
// may omit it when placed by an authenticated caller).
func ValidateEmail(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil
	}

	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters.
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
