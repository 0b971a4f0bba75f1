package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// ProductCacheTTL is how long product reads are cached
	ProductCacheTTL = 5 * time.Minute

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// TokenRefreshSkew refreshes access tokens this long before they expire
	TokenRefreshSkew = 2 * time.Minute
)
