package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/truckparts/backend/internal/domain"
)

// ProductRepository defines data access for catalog products.
type ProductRepository interface {
	Create(ctx context.Context, tx Transaction, product *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]*domain.Product, error)
	GetByCloverItemID(ctx context.Context, cloverItemID string) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	List(ctx context.Context, activeOnly bool, limit, offset int) ([]*domain.Product, error)
}

// StockRepository defines data access for stock records.
type StockRepository interface {
	Create(ctx context.Context, tx Transaction, record *domain.StockRecord) error
	GetByProductID(ctx context.Context, productID string) (*domain.StockRecord, error)
	GetByProductIDForUpdate(ctx context.Context, tx Transaction, productID string) (*domain.StockRecord, error)
	GetByProductIDsForUpdate(ctx context.Context, tx Transaction, productIDs []string) ([]*domain.StockRecord, error)
	UpdateQuantity(ctx context.Context, tx Transaction, productID string, quantity int64, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.StockRecord, error)
}

// MovementRepository defines data access for the append-only movement log.
type MovementRepository interface {
	Create(ctx context.Context, tx Transaction, movement *domain.Movement) error
	ListByProduct(ctx context.Context, productID string, filter domain.MovementFilter) ([]*domain.Movement, error)
	SumDeltas(ctx context.Context, productID string) (int64, error)
}

// OrderRepository defines data access for orders and their items.
type OrderRepository interface {
	Create(ctx context.Context, tx Transaction, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, tx Transaction, order *domain.Order) error
	List(ctx context.Context, limit, offset int) ([]*domain.Order, error)
}

// CredentialRepository defines data access for external platform credentials.
type CredentialRepository interface {
	Upsert(ctx context.Context, credential *domain.Credential) error
	Get(ctx context.Context, provider domain.Provider, accountID string) (*domain.Credential, error)
	GetForUpdate(ctx context.Context, tx Transaction, provider domain.Provider, accountID string) (*domain.Credential, error)
	UpdateTokens(ctx context.Context, tx Transaction, id, accessToken, refreshToken string, expiresAt, updatedAt time.Time) error
	ListByProvider(ctx context.Context, provider domain.Provider) ([]*domain.Credential, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an operation on transient storage errors (deadlock,
// serialization failure).
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

// CatalogItem is an item as reported by an external catalog (Clover).
type CatalogItem struct {
	ExternalID string
	Name       string
	SKU        string
	Price      decimal.Decimal
	Hidden     bool
	Deleted    bool
}

// CatalogSource lists items from an external catalog account.
type CatalogSource interface {
	Items(ctx context.Context, accountID string) ([]CatalogItem, error)
}

// AccountingGateway creates accounting documents for paid orders.
type AccountingGateway interface {
	CreateInvoice(ctx context.Context, order *domain.Order) (string, error)
	CreateSalesReceipt(ctx context.Context, order *domain.Order) (string, error)
}

// TokenRefresher exchanges a refresh token for a fresh access token.
type TokenRefresher interface {
	Refresh(ctx context.Context, credential *domain.Credential) (accessToken, refreshToken string, expiresAt time.Time, err error)
}
