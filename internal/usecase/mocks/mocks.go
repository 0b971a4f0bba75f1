package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/truckparts/backend/internal/domain"
	"github.com/truckparts/backend/internal/usecase"
)

// MockProductRepository is a mock implementation of ProductRepository.
type MockProductRepository struct {
	mu       sync.RWMutex
	products map[string]*domain.Product

	CreateFunc            func(ctx context.Context, tx usecase.Transaction, product *domain.Product) error
	GetByIDFunc           func(ctx context.Context, id string) (*domain.Product, error)
	GetByIDsFunc          func(ctx context.Context, ids []string) ([]*domain.Product, error)
	GetByCloverItemIDFunc func(ctx context.Context, cloverItemID string) (*domain.Product, error)
	UpdateFunc            func(ctx context.Context, product *domain.Product) error
	ListFunc              func(ctx context.Context, activeOnly bool, limit, offset int) ([]*domain.Product, error)
}

func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{products: make(map[string]*domain.Product)}
}

func (m *MockProductRepository) Create(ctx context.Context, tx usecase.Transaction, product *domain.Product) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, product)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[product.ID] = product
	return nil
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.products[id]; ok {
		return p, nil
	}
	return nil, domain.ErrProductNotFound
}

func (m *MockProductRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Product, error) {
	if m.GetByIDsFunc != nil {
		return m.GetByIDsFunc(ctx, ids)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var products []*domain.Product
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			products = append(products, p)
		}
	}
	return products, nil
}

func (m *MockProductRepository) GetByCloverItemID(ctx context.Context, cloverItemID string) (*domain.Product, error) {
	if m.GetByCloverItemIDFunc != nil {
		return m.GetByCloverItemIDFunc(ctx, cloverItemID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.products {
		if p.CloverItemID == cloverItemID {
			return p, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (m *MockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, product)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[product.ID]; !ok {
		return domain.ErrProductNotFound
	}
	m.products[product.ID] = product
	return nil
}

func (m *MockProductRepository) List(ctx context.Context, activeOnly bool, limit, offset int) ([]*domain.Product, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, activeOnly, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var products []*domain.Product
	for _, p := range m.products {
		if activeOnly && !p.Active {
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

// MockStockRepository is a mock implementation of StockRepository.
type MockStockRepository struct {
	mu      sync.RWMutex
	records map[string]*domain.StockRecord

	CreateFunc                   func(ctx context.Context, tx usecase.Transaction, record *domain.StockRecord) error
	GetByProductIDFunc           func(ctx context.Context, productID string) (*domain.StockRecord, error)
	GetByProductIDForUpdateFunc  func(ctx context.Context, tx usecase.Transaction, productID string) (*domain.StockRecord, error)
	GetByProductIDsForUpdateFunc func(ctx context.Context, tx usecase.Transaction, productIDs []string) ([]*domain.StockRecord, error)
	UpdateQuantityFunc           func(ctx context.Context, tx usecase.Transaction, productID string, quantity int64, updatedAt time.Time) error
	ListFunc                     func(ctx context.Context, limit, offset int) ([]*domain.StockRecord, error)
}

func NewMockStockRepository() *MockStockRepository {
	return &MockStockRepository{records: make(map[string]*domain.StockRecord)}
}

func (m *MockStockRepository) Create(ctx context.Context, tx usecase.Transaction, record *domain.StockRecord) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, record)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.ProductID] = record
	return nil
}

func (m *MockStockRepository) GetByProductID(ctx context.Context, productID string) (*domain.StockRecord, error) {
	if m.GetByProductIDFunc != nil {
		return m.GetByProductIDFunc(ctx, productID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.records[productID]; ok {
		copy := *r
		return &copy, nil
	}
	return nil, domain.ErrStockNotFound
}

func (m *MockStockRepository) GetByProductIDForUpdate(ctx context.Context, tx usecase.Transaction, productID string) (*domain.StockRecord, error) {
	if m.GetByProductIDForUpdateFunc != nil {
		return m.GetByProductIDForUpdateFunc(ctx, tx, productID)
	}
	return m.GetByProductID(ctx, productID)
}

func (m *MockStockRepository) GetByProductIDsForUpdate(ctx context.Context, tx usecase.Transaction, productIDs []string) ([]*domain.StockRecord, error) {
	if m.GetByProductIDsForUpdateFunc != nil {
		return m.GetByProductIDsForUpdateFunc(ctx, tx, productIDs)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var records []*domain.StockRecord
	for _, id := range productIDs {
		if r, ok := m.records[id]; ok {
			copy := *r
			records = append(records, &copy)
		}
	}
	return records, nil
}

func (m *MockStockRepository) UpdateQuantity(ctx context.Context, tx usecase.Transaction, productID string, quantity int64, updatedAt time.Time) error {
	if m.UpdateQuantityFunc != nil {
		return m.UpdateQuantityFunc(ctx, tx, productID, quantity, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[productID]
	if !ok {
		return domain.ErrStockNotFound
	}
	r.Quantity = quantity
	r.UpdatedAt = updatedAt
	return nil
}

func (m *MockStockRepository) List(ctx context.Context, limit, offset int) ([]*domain.StockRecord, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var records []*domain.StockRecord
	for _, r := range m.records {
		copy := *r
		records = append(records, &copy)
	}
	return records, nil
}

// MockMovementRepository is a mock implementation of MovementRepository.
type MockMovementRepository struct {
	mu        sync.RWMutex
	movements []*domain.Movement

	CreateFunc        func(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error
	ListByProductFunc func(ctx context.Context, productID string, filter domain.MovementFilter) ([]*domain.Movement, error)
	SumDeltasFunc     func(ctx context.Context, productID string) (int64, error)
}

func NewMockMovementRepository() *MockMovementRepository {
	return &MockMovementRepository{}
}

func (m *MockMovementRepository) Create(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, movement)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.movements = append(m.movements, movement)
	return nil
}

func (m *MockMovementRepository) ListByProduct(ctx context.Context, productID string, filter domain.MovementFilter) ([]*domain.Movement, error) {
	if m.ListByProductFunc != nil {
		return m.ListByProductFunc(ctx, productID, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Movement
	// Newest first
	for i := len(m.movements) - 1; i >= 0; i-- {
		mv := m.movements[i]
		if mv.ProductID != productID {
			continue
		}
		if filter.Reference != "" && mv.Reference != filter.Reference {
			continue
		}
		if filter.From != nil && mv.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && mv.CreatedAt.After(*filter.To) {
			continue
		}
		result = append(result, mv)
	}
	return result, nil
}

func (m *MockMovementRepository) SumDeltas(ctx context.Context, productID string) (int64, error) {
	if m.SumDeltasFunc != nil {
		return m.SumDeltasFunc(ctx, productID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var sum int64
	for _, mv := range m.movements {
		if mv.ProductID == productID {
			sum += mv.Delta
		}
	}
	return sum, nil
}

// All returns every recorded movement.
func (m *MockMovementRepository) All() []*domain.Movement {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.Movement(nil), m.movements...)
}

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, order *domain.Order) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Order, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Order, error)
	UpdateStatusFunc     func(ctx context.Context, tx usecase.Transaction, order *domain.Order) error
	ListFunc             func(ctx context.Context, limit, offset int) ([]*domain.Order, error)
}

func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{orders: make(map[string]*domain.Order)}
}

func (m *MockOrderRepository) Create(ctx context.Context, tx usecase.Transaction, order *domain.Order) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, order)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[order.ID] = order
	return nil
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if o, ok := m.orders[id]; ok {
		return o, nil
	}
	return nil, domain.ErrOrderNotFound
}

func (m *MockOrderRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Order, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, order *domain.Order) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, order)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[order.ID]; !ok {
		return domain.ErrOrderNotFound
	}
	m.orders[order.ID] = order
	return nil
}

func (m *MockOrderRepository) List(ctx context.Context, limit, offset int) ([]*domain.Order, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var orders []*domain.Order
	for _, o := range m.orders {
		orders = append(orders, o)
	}
	return orders, nil
}

// MockCredentialRepository is a mock implementation of CredentialRepository.
type MockCredentialRepository struct {
	mu          sync.RWMutex
	credentials map[string]*domain.Credential

	UpsertFunc       func(ctx context.Context, credential *domain.Credential) error
	GetFunc          func(ctx context.Context, provider domain.Provider, accountID string) (*domain.Credential, error)
	GetForUpdateFunc func(ctx context.Context, tx usecase.Transaction, provider domain.Provider, accountID string) (*domain.Credential, error)
	UpdateTokensFunc func(ctx context.Context, tx usecase.Transaction, id, accessToken, refreshToken string, expiresAt, updatedAt time.Time) error
}

func NewMockCredentialRepository() *MockCredentialRepository {
	return &MockCredentialRepository{credentials: make(map[string]*domain.Credential)}
}

func credentialKey(provider domain.Provider, accountID string) string {
	return string(provider) + ":" + accountID
}

func (m *MockCredentialRepository) Upsert(ctx context.Context, credential *domain.Credential) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, credential)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.credentials[credentialKey(credential.Provider, credential.AccountID)] = credential
	return nil
}

func (m *MockCredentialRepository) Get(ctx context.Context, provider domain.Provider, accountID string) (*domain.Credential, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, provider, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.credentials[credentialKey(provider, accountID)]; ok {
		copy := *c
		return &copy, nil
	}
	return nil, domain.ErrCredentialNotFound
}

func (m *MockCredentialRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, provider domain.Provider, accountID string) (*domain.Credential, error) {
	if m.GetForUpdateFunc != nil {
		return m.GetForUpdateFunc(ctx, tx, provider, accountID)
	}
	return m.Get(ctx, provider, accountID)
}

func (m *MockCredentialRepository) UpdateTokens(ctx context.Context, tx usecase.Transaction, id, accessToken, refreshToken string, expiresAt, updatedAt time.Time) error {
	if m.UpdateTokensFunc != nil {
		return m.UpdateTokensFunc(ctx, tx, id, accessToken, refreshToken, expiresAt, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.credentials {
		if c.ID == id {
			c.AccessToken = accessToken
			c.RefreshToken = refreshToken
			c.ExpiresAt = expiresAt
			c.UpdatedAt = updatedAt
			return nil
		}
	}
	return domain.ErrCredentialNotFound
}

func (m *MockCredentialRepository) ListByProvider(ctx context.Context, provider domain.Provider) ([]*domain.Credential, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var creds []*domain.Credential
	for _, c := range m.credentials {
		if c.Provider == provider {
			copy := *c
			creds = append(creds, &copy)
		}
	}
	return creds, nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent

	CreateFunc func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var events []*domain.OutboxEvent
	for _, e := range m.events {
		if !e.Published {
			events = append(events, e)
		}
		if len(events) == limit {
			break
		}
	}
	return events, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
			return nil
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []*domain.OutboxEvent
	for _, e := range m.events {
		if !e.Published || e.CreatedAt.After(before) {
			kept = append(kept, e)
		}
	}
	m.events = kept
	return nil
}

// Events returns every recorded event.
func (m *MockOutboxRepository) Events() []*domain.OutboxEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.OutboxEvent(nil), m.events...)
}

// MockTransaction is a no-op transaction that records commit/rollback.
type MockTransaction struct {
	Committed  bool
	RolledBack bool

	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}
	t.Committed = true
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if t.RollbackFunc != nil {
		return t.RollbackFunc(ctx)
	}
	if !t.Committed {
		t.RolledBack = true
	}
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("test-id-%04d", m.counter)
}

// MockCache is a mock implementation of Cache.
type MockCache struct {
	mu    sync.RWMutex
	items map[string][]byte

	GetFunc    func(ctx context.Context, key string) ([]byte, error)
	SetFunc    func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{items: make(map[string][]byte)}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.items[key]; ok {
		return v, nil
	}
	return nil, nil
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

// PassthroughRetrier runs the operation once with no retries.
type PassthroughRetrier struct{}

func (PassthroughRetrier) Retry(ctx context.Context, operation func() error) error {
	return operation()
}
