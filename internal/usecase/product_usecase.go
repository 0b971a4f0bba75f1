package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/truckparts/backend/internal/domain"
)

// ProductUseCase handles catalog products. Creating a product also creates
// its stock record in the same transaction: the one-to-one invariant is
// enforced by construction, not by an event hook.
type ProductUseCase struct {
	txManager    TransactionManager
	productRepo  ProductRepository
	stockRepo    StockRepository
	movementRepo MovementRepository
	outboxRepo   OutboxRepository
	idGen        IDGenerator
	cache        Cache
}

// NewProductUseCase creates a new ProductUseCase.
func NewProductUseCase(
	txManager TransactionManager,
	productRepo ProductRepository,
	stockRepo StockRepository,
	movementRepo MovementRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	cache Cache,
) *ProductUseCase {
	return &ProductUseCase{
		txManager:    txManager,
		productRepo:  productRepo,
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
		outboxRepo:   outboxRepo,
		idGen:        idGen,
		cache:        cache,
	}
}

// CreateProductInput represents input for creating a product.
type CreateProductInput struct {
	Name            string
	Description     string
	SKU             string
	Price           decimal.Decimal
	BrandID         string
	CategoryID      string
	CloverItemID    string
	QBItemID        string
	InitialQuantity int64
}

// CreateProduct creates a product together with its stock record. A
// non-zero initial quantity is recorded as a movement so the ledger
// invariant (quantity equals the sum of deltas) holds from the start.
func (uc *ProductUseCase) CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	if err := domain.ValidateProductName(input.Name); err != nil {
		return nil, err
	}

	if err := domain.ValidatePrice(input.Price); err != nil {
		return nil, err
	}

	if input.InitialQuantity < 0 {
		return nil, domain.ErrInvalidQuantity
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	now := time.Now().UTC()

	product := &domain.Product{
		ID:           uc.idGen.Generate(),
		Name:         input.Name,
		Description:  input.Description,
		SKU:          input.SKU,
		Price:        input.Price,
		BrandID:      input.BrandID,
		CategoryID:   input.CategoryID,
		CloverItemID: input.CloverItemID,
		QBItemID:     input.QBItemID,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.productRepo.Create(txCtx, tx, product); err != nil {
		return nil, err
	}

	record := &domain.StockRecord{
		ProductID: product.ID,
		Quantity:  input.InitialQuantity,
		UpdatedAt: now,
	}

	if err := uc.stockRepo.Create(txCtx, tx, record); err != nil {
		return nil, err
	}

	if input.InitialQuantity > 0 {
		movement := &domain.Movement{
			ID:               uc.idGen.Generate(),
			ProductID:        product.ID,
			Delta:            input.InitialQuantity,
			Reason:           domain.ReasonInitial,
			PreviousQuantity: 0,
			NewQuantity:      input.InitialQuantity,
			CreatedAt:        now,
		}

		if err := uc.movementRepo.Create(txCtx, tx, movement); err != nil {
			return nil, err
		}
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   product.ID,
		AggregateType: domain.AggregateTypeProduct,
		EventType:     domain.EventTypeProductCreated,
		Payload: map[string]any{
			"product_id": product.ID,
			"name":       product.Name,
			"sku":        product.SKU,
		},
		CreatedAt: now,
		Published: false,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return product, nil
}

// GetProduct retrieves a product by ID, consulting the cache first.
func (uc *ProductUseCase) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if uc.cache != nil {
		if data, err := uc.cache.Get(ctx, productCacheKey(id)); err == nil && data != nil {
			var product domain.Product
			if err := json.Unmarshal(data, &product); err == nil {
				return &product, nil
			}
		}
	}

	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if data, err := json.Marshal(product); err == nil {
			_ = uc.cache.Set(ctx, productCacheKey(id), data, ProductCacheTTL)
		}
	}

	return product, nil
}

// UpdateProductInput represents input for updating a product.
type UpdateProductInput struct {
	Name        string
	Description string
	SKU         string
	Price       decimal.Decimal
	BrandID     string
	CategoryID  string
	Active      bool
}

// UpdateProduct updates catalog fields and invalidates the cache entry.
// Stock is never updated here.
func (uc *ProductUseCase) UpdateProduct(ctx context.Context, id string, input UpdateProductInput) (*domain.Product, error) {
	if err := domain.ValidateProductName(input.Name); err != nil {
		return nil, err
	}

	if err := domain.ValidatePrice(input.Price); err != nil {
		return nil, err
	}

	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Description = input.Description
	product.SKU = input.SKU
	product.Price = input.Price
	product.BrandID = input.BrandID
	product.CategoryID = input.CategoryID
	product.Active = input.Active
	product.UpdatedAt = time.Now().UTC()

	if err := uc.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	if uc.cache != nil {
		_ = uc.cache.Delete(ctx, productCacheKey(id))
	}

	return product, nil
}

// ListProductsInput represents input for listing products.
type ListProductsInput struct {
	ActiveOnly bool
	Limit      int
	Offset     int
}

// ListProducts lists catalog products.
func (uc *ProductUseCase) ListProducts(ctx context.Context, input ListProductsInput) ([]*domain.Product, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.productRepo.List(ctx, input.ActiveOnly, limit, offset)
}

func productCacheKey(id string) string {
	return "product:" + id
}
