package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/truckparts/backend/internal/domain"
	"github.com/truckparts/backend/internal/usecase"
	"github.com/truckparts/backend/internal/usecase/mocks"
)

type productFixture struct {
	uc           *usecase.ProductUseCase
	productRepo  *mocks.MockProductRepository
	stockRepo    *mocks.MockStockRepository
	movementRepo *mocks.MockMovementRepository
	cache        *mocks.MockCache
}

func newProductFixture() *productFixture {
	f := &productFixture{
		productRepo:  mocks.NewMockProductRepository(),
		stockRepo:    mocks.NewMockStockRepository(),
		movementRepo: mocks.NewMockMovementRepository(),
		cache:        mocks.NewMockCache(),
	}

	f.uc = usecase.NewProductUseCase(
		mocks.NewMockTransactionManager(),
		f.productRepo,
		f.stockRepo,
		f.movementRepo,
		mocks.NewMockOutboxRepository(),
		mocks.NewMockIDGenerator(),
		f.cache,
	)

	return f
}

func TestProductUseCase_CreateProduct(t *testing.T) {
	f := newProductFixture()

	product, err := f.uc.CreateProduct(context.Background(), usecase.CreateProductInput{
		Name:            "Leaf Spring",
		SKU:             "LS-1000",
		Price:           decimal.NewFromInt(300),
		InitialQuantity: 8,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !product.Active {
		t.Error("expected product to be active")
	}

	// Stock record is created in the same transaction
	record, err := f.stockRepo.GetByProductID(context.Background(), product.ID)
	if err != nil {
		t.Fatalf("expected stock record, got error: %v", err)
	}
	if record.Quantity != 8 {
		t.Errorf("expected quantity 8, got %d", record.Quantity)
	}

	// The initial quantity shows up in the movement log
	movements := f.movementRepo.All()
	if len(movements) != 1 {
		t.Fatalf("expected 1 movement, got %d", len(movements))
	}
	if movements[0].Reason != domain.ReasonInitial {
		t.Errorf("expected reason %s, got %s", domain.ReasonInitial, movements[0].Reason)
	}
	if movements[0].NewQuantity != 8 {
		t.Errorf("expected new quantity 8, got %d", movements[0].NewQuantity)
	}
}

func TestProductUseCase_CreateProduct_ZeroInitialQuantity(t *testing.T) {
	f := newProductFixture()

	product, err := f.uc.CreateProduct(context.Background(), usecase.CreateProductInput{
		Name:  "Tail Light",
		Price: decimal.NewFromInt(45),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	record, err := f.stockRepo.GetByProductID(context.Background(), product.ID)
	if err != nil {
		t.Fatalf("expected stock record, got error: %v", err)
	}
	if record.Quantity != 0 {
		t.Errorf("expected quantity 0, got %d", record.Quantity)
	}

	// Zero initial quantity writes no movement
	if len(f.movementRepo.All()) != 0 {
		t.Errorf("expected no movements, got %d", len(f.movementRepo.All()))
	}
}

func TestProductUseCase_CreateProduct_Validation(t *testing.T) {
	tests := []struct {
		name      string
		input     usecase.CreateProductInput
		errorType error
	}{
		{
			name:      "empty name",
			input:     usecase.CreateProductInput{Price: decimal.NewFromInt(10)},
			errorType: domain.ErrInvalidProductName,
		},
		{
			name:      "negative price",
			input:     usecase.CreateProductInput{Name: "Hub Cap", Price: decimal.NewFromInt(-1)},
			errorType: domain.ErrInvalidPrice,
		},
		{
			name: "negative initial quantity",
			input: usecase.CreateProductInput{
				Name:            "Hub Cap",
				Price:           decimal.NewFromInt(10),
				InitialQuantity: -5,
			},
			errorType: domain.ErrInvalidQuantity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newProductFixture()

			_, err := f.uc.CreateProduct(context.Background(), tt.input)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, tt.errorType) {
				t.Errorf("expected error %v, got %v", tt.errorType, err)
			}
		})
	}
}

func TestProductUseCase_GetProduct_CachesResult(t *testing.T) {
	f := newProductFixture()

	created, err := f.uc.CreateProduct(context.Background(), usecase.CreateProductInput{
		Name:  "Exhaust Clamp",
		Price: decimal.NewFromInt(15),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	repoCalls := 0
	f.productRepo.GetByIDFunc = func(ctx context.Context, id string) (*domain.Product, error) {
		repoCalls++
		return created, nil
	}

	if _, err := f.uc.GetProduct(context.Background(), created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.uc.GetProduct(context.Background(), created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Second read is served from cache
	if repoCalls != 1 {
		t.Errorf("expected 1 repository call, got %d", repoCalls)
	}
}

func TestProductUseCase_GetProduct_NotFound(t *testing.T) {
	f := newProductFixture()

	_, err := f.uc.GetProduct(context.Background(), "prod-missing")
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

func TestProductUseCase_UpdateProduct_InvalidatesCache(t *testing.T) {
	f := newProductFixture()

	created, err := f.uc.CreateProduct(context.Background(), usecase.CreateProductInput{
		Name:  "Shock Absorber",
		Price: decimal.NewFromInt(90),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Prime the cache
	if _, err := f.uc.GetProduct(context.Background(), created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := f.uc.UpdateProduct(context.Background(), created.ID, usecase.UpdateProductInput{
		Name:   "Shock Absorber HD",
		Price:  decimal.NewFromInt(110),
		Active: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != "Shock Absorber HD" {
		t.Errorf("expected updated name, got %s", updated.Name)
	}

	// The stale cache entry is gone: the next read hits the repository
	fresh, err := f.uc.GetProduct(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fresh.Name != "Shock Absorber HD" {
		t.Errorf("expected fresh read after invalidation, got %s", fresh.Name)
	}
}

func TestProductUseCase_ListProducts(t *testing.T) {
	f := newProductFixture()

	for _, name := range []string{"Axle Seal", "Kingpin Kit"} {
		if _, err := f.uc.CreateProduct(context.Background(), usecase.CreateProductInput{
			Name:  name,
			Price: decimal.NewFromInt(20),
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	products, err := f.uc.ListProducts(context.Background(), usecase.ListProductsInput{ActiveOnly: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 2 {
		t.Errorf("expected 2 products, got %d", len(products))
	}
}
