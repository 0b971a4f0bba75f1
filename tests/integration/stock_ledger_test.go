package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/truckparts/backend/internal/adapter/repository/postgres"
	"github.com/truckparts/backend/internal/domain"
	"github.com/truckparts/backend/internal/usecase"
	"github.com/truckparts/backend/tests/testutil"
)

func newLedgerUseCase(pool *postgres.TxManager, db *testutil.TestDB) *usecase.StockLedgerUseCase {
	productRepo := postgres.NewProductRepository(db.Pool)
	stockRepo := postgres.NewStockRepository(db.Pool)
	movementRepo := postgres.NewMovementRepository(db.Pool)
	outboxRepo := postgres.NewNullOutboxRepository()
	idGen := postgres.NewULIDGenerator()

	return usecase.NewStockLedgerUseCase(pool, productRepo, stockRepo, movementRepo, outboxRepo, idGen, postgres.NewRetrier(), nil)
}

func TestStockLedgerMovements(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	txManager := postgres.NewTxManager(testDB.Pool)
	ledgerUC := newLedgerUseCase(txManager, testDB)

	t.Run("decrement and movement log stay in sync", func(t *testing.T) {
		testDB.TruncateAll(ctx)
		product := testDB.CreateTestProduct(ctx, "Brake Pad", decimal.RequireFromString("45.50"), 10)

		quantity, err := ledgerUC.ApplyMovement(ctx, usecase.MovementInput{
			ProductID: product.ID,
			Delta:     -4,
			Reason:    domain.ReasonSale,
			Reference: "order-1",
		})
		if err != nil {
			t.Fatalf("movement failed: %v", err)
		}
		if quantity != 6 {
			t.Fatalf("expected quantity 6, got %d", quantity)
		}

		if got := testDB.StockQuantity(ctx, product.ID); got != 6 {
			t.Fatalf("expected recorded quantity 6, got %d", got)
		}
		if sum := testDB.MovementSum(ctx, product.ID); sum != 6 {
			t.Fatalf("expected movement sum 6, got %d", sum)
		}
	})

	t.Run("decrement below zero is rejected and nothing persists", func(t *testing.T) {
		testDB.TruncateAll(ctx)
		product := testDB.CreateTestProduct(ctx, "Air Filter", decimal.RequireFromString("94.00"), 3)

		_, err := ledgerUC.ApplyMovement(ctx, usecase.MovementInput{
			ProductID: product.ID,
			Delta:     -5,
			Reason:    domain.ReasonSale,
		})
		if !errors.Is(err, domain.ErrInsufficientStock) {
			t.Fatalf("expected insufficient stock error, got %v", err)
		}

		if got := testDB.StockQuantity(ctx, product.ID); got != 3 {
			t.Fatalf("expected quantity unchanged at 3, got %d", got)
		}
		if sum := testDB.MovementSum(ctx, product.ID); sum != 3 {
			t.Fatalf("expected movement sum unchanged at 3, got %d", sum)
		}
	})

	t.Run("batch is atomic when one line fails", func(t *testing.T) {
		testDB.TruncateAll(ctx)
		full := testDB.CreateTestProduct(ctx, "Oil Filter", decimal.RequireFromString("12.00"), 10)
		scarce := testDB.CreateTestProduct(ctx, "Gasket", decimal.RequireFromString("3.50"), 1)

		_, err := ledgerUC.ApplyMovements(ctx, []usecase.MovementInput{
			{ProductID: full.ID, Delta: -2, Reason: domain.ReasonSale},
			{ProductID: scarce.ID, Delta: -2, Reason: domain.ReasonSale},
		})
		if !errors.Is(err, domain.ErrInsufficientStock) {
			t.Fatalf("expected insufficient stock error, got %v", err)
		}

		// The covered line must not have been applied either.
		if got := testDB.StockQuantity(ctx, full.ID); got != 10 {
			t.Fatalf("expected first product untouched at 10, got %d", got)
		}
	})

	t.Run("movement history is recorded newest first", func(t *testing.T) {
		testDB.TruncateAll(ctx)
		product := testDB.CreateTestProduct(ctx, "Wiper Blade", decimal.RequireFromString("8.25"), 5)

		if _, err := ledgerUC.ApplyMovement(ctx, usecase.MovementInput{
			ProductID: product.ID, Delta: -1, Reason: domain.ReasonSale, Reference: "order-9",
		}); err != nil {
			t.Fatalf("movement failed: %v", err)
		}
		if _, err := ledgerUC.ApplyMovement(ctx, usecase.MovementInput{
			ProductID: product.ID, Delta: 3, Reason: domain.ReasonRestock,
		}); err != nil {
			t.Fatalf("movement failed: %v", err)
		}

		movements, err := ledgerUC.ListMovements(ctx, product.ID, domain.MovementFilter{Limit: 10})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(movements) != 3 {
			t.Fatalf("expected 3 movements (initial + 2), got %d", len(movements))
		}
		if movements[0].Reason != domain.ReasonRestock {
			t.Fatalf("expected newest movement first, got %s", movements[0].Reason)
		}

		byRef, err := ledgerUC.ListMovements(ctx, product.ID, domain.MovementFilter{Reference: "order-9", Limit: 10})
		if err != nil {
			t.Fatalf("filtered list failed: %v", err)
		}
		if len(byRef) != 1 || byRef[0].Delta != -1 {
			t.Fatalf("expected single sale movement for order-9, got %+v", byRef)
		}
	})
}

func TestReconciliationDetectsDrift(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	stockRepo := postgres.NewStockRepository(testDB.Pool)
	movementRepo := postgres.NewMovementRepository(testDB.Pool)
	reconUC := usecase.NewReconciliationUseCase(stockRepo, movementRepo)

	product := testDB.CreateTestProduct(ctx, "Brake Pad", decimal.RequireFromString("45.50"), 10)

	result, err := reconUC.ReconcileProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if !result.IsReconciled {
		t.Fatalf("expected clean product to reconcile, got %+v", result)
	}

	// Corrupt the record behind the ledger's back.
	if _, err := testDB.Pool.Exec(ctx,
		`UPDATE stock_records SET quantity = quantity + 2 WHERE product_id = $1`, product.ID,
	); err != nil {
		t.Fatalf("failed to corrupt stock record: %v", err)
	}

	result, err = reconUC.ReconcileProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if result.IsReconciled {
		t.Fatal("expected drift to be detected")
	}
	if result.Difference != 2 {
		t.Fatalf("expected difference 2, got %d", result.Difference)
	}
}
