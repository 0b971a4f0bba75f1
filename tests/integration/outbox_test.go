package integration

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/truckparts/backend/internal/adapter/repository/postgres"
	"github.com/truckparts/backend/internal/domain"
	"github.com/truckparts/backend/internal/usecase"
	"github.com/truckparts/backend/tests/testutil"
)

func TestOutboxEventsWrittenWithMovements(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	pool := testDB.Pool
	outboxRepo := postgres.NewOutboxRepository(pool)
	ledgerUC := usecase.NewStockLedgerUseCase(
		postgres.NewTxManager(pool),
		postgres.NewProductRepository(pool),
		postgres.NewStockRepository(pool),
		postgres.NewMovementRepository(pool),
		outboxRepo,
		postgres.NewULIDGenerator(),
		postgres.NewRetrier(),
		nil,
	)

	product := testDB.CreateTestProduct(ctx, "Brake Pad", decimal.RequireFromString("45.50"), 10)

	if _, err := ledgerUC.ApplyMovement(ctx, usecase.MovementInput{
		ProductID: product.ID,
		Delta:     -2,
		Reason:    domain.ReasonSale,
		Reference: "order-1",
	}); err != nil {
		t.Fatalf("movement failed: %v", err)
	}

	events, err := outboxRepo.GetUnpublished(ctx, 10)
	if err != nil {
		t.Fatalf("failed to read outbox: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 outbox event, got %d", len(events))
	}

	event := events[0]
	if event.EventType != domain.EventTypeStockAdjusted {
		t.Fatalf("expected %s event, got %s", domain.EventTypeStockAdjusted, event.EventType)
	}
	if event.AggregateID != product.ID {
		t.Fatalf("expected aggregate %s, got %s", product.ID, event.AggregateID)
	}

	// Mark published and verify it leaves the pending set.
	if err := outboxRepo.MarkPublished(ctx, event.ID, time.Now().UTC()); err != nil {
		t.Fatalf("failed to mark published: %v", err)
	}

	pending, err := outboxRepo.GetUnpublished(ctx, 10)
	if err != nil {
		t.Fatalf("failed to re-read outbox: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending events, got %d", len(pending))
	}

	// Published events older than the cutoff can be pruned.
	if err := outboxRepo.DeletePublished(ctx, time.Now().UTC().Add(time.Minute)); err != nil {
		t.Fatalf("failed to prune outbox: %v", err)
	}

	var remaining int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM outbox_events`).Scan(&remaining); err != nil {
		t.Fatalf("failed to count events: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("expected pruned outbox, got %d rows", remaining)
	}
}
