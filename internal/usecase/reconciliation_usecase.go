package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/truckparts/backend/internal/domain"
)

// ReconciliationUseCase verifies the ledger invariant: a product's current
// quantity must equal the sum of all its movement deltas. Atomic
// application makes this hold by construction; reconciliation is the
// independent check that it actually does.
type ReconciliationUseCase struct {
	stockRepo    StockRepository
	movementRepo MovementRepository
}

// NewReconciliationUseCase creates a new ReconciliationUseCase.
func NewReconciliationUseCase(stockRepo StockRepository, movementRepo MovementRepository) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
	}
}

// ReconciliationResult represents the result of a reconciliation check.
type ReconciliationResult struct {
	ProductID        string
	RecordedQuantity int64
	MovementSum      int64
	Difference       int64
	IsReconciled     bool
	LastChecked      time.Time
}

// ReconcileProduct checks one product's stock record against its movement log.
func (uc *ReconciliationUseCase) ReconcileProduct(ctx context.Context, productID string) (*ReconciliationResult, error) {
	record, err := uc.stockRepo.GetByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}

	sum, err := uc.movementRepo.SumDeltas(ctx, productID)
	if err != nil {
		return nil, err
	}

	return &ReconciliationResult{
		ProductID:        productID,
		RecordedQuantity: record.Quantity,
		MovementSum:      sum,
		Difference:       record.Quantity - sum,
		IsReconciled:     record.Quantity == sum,
		LastChecked:      time.Now().UTC(),
	}, nil
}

// ReconcileAll checks every stock record.
func (uc *ReconciliationUseCase) ReconcileAll(ctx context.Context) ([]*ReconciliationResult, error) {
	limit, offset := domain.ValidatePagination(10000, 0)

	records, err := uc.stockRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	results := make([]*ReconciliationResult, 0, len(records))
	for _, record := range records {
		result, err := uc.ReconcileProduct(ctx, record.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to reconcile product %s: %w", record.ProductID, err)
		}

		results = append(results, result)
	}

	return results, nil
}
