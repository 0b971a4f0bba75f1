package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/truckparts/backend/internal/domain"
	"github.com/truckparts/backend/internal/infrastructure/metrics"
)

// StockLedgerUseCase is the single authorized path for changing stock
// quantities. Every change goes through a row lock on the stock record and
// writes exactly one movement entry in the same transaction, so the
// quantity can never go negative and the movement log always sums to the
// current quantity.
type StockLedgerUseCase struct {
	txManager    TransactionManager
	productRepo  ProductRepository
	stockRepo    StockRepository
	movementRepo MovementRepository
	outboxRepo   OutboxRepository
	idGen        IDGenerator
	retrier      Retrier
	metrics      *metrics.Metrics
}

// NewStockLedgerUseCase creates a new StockLedgerUseCase.
func NewStockLedgerUseCase(
	txManager TransactionManager,
	productRepo ProductRepository,
	stockRepo StockRepository,
	movementRepo MovementRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	retrier Retrier,
	metrics *metrics.Metrics,
) *StockLedgerUseCase {
	return &StockLedgerUseCase{
		txManager:    txManager,
		productRepo:  productRepo,
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
		outboxRepo:   outboxRepo,
		idGen:        idGen,
		retrier:      retrier,
		metrics:      metrics,
	}
}

// MovementInput describes one proposed stock change.
type MovementInput struct {
	ProductID string
	Delta     int64
	Reason    string
	Reference string
}

// ApplyMovement applies a single signed change to a product's stock.
// Returns the new quantity. Fails with domain.ErrInsufficientStock if the
// change would drive the quantity below zero; in that case nothing is
// persisted.
func (uc *StockLedgerUseCase) ApplyMovement(ctx context.Context, input MovementInput) (int64, error) {
	movements, err := uc.ApplyMovements(ctx, []MovementInput{input})
	if err != nil {
		return 0, err
	}

	return movements[0].NewQuantity, nil
}

// ApplyMovements applies changes to multiple products atomically: either
// every movement persists or none does. Stock rows are locked in sorted
// product-ID order to prevent deadlocks between concurrent batches.
func (uc *StockLedgerUseCase) ApplyMovements(ctx context.Context, inputs []MovementInput) ([]*domain.Movement, error) {
	start := time.Now()

	// Validate before any lock is acquired
	for _, in := range inputs {
		if err := domain.ValidateMovement(in.Delta, in.Reason, in.Reference); err != nil {
			return nil, err
		}
	}

	if len(inputs) == 0 {
		return nil, nil
	}

	var movements []*domain.Movement

	apply := func() error {
		var err error
		movements, err = uc.applyMovementsTx(ctx, inputs)

		return err
	}

	var err error
	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, apply)
	} else {
		err = apply()
	}

	if err != nil {
		if uc.metrics != nil {
			uc.metrics.MovementsRejected.WithLabelValues(rejectionLabel(err)).Inc()
		}

		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.MovementsApplied.Add(float64(len(movements)))
		uc.metrics.MovementDuration.Observe(time.Since(start).Seconds())
	}

	return movements, nil
}

func (uc *StockLedgerUseCase) applyMovementsTx(ctx context.Context, inputs []MovementInput) ([]*domain.Movement, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	// Collect and sort unique product IDs (DEADLOCK PREVENTION)
	productIDs := collectUniqueProductIDs(inputs)
	sort.Strings(productIDs)

	records, err := uc.stockRepo.GetByProductIDsForUpdate(txCtx, tx, productIDs)
	if err != nil {
		return nil, err
	}

	if len(records) != len(productIDs) {
		return nil, domain.ErrStockNotFound
	}

	recordMap := make(map[string]*domain.StockRecord, len(records))
	for _, r := range records {
		recordMap[r.ProductID] = r
	}

	products, err := uc.productRepo.GetByIDs(txCtx, productIDs)
	if err != nil {
		return nil, err
	}

	nameByID := make(map[string]string, len(products))
	for _, p := range products {
		nameByID[p.ID] = p.Name
	}

	now := time.Now().UTC()

	movements := make([]*domain.Movement, 0, len(inputs))
	for _, in := range inputs {
		record := recordMap[in.ProductID]
		if record == nil {
			return nil, domain.ErrStockNotFound
		}

		if err := record.ValidateChange(in.Delta, nameByID[in.ProductID]); err != nil {
			return nil, err
		}

		newQuantity := record.Apply(in.Delta)

		movement := &domain.Movement{
			ID:               uc.idGen.Generate(),
			ProductID:        in.ProductID,
			Delta:            in.Delta,
			Reason:           in.Reason,
			Reference:        in.Reference,
			PreviousQuantity: record.Quantity,
			NewQuantity:      newQuantity,
			CreatedAt:        now,
		}

		if err := uc.movementRepo.Create(txCtx, tx, movement); err != nil {
			return nil, err
		}

		if err := uc.stockRepo.UpdateQuantity(txCtx, tx, in.ProductID, newQuantity, now); err != nil {
			return nil, err
		}

		// Later inputs in the same batch see the updated quantity
		record.Quantity = newQuantity

		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   in.ProductID,
			AggregateType: domain.AggregateTypeStock,
			EventType:     domain.EventTypeStockAdjusted,
			Payload: map[string]any{
				"product_id":   in.ProductID,
				"delta":        in.Delta,
				"new_quantity": newQuantity,
				"reason":       in.Reason,
				"reference":    in.Reference,
			},
			CreatedAt: now,
			Published: false,
		}
		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return nil, err
		}

		movements = append(movements, movement)
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return movements, nil
}

// GetQuantity returns the current on-hand quantity without locking.
func (uc *StockLedgerUseCase) GetQuantity(ctx context.Context, productID string) (int64, error) {
	record, err := uc.stockRepo.GetByProductID(ctx, productID)
	if err != nil {
		return 0, err
	}

	return record.Quantity, nil
}

// ListMovements returns the movement log for a product, newest first.
// Movements are immutable, so no lock is taken: a stale read can only miss
// the very latest entries, never observe an inconsistent one.
func (uc *StockLedgerUseCase) ListMovements(ctx context.Context, productID string, filter domain.MovementFilter) ([]*domain.Movement, error) {
	filter.Limit, filter.Offset = domain.ValidatePagination(filter.Limit, filter.Offset)

	if _, err := uc.stockRepo.GetByProductID(ctx, productID); err != nil {
		return nil, err
	}

	return uc.movementRepo.ListByProduct(ctx, productID, filter)
}

func collectUniqueProductIDs(inputs []MovementInput) []string {
	seen := make(map[string]bool)

	var ids []string
	for _, in := range inputs {
		if !seen[in.ProductID] {
			seen[in.ProductID] = true
			ids = append(ids, in.ProductID)
		}
	}

	return ids
}

func rejectionLabel(err error) string {
	switch {
	case isInsufficientStock(err):
		return "insufficient_stock"
	case isNotFound(err):
		return "not_found"
	default:
		return "error"
	}
}
