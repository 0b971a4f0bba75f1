package usecase

import (
	"context"
	"time"

	"github.com/truckparts/backend/internal/domain"
	"github.com/truckparts/backend/internal/infrastructure/metrics"
)

// CloverSyncUseCase pulls the item catalog from a Clover merchant and
// mirrors it into local products. New items get a product and a stock
// record (quantity zero, stocked later through the ledger); existing items
// get their name and price updated.
type CloverSyncUseCase struct {
	txManager   TransactionManager
	productRepo ProductRepository
	stockRepo   StockRepository
	outboxRepo  OutboxRepository
	catalog     CatalogSource
	idGen       IDGenerator
	metrics     *metrics.Metrics
}

// NewCloverSyncUseCase creates a new CloverSyncUseCase.
func NewCloverSyncUseCase(
	txManager TransactionManager,
	productRepo ProductRepository,
	stockRepo StockRepository,
	outboxRepo OutboxRepository,
	catalog CatalogSource,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *CloverSyncUseCase {
	return &CloverSyncUseCase{
		txManager:   txManager,
		productRepo: productRepo,
		stockRepo:   stockRepo,
		outboxRepo:  outboxRepo,
		catalog:     catalog,
		idGen:       idGen,
		metrics:     metrics,
	}
}

// SyncResult summarizes one catalog sync.
type SyncResult struct {
	MerchantID string
	Created    int
	Updated    int
	Skipped    int
}

// SyncMerchant mirrors one merchant's Clover items into the catalog.
// Hidden and deleted items are skipped.
func (uc *CloverSyncUseCase) SyncMerchant(ctx context.Context, merchantID string) (*SyncResult, error) {
	items, err := uc.catalog.Items(ctx, merchantID)
	if err != nil {
		return nil, err
	}

	result := &SyncResult{MerchantID: merchantID}

	for _, item := range items {
		if item.ExternalID == "" || item.Hidden || item.Deleted {
			result.Skipped++
			continue
		}

		created, err := uc.syncItem(ctx, item)
		if err != nil {
			return nil, err
		}

		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	if uc.metrics != nil {
		uc.metrics.CloverSyncs.Inc()
		uc.metrics.CloverItemsSynced.Add(float64(result.Created + result.Updated))
	}

	return result, nil
}

func (uc *CloverSyncUseCase) syncItem(ctx context.Context, item CatalogItem) (bool, error) {
	existing, err := uc.productRepo.GetByCloverItemID(ctx, item.ExternalID)
	if err == nil {
		existing.Name = item.Name
		existing.Price = item.Price
		existing.UpdatedAt = time.Now().UTC()

		return false, uc.productRepo.Update(ctx, existing)
	}

	if !isNotFound(err) {
		return false, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	now := time.Now().UTC()

	product := &domain.Product{
		ID:           uc.idGen.Generate(),
		Name:         item.Name,
		SKU:          item.SKU,
		Price:        item.Price,
		CloverItemID: item.ExternalID,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.productRepo.Create(txCtx, tx, product); err != nil {
		return false, err
	}

	record := &domain.StockRecord{
		ProductID: product.ID,
		Quantity:  0,
		UpdatedAt: now,
	}

	if err := uc.stockRepo.Create(txCtx, tx, record); err != nil {
		return false, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   product.ID,
		AggregateType: domain.AggregateTypeProduct,
		EventType:     domain.EventTypeProductCreated,
		Payload: map[string]any{
			"product_id":     product.ID,
			"name":           product.Name,
			"clover_item_id": item.ExternalID,
		},
		CreatedAt: now,
		Published: false,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return false, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return false, err
	}

	return true, nil
}
