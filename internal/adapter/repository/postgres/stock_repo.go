package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/truckparts/backend/internal/domain"
	"github.com/truckparts/backend/internal/usecase"
)

// StockRepository implements usecase.StockRepository.
type StockRepository struct {
	pool *pgxpool.Pool
}

// NewStockRepository creates a new StockRepository.
func NewStockRepository(pool *pgxpool.Pool) *StockRepository {
	return &StockRepository{pool: pool}
}

// Create inserts a stock record within a transaction.
func (r *StockRepository) Create(ctx context.Context, tx usecase.Transaction, record *domain.StockRecord) error {
	_, err := txQuerier(tx).Exec(ctx,
		`INSERT INTO stock_records (product_id, quantity, updated_at)
		 VALUES ($1, $2, $3)`,
		record.ProductID, record.Quantity, timeToPgTimestamptz(record.UpdatedAt),
	)

	return err
}

// GetByProductID retrieves a stock record without locking.
func (r *StockRepository) GetByProductID(ctx context.Context, productID string) (*domain.StockRecord, error) {
	return scanStockRecord(r.pool.QueryRow(ctx,
		`SELECT product_id, quantity, updated_at
		 FROM stock_records
		 WHERE product_id = $1`,
		productID,
	))
}

// GetByProductIDForUpdate retrieves a stock record with a FOR UPDATE lock.
func (r *StockRepository) GetByProductIDForUpdate(ctx context.Context, tx usecase.Transaction, productID string) (*domain.StockRecord, error) {
	return scanStockRecord(txQuerier(tx).QueryRow(ctx,
		`SELECT product_id, quantity, updated_at
		 FROM stock_records
		 WHERE product_id = $1
		 FOR UPDATE`,
		productID,
	))
}

// GetByProductIDsForUpdate retrieves multiple stock records with FOR UPDATE
// locks. Callers pass product IDs in sorted order; the ORDER BY makes the
// lock acquisition order deterministic regardless of plan.
func (r *StockRepository) GetByProductIDsForUpdate(ctx context.Context, tx usecase.Transaction, productIDs []string) ([]*domain.StockRecord, error) {
	rows, err := txQuerier(tx).Query(ctx,
		`SELECT product_id, quantity, updated_at
		 FROM stock_records
		 WHERE product_id = ANY($1)
		 ORDER BY product_id
		 FOR UPDATE`,
		productIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.StockRecord
	for rows.Next() {
		var record domain.StockRecord
		if err := rows.Scan(&record.ProductID, &record.Quantity, &record.UpdatedAt); err != nil {
			return nil, err
		}
		records = append(records, &record)
	}

	return records, rows.Err()
}

// UpdateQuantity sets the quantity of a locked stock record.
func (r *StockRepository) UpdateQuantity(ctx context.Context, tx usecase.Transaction, productID string, quantity int64, updatedAt time.Time) error {
	tag, err := txQuerier(tx).Exec(ctx,
		`UPDATE stock_records
		 SET quantity = $2, updated_at = $3
		 WHERE product_id = $1`,
		productID, quantity, timeToPgTimestamptz(updatedAt),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrStockNotFound
	}

	return nil
}

// List returns stock records ordered by product ID.
func (r *StockRepository) List(ctx context.Context, limit, offset int) ([]*domain.StockRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT product_id, quantity, updated_at
		 FROM stock_records
		 ORDER BY product_id
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.StockRecord
	for rows.Next() {
		var record domain.StockRecord
		if err := rows.Scan(&record.ProductID, &record.Quantity, &record.UpdatedAt); err != nil {
			return nil, err
		}
		records = append(records, &record)
	}

	return records, rows.Err()
}

func scanStockRecord(row pgx.Row) (*domain.StockRecord, error) {
	var record domain.StockRecord
	if err := row.Scan(&record.ProductID, &record.Quantity, &record.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrStockNotFound
		}

		return nil, err
	}

	return &record, nil
}
