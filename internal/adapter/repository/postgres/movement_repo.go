package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/truckparts/backend/internal/domain"
	"github.com/truckparts/backend/internal/usecase"
)

// MovementRepository implements usecase.MovementRepository. The table is
// append-only; there are no update or delete methods.
type MovementRepository struct {
	pool *pgxpool.Pool
}

// NewMovementRepository creates a new MovementRepository.
func NewMovementRepository(pool *pgxpool.Pool) *MovementRepository {
	return &MovementRepository{pool: pool}
}

// Create inserts a movement within a transaction.
func (r *MovementRepository) Create(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error {
	_, err := txQuerier(tx).Exec(ctx,
		`INSERT INTO stock_movements (id, product_id, delta, reason, reference, previous_quantity, new_quantity, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		movement.ID, movement.ProductID, movement.Delta, movement.Reason,
		movement.Reference, movement.PreviousQuantity, movement.NewQuantity,
		timeToPgTimestamptz(movement.CreatedAt),
	)

	return err
}

// ListByProduct returns movements for a product, newest first.
func (r *MovementRepository) ListByProduct(ctx context.Context, productID string, filter domain.MovementFilter) ([]*domain.Movement, error) {
	query := `SELECT id, product_id, delta, reason, reference, previous_quantity, new_quantity, created_at
		 FROM stock_movements
		 WHERE product_id = $1`
	args := []any{productID}

	if filter.Reference != "" {
		args = append(args, filter.Reference)
		query += fmt.Sprintf(" AND reference = $%d", len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}

	args = append(args, filter.Limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movements []*domain.Movement
	for rows.Next() {
		var m domain.Movement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Delta, &m.Reason, &m.Reference, &m.PreviousQuantity, &m.NewQuantity, &m.CreatedAt); err != nil {
			return nil, err
		}
		movements = append(movements, &m)
	}

	return movements, rows.Err()
}

// SumDeltas returns the sum of all deltas for a product. Used by
// reconciliation to check the ledger invariant.
func (r *MovementRepository) SumDeltas(ctx context.Context, productID string) (int64, error) {
	var sum int64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(delta), 0)
		 FROM stock_movements
		 WHERE product_id = $1`,
		productID,
	).Scan(&sum)

	return sum, err
}
