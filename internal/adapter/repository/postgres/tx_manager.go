package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/truckparts/backend/internal/usecase"
)

// txBeginner is satisfied by *pgxpool.Pool and by pgxmock in tests.
type txBeginner interface {
	Begin(context.Context) (pgx.Tx, error)
}

// TxManager hands out the transactions every guarded stock mutation runs
// inside. Repositories receive the resulting usecase.Transaction and unwrap
// it via txQuerier.
type TxManager struct {
	pool txBeginner
}

func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return newTxManagerWithPool(pool)
}

func newTxManagerWithPool(pool txBeginner) *TxManager {
	return &TxManager{pool: pool}
}

// Begin opens a transaction at the pool's default isolation level. Row
// locks taken with FOR UPDATE provide the serialization the ledger needs,
// so no elevated isolation is requested.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	pgtx, err := m.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}

	return &Tx{inner: pgtx}, nil
}

// Tx adapts pgx.Tx to usecase.Transaction.
type Tx struct {
	inner pgx.Tx
}

func (t *Tx) Commit(ctx context.Context) error {
	return t.inner.Commit(ctx)
}

func (t *Tx) Rollback(ctx context.Context) error {
	return t.inner.Rollback(ctx)
}

// PgxTx exposes the wrapped transaction to the repositories in this package.
func (t *Tx) PgxTx() pgx.Tx {
	return t.inner
}
