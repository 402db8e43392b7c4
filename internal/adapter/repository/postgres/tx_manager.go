package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gofinance/internal/usecase"
)

// beginner is the slice of *pgxpool.Pool the ledger needs to open a unit of work.
type beginner interface {
	Begin(context.Context) (pgx.Tx, error)
}

// TxManager opens database transactions for the use cases. Balance updates,
// transaction rows and onboarding writes all run inside one of these so the
// FOR UPDATE locks taken by the repositories hold until Commit or Rollback.
type TxManager struct {
	db beginner
}

func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return newTxManagerWithPool(pool)
}

func newTxManagerWithPool(db beginner) *TxManager {
	return &TxManager{db: db}
}

// Begin opens a unit of work. Repositories reach the connection through txDB.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	pgxTx, err := m.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: pgxTx}, nil
}

// Tx is the usecase.Transaction handed out by TxManager.
type Tx struct {
	tx pgx.Tx
}

func (t *Tx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback is safe to defer after Commit; pgx turns it into a no-op.
func (t *Tx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// PgxTx exposes the connection the row locks live on.
func (t *Tx) PgxTx() pgx.Tx {
	return t.tx
}
