package postgres

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v3"

	"github.com/iho/gofinance/internal/usecase"
)

func beginMockTx(t *testing.T, pool pgxmock.PgxPoolIface) usecase.Transaction {
	t.Helper()
	pool.ExpectBegin()
	tx, err := newTxManagerWithPool(pool).Begin(context.Background())
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	return tx
}

func strPtr(s string) *string { return &s }
