package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"

	"github.com/iho/gofinance/internal/domain"
)

var accountCols = []string{"id", "user_id", "name", "type", "balance", "created_at", "updated_at"}

func TestAccountRepositoryGetByID(t *testing.T) {
	pool := newMockPool(t)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	pool.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE id = $1")).
		WithArgs("acc-1").
		WillReturnRows(pgxmock.NewRows(accountCols).
			AddRow("acc-1", "user-1", "Wallet", "CHECKING", decimal.NewFromInt(1500), now, now))

	account, err := NewAccountRepository(pool).GetByID(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.Type != domain.AccountTypeChecking {
		t.Errorf("expected CHECKING, got %s", account.Type)
	}
	if !account.Balance.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("expected balance 1500, got %s", account.Balance)
	}

	assertExpectations(t, pool)
}

func TestAccountRepositoryGetByIDNotFound(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := NewAccountRepository(pool).GetByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountRepositoryLockAndUpdateBalance(t *testing.T) {
	pool := newMockPool(t)
	now := time.Now().UTC()
	tx := beginMockTx(t, pool)

	pool.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs("acc-1").
		WillReturnRows(pgxmock.NewRows(accountCols).
			AddRow("acc-1", "user-1", "Wallet", "SAVINGS", decimal.NewFromInt(10), now, now))
	pool.ExpectExec(regexp.QuoteMeta("UPDATE accounts SET balance")).
		WithArgs("acc-1", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	pool.ExpectCommit()

	repo := NewAccountRepository(pool)
	account, err := repo.GetByIDForUpdate(context.Background(), tx, "acc-1")
	if err != nil {
		t.Fatalf("lock failed: %v", err)
	}
	if err := repo.UpdateBalance(context.Background(), tx, account.ID, account.Balance.Add(decimal.NewFromInt(5)), now); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if err := tx.Commit(context.Background()); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	assertExpectations(t, pool)
}

func TestAccountRepositoryUpdateBalanceMissingRow(t *testing.T) {
	pool := newMockPool(t)
	tx := beginMockTx(t, pool)

	pool.ExpectExec(regexp.QuoteMeta("UPDATE accounts SET balance")).
		WithArgs("gone", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := NewAccountRepository(pool).UpdateBalance(context.Background(), tx, "gone", decimal.Zero, time.Now())
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountRepositoryListByUser(t *testing.T) {
	pool := newMockPool(t)
	now := time.Now().UTC()

	pool.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE user_id = $1")).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows(accountCols).
			AddRow("a1", "user-1", "Wallet", "CHECKING", decimal.NewFromInt(1), now, now).
			AddRow("a2", "user-1", "Savings", "SAVINGS", decimal.NewFromInt(2), now, now))

	accounts, err := NewAccountRepository(pool).ListByUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accounts) != 2 || accounts[1].Name != "Savings" {
		t.Fatalf("unexpected accounts: %+v", accounts)
	}

	assertExpectations(t, pool)
}

func TestAccountRepositoryCreate(t *testing.T) {
	pool := newMockPool(t)
	now := time.Now().UTC()

	pool.ExpectExec(regexp.QuoteMeta("INSERT INTO accounts")).
		WithArgs("acc-1", "user-1", "Wallet", "CHECKING", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := NewAccountRepository(pool).Create(context.Background(), &domain.Account{
		ID: "acc-1", UserID: "user-1", Name: "Wallet", Type: domain.AccountTypeChecking,
		Balance: decimal.Zero, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertExpectations(t, pool)
}
