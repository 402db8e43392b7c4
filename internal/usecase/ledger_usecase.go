package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gofinance/internal/domain"
)

// LedgerUseCase applies, revises and retracts income and expense
// transactions while keeping linked account balances reconciled.
type LedgerUseCase struct {
	txManager       TransactionManager
	accountRepo     AccountRepository
	transactionRepo TransactionRepository
	retrier         Retrier
	idGen           IDGenerator
	recorder        Recorder
}

// NewLedgerUseCase creates a new LedgerUseCase. retrier and recorder may be nil.
func NewLedgerUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	transactionRepo TransactionRepository,
	retrier Retrier,
	idGen IDGenerator,
	recorder Recorder,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:       txManager,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		retrier:         retrier,
		idGen:           idGen,
		recorder:        recorderOrNop(recorder),
	}
}

// ApplyTransactionInput represents input for recording a transaction.
type ApplyTransactionInput struct {
	UserID      string
	AccountID   *string
	Type        domain.TransactionType
	Amount      decimal.Decimal
	Description string
	Category    string
	Date        time.Time
}

// ApplyTransaction records a transaction and, when it is linked to an
// account, adds its signed effect to the account balance in the same
// database transaction.
func (uc *LedgerUseCase) ApplyTransaction(ctx context.Context, input ApplyTransactionInput) (*domain.Transaction, error) {
	now := time.Now().UTC()

	t := &domain.Transaction{
		ID:          uc.idGen.Generate(),
		UserID:      input.UserID,
		AccountID:   normalizeAccountID(input.AccountID),
		Description: input.Description,
		Amount:      input.Amount,
		Type:        input.Type,
		Category:    categoryOrDefault(input.Category),
		Date:        dateOrNow(input.Date, now),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// Reject bad input before anything is written.
	if err := t.Validate(); err != nil {
		return nil, err
	}

	err := uc.run(ctx, OpApply, func(ctx context.Context) error {
		return uc.apply(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	return t, nil
}

func (uc *LedgerUseCase) apply(ctx context.Context, t *domain.Transaction) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var account *domain.Account
	if t.IsLinked() {
		account, err = uc.lockOwnedAccount(ctx, tx, t.UserID, *t.AccountID)
		if err != nil {
			return err
		}
	}

	if err := uc.transactionRepo.Create(ctx, tx, t); err != nil {
		return err
	}

	if account != nil {
		balance := account.ApplyTransaction(t.Type, t.Amount)
		if err := uc.accountRepo.UpdateBalance(ctx, tx, account.ID, balance, t.CreatedAt); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// ReviseTransactionInput represents input for editing a transaction.
// The account link of a transaction cannot be changed.
type ReviseTransactionInput struct {
	UserID      string
	ID          string
	Type        domain.TransactionType
	Amount      decimal.Decimal
	Description string
	Category    string
	Date        time.Time
}

// ReviseTransaction replaces a transaction's fields. The linked account,
// if any, has the old effect reverted and the new effect applied.
func (uc *LedgerUseCase) ReviseTransaction(ctx context.Context, input ReviseTransactionInput) (*domain.Transaction, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}
	if !input.Type.IsValid() {
		return nil, domain.ErrInvalidTransactionType
	}
	if err := domain.ValidateDescription(input.Description); err != nil {
		return nil, err
	}

	var revised *domain.Transaction
	err := uc.run(ctx, OpRevise, func(ctx context.Context) error {
		var err error
		revised, err = uc.revise(ctx, input)
		return err
	})
	if err != nil {
		return nil, err
	}

	return revised, nil
}

func (uc *LedgerUseCase) revise(ctx context.Context, input ReviseTransactionInput) (*domain.Transaction, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	existing, err := uc.lockOwnedTransaction(ctx, tx, input.UserID, input.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	revised := *existing
	revised.Type = input.Type
	revised.Amount = input.Amount
	revised.Description = input.Description
	revised.Category = categoryOrDefault(input.Category)
	revised.Date = dateOrNow(input.Date, existing.Date)
	revised.UpdatedAt = now

	if err := uc.transactionRepo.Update(ctx, tx, &revised); err != nil {
		return nil, err
	}

	if existing.IsLinked() {
		account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, *existing.AccountID)
		if err != nil {
			return nil, err
		}

		balance := account.ReviseTransaction(existing.Type, existing.Amount, revised.Type, revised.Amount)
		if err := uc.accountRepo.UpdateBalance(ctx, tx, account.ID, balance, now); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &revised, nil
}

// RetractTransaction deletes a transaction and reverts its effect on the
// linked account, if any.
func (uc *LedgerUseCase) RetractTransaction(ctx context.Context, userID, id string) error {
	return uc.run(ctx, OpRetract, func(ctx context.Context) error {
		return uc.retract(ctx, userID, id)
	})
}

func (uc *LedgerUseCase) retract(ctx context.Context, userID, id string) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	existing, err := uc.lockOwnedTransaction(ctx, tx, userID, id)
	if err != nil {
		return err
	}

	if existing.IsLinked() {
		account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, *existing.AccountID)
		if err != nil {
			return err
		}

		balance := account.RevertTransaction(existing.Type, existing.Amount)
		if err := uc.accountRepo.UpdateBalance(ctx, tx, account.ID, balance, time.Now().UTC()); err != nil {
			return err
		}
	}

	if err := uc.transactionRepo.Delete(ctx, tx, existing.ID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetTransaction returns one of the user's transactions.
func (uc *LedgerUseCase) GetTransaction(ctx context.Context, userID, id string) (*domain.Transaction, error) {
	t, err := uc.transactionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.UserID != userID {
		return nil, domain.ErrTransactionNotFound
	}
	return t, nil
}

// ListTransactionsInput represents input for listing transactions.
// A nil Period lists everything.
type ListTransactionsInput struct {
	UserID string
	Period *domain.Period
}

// ListTransactions lists the user's transactions, newest first.
func (uc *LedgerUseCase) ListTransactions(ctx context.Context, input ListTransactionsInput) ([]*domain.Transaction, error) {
	var filter domain.TransactionFilter
	if input.Period != nil {
		filter = input.Period.Filter()
	}

	txs, err := uc.transactionRepo.ListByUser(ctx, input.UserID, filter)
	if err != nil {
		return nil, err
	}

	domain.SortNewestFirst(txs)
	return txs, nil
}

// run executes one atomic unit, retrying transient failures and recording the outcome.
func (uc *LedgerUseCase) run(ctx context.Context, operation string, unit func(ctx context.Context) error) error {
	start := time.Now()

	var err error
	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, func() error { return unit(ctx) })
	} else {
		err = unit(ctx)
	}

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	uc.recorder.ObserveLedgerOperation(operation, outcome, time.Since(start))

	return err
}

func (uc *LedgerUseCase) lockOwnedAccount(ctx context.Context, tx Transaction, userID, accountID string) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != userID {
		return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, accountID)
	}
	return account, nil
}

func (uc *LedgerUseCase) lockOwnedTransaction(ctx context.Context, tx Transaction, userID, id string) (*domain.Transaction, error) {
	t, err := uc.transactionRepo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if t.UserID != userID {
		return nil, domain.ErrTransactionNotFound
	}
	return t, nil
}

func normalizeAccountID(id *string) *string {
	if id == nil || *id == "" {
		return nil
	}
	v := *id
	return &v
}

func categoryOrDefault(category string) string {
	if category == "" {
		return domain.CategoryGeneral
	}
	return category
}

func dateOrNow(date, fallback time.Time) time.Time {
	if date.IsZero() {
		return fallback
	}
	return date.UTC()
}
