package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gofinance/internal/domain"
)

// ReconciliationUseCase checks cached account balances against the
// transactions linked to them.
type ReconciliationUseCase struct {
	accountRepo     AccountRepository
	transactionRepo TransactionRepository
	recorder        Recorder
}

// NewReconciliationUseCase creates a new reconciliation use case. recorder may be nil.
func NewReconciliationUseCase(
	accountRepo AccountRepository,
	transactionRepo TransactionRepository,
	recorder Recorder,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		recorder:        recorderOrNop(recorder),
	}
}

// ReconciliationResult represents the result of a reconciliation check
type ReconciliationResult struct {
	AccountID         string
	AccountName       string
	RecordedBalance   decimal.Decimal
	CalculatedBalance decimal.Decimal
	Difference        decimal.Decimal
	IsReconciled      bool
	LastChecked       time.Time
}

// ReconcileAccount compares one of the user's account balances with the
// sum of its linked transactions.
func (uc *ReconciliationUseCase) ReconcileAccount(ctx context.Context, userID, accountID string) (*ReconciliationResult, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != userID {
		return nil, domain.ErrAccountNotFound
	}

	result, err := uc.reconcile(ctx, account)
	if err != nil {
		return nil, err
	}

	discrepancies := 0
	if !result.IsReconciled {
		discrepancies = 1
	}
	uc.recorder.ObserveReconciliation(1, discrepancies)

	return result, nil
}

// ReconciliationReport represents a full reconciliation report
type ReconciliationReport struct {
	TotalAccounts      int
	ReconciledAccounts int
	Results            []*ReconciliationResult
	Discrepancies      []*ReconciliationResult
	CheckedAt          time.Time
}

// IsConsistent reports whether every account reconciled.
func (r *ReconciliationReport) IsConsistent() bool {
	return len(r.Discrepancies) == 0
}

// GenerateReport reconciles every account the user owns.
func (uc *ReconciliationUseCase) GenerateReport(ctx context.Context, userID string) (*ReconciliationReport, error) {
	accounts, err := uc.accountRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	report := &ReconciliationReport{
		TotalAccounts: len(accounts),
		Results:       make([]*ReconciliationResult, 0, len(accounts)),
		Discrepancies: make([]*ReconciliationResult, 0),
		CheckedAt:     time.Now().UTC(),
	}

	for _, account := range accounts {
		result, err := uc.reconcile(ctx, account)
		if err != nil {
			return nil, fmt.Errorf("failed to reconcile account %s: %w", account.ID, err)
		}

		report.Results = append(report.Results, result)
		if result.IsReconciled {
			report.ReconciledAccounts++
		} else {
			report.Discrepancies = append(report.Discrepancies, result)
		}
	}

	uc.recorder.ObserveReconciliation(report.TotalAccounts, len(report.Discrepancies))

	return report, nil
}

func (uc *ReconciliationUseCase) reconcile(ctx context.Context, account *domain.Account) (*ReconciliationResult, error) {
	calculated, err := uc.transactionRepo.SumByAccount(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	diff := account.Balance.Sub(calculated)
	return &ReconciliationResult{
		AccountID:         account.ID,
		AccountName:       account.Name,
		RecordedBalance:   account.Balance,
		CalculatedBalance: calculated,
		Difference:        diff,
		IsReconciled:      diff.IsZero(),
		LastChecked:       time.Now().UTC(),
	}, nil
}
