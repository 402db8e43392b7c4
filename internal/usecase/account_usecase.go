package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gofinance/internal/domain"
)

// AccountUseCase handles account business logic.
type AccountUseCase struct {
	accountRepo AccountRepository
	idGen       IDGenerator
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository, idGen IDGenerator) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
		idGen:       idGen,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	UserID string
	Name   string
	Type   domain.AccountType
}

// CreateAccount creates a new account with a zero balance.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	account, err := newAccount(uc.idGen, input.UserID, input.Name, input.Type, decimal.Zero)
	if err != nil {
		return nil, err
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccount retrieves one of the user's accounts.
func (uc *AccountUseCase) GetAccount(ctx context.Context, userID, id string) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account.UserID != userID {
		return nil, domain.ErrAccountNotFound
	}
	return account, nil
}

// ListAccounts lists the user's accounts.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, userID string) ([]*domain.Account, error) {
	return uc.accountRepo.ListByUser(ctx, userID)
}

func newAccount(idGen IDGenerator, userID, name string, accountType domain.AccountType, balance decimal.Decimal) (*domain.Account, error) {
	if accountType == "" {
		accountType = domain.AccountTypeChecking
	}
	if !accountType.IsValid() {
		return nil, domain.ErrInvalidAccountType
	}
	if err := domain.ValidateName(name); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &domain.Account{
		ID:        idGen.Generate(),
		UserID:    userID,
		Name:      name,
		Type:      accountType,
		Balance:   balance,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
