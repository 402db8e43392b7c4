package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gofinance/internal/domain"
)

// OnboardingUseCase sets up a user's first account and, optionally, a
// first asset position in a single database transaction.
type OnboardingUseCase struct {
	txManager       TransactionManager
	users           *UserUseCase
	userRepo        UserRepository
	accountRepo     AccountRepository
	transactionRepo TransactionRepository
	assetRepo       AssetRepository
	idGen           IDGenerator
}

// NewOnboardingUseCase creates a new OnboardingUseCase.
func NewOnboardingUseCase(
	txManager TransactionManager,
	users *UserUseCase,
	userRepo UserRepository,
	accountRepo AccountRepository,
	transactionRepo TransactionRepository,
	assetRepo AssetRepository,
	idGen IDGenerator,
) *OnboardingUseCase {
	return &OnboardingUseCase{
		txManager:       txManager,
		users:           users,
		userRepo:        userRepo,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		assetRepo:       assetRepo,
		idGen:           idGen,
	}
}

// OnboardingAssetInput describes an initial stock position.
type OnboardingAssetInput struct {
	Ticker   string
	Quantity decimal.Decimal
	Price    decimal.Decimal
}

// OnboardingInput represents the onboarding form. UserID is empty for
// visitors without a session, who must then supply Register.
type OnboardingInput struct {
	UserID         string
	Register       *RegisterInput
	AccountName    string
	AccountType    domain.AccountType
	InitialBalance decimal.Decimal
	Asset          *OnboardingAssetInput
}

// OnboardingResult holds everything onboarding created. User is set only
// when the visitor was registered inline.
type OnboardingResult struct {
	User        *domain.User
	Account     *domain.Account
	Transaction *domain.Transaction
	Asset       *domain.Asset
	Order       *domain.Order
}

// Onboard creates the account, its initial balance transaction and the
// optional asset position atomically.
func (uc *OnboardingUseCase) Onboard(ctx context.Context, input OnboardingInput) (*OnboardingResult, error) {
	if err := domain.ValidateAmount(input.InitialBalance); err != nil {
		return nil, err
	}

	result := &OnboardingResult{}
	userID := input.UserID

	if userID == "" {
		if input.Register == nil {
			return nil, domain.ErrUnauthorized
		}
		user, err := uc.users.newUser(*input.Register)
		if err != nil {
			return nil, err
		}
		result.User = user
		userID = user.ID
	}

	account, err := newAccount(uc.idGen, userID, input.AccountName, input.AccountType, input.InitialBalance)
	if err != nil {
		return nil, err
	}
	result.Account = account

	now := time.Now().UTC()
	result.Transaction = &domain.Transaction{
		ID:          uc.idGen.Generate(),
		UserID:      userID,
		AccountID:   &account.ID,
		Description: InitialBalanceDescription,
		Amount:      input.InitialBalance,
		Type:        domain.TransactionTypeIncome,
		Category:    domain.CategoryAdjustment,
		Date:        now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var ticker string
	if input.Asset != nil {
		ticker, err = domain.NormalizeTicker(input.Asset.Ticker)
		if err != nil {
			return nil, err
		}
		result.Order = &domain.Order{
			ID:        uc.idGen.Generate(),
			Type:      domain.OrderTypeBuy,
			Quantity:  input.Asset.Quantity,
			Price:     input.Asset.Price,
			Date:      now,
			CreatedAt: now,
		}
		if err := result.Order.Validate(); err != nil {
			return nil, err
		}
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if result.User != nil {
		if err := uc.userRepo.Create(ctx, tx, result.User); err != nil {
			return nil, err
		}
	}

	// The account is created with its initial balance already set, so the
	// seed transaction is inserted without touching the balance again.
	if err := uc.accountRepo.CreateTx(ctx, tx, account); err != nil {
		return nil, err
	}

	if err := uc.transactionRepo.Create(ctx, tx, result.Transaction); err != nil {
		return nil, err
	}

	if result.Order != nil {
		asset, err := uc.assetRepo.GetByTicker(ctx, tx, userID, ticker)
		if errors.Is(err, domain.ErrAssetNotFound) {
			asset = &domain.Asset{
				ID:        uc.idGen.Generate(),
				UserID:    userID,
				Ticker:    ticker,
				Type:      domain.AssetTypeStock,
				CreatedAt: now,
			}
			err = uc.assetRepo.Create(ctx, tx, asset)
		}
		if err != nil {
			return nil, err
		}

		result.Order.AssetID = asset.ID
		if err := uc.assetRepo.CreateOrder(ctx, tx, result.Order); err != nil {
			return nil, err
		}
		asset.Orders = append(asset.Orders, result.Order)
		result.Asset = asset
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if result.User != nil {
		result.User = withoutPassword(result.User)
	}

	return result, nil
}
