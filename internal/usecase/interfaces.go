package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gofinance/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	CreateTx(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	ListByUser(ctx context.Context, userID string) ([]*domain.Account, error)
}

// TransactionRepository defines data access for income and expense transactions.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, t *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Transaction, error)
	Update(ctx context.Context, tx Transaction, t *domain.Transaction) error
	Delete(ctx context.Context, tx Transaction, id string) error
	// ListByUser returns every transaction owned by the user, linked or not.
	ListByUser(ctx context.Context, userID string, filter domain.TransactionFilter) ([]*domain.Transaction, error)
	// ListByAccountOwner returns transactions linked to any account the user owns.
	ListByAccountOwner(ctx context.Context, userID string, filter domain.TransactionFilter) ([]*domain.Transaction, error)
	// SumByAccount returns the sum of the signed amounts linked to an account.
	SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error)
}

// UserRepository defines data access for users.
type UserRepository interface {
	// Create returns domain.ErrEmailTaken when the email is already registered.
	Create(ctx context.Context, tx Transaction, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// GoalRepository defines data access for savings goals.
type GoalRepository interface {
	Create(ctx context.Context, goal *domain.Goal) error
	GetByID(ctx context.Context, id string) (*domain.Goal, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Goal, error)
	// AddToCurrentAmount increments the goal's current amount in place.
	// It reports false when no goal with that id belongs to the user.
	AddToCurrentAmount(ctx context.Context, userID, goalID string, amount decimal.Decimal, updatedAt time.Time) (bool, error)
}

// CreditCardRepository defines data access for credit cards.
type CreditCardRepository interface {
	Create(ctx context.Context, card *domain.CreditCard) error
	ListByUser(ctx context.Context, userID string) ([]*domain.CreditCard, error)
}

// AssetRepository defines data access for assets and their orders.
type AssetRepository interface {
	Create(ctx context.Context, tx Transaction, asset *domain.Asset) error
	CreateOrder(ctx context.Context, tx Transaction, order *domain.Order) error
	// GetByID loads an asset with its orders.
	GetByID(ctx context.Context, id string) (*domain.Asset, error)
	// GetByTicker returns domain.ErrAssetNotFound when the user holds no such ticker.
	GetByTicker(ctx context.Context, tx Transaction, userID, ticker string) (*domain.Asset, error)
	// ListByUser loads the user's assets with their orders.
	ListByUser(ctx context.Context, userID string) ([]*domain.Asset, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// ErrCacheMiss is returned by Cache.Get for absent keys.
var ErrCacheMiss = errors.New("cache miss")

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request did not succeed so it can be retried.
	Release(ctx context.Context, key string) error
}

// ErrQuoteUnavailable is returned when the quote service has no price for a ticker.
var ErrQuoteUnavailable = errors.New("quote unavailable")

// QuoteProvider fetches current market prices.
type QuoteProvider interface {
	GetQuote(ctx context.Context, ticker string) (*domain.Quote, error)
}

// Recorder receives business metrics. A nil Recorder is replaced with a no-op.
type Recorder interface {
	ObserveLedgerOperation(operation, outcome string, duration time.Duration)
	ObserveGoalDeposit(applied bool)
	ObserveReconciliation(checked, discrepancies int)
}

type nopRecorder struct{}

func (nopRecorder) ObserveLedgerOperation(string, string, time.Duration) {}
func (nopRecorder) ObserveGoalDeposit(bool)                              {}
func (nopRecorder) ObserveReconciliation(int, int)                       {}

func recorderOrNop(r Recorder) Recorder {
	if r == nil {
		return nopRecorder{}
	}
	return r
}
