package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// DefaultAccountName is the account created for every new user.
	DefaultAccountName = "Wallet"

	// InitialBalanceDescription labels the transaction that seeds an onboarded account.
	InitialBalanceDescription = "Initial balance"
)

// Ledger operation labels.
const (
	OpApply   = "apply"
	OpRevise  = "revise"
	OpRetract = "retract"
)
