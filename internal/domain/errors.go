package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidAccountType = errors.New("invalid account type")

	// Transaction errors
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrInvalidAmount          = errors.New("amount must be a non-negative decimal")
	ErrInvalidTransactionType = errors.New("transaction type must be INCOME or EXPENSE")
	ErrInvalidDate            = errors.New("invalid date")
	ErrInvalidPeriod          = errors.New("invalid month or year")

	// Goal errors
	ErrGoalNotFound      = errors.New("goal not found")
	ErrInvalidGoalTarget = errors.New("goal target must be positive")

	// Credit card errors
	ErrInvalidBillingDay = errors.New("billing day must be between 1 and 31")

	// Asset errors
	ErrAssetNotFound    = errors.New("asset not found")
	ErrAssetExists      = errors.New("asset already exists")
	ErrInvalidTicker    = errors.New("invalid ticker")
	ErrInvalidOrderType = errors.New("order type must be BUY or SELL")
	ErrInvalidQuantity  = errors.New("quantity must be positive")
)
