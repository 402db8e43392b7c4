package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType carries the sign of a transaction.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// ParseTransactionType parses a transaction type, case-insensitively.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidTransactionType, s)
	}
	return t, nil
}

// IsValid reports whether t is INCOME or EXPENSE.
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Effect returns the signed effect of amount on an account balance.
// The stored sign of amount is ignored.
func (t TransactionType) Effect(amount decimal.Decimal) decimal.Decimal {
	amount = amount.Abs()
	if t == TransactionTypeExpense {
		return amount.Neg()
	}
	return amount
}

// Suggested categories. Categories are free-form; these are what the
// clients offer by default.
const (
	CategoryFood       = "Food"
	CategoryTransport  = "Transport"
	CategoryLeisure    = "Leisure"
	CategoryHome       = "Home"
	CategoryHealth     = "Health"
	CategorySalary     = "Salary"
	CategoryInvestment = "Investment"
	CategoryOther      = "Other"
	CategoryGeneral    = "General"
	CategoryAdjustment = "Adjustment"
)

// SuggestedCategories lists the default category suggestions.
var SuggestedCategories = []string{
	CategoryFood, CategoryTransport, CategoryLeisure, CategoryHome, CategoryHealth,
	CategorySalary, CategoryInvestment, CategoryOther, CategoryGeneral, CategoryAdjustment,
}

// Transaction is a single income or expense. AccountID is nil for
// transactions that are not linked to any account.
type Transaction struct {
	ID          string
	UserID      string
	AccountID   *string
	Description string
	Amount      decimal.Decimal
	Type        TransactionType
	Category    string
	Date        time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate validates the transaction fields.
func (t *Transaction) Validate() error {
	if err := ValidateAmount(t.Amount); err != nil {
		return err
	}
	if !t.Type.IsValid() {
		return ErrInvalidTransactionType
	}
	if err := ValidateDescription(t.Description); err != nil {
		return err
	}
	if t.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidDate)
	}
	return nil
}

// Effect returns the signed effect of the transaction on its account.
func (t *Transaction) Effect() decimal.Decimal {
	return t.Type.Effect(t.Amount)
}

// IsLinked reports whether the transaction belongs to an account.
func (t *Transaction) IsLinked() bool {
	return t.AccountID != nil && *t.AccountID != ""
}

// TransactionFilter restricts transaction listings. Zero times mean unbounded.
type TransactionFilter struct {
	From time.Time // inclusive
	To   time.Time // exclusive
}
