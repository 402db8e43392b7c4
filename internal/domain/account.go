package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies an account.
type AccountType string

const (
	AccountTypeChecking AccountType = "CHECKING"
	AccountTypeSavings  AccountType = "SAVINGS"
	AccountTypeWallet   AccountType = "WALLET"
)

// IsValid reports whether t is a known account type.
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeChecking, AccountTypeSavings, AccountTypeWallet:
		return true
	}
	return false
}

// Account is a user's bank account. Balance is a cached value that must
// always equal the sum of the signed effects of the transactions linked to it.
type Account struct {
	ID        string
	UserID    string
	Name      string
	Type      AccountType
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ApplyTransaction returns the balance after applying a transaction of the
// given type and amount.
func (a *Account) ApplyTransaction(txType TransactionType, amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Add(txType.Effect(amount))
}

// RevertTransaction returns the balance after undoing a transaction of the
// given type and amount.
func (a *Account) RevertTransaction(txType TransactionType, amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Sub(txType.Effect(amount))
}

// ReviseTransaction returns the balance after replacing the effect of an old
// transaction with the effect of a new one.
func (a *Account) ReviseTransaction(oldType TransactionType, oldAmount decimal.Decimal, newType TransactionType, newAmount decimal.Decimal) decimal.Decimal {
	reverted := a.RevertTransaction(oldType, oldAmount)
	return reverted.Add(newType.Effect(newAmount))
}

// TotalBalance sums the balances of the given accounts.
func TotalBalance(accounts []*Account) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.Balance)
	}
	return total
}
