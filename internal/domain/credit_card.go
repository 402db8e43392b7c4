package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditCard describes a user's credit card. Closing and due days are
// descriptive only.
type CreditCard struct {
	ID         string
	UserID     string
	Name       string
	Limit      decimal.Decimal
	ClosingDay int
	DueDay     int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Validate validates the card fields.
func (c *CreditCard) Validate() error {
	if err := ValidateName(c.Name); err != nil {
		return err
	}
	if err := ValidateAmount(c.Limit); err != nil {
		return err
	}
	if !validBillingDay(c.ClosingDay) || !validBillingDay(c.DueDay) {
		return ErrInvalidBillingDay
	}
	return nil
}

func validBillingDay(day int) bool {
	return day >= 1 && day <= 31
}
