package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal is a savings goal. CurrentAmount only grows through deposits and is
// not linked to any account balance.
type Goal struct {
	ID            string
	UserID        string
	Name          string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	Deadline      *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate validates a new goal.
func (g *Goal) Validate() error {
	if err := ValidateName(g.Name); err != nil {
		return err
	}
	if !g.TargetAmount.IsPositive() {
		return ErrInvalidGoalTarget
	}
	if err := ValidateAmount(g.TargetAmount); err != nil {
		return err
	}
	return ValidateAmount(g.CurrentAmount)
}

// Progress returns min(100, round(current/target*100)).
func (g *Goal) Progress() int {
	if !g.TargetAmount.IsPositive() {
		return 0
	}

	pct := g.CurrentAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100)).Round(0)
	if pct.GreaterThan(decimal.NewFromInt(100)) {
		return 100
	}
	if pct.IsNegative() {
		return 0
	}
	return int(pct.IntPart())
}

// Remaining returns how much is still missing to reach the target, never
// below zero.
func (g *Goal) Remaining() decimal.Decimal {
	remaining := g.TargetAmount.Sub(g.CurrentAmount)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}
