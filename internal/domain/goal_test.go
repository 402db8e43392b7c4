package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestGoal_Progress(t *testing.T) {
	tests := []struct {
		name    string
		current string
		target  string
		want    int
	}{
		{"three quarters", "150", "200", 75},
		{"over target is clamped", "250", "200", 100},
		{"exactly reached", "200", "200", 100},
		{"nothing saved", "0", "200", 0},
		{"rounds half up", "1", "8", 13},
		{"zero target", "10", "0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &Goal{
				CurrentAmount: decimal.RequireFromString(tt.current),
				TargetAmount:  decimal.RequireFromString(tt.target),
			}
			if got := g.Progress(); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestGoal_Remaining(t *testing.T) {
	g := &Goal{CurrentAmount: decimal.NewFromInt(150), TargetAmount: decimal.NewFromInt(200)}
	if got := g.Remaining(); !got.Equal(decimal.NewFromInt(50)) {
		t.Errorf("expected 50, got %s", got)
	}

	g.CurrentAmount = decimal.NewFromInt(300)
	if got := g.Remaining(); !got.IsZero() {
		t.Errorf("expected 0, got %s", got)
	}
}

func TestGoal_Validate(t *testing.T) {
	g := &Goal{Name: "Trip", TargetAmount: decimal.NewFromInt(5000)}
	if err := g.Validate(); err != nil {
		t.Fatalf("expected valid goal, got %v", err)
	}

	g.TargetAmount = decimal.Zero
	if err := g.Validate(); !errors.Is(err, ErrInvalidGoalTarget) {
		t.Errorf("expected ErrInvalidGoalTarget, got %v", err)
	}

	g = &Goal{Name: "", TargetAmount: decimal.NewFromInt(1)}
	if err := g.Validate(); !errors.Is(err, ErrInvalidName) {
		t.Errorf("expected ErrInvalidName, got %v", err)
	}
}

func TestCreditCard_Validate(t *testing.T) {
	tests := []struct {
		name    string
		card    CreditCard
		wantErr error
	}{
		{"valid", CreditCard{Name: "Visa", Limit: decimal.NewFromInt(5000), ClosingDay: 3, DueDay: 10}, nil},
		{"zero limit", CreditCard{Name: "Visa", Limit: decimal.Zero, ClosingDay: 1, DueDay: 31}, nil},
		{"closing day zero", CreditCard{Name: "Visa", ClosingDay: 0, DueDay: 10}, ErrInvalidBillingDay},
		{"due day 32", CreditCard{Name: "Visa", ClosingDay: 5, DueDay: 32}, ErrInvalidBillingDay},
		{"negative limit", CreditCard{Name: "Visa", Limit: decimal.NewFromInt(-1), ClosingDay: 5, DueDay: 10}, ErrInvalidAmount},
		{"missing name", CreditCard{ClosingDay: 5, DueDay: 10}, ErrInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.card.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
