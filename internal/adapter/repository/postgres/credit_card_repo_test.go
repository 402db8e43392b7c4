package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"

	"github.com/iho/gofinance/internal/domain"
)

func TestCreditCardRepositoryCreateAndList(t *testing.T) {
	pool := newMockPool(t)
	now := time.Now().UTC()

	pool.ExpectExec(regexp.QuoteMeta("INSERT INTO credit_cards")).
		WithArgs("c1", "user-1", "Nubank", pgxmock.AnyArg(), 5, 12, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	pool.ExpectQuery(regexp.QuoteMeta("FROM credit_cards")).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "name", "credit_limit", "closing_day", "due_day", "created_at", "updated_at"}).
			AddRow("c1", "user-1", "Nubank", decimal.NewFromInt(5000), 5, 12, now, now))

	repo := NewCreditCardRepository(pool)
	err := repo.Create(context.Background(), &domain.CreditCard{
		ID: "c1", UserID: "user-1", Name: "Nubank", Limit: decimal.NewFromInt(5000),
		ClosingDay: 5, DueDay: 12, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	cards, err := repo.ListByUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(cards) != 1 || cards[0].DueDay != 12 || !cards[0].Limit.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("unexpected cards: %+v", cards)
	}

	assertExpectations(t, pool)
}
