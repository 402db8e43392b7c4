package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func fixtureTx(id string, typ TransactionType, amount int64, date time.Time, category string) *Transaction {
	return &Transaction{
		ID:       id,
		Type:     typ,
		Amount:   decimal.NewFromInt(amount),
		Date:     date,
		Category: category,
	}
}

func TestSummarizeMonth(t *testing.T) {
	p := Period{Year: 2024, Month: 3}
	d1 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	d15 := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

	txs := []*Transaction{
		fixtureTx("1", TransactionTypeIncome, 100, d1, CategorySalary),
		fixtureTx("2", TransactionTypeIncome, 100, d1, CategorySalary),
		fixtureTx("3", TransactionTypeIncome, 100, d1, CategoryOther),
		fixtureTx("4", TransactionTypeExpense, 40, d15, CategoryFood),
		fixtureTx("5", TransactionTypeExpense, 40, d15, CategoryFood),
	}

	s := SummarizeMonth(p, txs)

	if !s.TotalIncome.Equal(decimal.NewFromInt(300)) {
		t.Errorf("expected income 300, got %s", s.TotalIncome)
	}
	if !s.TotalExpense.Equal(decimal.NewFromInt(80)) {
		t.Errorf("expected expense 80, got %s", s.TotalExpense)
	}
	if !s.Net.Equal(decimal.NewFromInt(220)) {
		t.Errorf("expected net 220, got %s", s.Net)
	}
	if len(s.Days) != 31 {
		t.Fatalf("expected 31 buckets, got %d", len(s.Days))
	}

	for i, b := range s.Days {
		switch i {
		case 0:
			if !b.Income.Equal(decimal.NewFromInt(300)) || !b.Expense.IsZero() {
				t.Errorf("bucket 0: got income %s expense %s", b.Income, b.Expense)
			}
		case 14:
			if !b.Expense.Equal(decimal.NewFromInt(80)) || !b.Income.IsZero() {
				t.Errorf("bucket 14: got income %s expense %s", b.Income, b.Expense)
			}
		default:
			if !b.Income.IsZero() || !b.Expense.IsZero() {
				t.Errorf("bucket %d should be empty", i)
			}
		}
		if b.Day != i+1 {
			t.Errorf("bucket %d has day %d", i, b.Day)
		}
	}

	if s.IsEmpty() {
		t.Error("summary should not be empty")
	}

	wantCats := []string{CategoryFood, CategoryOther, CategorySalary}
	if len(s.Categories) != len(wantCats) {
		t.Fatalf("expected %d categories, got %d", len(wantCats), len(s.Categories))
	}
	for i, c := range s.Categories {
		if c.Category != wantCats[i] {
			t.Errorf("category %d: expected %s, got %s", i, wantCats[i], c.Category)
		}
	}
	if !s.Categories[2].Income.Equal(decimal.NewFromInt(200)) {
		t.Errorf("salary income: expected 200, got %s", s.Categories[2].Income)
	}

	if s.Transactions[0].Date != d15 {
		t.Errorf("expected newest transaction first, got %v", s.Transactions[0].Date)
	}
}

func TestSummarizeMonth_IgnoresOtherMonths(t *testing.T) {
	p := Period{Year: 2024, Month: 2}

	txs := []*Transaction{
		fixtureTx("a", TransactionTypeIncome, 10, time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC), CategoryOther),
		fixtureTx("b", TransactionTypeIncome, 20, time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC), CategoryOther),
		fixtureTx("c", TransactionTypeIncome, 30, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), CategoryOther),
	}

	s := SummarizeMonth(p, txs)

	if len(s.Days) != 29 {
		t.Fatalf("expected 29 buckets for leap February, got %d", len(s.Days))
	}
	if !s.TotalIncome.Equal(decimal.NewFromInt(20)) {
		t.Errorf("expected income 20, got %s", s.TotalIncome)
	}
	if !s.Days[28].Income.Equal(decimal.NewFromInt(20)) {
		t.Errorf("expected last bucket 20, got %s", s.Days[28].Income)
	}
}

func TestSummarizeMonth_Empty(t *testing.T) {
	s := SummarizeMonth(Period{Year: 2024, Month: 4}, nil)

	if !s.IsEmpty() {
		t.Error("expected empty summary")
	}
	if len(s.Days) != 30 {
		t.Errorf("expected 30 buckets, got %d", len(s.Days))
	}

	zero := SummarizeMonth(Period{Year: 2024, Month: 4}, []*Transaction{
		fixtureTx("z", TransactionTypeExpense, 0, time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC), CategoryOther),
	})
	if !zero.IsEmpty() {
		t.Error("zero-amount transactions keep the chart empty")
	}
}

func TestPeriod(t *testing.T) {
	if _, err := NewPeriod(2024, 13); !errors.Is(err, ErrInvalidPeriod) {
		t.Errorf("expected ErrInvalidPeriod for month 13, got %v", err)
	}
	if _, err := NewPeriod(2024, 0); !errors.Is(err, ErrInvalidPeriod) {
		t.Errorf("expected ErrInvalidPeriod for month 0, got %v", err)
	}

	p, err := NewPeriod(2024, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	from, to := p.Range()
	if !from.Equal(time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)) || !to.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected range %v - %v", from, to)
	}
	if next := p.Next(); next != (Period{Year: 2025, Month: 1}) {
		t.Errorf("unexpected next %v", next)
	}
	if prev := (Period{Year: 2024, Month: 1}).Prev(); prev != (Period{Year: 2023, Month: 12}) {
		t.Errorf("unexpected prev %v", prev)
	}
	if p.String() != "2024-12" {
		t.Errorf("unexpected string %s", p)
	}
}
