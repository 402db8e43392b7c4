package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Period is a calendar month, numbered 1-12.
type Period struct {
	Year  int
	Month int
}

// NewPeriod validates a year and month.
func NewPeriod(year, month int) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, fmt.Errorf("%w: month %d", ErrInvalidPeriod, month)
	}
	if year < 1970 || year > 9999 {
		return Period{}, fmt.Errorf("%w: year %d", ErrInvalidPeriod, year)
	}
	return Period{Year: year, Month: month}, nil
}

// PeriodOf returns the period containing t, in UTC.
func PeriodOf(t time.Time) Period {
	t = t.UTC()
	return Period{Year: t.Year(), Month: int(t.Month())}
}

// Range returns [first instant of the month, first instant of the next month) in UTC.
func (p Period) Range() (time.Time, time.Time) {
	from := time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

// Filter returns a transaction filter covering the period.
func (p Period) Filter() TransactionFilter {
	from, to := p.Range()
	return TransactionFilter{From: from, To: to}
}

// Days returns the number of calendar days in the period.
func (p Period) Days() int {
	from, to := p.Range()
	return int(to.Sub(from).Hours() / 24)
}

func (p Period) Prev() Period {
	from, _ := p.Range()
	return PeriodOf(from.AddDate(0, -1, 0))
}

func (p Period) Next() Period {
	_, to := p.Range()
	return PeriodOf(to)
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// DailyBucket accumulates one calendar day.
type DailyBucket struct {
	Day     int
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// CategoryTotal accumulates one category.
type CategoryTotal struct {
	Category string
	Income   decimal.Decimal
	Expense  decimal.Decimal
}

// MonthlySummary is the aggregation of a user's transactions for one month.
type MonthlySummary struct {
	Period       Period
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Net          decimal.Decimal
	Days         []DailyBucket
	Categories   []CategoryTotal
	Transactions []*Transaction
}

// SummarizeMonth aggregates transactions into totals, one bucket per day of
// the month and per-category sums. Transactions outside the period are ignored.
// Day of month is taken from the UTC date.
func SummarizeMonth(p Period, txs []*Transaction) *MonthlySummary {
	s := &MonthlySummary{
		Period:       p,
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
		Days:         make([]DailyBucket, p.Days()),
	}
	for i := range s.Days {
		s.Days[i] = DailyBucket{Day: i + 1, Income: decimal.Zero, Expense: decimal.Zero}
	}

	from, to := p.Range()
	categories := make(map[string]*CategoryTotal)

	for _, tx := range txs {
		date := tx.Date.UTC()
		if date.Before(from) || !date.Before(to) {
			continue
		}

		cat, ok := categories[tx.Category]
		if !ok {
			cat = &CategoryTotal{Category: tx.Category, Income: decimal.Zero, Expense: decimal.Zero}
			categories[tx.Category] = cat
		}

		bucket := &s.Days[date.Day()-1]
		switch tx.Type {
		case TransactionTypeIncome:
			s.TotalIncome = s.TotalIncome.Add(tx.Amount)
			bucket.Income = bucket.Income.Add(tx.Amount)
			cat.Income = cat.Income.Add(tx.Amount)
		case TransactionTypeExpense:
			s.TotalExpense = s.TotalExpense.Add(tx.Amount)
			bucket.Expense = bucket.Expense.Add(tx.Amount)
			cat.Expense = cat.Expense.Add(tx.Amount)
		}

		s.Transactions = append(s.Transactions, tx)
	}

	s.Net = s.TotalIncome.Sub(s.TotalExpense)

	s.Categories = make([]CategoryTotal, 0, len(categories))
	for _, c := range categories {
		s.Categories = append(s.Categories, *c)
	}
	sort.Slice(s.Categories, func(i, j int) bool {
		return s.Categories[i].Category < s.Categories[j].Category
	})

	SortNewestFirst(s.Transactions)

	return s
}

// IsEmpty reports whether every daily bucket is zero.
func (s *MonthlySummary) IsEmpty() bool {
	for _, d := range s.Days {
		if !d.Income.IsZero() || !d.Expense.IsZero() {
			return false
		}
	}
	return true
}

// SortNewestFirst orders transactions by date descending, newest creation first on ties.
func SortNewestFirst(txs []*Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		if !txs[i].Date.Equal(txs[j].Date) {
			return txs[i].Date.After(txs[j].Date)
		}
		return txs[i].CreatedAt.After(txs[j].CreatedAt)
	})
}
