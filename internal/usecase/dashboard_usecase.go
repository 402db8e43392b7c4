package usecase

import (
	"context"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/iho/gofinance/internal/domain"
)

// DashboardUseCase assembles the monthly overview.
type DashboardUseCase struct {
	accountRepo     AccountRepository
	transactionRepo TransactionRepository
	portfolio       *PortfolioUseCase
	currency        string
}

// NewDashboardUseCase creates a new DashboardUseCase. portfolio may be nil.
func NewDashboardUseCase(
	accountRepo AccountRepository,
	transactionRepo TransactionRepository,
	portfolio *PortfolioUseCase,
	currency string,
) *DashboardUseCase {
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	return &DashboardUseCase{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		portfolio:       portfolio,
		currency:        currency,
	}
}

// Dashboard is the monthly overview of a user's finances.
type Dashboard struct {
	Period        domain.Period
	Prev          domain.Period
	Next          domain.Period
	Currency      string
	Accounts      []*domain.Account
	GlobalBalance decimal.Decimal
	Summary       *domain.MonthlySummary
	Portfolio     *domain.Portfolio
}

// GetDashboard aggregates the selected month for the user.
func (uc *DashboardUseCase) GetDashboard(ctx context.Context, userID string, period domain.Period) (*Dashboard, error) {
	var (
		accounts  []*domain.Account
		txs       []*domain.Transaction
		portfolio *domain.Portfolio
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		accounts, err = uc.accountRepo.ListByUser(gctx, userID)
		return err
	})

	g.Go(func() error {
		var err error
		txs, err = uc.transactionRepo.ListByAccountOwner(gctx, userID, period.Filter())
		return err
	})

	if uc.portfolio != nil {
		g.Go(func() error {
			var err error
			portfolio, err = uc.portfolio.Valuate(gctx, userID)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if portfolio == nil {
		portfolio = domain.NewPortfolio(nil)
	}

	return &Dashboard{
		Period:        period,
		Prev:          period.Prev(),
		Next:          period.Next(),
		Currency:      uc.currency,
		Accounts:      accounts,
		GlobalBalance: domain.TotalBalance(accounts),
		Summary:       domain.SummarizeMonth(period, txs),
		Portfolio:     portfolio,
	}, nil
}
