package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gofinance/internal/domain"
	"github.com/iho/gofinance/internal/usecase"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// money renders an amount with two decimal places.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// UserResponse represents a user. The password hash never leaves the server.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// UserFromDomain converts a domain user to a response.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// SessionResponse is returned by register and login.
type SessionResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	User      *UserResponse `json:"user"`
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Balance   string    `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:        a.ID,
		Name:      a.Name,
		Type:      string(a.Type),
		Balance:   money(a.Balance),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID          string    `json:"id"`
	AccountID   *string   `json:"account_id"`
	Type        string    `json:"type"`
	Amount      string    `json:"amount"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Date        string    `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:          t.ID,
		AccountID:   t.AccountID,
		Type:        string(t.Type),
		Amount:      money(t.Amount),
		Description: t.Description,
		Category:    t.Category,
		Date:        t.Date.UTC().Format(domain.DateLayout),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txs []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txs))
	for i, t := range txs {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// GoalResponse represents a savings goal with its progress.
type GoalResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	TargetAmount  string    `json:"target_amount"`
	CurrentAmount string    `json:"current_amount"`
	Remaining     string    `json:"remaining"`
	Progress      int       `json:"progress"`
	Deadline      *string   `json:"deadline"`
	CreatedAt     time.Time `json:"created_at"`
}

// GoalFromDomain converts a domain goal to a response.
func GoalFromDomain(g *domain.Goal) *GoalResponse {
	var deadline *string
	if g.Deadline != nil {
		d := g.Deadline.UTC().Format(domain.DateLayout)
		deadline = &d
	}

	return &GoalResponse{
		ID:            g.ID,
		Name:          g.Name,
		TargetAmount:  money(g.TargetAmount),
		CurrentAmount: money(g.CurrentAmount),
		Remaining:     money(g.Remaining()),
		Progress:      g.Progress(),
		Deadline:      deadline,
		CreatedAt:     g.CreatedAt,
	}
}

// GoalsFromDomain converts domain goals to responses.
func GoalsFromDomain(goals []*domain.Goal) []*GoalResponse {
	result := make([]*GoalResponse, len(goals))
	for i, g := range goals {
		result[i] = GoalFromDomain(g)
	}
	return result
}

// CreditCardResponse represents a credit card.
type CreditCardResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Limit      string    `json:"limit"`
	ClosingDay int       `json:"closing_day"`
	DueDay     int       `json:"due_day"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreditCardsFromDomain converts domain cards to responses.
func CreditCardsFromDomain(cards []*domain.CreditCard) []*CreditCardResponse {
	result := make([]*CreditCardResponse, len(cards))
	for i, c := range cards {
		result[i] = CreditCardFromDomain(c)
	}
	return result
}

// CreditCardFromDomain converts a domain card to a response.
func CreditCardFromDomain(c *domain.CreditCard) *CreditCardResponse {
	return &CreditCardResponse{
		ID:         c.ID,
		Name:       c.Name,
		Limit:      money(c.Limit),
		ClosingDay: c.ClosingDay,
		DueDay:     c.DueDay,
		CreatedAt:  c.CreatedAt,
	}
}

// OrderResponse represents a buy or sell order.
type OrderResponse struct {
	ID       string `json:"id"`
	AssetID  string `json:"asset_id"`
	Type     string `json:"type"`
	Quantity string `json:"quantity"`
	Price    string `json:"price"`
	Date     string `json:"date"`
}

// OrderFromDomain converts a domain order to a response.
func OrderFromDomain(o *domain.Order) *OrderResponse {
	return &OrderResponse{
		ID:       o.ID,
		AssetID:  o.AssetID,
		Type:     string(o.Type),
		Quantity: o.Quantity.String(),
		Price:    money(o.Price),
		Date:     o.Date.UTC().Format(domain.DateLayout),
	}
}

// AssetResponse represents an asset with its orders.
type AssetResponse struct {
	ID       string           `json:"id"`
	Ticker   string           `json:"ticker"`
	Type     string           `json:"type"`
	Quantity string           `json:"quantity"`
	Invested string           `json:"invested"`
	Orders   []*OrderResponse `json:"orders"`
}

// AssetFromDomain converts a domain asset to a response.
func AssetFromDomain(a *domain.Asset) *AssetResponse {
	orders := make([]*OrderResponse, len(a.Orders))
	for i, o := range a.Orders {
		orders[i] = OrderFromDomain(o)
	}

	return &AssetResponse{
		ID:       a.ID,
		Ticker:   a.Ticker,
		Type:     string(a.Type),
		Quantity: a.Quantity().String(),
		Invested: money(a.Invested()),
		Orders:   orders,
	}
}

// AssetsFromDomain converts domain assets to responses.
func AssetsFromDomain(assets []*domain.Asset) []*AssetResponse {
	result := make([]*AssetResponse, len(assets))
	for i, a := range assets {
		result[i] = AssetFromDomain(a)
	}
	return result
}

// HoldingResponse is one valued position.
type HoldingResponse struct {
	AssetID     string `json:"asset_id"`
	Ticker      string `json:"ticker"`
	LogoURL     string `json:"logo_url,omitempty"`
	Quantity    string `json:"quantity"`
	Price       string `json:"price"`
	PriceSource string `json:"price_source"`
	Invested    string `json:"invested"`
	Value       string `json:"value"`
	Profit      string `json:"profit"`
}

// PortfolioResponse is the valuation of every holding.
type PortfolioResponse struct {
	Holdings      []*HoldingResponse `json:"holdings"`
	TotalInvested string             `json:"total_invested"`
	TotalValue    string             `json:"total_value"`
	TotalProfit   string             `json:"total_profit"`
}

// PortfolioFromDomain converts a valuation to a response.
func PortfolioFromDomain(p *domain.Portfolio) *PortfolioResponse {
	holdings := make([]*HoldingResponse, len(p.Holdings))
	for i, h := range p.Holdings {
		resp := &HoldingResponse{
			AssetID:     h.Asset.ID,
			Ticker:      h.Asset.Ticker,
			Quantity:    h.Quantity.String(),
			Price:       money(h.Price),
			PriceSource: string(h.PriceSource),
			Invested:    money(h.Invested),
			Value:       money(h.Value),
			Profit:      money(h.Profit),
		}
		if h.Quote != nil {
			resp.LogoURL = h.Quote.LogoURL
		}
		holdings[i] = resp
	}

	return &PortfolioResponse{
		Holdings:      holdings,
		TotalInvested: money(p.TotalInvested),
		TotalValue:    money(p.TotalValue),
		TotalProfit:   money(p.TotalProfit),
	}
}

// DayResponse is one point of the daily income/expense chart.
type DayResponse struct {
	Day     int    `json:"day"`
	Income  string `json:"income"`
	Expense string `json:"expense"`
}

// CategoryResponse is one slice of the category breakdown.
type CategoryResponse struct {
	Category string `json:"category"`
	Income   string `json:"income"`
	Expense  string `json:"expense"`
}

// DashboardResponse is the monthly overview. The *_display fields are
// formatted in the configured currency.
type DashboardResponse struct {
	Period               string                 `json:"period"`
	Prev                 string                 `json:"prev"`
	Next                 string                 `json:"next"`
	Currency             string                 `json:"currency"`
	Empty                bool                   `json:"empty"`
	GlobalBalance        string                 `json:"global_balance"`
	GlobalBalanceDisplay string                 `json:"global_balance_display"`
	TotalIncome          string                 `json:"total_income"`
	TotalIncomeDisplay   string                 `json:"total_income_display"`
	TotalExpense         string                 `json:"total_expense"`
	TotalExpenseDisplay  string                 `json:"total_expense_display"`
	Net                  string                 `json:"net"`
	NetDisplay           string                 `json:"net_display"`
	Accounts             []*AccountResponse     `json:"accounts"`
	Days                 []*DayResponse         `json:"days"`
	Categories           []*CategoryResponse    `json:"categories"`
	Transactions         []*TransactionResponse `json:"transactions"`
	Portfolio            *PortfolioResponse     `json:"portfolio"`
}

// DashboardFromUseCase converts a dashboard to a response.
func DashboardFromUseCase(d *usecase.Dashboard) *DashboardResponse {
	s := d.Summary

	days := make([]*DayResponse, len(s.Days))
	for i, b := range s.Days {
		days[i] = &DayResponse{Day: b.Day, Income: money(b.Income), Expense: money(b.Expense)}
	}

	categories := make([]*CategoryResponse, len(s.Categories))
	for i, c := range s.Categories {
		categories[i] = &CategoryResponse{Category: c.Category, Income: money(c.Income), Expense: money(c.Expense)}
	}

	resp := &DashboardResponse{
		Period:               d.Period.String(),
		Prev:                 d.Prev.String(),
		Next:                 d.Next.String(),
		Currency:             d.Currency,
		Empty:                s.IsEmpty(),
		GlobalBalance:        money(d.GlobalBalance),
		GlobalBalanceDisplay: domain.FormatMoney(d.GlobalBalance, d.Currency),
		TotalIncome:          money(s.TotalIncome),
		TotalIncomeDisplay:   domain.FormatMoney(s.TotalIncome, d.Currency),
		TotalExpense:         money(s.TotalExpense),
		TotalExpenseDisplay:  domain.FormatMoney(s.TotalExpense, d.Currency),
		Net:                  money(s.Net),
		NetDisplay:           domain.FormatMoney(s.Net, d.Currency),
		Accounts:             AccountsFromDomain(d.Accounts),
		Days:                 days,
		Categories:           categories,
		Transactions:         TransactionsFromDomain(s.Transactions),
	}
	if d.Portfolio != nil {
		resp.Portfolio = PortfolioFromDomain(d.Portfolio)
	}

	return resp
}

// ReconciliationResponse is the balance check of one account.
type ReconciliationResponse struct {
	AccountID         string    `json:"account_id"`
	AccountName       string    `json:"account_name"`
	RecordedBalance   string    `json:"recorded_balance"`
	CalculatedBalance string    `json:"calculated_balance"`
	Difference        string    `json:"difference"`
	IsReconciled      bool      `json:"is_reconciled"`
	LastChecked       time.Time `json:"last_checked"`
}

// ReconciliationFromUseCase converts a reconciliation result to a response.
func ReconciliationFromUseCase(r *usecase.ReconciliationResult) *ReconciliationResponse {
	return &ReconciliationResponse{
		AccountID:         r.AccountID,
		AccountName:       r.AccountName,
		RecordedBalance:   money(r.RecordedBalance),
		CalculatedBalance: money(r.CalculatedBalance),
		Difference:        money(r.Difference),
		IsReconciled:      r.IsReconciled,
		LastChecked:       r.LastChecked,
	}
}

// ReconciliationReportResponse summarizes reconciliation across accounts.
type ReconciliationReportResponse struct {
	TotalAccounts      int                       `json:"total_accounts"`
	ReconciledAccounts int                       `json:"reconciled_accounts"`
	Consistent         bool                      `json:"consistent"`
	Results            []*ReconciliationResponse `json:"results"`
	CheckedAt          time.Time                 `json:"checked_at"`
}

// ReconciliationReportFromUseCase converts a report to a response.
func ReconciliationReportFromUseCase(r *usecase.ReconciliationReport) *ReconciliationReportResponse {
	results := make([]*ReconciliationResponse, len(r.Results))
	for i, res := range r.Results {
		results[i] = ReconciliationFromUseCase(res)
	}

	return &ReconciliationReportResponse{
		TotalAccounts:      r.TotalAccounts,
		ReconciledAccounts: r.ReconciledAccounts,
		Consistent:         r.IsConsistent(),
		Results:            results,
		CheckedAt:          r.CheckedAt,
	}
}

// OnboardingResponse lists everything onboarding created.
type OnboardingResponse struct {
	User        *UserResponse        `json:"user,omitempty"`
	Account     *AccountResponse     `json:"account"`
	Transaction *TransactionResponse `json:"transaction"`
	Asset       *AssetResponse       `json:"asset,omitempty"`
	Order       *OrderResponse       `json:"order,omitempty"`
}

// OnboardingFromUseCase converts an onboarding result to a response.
func OnboardingFromUseCase(r *usecase.OnboardingResult) *OnboardingResponse {
	resp := &OnboardingResponse{
		Account: AccountFromDomain(r.Account),
	}
	if r.Transaction != nil {
		resp.Transaction = TransactionFromDomain(r.Transaction)
	}
	if r.User != nil {
		resp.User = UserFromDomain(r.User)
	}
	if r.Asset != nil {
		resp.Asset = AssetFromDomain(r.Asset)
	}
	if r.Order != nil {
		resp.Order = OrderFromDomain(r.Order)
	}
	return resp
}
