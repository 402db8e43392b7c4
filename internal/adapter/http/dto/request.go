package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gofinance/internal/domain"
	"github.com/iho/gofinance/internal/usecase"
)

// RegisterRequest represents a sign-up form.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterRequest) ToUseCaseInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
	}
}

// LoginRequest represents a login form.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ToUseCaseInput converts to use case input.
func (r *LoginRequest) ToUseCaseInput() usecase.LoginInput {
	return usecase.LoginInput{
		Email:    r.Email,
		Password: r.Password,
	}
}

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput(userID string) usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		UserID: userID,
		Name:   r.Name,
		Type:   domain.AccountType(strings.ToUpper(strings.TrimSpace(r.Type))),
	}
}

// TransactionRequest is the body of both apply and revise. Amount and Date
// are strings so malformed input is rejected before any arithmetic.
type TransactionRequest struct {
	AccountID   *string `json:"account_id,omitempty"`
	Type        string  `json:"type"`
	Amount      string  `json:"amount"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
}

func (r *TransactionRequest) parse() (domain.TransactionType, decimal.Decimal, time.Time, error) {
	txType, err := domain.ParseTransactionType(r.Type)
	if err != nil {
		return "", decimal.Zero, time.Time{}, err
	}

	amount, err := domain.ParseAmount(r.Amount)
	if err != nil {
		return "", decimal.Zero, time.Time{}, err
	}

	date, err := parseOptionalDate(r.Date)
	if err != nil {
		return "", decimal.Zero, time.Time{}, err
	}

	return txType, amount, date, nil
}

// ToApplyInput converts to use case input.
func (r *TransactionRequest) ToApplyInput(userID string) (usecase.ApplyTransactionInput, error) {
	txType, amount, date, err := r.parse()
	if err != nil {
		return usecase.ApplyTransactionInput{}, err
	}

	return usecase.ApplyTransactionInput{
		UserID:      userID,
		AccountID:   r.AccountID,
		Type:        txType,
		Amount:      amount,
		Description: r.Description,
		Category:    r.Category,
		Date:        date,
	}, nil
}

// ToReviseInput converts to use case input. AccountID is ignored: the
// account link of a transaction never changes.
func (r *TransactionRequest) ToReviseInput(userID, id string) (usecase.ReviseTransactionInput, error) {
	txType, amount, date, err := r.parse()
	if err != nil {
		return usecase.ReviseTransactionInput{}, err
	}

	return usecase.ReviseTransactionInput{
		UserID:      userID,
		ID:          id,
		Type:        txType,
		Amount:      amount,
		Description: r.Description,
		Category:    r.Category,
		Date:        date,
	}, nil
}

// CreateGoalRequest represents a request to create a savings goal.
type CreateGoalRequest struct {
	Name          string `json:"name"`
	TargetAmount  string `json:"target_amount"`
	CurrentAmount string `json:"current_amount"`
	Deadline      string `json:"deadline"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateGoalRequest) ToUseCaseInput(userID string) (usecase.CreateGoalInput, error) {
	target, err := domain.ParseAmount(r.TargetAmount)
	if err != nil {
		return usecase.CreateGoalInput{}, err
	}

	current, err := domain.ParseOptionalAmount(r.CurrentAmount)
	if err != nil {
		return usecase.CreateGoalInput{}, err
	}

	var deadline *time.Time
	if strings.TrimSpace(r.Deadline) != "" {
		d, err := domain.ParseDate(r.Deadline)
		if err != nil {
			return usecase.CreateGoalInput{}, err
		}
		deadline = &d
	}

	return usecase.CreateGoalInput{
		UserID:        userID,
		Name:          r.Name,
		TargetAmount:  target,
		CurrentAmount: current,
		Deadline:      deadline,
	}, nil
}

// GoalDepositRequest represents an amount added to a goal.
type GoalDepositRequest struct {
	Amount string `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *GoalDepositRequest) ToUseCaseInput(userID, goalID string) (usecase.AddToGoalInput, error) {
	amount, err := domain.ParseAmount(r.Amount)
	if err != nil {
		return usecase.AddToGoalInput{}, err
	}

	return usecase.AddToGoalInput{
		UserID: userID,
		GoalID: goalID,
		Amount: amount,
	}, nil
}

// CreateCreditCardRequest represents a request to register a credit card.
type CreateCreditCardRequest struct {
	Name       string `json:"name"`
	Limit      string `json:"limit"`
	ClosingDay int    `json:"closing_day"`
	DueDay     int    `json:"due_day"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateCreditCardRequest) ToUseCaseInput(userID string) (usecase.CreateCreditCardInput, error) {
	limit, err := domain.ParseAmount(r.Limit)
	if err != nil {
		return usecase.CreateCreditCardInput{}, err
	}

	return usecase.CreateCreditCardInput{
		UserID:     userID,
		Name:       r.Name,
		Limit:      limit,
		ClosingDay: r.ClosingDay,
		DueDay:     r.DueDay,
	}, nil
}

// CreateAssetRequest represents a request to track a ticker.
type CreateAssetRequest struct {
	Ticker string `json:"ticker"`
}

// AddOrderRequest represents a buy or sell order.
type AddOrderRequest struct {
	Type     string `json:"type"`
	Quantity string `json:"quantity"`
	Price    string `json:"price"`
	Date     string `json:"date"`
}

// ToUseCaseInput converts to use case input.
func (r *AddOrderRequest) ToUseCaseInput(userID, assetID string) (usecase.AddOrderInput, error) {
	orderType, err := domain.ParseOrderType(r.Type)
	if err != nil {
		return usecase.AddOrderInput{}, err
	}

	quantity, err := parseQuantity(r.Quantity)
	if err != nil {
		return usecase.AddOrderInput{}, err
	}

	price, err := domain.ParseAmount(r.Price)
	if err != nil {
		return usecase.AddOrderInput{}, err
	}

	date, err := parseOptionalDate(r.Date)
	if err != nil {
		return usecase.AddOrderInput{}, err
	}

	return usecase.AddOrderInput{
		UserID:   userID,
		AssetID:  assetID,
		Type:     orderType,
		Quantity: quantity,
		Price:    price,
		Date:     date,
	}, nil
}

// OnboardingRequest is the first-run form. Name, Email and Password are
// only read when the visitor has no session. Ticker is optional; when set,
// Quantity and Price are required.
type OnboardingRequest struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`

	AccountName    string `json:"account_name"`
	AccountType    string `json:"account_type"`
	InitialBalance string `json:"initial_balance"`

	Ticker   string `json:"ticker,omitempty"`
	Quantity string `json:"quantity,omitempty"`
	Price    string `json:"price,omitempty"`
}

// ToUseCaseInput converts to use case input. userID is empty for visitors.
func (r *OnboardingRequest) ToUseCaseInput(userID string) (usecase.OnboardingInput, error) {
	balance, err := domain.ParseOptionalAmount(r.InitialBalance)
	if err != nil {
		return usecase.OnboardingInput{}, err
	}

	input := usecase.OnboardingInput{
		UserID:         userID,
		AccountName:    r.AccountName,
		AccountType:    domain.AccountType(strings.ToUpper(strings.TrimSpace(r.AccountType))),
		InitialBalance: balance,
	}

	if userID == "" && r.Email != "" {
		input.Register = &usecase.RegisterInput{
			Name:     r.Name,
			Email:    r.Email,
			Password: r.Password,
		}
	}

	// The first investment is skipped unless both a ticker and a positive
	// quantity are given. A missing price records the order at zero.
	if strings.TrimSpace(r.Ticker) != "" && !isZeroQuantity(r.Quantity) {
		quantity, err := parseQuantity(r.Quantity)
		if err != nil {
			return usecase.OnboardingInput{}, err
		}
		price, err := domain.ParseOptionalAmount(r.Price)
		if err != nil {
			return usecase.OnboardingInput{}, err
		}
		input.Asset = &usecase.OnboardingAssetInput{
			Ticker:   r.Ticker,
			Quantity: quantity,
			Price:    price,
		}
	}

	return input, nil
}

func parseQuantity(s string) (decimal.Decimal, error) {
	quantity, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", domain.ErrInvalidQuantity, s)
	}
	if err := domain.ValidateQuantity(quantity); err != nil {
		return decimal.Zero, err
	}
	return quantity, nil
}

func isZeroQuantity(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	q, err := decimal.NewFromString(s)
	return err == nil && q.IsZero()
}

// parseOptionalDate maps empty input to the zero time, which the use cases
// read as "now" on create and "unchanged" on revise.
func parseOptionalDate(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}
	return domain.ParseDate(s)
}
