package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gofinance/internal/domain"
)

// CreditCardUseCase handles credit cards.
type CreditCardUseCase struct {
	cardRepo CreditCardRepository
	idGen    IDGenerator
}

// NewCreditCardUseCase creates a new CreditCardUseCase.
func NewCreditCardUseCase(cardRepo CreditCardRepository, idGen IDGenerator) *CreditCardUseCase {
	return &CreditCardUseCase{cardRepo: cardRepo, idGen: idGen}
}

// CreateCreditCardInput represents input for creating a card.
type CreateCreditCardInput struct {
	UserID     string
	Name       string
	Limit      decimal.Decimal
	ClosingDay int
	DueDay     int
}

// CreateCreditCard creates a credit card.
func (uc *CreditCardUseCase) CreateCreditCard(ctx context.Context, input CreateCreditCardInput) (*domain.CreditCard, error) {
	now := time.Now().UTC()

	card := &domain.CreditCard{
		ID:         uc.idGen.Generate(),
		UserID:     input.UserID,
		Name:       input.Name,
		Limit:      input.Limit,
		ClosingDay: input.ClosingDay,
		DueDay:     input.DueDay,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	if err := uc.cardRepo.Create(ctx, card); err != nil {
		return nil, err
	}

	return card, nil
}

// ListCreditCards lists the user's cards.
func (uc *CreditCardUseCase) ListCreditCards(ctx context.Context, userID string) ([]*domain.CreditCard, error) {
	return uc.cardRepo.ListByUser(ctx, userID)
}
