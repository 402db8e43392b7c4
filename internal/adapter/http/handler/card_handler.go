package handler

import (
	"context"
	"net/http"

	"github.com/iho/gofinance/internal/adapter/http/dto"
	"github.com/iho/gofinance/internal/domain"
	"github.com/iho/gofinance/internal/usecase"
)

// CreditCardService defines the behavior needed by CreditCardHandler.
type CreditCardService interface {
	CreateCreditCard(ctx context.Context, input usecase.CreateCreditCardInput) (*domain.CreditCard, error)
	ListCreditCards(ctx context.Context, userID string) ([]*domain.CreditCard, error)
}

// CreditCardHandler handles credit cards.
type CreditCardHandler struct {
	cardUC CreditCardService
}

// NewCreditCardHandler creates a new CreditCardHandler.
func NewCreditCardHandler(cardUC CreditCardService) *CreditCardHandler {
	return &CreditCardHandler{cardUC: cardUC}
}

// Create registers a credit card.
func (h *CreditCardHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req dto.CreateCreditCardRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput(userID)
	if err != nil {
		writeDomainError(w, err, "invalid credit card")
		return
	}

	card, err := h.cardUC.CreateCreditCard(r.Context(), input)
	if err != nil {
		writeDomainError(w, err, "failed to create credit card")
		return
	}

	writeJSON(w, http.StatusCreated, dto.CreditCardFromDomain(card))
}

// List lists the user's credit cards.
func (h *CreditCardHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	cards, err := h.cardUC.ListCreditCards(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err, "failed to list credit cards")
		return
	}

	writeJSON(w, http.StatusOK, dto.CreditCardsFromDomain(cards))
}
