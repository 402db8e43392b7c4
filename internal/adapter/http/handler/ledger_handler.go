package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gofinance/internal/adapter/http/dto"
	"github.com/iho/gofinance/internal/domain"
	"github.com/iho/gofinance/internal/usecase"
)

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	ApplyTransaction(ctx context.Context, input usecase.ApplyTransactionInput) (*domain.Transaction, error)
	ReviseTransaction(ctx context.Context, input usecase.ReviseTransactionInput) (*domain.Transaction, error)
	RetractTransaction(ctx context.Context, userID, id string) error
	GetTransaction(ctx context.Context, userID, id string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, input usecase.ListTransactionsInput) ([]*domain.Transaction, error)
}

// LedgerHandler handles income and expense transactions.
type LedgerHandler struct {
	ledgerUC LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// Create applies a new transaction.
func (h *LedgerHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req dto.TransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToApplyInput(userID)
	if err != nil {
		writeDomainError(w, err, "invalid transaction")
		return
	}

	t, err := h.ledgerUC.ApplyTransaction(r.Context(), input)
	if err != nil {
		writeDomainError(w, err, "failed to create transaction")
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(t))
}

// Get retrieves a transaction by ID.
func (h *LedgerHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	t, err := h.ledgerUC.GetTransaction(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "failed to get transaction")
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(t))
}

// Update revises a transaction.
func (h *LedgerHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req dto.TransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToReviseInput(userID, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "invalid transaction")
		return
	}

	t, err := h.ledgerUC.ReviseTransaction(r.Context(), input)
	if err != nil {
		writeDomainError(w, err, "failed to update transaction")
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(t))
}

// Delete retracts a transaction.
func (h *LedgerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.ledgerUC.RetractTransaction(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err, "failed to delete transaction")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List lists the user's transactions, optionally restricted to ?year=&month=.
func (h *LedgerHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	period, filtered, err := parsePeriod(r, nowUTC())
	if err != nil {
		writeDomainError(w, err, "invalid period")
		return
	}

	input := usecase.ListTransactionsInput{UserID: userID}
	if filtered {
		input.Period = &period
	}

	txs, err := h.ledgerUC.ListTransactions(r.Context(), input)
	if err != nil {
		writeDomainError(w, err, "failed to list transactions")
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(txs))
}
