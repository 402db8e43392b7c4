package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gofinance/internal/adapter/http/dto"
	"github.com/iho/gofinance/internal/usecase"
)

// ReconciliationService defines the behavior needed by ReconciliationHandler.
type ReconciliationService interface {
	ReconcileAccount(ctx context.Context, userID, accountID string) (*usecase.ReconciliationResult, error)
	GenerateReport(ctx context.Context, userID string) (*usecase.ReconciliationReport, error)
}

// ReconciliationHandler compares recorded balances with transaction sums.
type ReconciliationHandler struct {
	reconciliationUC ReconciliationService
}

// NewReconciliationHandler creates a new ReconciliationHandler.
func NewReconciliationHandler(reconciliationUC ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{reconciliationUC: reconciliationUC}
}

// Account reconciles one account.
func (h *ReconciliationHandler) Account(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	result, err := h.reconciliationUC.ReconcileAccount(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "failed to reconcile account")
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationFromUseCase(result))
}

// Report reconciles every account of the user.
func (h *ReconciliationHandler) Report(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	report, err := h.reconciliationUC.GenerateReport(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err, "failed to reconcile accounts")
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationReportFromUseCase(report))
}
