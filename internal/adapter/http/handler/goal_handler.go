package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gofinance/internal/adapter/http/dto"
	"github.com/iho/gofinance/internal/domain"
	"github.com/iho/gofinance/internal/usecase"
)

// GoalService defines the behavior needed by GoalHandler.
type GoalService interface {
	CreateGoal(ctx context.Context, input usecase.CreateGoalInput) (*domain.Goal, error)
	ListGoals(ctx context.Context, userID string) ([]*domain.Goal, error)
	AddToGoal(ctx context.Context, input usecase.AddToGoalInput) error
}

// GoalHandler handles savings goals.
type GoalHandler struct {
	goalUC GoalService
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(goalUC GoalService) *GoalHandler {
	return &GoalHandler{goalUC: goalUC}
}

// Create creates a goal.
func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req dto.CreateGoalRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput(userID)
	if err != nil {
		writeDomainError(w, err, "invalid goal")
		return
	}

	goal, err := h.goalUC.CreateGoal(r.Context(), input)
	if err != nil {
		writeDomainError(w, err, "failed to create goal")
		return
	}

	writeJSON(w, http.StatusCreated, dto.GoalFromDomain(goal))
}

// List lists the user's goals with their progress.
func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	goals, err := h.goalUC.ListGoals(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err, "failed to list goals")
		return
	}

	writeJSON(w, http.StatusOK, dto.GoalsFromDomain(goals))
}

// Deposit adds an amount to a goal. Unknown goals are silently ignored.
func (h *GoalHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req dto.GoalDepositRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput(userID, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "invalid deposit")
		return
	}

	if err := h.goalUC.AddToGoal(r.Context(), input); err != nil {
		writeDomainError(w, err, "failed to add to goal")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
