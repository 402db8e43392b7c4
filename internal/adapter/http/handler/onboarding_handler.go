package handler

import (
	"context"
	"net/http"

	"github.com/iho/gofinance/internal/adapter/http/dto"
	"github.com/iho/gofinance/internal/infrastructure/auth"
	"github.com/iho/gofinance/internal/usecase"
)

// OnboardingService defines the behavior needed by OnboardingHandler.
type OnboardingService interface {
	Onboard(ctx context.Context, input usecase.OnboardingInput) (*usecase.OnboardingResult, error)
}

// OnboardingHandler handles the first-run form. It is reachable without a
// session; visitors register as part of the request.
type OnboardingHandler struct {
	onboardingUC OnboardingService
	sessions     *Sessions
}

// NewOnboardingHandler creates a new OnboardingHandler.
func NewOnboardingHandler(onboardingUC OnboardingService, sessions *Sessions) *OnboardingHandler {
	return &OnboardingHandler{onboardingUC: onboardingUC, sessions: sessions}
}

// Onboard creates the first account and optional asset position.
func (h *OnboardingHandler) Onboard(w http.ResponseWriter, r *http.Request) {
	var req dto.OnboardingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	userID, _ := auth.UserIDFromContext(r.Context())

	input, err := req.ToUseCaseInput(userID)
	if err != nil {
		writeDomainError(w, err, "invalid onboarding")
		return
	}

	result, err := h.onboardingUC.Onboard(r.Context(), input)
	if err != nil {
		writeDomainError(w, err, "failed to onboard")
		return
	}

	// A visitor registered inline leaves signed in.
	if result.User != nil {
		if _, err := h.sessions.Start(w, result.User); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to start session", "")
			return
		}
	}

	writeJSON(w, http.StatusCreated, dto.OnboardingFromUseCase(result))
}
