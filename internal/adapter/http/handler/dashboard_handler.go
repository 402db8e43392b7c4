package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/iho/gofinance/internal/adapter/http/dto"
	"github.com/iho/gofinance/internal/domain"
	"github.com/iho/gofinance/internal/usecase"
)

// DashboardService defines the behavior needed by DashboardHandler.
type DashboardService interface {
	GetDashboard(ctx context.Context, userID string, period domain.Period) (*usecase.Dashboard, error)
}

// DashboardHandler serves the monthly overview.
type DashboardHandler struct {
	dashboardUC DashboardService
	now         func() time.Time
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardUC DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardUC: dashboardUC, now: nowUTC}
}

// Get returns the dashboard for ?year=&month=, defaulting to the current month.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	period, _, err := parsePeriod(r, h.now())
	if err != nil {
		writeDomainError(w, err, "invalid period")
		return
	}

	dashboard, err := h.dashboardUC.GetDashboard(r.Context(), userID, period)
	if err != nil {
		writeDomainError(w, err, "failed to build dashboard")
		return
	}

	writeJSON(w, http.StatusOK, dto.DashboardFromUseCase(dashboard))
}
