package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gofinance/internal/adapter/http/dto"
	"github.com/iho/gofinance/internal/domain"
	"github.com/iho/gofinance/internal/usecase"
)

type dashboardServiceFunc func(ctx context.Context, userID string, period domain.Period) (*usecase.Dashboard, error)

func (f dashboardServiceFunc) GetDashboard(ctx context.Context, userID string, period domain.Period) (*usecase.Dashboard, error) {
	return f(ctx, userID, period)
}

func TestDashboardHandler_Get(t *testing.T) {
	var captured domain.Period
	handler := NewDashboardHandler(dashboardServiceFunc(func(ctx context.Context, userID string, period domain.Period) (*usecase.Dashboard, error) {
		captured = period
		return &usecase.Dashboard{
			Period:        period,
			Prev:          period.Prev(),
			Next:          period.Next(),
			Currency:      "BRL",
			GlobalBalance: decimal.RequireFromString("1234.56"),
			Summary:       domain.SummarizeMonth(period, nil),
			Portfolio:     domain.NewPortfolio(nil),
		}, nil
	}))
	handler.now = func() time.Time { return time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC) }

	rec := httptest.NewRecorder()
	handler.Get(rec, withUser(httptest.NewRequest(http.MethodGet, "/dashboard", nil), "user-1"))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, domain.Period{Year: 2024, Month: 1}, captured)

	var resp dto.DashboardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2023-12", resp.Prev)
	assert.Equal(t, "R$1.234,56", resp.GlobalBalanceDisplay)
	assert.True(t, resp.Empty)

	rec = httptest.NewRecorder()
	handler.Get(rec, withUser(httptest.NewRequest(http.MethodGet, "/dashboard?year=2023&month=2", nil), "user-1"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.Period{Year: 2023, Month: 2}, captured)
}

func TestDashboardHandler_InvalidMonth(t *testing.T) {
	handler := NewDashboardHandler(dashboardServiceFunc(func(ctx context.Context, userID string, period domain.Period) (*usecase.Dashboard, error) {
		t.Fatal("GetDashboard should not be called for an invalid month")
		return nil, nil
	}))

	rec := httptest.NewRecorder()
	handler.Get(rec, withUser(httptest.NewRequest(http.MethodGet, "/dashboard?year=2024&month=0", nil), "user-1"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
