package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gofinance/internal/adapter/http/dto"
	"github.com/iho/gofinance/internal/domain"
	"github.com/iho/gofinance/internal/usecase"
)

type goalServiceStub struct {
	createFn  func(ctx context.Context, input usecase.CreateGoalInput) (*domain.Goal, error)
	listFn    func(ctx context.Context, userID string) ([]*domain.Goal, error)
	depositFn func(ctx context.Context, input usecase.AddToGoalInput) error
}

func (s *goalServiceStub) CreateGoal(ctx context.Context, input usecase.CreateGoalInput) (*domain.Goal, error) {
	return s.createFn(ctx, input)
}

func (s *goalServiceStub) ListGoals(ctx context.Context, userID string) ([]*domain.Goal, error) {
	return s.listFn(ctx, userID)
}

func (s *goalServiceStub) AddToGoal(ctx context.Context, input usecase.AddToGoalInput) error {
	return s.depositFn(ctx, input)
}

func TestGoalHandler_Create(t *testing.T) {
	handler := NewGoalHandler(&goalServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateGoalInput) (*domain.Goal, error) {
			return &domain.Goal{ID: "g1", Name: input.Name, TargetAmount: input.TargetAmount, CurrentAmount: input.CurrentAmount}, nil
		},
	})

	body := `{"name":"Trip","target_amount":"200","current_amount":"150"}`
	rec := httptest.NewRecorder()
	handler.Create(rec, withUser(httptest.NewRequest(http.MethodPost, "/goals", bytes.NewBufferString(body)), "user-1"))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp dto.GoalResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 75, resp.Progress)
}

func TestGoalHandler_Create_InvalidTarget(t *testing.T) {
	handler := NewGoalHandler(&goalServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateGoalInput) (*domain.Goal, error) {
			return nil, domain.ErrInvalidGoalTarget
		},
	})

	rec := httptest.NewRecorder()
	handler.Create(rec, withUser(httptest.NewRequest(http.MethodPost, "/goals", bytes.NewBufferString(`{"name":"Trip","target_amount":"0"}`)), "user-1"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGoalHandler_Deposit(t *testing.T) {
	var captured usecase.AddToGoalInput
	handler := NewGoalHandler(&goalServiceStub{
		depositFn: func(ctx context.Context, input usecase.AddToGoalInput) error {
			captured = input
			return nil
		},
	})

	req := withURLParam(withUser(httptest.NewRequest(http.MethodPost, "/goals/g1/deposits", bytes.NewBufferString(`{"amount":"25"}`)), "user-1"), "id", "g1")
	rec := httptest.NewRecorder()
	handler.Deposit(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "g1", captured.GoalID)
	assert.True(t, captured.Amount.Equal(decimal.NewFromInt(25)))

	req = withURLParam(withUser(httptest.NewRequest(http.MethodPost, "/goals/g1/deposits", bytes.NewBufferString(`{"amount":"NaN"}`)), "user-1"), "id", "g1")
	rec = httptest.NewRecorder()
	handler.Deposit(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
