package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/gofinance/internal/adapter/http/dto"
	"github.com/iho/gofinance/internal/domain"
	"github.com/iho/gofinance/internal/usecase"
)

type accountServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	getFn    func(ctx context.Context, userID, id string) (*domain.Account, error)
	listFn   func(ctx context.Context, userID string) ([]*domain.Account, error)
}

func (s *accountServiceStub) CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
	return s.createFn(ctx, input)
}

func (s *accountServiceStub) GetAccount(ctx context.Context, userID, id string) (*domain.Account, error) {
	return s.getFn(ctx, userID, id)
}

func (s *accountServiceStub) ListAccounts(ctx context.Context, userID string) ([]*domain.Account, error) {
	return s.listFn(ctx, userID)
}

// withURLParam routes a chi URL parameter into req.
func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestAccountHandler_Create_Success(t *testing.T) {
	var captured usecase.CreateAccountInput
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
			captured = input
			return &domain.Account{ID: "acc-1", Name: input.Name, Type: input.Type, Balance: decimal.Zero}, nil
		},
	})

	body, _ := json.Marshal(dto.CreateAccountRequest{Name: "Main", Type: "checking"})
	req := withUser(httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body)), "user-1")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.UserID != "user-1" || captured.Name != "Main" || captured.Type != domain.AccountTypeChecking {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "acc-1" || resp.Balance != "0.00" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestAccountHandler_Create_InvalidJSON(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
			t.Fatal("CreateAccount should not be called for invalid payload")
			return nil, nil
		},
	})

	req := withUser(httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewBufferString("{invalid json")), "user-1")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandler_Create_InvalidType(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
			return nil, domain.ErrInvalidAccountType
		},
	})

	body, _ := json.Marshal(dto.CreateAccountRequest{Name: "Main", Type: "BROKERAGE"})
	req := withUser(httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body)), "user-1")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandler_Get(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		getFn: func(ctx context.Context, userID, id string) (*domain.Account, error) {
			if userID != "user-1" || id != "acc-1" {
				return nil, domain.ErrAccountNotFound
			}
			return &domain.Account{ID: id, Balance: decimal.RequireFromString("10.5")}, nil
		},
	})

	req := withURLParam(withUser(httptest.NewRequest(http.MethodGet, "/accounts/acc-1", nil), "user-1"), "id", "acc-1")
	rec := httptest.NewRecorder()
	handler.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	req = withURLParam(withUser(httptest.NewRequest(http.MethodGet, "/accounts/acc-1", nil), "user-2"), "id", "acc-1")
	rec = httptest.NewRecorder()
	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for another user's account, got %d", rec.Code)
	}
}

func TestAccountHandler_List_ServiceError(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		listFn: func(ctx context.Context, userID string) ([]*domain.Account, error) {
			return nil, errors.New("db error")
		},
	})

	req := withUser(httptest.NewRequest(http.MethodGet, "/accounts", nil), "user-1")
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestAccountHandler_RequiresSession(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{})

	rec := httptest.NewRecorder()
	handler.List(rec, httptest.NewRequest(http.MethodGet, "/accounts", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
