package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iho/gofinance/internal/adapter/http/dto"
	"github.com/iho/gofinance/internal/domain"
	"github.com/iho/gofinance/internal/infrastructure/auth"
)

// withUser attaches an authenticated user to req, as the session gate does.
func withUser(req *http.Request, userID string) *http.Request {
	return req.WithContext(auth.WithUserID(req.Context(), userID))
}

func TestParsePeriod(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		query    string
		want     domain.Period
		filtered bool
		wantErr  bool
	}{
		{name: "absent defaults to current month", query: "", want: domain.Period{Year: 2024, Month: 3}},
		{name: "explicit", query: "?year=2023&month=12", want: domain.Period{Year: 2023, Month: 12}, filtered: true},
		{name: "month only", query: "?month=1", want: domain.Period{Year: 2024, Month: 1}, filtered: true},
		{name: "month out of range", query: "?year=2024&month=13", wantErr: true},
		{name: "month zero", query: "?month=0", wantErr: true},
		{name: "not a number", query: "?year=abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/dashboard"+tt.query, nil)
			got, filtered, err := parsePeriod(req, now)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrInvalidPeriod) {
					t.Fatalf("expected ErrInvalidPeriod, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want || filtered != tt.filtered {
				t.Fatalf("got %+v (filtered=%v), want %+v (filtered=%v)", got, filtered, tt.want, tt.filtered)
			}
		})
	}
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"account not found", domain.ErrAccountNotFound, http.StatusNotFound},
		{"transaction not found", domain.ErrTransactionNotFound, http.StatusNotFound},
		{"asset not found", domain.ErrAssetNotFound, http.StatusNotFound},
		{"wrapped invalid amount", fmt.Errorf("%w: \"NaN\" is not a number", domain.ErrInvalidAmount), http.StatusBadRequest},
		{"invalid type", domain.ErrInvalidTransactionType, http.StatusBadRequest},
		{"invalid billing day", domain.ErrInvalidBillingDay, http.StatusBadRequest},
		{"invalid name", domain.ErrInvalidName, http.StatusBadRequest},
		{"weak password", domain.ErrPasswordTooWeak, http.StatusBadRequest},
		{"invalid period", domain.ErrInvalidPeriod, http.StatusBadRequest},
		{"email taken", domain.ErrEmailTaken, http.StatusConflict},
		{"asset exists", domain.ErrAssetExists, http.StatusConflict},
		{"bad credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapDomainError(tt.err); got != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	payload := map[string]string{"status": "ok"}

	writeJSON(rr, http.StatusCreated, payload)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}

	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected content-type application/json, got %s", ct)
	}

	var decoded map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if decoded["status"] != "ok" {
		t.Fatalf("expected payload to round-trip, got %+v", decoded)
	}
}

func TestWriteDomainError_HidesInternalDetails(t *testing.T) {
	rr := httptest.NewRecorder()
	writeDomainError(rr, errors.New("pq: connection refused"), "failed")

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if rr.Code != http.StatusInternalServerError || resp.Message != "" {
		t.Fatalf("expected bare 500, got %d %+v", rr.Code, resp)
	}

	rr = httptest.NewRecorder()
	writeDomainError(rr, domain.ErrAccountNotFound, "failed")
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if rr.Code != http.StatusNotFound || resp.Message != "account not found" {
		t.Fatalf("expected 404 with details, got %d %+v", rr.Code, resp)
	}
}

func TestRequireUser(t *testing.T) {
	rr := httptest.NewRecorder()
	if _, ok := requireUser(rr, httptest.NewRequest(http.MethodGet, "/", nil)); ok {
		t.Fatal("expected no user")
	}
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}

	userID, ok := requireUser(httptest.NewRecorder(), withUser(httptest.NewRequest(http.MethodGet, "/", nil), "user-1"))
	if !ok || userID != "user-1" {
		t.Fatalf("expected user-1, got %q", userID)
	}
}
