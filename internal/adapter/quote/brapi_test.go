package quote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gofinance/internal/usecase"
)

func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *http.Request) {
	t.Helper()
	var seen http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = *r
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func TestBrapiClientGetQuote(t *testing.T) {
	srv, seen := newTestServer(t, http.StatusOK,
		`{"results":[{"symbol":"PETR4","regularMarketPrice":38.52,"logourl":"https://icons/PETR4.svg"}]}`)

	fixed := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	client := NewBrapiClient(srv.URL+"/", "secret", time.Second)
	client.now = func() time.Time { return fixed }

	q, err := client.GetQuote(context.Background(), "PETR4")
	require.NoError(t, err)

	assert.Equal(t, "/quote/PETR4", seen.URL.Path)
	assert.Equal(t, "secret", seen.URL.Query().Get("token"))
	assert.Equal(t, "PETR4", q.Symbol)
	assert.True(t, q.Price.Equal(decimal.RequireFromString("38.52")), "price %s", q.Price)
	assert.Equal(t, "https://icons/PETR4.svg", q.LogoURL)
	assert.Equal(t, fixed, q.FetchedAt)
}

func TestBrapiClientUnavailable(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "empty results", status: http.StatusOK, body: `{"results":[]}`},
		{name: "missing results", status: http.StatusOK, body: `{}`},
		{name: "no price", status: http.StatusOK, body: `{"results":[{"symbol":"XPTO3"}]}`},
		{name: "unknown ticker", status: http.StatusNotFound, body: `{"error":true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, tt.status, tt.body)

			_, err := NewBrapiClient(srv.URL, "", time.Second).GetQuote(context.Background(), "XPTO3")
			if !errors.Is(err, usecase.ErrQuoteUnavailable) {
				t.Fatalf("expected ErrQuoteUnavailable, got %v", err)
			}
		})
	}
}

func TestBrapiClientUpstreamFailure(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `oops`},
		{name: "bad json", status: http.StatusOK, body: `{"results":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, tt.status, tt.body)

			_, err := NewBrapiClient(srv.URL, "", time.Second).GetQuote(context.Background(), "PETR4")
			if err == nil {
				t.Fatalf("expected error")
			}
			if errors.Is(err, usecase.ErrQuoteUnavailable) {
				t.Fatalf("upstream failure must not look like an empty result: %v", err)
			}
		})
	}
}

func TestBrapiClientOmitsEmptyToken(t *testing.T) {
	srv, seen := newTestServer(t, http.StatusOK, `{"results":[{"symbol":"VALE3","regularMarketPrice":60}]}`)

	_, err := NewBrapiClient(srv.URL, "", time.Second).GetQuote(context.Background(), "VALE3")
	require.NoError(t, err)
	assert.Empty(t, seen.URL.RawQuery)
}
