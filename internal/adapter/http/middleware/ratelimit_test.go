package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRateLimiter_RejectsAboveBurst(t *testing.T) {
	hits := prometheus.NewCounter(prometheus.CounterOpts{Name: "rate_limit_hits_test"})
	rl := NewRateLimiter(0.001, 2, hits)

	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status sequence %v", codes)
	}
	if got := testutil.ToFloat64(hits); got != 1 {
		t.Fatalf("expected 1 rejected request, got %v", got)
	}

	// Different port, same client.
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.RemoteAddr = "10.0.0.1:6000"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected limiter keyed by host, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.RemoteAddr = "10.0.0.2:5000"
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected other client to pass, got %d", rr.Code)
	}
}

func TestRateLimiter_CleanupLimiters(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 1, nil)
	rl.now = func() time.Time { return now }

	rl.getLimiter("10.0.0.1")
	now = now.Add(30 * time.Minute)
	rl.getLimiter("10.0.0.2")
	now = now.Add(45 * time.Minute)

	if remaining := rl.CleanupLimiters(time.Hour); remaining != 1 {
		t.Fatalf("expected 1 limiter to remain, got %d", remaining)
	}
	if _, ok := rl.visitors["10.0.0.2"]; !ok {
		t.Fatalf("expected recent visitor to be kept")
	}
}
