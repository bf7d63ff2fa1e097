package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRateLimiter_AllowsWithinBurst(t *testing.T) {
	rl := NewRateLimiter(1, 2, nil)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rr := httptest.NewRecorder()

		rl.Limit(next).ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rr.Code)
		}
	}
}

func TestRateLimiter_RejectsOverBurst(t *testing.T) {
	m := newTestMetrics(t)
	rl := NewRateLimiter(0.001, 1, m)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/movements", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rl.Limit(next).ServeHTTP(first, req)

	second := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/movements", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rl.Limit(next).ServeHTTP(second, req)

	if first.Code != http.StatusOK {
		t.Fatalf("first request should pass, got %d", first.Code)
	}
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second request should be limited, got %d", second.Code)
	}

	hits := m.RateLimitHits.WithLabelValues("/api/v1/movements")
	if got := testutil.ToFloat64(hits); got != 1 {
		t.Fatalf("expected 1 rate limit hit, got %v", got)
	}
}

func TestRateLimiter_TracksClientsIndependently(t *testing.T) {
	rl := NewRateLimiter(0.001, 1, nil)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, addr := range []string{"10.0.0.3:1", "10.0.0.4:1", "10.0.0.5:1"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()

		rl.Limit(next).ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("client %s should have its own budget, got %d", addr, rr.Code)
		}
	}
}

func TestRateLimiter_CleanupResetsBudgets(t *testing.T) {
	rl := NewRateLimiter(0.001, 1, nil)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	req.RemoteAddr = "10.0.0.6:1"
	rl.Limit(next).ServeHTTP(httptest.NewRecorder(), req)

	rl.CleanupLimiters()

	req = httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	req.RemoteAddr = "10.0.0.6:1"
	rr := httptest.NewRecorder()
	rl.Limit(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected fresh budget after cleanup, got %d", rr.Code)
	}
}

func TestGetIP(t *testing.T) {
	testCases := []struct {
		name      string
		forwarded string
		realIP    string
		remote    string
		expected  string
	}{
		{name: "x-forwarded-for wins", forwarded: "1.2.3.4", realIP: "5.6.7.8", remote: "9.9.9.9:1", expected: "1.2.3.4"},
		{name: "x-real-ip next", realIP: "5.6.7.8", remote: "9.9.9.9:1", expected: "5.6.7.8"},
		{name: "remote addr fallback", remote: "9.9.9.9:1", expected: "9.9.9.9:1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remote
			if tc.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tc.forwarded)
			}
			if tc.realIP != "" {
				req.Header.Set("X-Real-IP", tc.realIP)
			}

			if got := getIP(req); got != tc.expected {
				t.Fatalf("getIP() = %q, expected %q", got, tc.expected)
			}
		})
	}
}
