package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bancore/ledger/internal/adapter/http/handler"
	apimiddleware "github.com/bancore/ledger/internal/adapter/http/middleware"
	"github.com/bancore/ledger/internal/domain"
	"github.com/bancore/ledger/internal/usecase"
)

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_MetricsEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /metrics to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1, nil)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	body := `{"number":"ACC-001","currency":"USD"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatalf("expected idempotency store to be used")
	}
}

func TestNewRouter_PanicReturnsJSONError(t *testing.T) {
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.AccountHandler = handler.NewAccountHandler(panickingAccountService{})
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/acc-1", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 after handler panic, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "internal server error") {
		t.Fatalf("expected JSON error body, got %s", rec.Body.String())
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"POST /api/v1/accounts/",
		"GET /api/v1/accounts/",
		"GET /api/v1/accounts/{id}",
		"GET /api/v1/accounts/{id}/balance",
		"GET /api/v1/accounts/{id}/summary",
		"POST /api/v1/accounts/{id}/deactivate",
		"GET /api/v1/accounts/{id}/movements",
		"GET /api/v1/accounts/{id}/audit",
		"POST /api/v1/movements/",
		"GET /api/v1/movements/{id}",
		"POST /api/v1/movements/{id}/void",
		"POST /api/v1/adjustments",
		"GET /api/v1/ledger/consistency",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	cfg := RouterConfig{
		HealthHandler:   &handler.HealthHandler{},
		AccountHandler:  handler.NewAccountHandler(&stubAccountService{}),
		MovementHandler: handler.NewMovementHandler(&stubMovementService{}),
		LedgerHandler:   handler.NewLedgerHandler(&stubLedgerService{}),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

type stubAccountService struct{}

func (stubAccountService) CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
	return &domain.Account{ID: "acc"}, nil
}

func (stubAccountService) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return &domain.Account{ID: id}, nil
}

func (stubAccountService) GetBalance(ctx context.Context, id string) (*usecase.AccountBalance, error) {
	return &usecase.AccountBalance{}, nil
}

func (stubAccountService) GetSummary(ctx context.Context, id string, from, to time.Time) (*domain.AccountSummary, error) {
	return &domain.AccountSummary{AccountID: id}, nil
}

func (stubAccountService) DeactivateAccount(ctx context.Context, id, actor string) error {
	return nil
}

func (stubAccountService) ListAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error) {
	return []*domain.Account{}, nil
}

func (stubAccountService) ListAudit(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditEntry, error) {
	return []*domain.AuditEntry{}, nil
}

type panickingAccountService struct {
	stubAccountService
}

func (panickingAccountService) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	panic("boom")
}

type stubMovementService struct{}

func (stubMovementService) CreateMovement(ctx context.Context, input usecase.CreateMovementInput) (*domain.Movement, error) {
	return &domain.Movement{ID: "mov"}, nil
}

func (stubMovementService) VoidMovement(ctx context.Context, movementID, reason, actor string) (*domain.Movement, error) {
	return &domain.Movement{ID: "rev"}, nil
}

func (stubMovementService) CreateAdjustment(ctx context.Context, input usecase.CreateAdjustmentInput) (*domain.Movement, error) {
	return &domain.Movement{ID: "adj"}, nil
}

func (stubMovementService) GetMovement(ctx context.Context, id string) (*domain.Movement, error) {
	return &domain.Movement{ID: id}, nil
}

func (stubMovementService) ListMovements(ctx context.Context, filter domain.MovementFilter) ([]*domain.Movement, error) {
	return []*domain.Movement{}, nil
}

type stubLedgerService struct{}

func (stubLedgerService) CheckConsistency(ctx context.Context) ([]*domain.BalanceMismatch, error) {
	return nil, nil
}

type stubIdempotencyStore struct {
	checkCalled bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return nil
}
