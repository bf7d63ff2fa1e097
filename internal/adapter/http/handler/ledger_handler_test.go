package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/bancore/ledger/internal/adapter/http/dto"
	"github.com/bancore/ledger/internal/domain"
	"github.com/bancore/ledger/internal/usecase"
)

type ledgerServiceStub struct {
	checkFn func(ctx context.Context) ([]*domain.BalanceMismatch, error)
}

func (s *ledgerServiceStub) CheckConsistency(ctx context.Context) ([]*domain.BalanceMismatch, error) {
	return s.checkFn(ctx)
}

func TestLedgerHandler_CheckConsistency(t *testing.T) {
	t.Run("clean", func(t *testing.T) {
		handler := NewLedgerHandler(&ledgerServiceStub{
			checkFn: func(ctx context.Context) ([]*domain.BalanceMismatch, error) {
				return nil, nil
			},
		})

		rec := httptest.NewRecorder()
		handler.CheckConsistency(rec, httptest.NewRequest(http.MethodGet, "/consistency", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var resp dto.ConsistencyResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if !resp.Consistent {
			t.Fatal("expected consistent ledger")
		}
	})

	t.Run("drift is a 200 with details", func(t *testing.T) {
		handler := NewLedgerHandler(&ledgerServiceStub{
			checkFn: func(ctx context.Context) ([]*domain.BalanceMismatch, error) {
				return []*domain.BalanceMismatch{
					{
						AccountID:       "acc-1",
						LiveBalance:     decimal.RequireFromString("100.00"),
						ReplayedBalance: decimal.RequireFromString("90.00"),
					},
				}, usecase.ErrInconsistentLedger
			},
		})

		rec := httptest.NewRecorder()
		handler.CheckConsistency(rec, httptest.NewRequest(http.MethodGet, "/consistency", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var resp dto.ConsistencyResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if resp.Consistent || len(resp.Mismatches) != 1 {
			t.Fatalf("expected one mismatch, got %+v", resp)
		}
	})

	t.Run("repository failure is a 500", func(t *testing.T) {
		handler := NewLedgerHandler(&ledgerServiceStub{
			checkFn: func(ctx context.Context) ([]*domain.BalanceMismatch, error) {
				return nil, errors.New("connection refused")
			},
		})

		rec := httptest.NewRecorder()
		handler.CheckConsistency(rec, httptest.NewRequest(http.MethodGet, "/consistency", nil))

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
	})
}
