package dto

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bancore/ledger/internal/domain"
)

func TestMovementFromDomainCarriesDetail(t *testing.T) {
	voidedAt := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	reversed := "mov-0"

	m := &domain.Movement{
		ID:                 "mov-1",
		AccountID:          "acc-1",
		Kind:               domain.MovementExit,
		Method:             domain.MethodCheck,
		Amount:             decimal.RequireFromString("200.00"),
		ResultingBalance:   decimal.RequireFromString("800.00"),
		Status:             domain.MovementVoid,
		ReversedMovementID: &reversed,
		VoidedBy:           "supervisor-2",
		VoidedAt:           &voidedAt,
		VoidReason:         "keying error",
		Detail: &domain.CheckDetail{
			CheckNumber: "000451",
			Payee:       "ACME",
		},
	}

	resp := MovementFromDomain(m)

	if resp.Detail == nil || resp.Detail.CheckNumber != "000451" {
		t.Fatalf("expected check detail on response, got %+v", resp.Detail)
	}
	if resp.Status != "VOID" || resp.VoidReason != "keying error" {
		t.Fatalf("void fields missing: %+v", resp)
	}
	if resp.ReversedMovementID == nil || *resp.ReversedMovementID != "mov-0" {
		t.Fatalf("reversal link missing: %+v", resp)
	}
}

func TestMovementResponseOmitsEmptyVoidFields(t *testing.T) {
	m := &domain.Movement{
		ID:        "mov-1",
		AccountID: "acc-1",
		Kind:      domain.MovementEntry,
		Method:    domain.MethodCash,
		Amount:    decimal.RequireFromString("10.00"),
		Status:    domain.MovementActive,
	}

	raw, err := json.Marshal(MovementFromDomain(m))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	if strings.Contains(string(raw), "voided_by") || strings.Contains(string(raw), "void_reason") {
		t.Fatalf("active movement must not serialize void fields: %s", raw)
	}
}

func TestConsistencyFromDomain(t *testing.T) {
	clean := ConsistencyFromDomain(nil)
	if !clean.Consistent || len(clean.Mismatches) != 0 {
		t.Fatalf("expected clean response, got %+v", clean)
	}

	drifted := ConsistencyFromDomain([]*domain.BalanceMismatch{
		{
			AccountID:       "acc-1",
			LiveBalance:     decimal.RequireFromString("100.00"),
			ReplayedBalance: decimal.RequireFromString("90.00"),
		},
	})
	if drifted.Consistent || len(drifted.Mismatches) != 1 {
		t.Fatalf("expected drift to be reported, got %+v", drifted)
	}
}
