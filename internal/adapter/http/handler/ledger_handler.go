package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/bancore/ledger/internal/adapter/http/dto"
	"github.com/bancore/ledger/internal/domain"
	"github.com/bancore/ledger/internal/usecase"
)

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	CheckConsistency(ctx context.Context) ([]*domain.BalanceMismatch, error)
}

// LedgerHandler handles ledger-wide HTTP requests.
type LedgerHandler struct {
	ledgerUC LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// CheckConsistency verifies the ledger invariant. A drifted ledger is a
// successful check with a negative result, not a server error.
func (h *LedgerHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	mismatches, err := h.ledgerUC.CheckConsistency(r.Context())
	if err != nil && !errors.Is(err, usecase.ErrInconsistentLedger) {
		writeError(w, http.StatusInternalServerError, "failed to check consistency", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ConsistencyFromDomain(mismatches))
}
