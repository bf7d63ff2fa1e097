package usecase

import (
	"context"
	"errors"

	"github.com/bancore/ledger/internal/domain"
)

// ErrInconsistentLedger is returned when an account balance diverges from
// its movement history.
var ErrInconsistentLedger = errors.New("ledger is inconsistent: balance does not match movement history")

// LedgerUseCase handles ledger-wide operations.
type LedgerUseCase struct {
	ledgerRepo LedgerRepository
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(ledgerRepo LedgerRepository) *LedgerUseCase {
	return &LedgerUseCase{
		ledgerRepo: ledgerRepo,
	}
}

// CheckConsistency verifies that every account's live balance equals its
// opening balance plus the signed sum of its active movements. Voided
// movements and their compensating entries cancel out, so the replay holds
// across reversals too.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) ([]*domain.BalanceMismatch, error) {
	mismatches, err := uc.ledgerRepo.CheckConsistency(ctx)
	if err != nil {
		return nil, err
	}

	if len(mismatches) > 0 {
		return mismatches, ErrInconsistentLedger
	}

	return nil, nil
}
