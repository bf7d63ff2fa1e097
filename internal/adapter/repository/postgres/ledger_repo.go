package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bancore/ledger/internal/domain"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	pool    querier
	retrier *Retrier
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool, retrier: NewRetrier()}
}

func newLedgerRepositoryWithQuerier(pool querier) *LedgerRepository {
	return &LedgerRepository{pool: pool, retrier: NewRetrier()}
}

// CheckConsistency replays every account's ACTIVE movements from its
// opening balance in SQL and returns the accounts where the replay does
// not land on the live balance. Voided movements drop out of the sum and
// their compensating entries stay in, so a reversed pair nets to zero.
// The scan competes with concurrent writers, so transient serialization
// failures are retried.
func (r *LedgerRepository) CheckConsistency(ctx context.Context) ([]*domain.BalanceMismatch, error) {
	var mismatches []*domain.BalanceMismatch

	err := r.retrier.Retry(ctx, func() error {
		var scanErr error
		mismatches, scanErr = r.checkConsistency(ctx)
		return scanErr
	})

	return mismatches, err
}

func (r *LedgerRepository) checkConsistency(ctx context.Context) ([]*domain.BalanceMismatch, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id,
		       a.balance,
		       a.opening_balance + COALESCE(SUM(
		           CASE WHEN m.kind = $1 THEN m.amount ELSE -m.amount END
		       ), 0) AS replayed
		FROM accounts a
		LEFT JOIN movements m
		  ON m.account_id = a.id AND m.status = $2
		GROUP BY a.id, a.balance, a.opening_balance
		HAVING a.balance <> a.opening_balance + COALESCE(SUM(
		           CASE WHEN m.kind = $1 THEN m.amount ELSE -m.amount END
		       ), 0)
		ORDER BY a.id`,
		string(domain.MovementEntry),
		string(domain.MovementActive),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mismatches []*domain.BalanceMismatch
	for rows.Next() {
		var (
			mismatch domain.BalanceMismatch
			live     pgtype.Numeric
			replayed pgtype.Numeric
		)

		if err := rows.Scan(&mismatch.AccountID, &live, &replayed); err != nil {
			return nil, err
		}

		mismatch.LiveBalance = numericToDecimal(live)
		mismatch.ReplayedBalance = numericToDecimal(replayed)
		mismatches = append(mismatches, &mismatch)
	}

	return mismatches, rows.Err()
}
