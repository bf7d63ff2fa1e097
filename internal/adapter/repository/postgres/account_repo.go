package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/bancore/ledger/internal/domain"
	"github.com/bancore/ledger/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	pool querier
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func newAccountRepositoryWithQuerier(pool querier) *AccountRepository {
	return &AccountRepository{pool: pool}
}

const accountColumns = `id, number, currency, balance, opening_balance, version,
	allow_negative_balance, status, created_at, updated_at`

// Create inserts a new account within a transaction.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	q := txQuerier(tx, r.pool)

	_, err := q.Exec(ctx, `
		INSERT INTO accounts (
			id, number, currency, balance, opening_balance, version,
			allow_negative_balance, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		account.ID,
		account.Number,
		account.Currency,
		decimalToNumeric(account.Balance),
		decimalToNumeric(account.OpeningBalance),
		account.Version,
		account.AllowNegativeBalance,
		string(account.Status),
		timeToPgTimestamptz(account.CreatedAt),
		timeToPgTimestamptz(account.UpdatedAt),
	)

	return err
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.getByID(ctx, r.pool, id)
}

// GetByIDTx retrieves an account inside a transaction. The read takes no
// row lock; CompareAndSwapBalance is what protects the balance write.
func (r *AccountRepository) GetByIDTx(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	return r.getByID(ctx, txQuerier(tx, r.pool), id)
}

func (r *AccountRepository) getByID(ctx context.Context, q querier, id string) (*domain.Account, error) {
	row := q.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)

	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return account, nil
}

// CompareAndSwapBalance writes the new balance only if the stored version
// still matches the one the caller read. Zero rows affected means another
// writer committed first.
func (r *AccountRepository) CompareAndSwapBalance(ctx context.Context, tx usecase.Transaction, id string, newBalance decimal.Decimal, expectedVersion int64, updatedAt time.Time) error {
	q := txQuerier(tx, r.pool)

	tag, err := q.Exec(ctx, `
		UPDATE accounts
		SET balance = $2, version = version + 1, updated_at = $3
		WHERE id = $1 AND version = $4`,
		id,
		decimalToNumeric(newBalance),
		timeToPgTimestamptz(updatedAt),
		expectedVersion,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrVersionConflict
	}

	return nil
}

// SetStatus updates the lifecycle status of an account within a transaction.
func (r *AccountRepository) SetStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.AccountStatus, updatedAt time.Time) error {
	q := txQuerier(tx, r.pool)

	tag, err := q.Exec(ctx, `
		UPDATE accounts SET status = $2, updated_at = $3 WHERE id = $1`,
		id, string(status), timeToPgTimestamptz(updatedAt),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// List lists accounts with pagination.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account        domain.Account
		balance        pgtype.Numeric
		openingBalance pgtype.Numeric
		status         string
		createdAt      pgtype.Timestamptz
		updatedAt      pgtype.Timestamptz
	)

	err := row.Scan(
		&account.ID,
		&account.Number,
		&account.Currency,
		&balance,
		&openingBalance,
		&account.Version,
		&account.AllowNegativeBalance,
		&status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	account.Balance = numericToDecimal(balance)
	account.OpeningBalance = numericToDecimal(openingBalance)
	account.Status = domain.AccountStatus(status)
	account.CreatedAt = createdAt.Time
	account.UpdatedAt = updatedAt.Time

	return &account, nil
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.NaN || n.Int == nil {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}
