package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bancore/ledger/internal/domain"
	"github.com/bancore/ledger/internal/usecase"
)

// AuditRepository implements usecase.AuditRepository.
type AuditRepository struct {
	pool querier
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

func newAuditRepositoryWithQuerier(pool querier) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// CreateTx inserts an audit entry within the transaction of the change it
// records.
func (r *AuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, entry *domain.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	q := txQuerier(tx, r.pool)

	_, err := q.Exec(ctx, `
		INSERT INTO audit_entries (
			id, actor, action, resource_type, resource_id, account_id,
			description, balance_before, balance_after, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		entry.ID,
		entry.Actor,
		string(entry.Action),
		entry.ResourceType,
		entry.ResourceID,
		entry.AccountID,
		entry.Description,
		decimalToNumeric(entry.BalanceBefore),
		decimalToNumeric(entry.BalanceAfter),
		timeToPgTimestamptz(entry.CreatedAt),
	)

	return err
}

// List retrieves audit entries matching the filter, newest first.
func (r *AuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditEntry, error) {
	query := `
		SELECT id, actor, action, resource_type, resource_id, account_id,
		       description, balance_before, balance_after, created_at
		FROM audit_entries
		WHERE 1=1`
	args := []any{}
	argPos := 1

	add := func(clause string, value any) {
		query += fmt.Sprintf(clause, argPos)
		args = append(args, value)
		argPos++
	}

	if filter.Actor != "" {
		add(` AND actor = $%d`, filter.Actor)
	}
	if filter.Action != "" {
		add(` AND action = $%d`, string(filter.Action))
	}
	if filter.ResourceID != "" {
		add(` AND resource_id = $%d`, filter.ResourceID)
	}
	if filter.AccountID != "" {
		add(` AND account_id = $%d`, filter.AccountID)
	}

	query += ` ORDER BY created_at DESC`

	if filter.Limit > 0 {
		add(` LIMIT $%d`, filter.Limit)
	}
	if filter.Offset > 0 {
		add(` OFFSET $%d`, filter.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.AuditEntry
	for rows.Next() {
		entry, err := scanAuditEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func scanAuditEntry(row pgx.Row) (*domain.AuditEntry, error) {
	var (
		entry         domain.AuditEntry
		action        string
		balanceBefore pgtype.Numeric
		balanceAfter  pgtype.Numeric
		createdAt     pgtype.Timestamptz
	)

	err := row.Scan(
		&entry.ID,
		&entry.Actor,
		&action,
		&entry.ResourceType,
		&entry.ResourceID,
		&entry.AccountID,
		&entry.Description,
		&balanceBefore,
		&balanceAfter,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	entry.Action = domain.AuditAction(action)
	entry.BalanceBefore = numericToDecimal(balanceBefore)
	entry.BalanceAfter = numericToDecimal(balanceAfter)
	entry.CreatedAt = createdAt.Time

	return &entry, nil
}
