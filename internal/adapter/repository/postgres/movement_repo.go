package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bancore/ledger/internal/domain"
	"github.com/bancore/ledger/internal/usecase"
)

// MovementRepository implements usecase.MovementRepository. Method details
// live in per-method tables keyed by movement ID, one row at most.
type MovementRepository struct {
	pool querier
}

// NewMovementRepository creates a new MovementRepository.
func NewMovementRepository(pool *pgxpool.Pool) *MovementRepository {
	return &MovementRepository{pool: pool}
}

func newMovementRepositoryWithQuerier(pool querier) *MovementRepository {
	return &MovementRepository{pool: pool}
}

const movementColumns = `id, account_id, kind, method, amount, resulting_balance,
	account_version, reference, source_module, source_document_id, description,
	status, reversed_movement_id, voided_by, voided_at, void_reason, created_at`

// Create inserts a new movement within a transaction.
func (r *MovementRepository) Create(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error {
	q := txQuerier(tx, r.pool)

	var voidedAt pgtype.Timestamptz
	if movement.VoidedAt != nil {
		voidedAt = timeToPgTimestamptz(*movement.VoidedAt)
	}

	_, err := q.Exec(ctx, `
		INSERT INTO movements (
			id, account_id, kind, method, amount, resulting_balance,
			account_version, reference, source_module, source_document_id,
			description, status, reversed_movement_id, voided_by, voided_at,
			void_reason, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		movement.ID,
		movement.AccountID,
		string(movement.Kind),
		string(movement.Method),
		decimalToNumeric(movement.Amount),
		decimalToNumeric(movement.ResultingBalance),
		movement.AccountVersion,
		movement.Reference,
		movement.SourceModule,
		movement.SourceDocumentID,
		movement.Description,
		string(movement.Status),
		movement.ReversedMovementID,
		movement.VoidedBy,
		voidedAt,
		movement.VoidReason,
		timeToPgTimestamptz(movement.CreatedAt),
	)

	return err
}

// CreateDetail inserts the method detail row for a movement.
func (r *MovementRepository) CreateDetail(ctx context.Context, tx usecase.Transaction, movementID string, detail domain.MethodDetail) error {
	q := txQuerier(tx, r.pool)

	switch d := detail.(type) {
	case *domain.CheckDetail:
		_, err := q.Exec(ctx, `
			INSERT INTO check_details (movement_id, check_number, payee, issue_date)
			VALUES ($1, $2, $3, $4)`,
			movementID, d.CheckNumber, d.Payee, timeToPgTimestamptz(d.IssueDate),
		)
		return err
	case *domain.TransferDetail:
		_, err := q.Exec(ctx, `
			INSERT INTO transfer_details (movement_id, counterparty_bank, counterparty_account, authorization_code, transfer_date)
			VALUES ($1, $2, $3, $4, $5)`,
			movementID, d.CounterpartyBank, d.CounterpartyAccount, d.AuthorizationCode, timeToPgTimestamptz(d.TransferDate),
		)
		return err
	case *domain.DepositDetail:
		_, err := q.Exec(ctx, `
			INSERT INTO deposit_details (movement_id, deposit_type, slip_number, deposit_date)
			VALUES ($1, $2, $3, $4)`,
			movementID, d.DepositType, d.SlipNumber, timeToPgTimestamptz(d.DepositDate),
		)
		return err
	default:
		return domain.ErrUnexpectedMethodDetail
	}
}

// GetByID retrieves a movement by ID.
func (r *MovementRepository) GetByID(ctx context.Context, id string) (*domain.Movement, error) {
	return r.getByID(ctx, r.pool, id)
}

// GetByIDTx retrieves a movement inside a transaction.
func (r *MovementRepository) GetByIDTx(ctx context.Context, tx usecase.Transaction, id string) (*domain.Movement, error) {
	return r.getByID(ctx, txQuerier(tx, r.pool), id)
}

func (r *MovementRepository) getByID(ctx context.Context, q querier, id string) (*domain.Movement, error) {
	row := q.QueryRow(ctx, `SELECT `+movementColumns+` FROM movements WHERE id = $1`, id)

	movement, err := scanMovement(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMovementNotFound
		}

		return nil, err
	}

	return movement, nil
}

// GetDetail loads the method detail for a movement, nil when the method
// carries none.
func (r *MovementRepository) GetDetail(ctx context.Context, movementID string, method domain.PaymentMethod) (domain.MethodDetail, error) {
	switch method {
	case domain.MethodCheck:
		var (
			d         domain.CheckDetail
			issueDate pgtype.Timestamptz
		)
		err := r.pool.QueryRow(ctx, `
			SELECT check_number, payee, issue_date
			FROM check_details WHERE movement_id = $1`, movementID,
		).Scan(&d.CheckNumber, &d.Payee, &issueDate)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, nil
			}
			return nil, err
		}
		d.IssueDate = issueDate.Time
		return &d, nil
	case domain.MethodTransfer:
		var (
			d            domain.TransferDetail
			transferDate pgtype.Timestamptz
		)
		err := r.pool.QueryRow(ctx, `
			SELECT counterparty_bank, counterparty_account, authorization_code, transfer_date
			FROM transfer_details WHERE movement_id = $1`, movementID,
		).Scan(&d.CounterpartyBank, &d.CounterpartyAccount, &d.AuthorizationCode, &transferDate)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, nil
			}
			return nil, err
		}
		d.TransferDate = transferDate.Time
		return &d, nil
	case domain.MethodDeposit:
		var (
			d           domain.DepositDetail
			depositDate pgtype.Timestamptz
		)
		err := r.pool.QueryRow(ctx, `
			SELECT deposit_type, slip_number, deposit_date
			FROM deposit_details WHERE movement_id = $1`, movementID,
		).Scan(&d.DepositType, &d.SlipNumber, &depositDate)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, nil
			}
			return nil, err
		}
		d.DepositDate = depositDate.Time
		return &d, nil
	default:
		return nil, nil
	}
}

// MarkVoided flips an ACTIVE movement to VOID. The status guard in the
// WHERE clause makes a racing second void lose with zero rows affected.
func (r *MovementRepository) MarkVoided(ctx context.Context, tx usecase.Transaction, id, voidedBy string, voidedAt time.Time, reason string) error {
	q := txQuerier(tx, r.pool)

	tag, err := q.Exec(ctx, `
		UPDATE movements
		SET status = $2, voided_by = $3, voided_at = $4, void_reason = $5
		WHERE id = $1 AND status = $6`,
		id,
		string(domain.MovementVoid),
		voidedBy,
		timeToPgTimestamptz(voidedAt),
		reason,
		string(domain.MovementActive),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM movements WHERE id = $1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.ErrMovementNotFound
		}
		return domain.ErrAlreadyVoided
	}

	return nil
}

// List retrieves movements matching the filter, newest first.
func (r *MovementRepository) List(ctx context.Context, filter domain.MovementFilter) ([]*domain.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE 1=1`
	args := []any{}
	argPos := 1

	add := func(clause string, value any) {
		query += fmt.Sprintf(clause, argPos)
		args = append(args, value)
		argPos++
	}

	if filter.AccountID != "" {
		add(` AND account_id = $%d`, filter.AccountID)
	}
	if filter.Kind != "" {
		add(` AND kind = $%d`, string(filter.Kind))
	}
	if filter.Method != "" {
		add(` AND method = $%d`, string(filter.Method))
	}
	if filter.Status != "" {
		add(` AND status = $%d`, string(filter.Status))
	}
	if filter.From != nil {
		add(` AND created_at >= $%d`, timeToPgTimestamptz(*filter.From))
	}
	if filter.To != nil {
		add(` AND created_at < $%d`, timeToPgTimestamptz(*filter.To))
	}

	query += ` ORDER BY created_at DESC, id DESC`

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

	var movements []*domain.Movement
	for rows.Next() {
		movement, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		movements = append(movements, movement)
	}

	return movements, rows.Err()
}

// Summarize aggregates the active movements of an account over a date
// range.
func (r *MovementRepository) Summarize(ctx context.Context, accountID string, from, to time.Time) (*domain.AccountSummary, error) {
	var (
		entries pgtype.Numeric
		exits   pgtype.Numeric
		count   int64
	)

	err := r.pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE kind = $4), 0),
			COALESCE(SUM(amount) FILTER (WHERE kind = $5), 0),
			COUNT(*)
		FROM movements
		WHERE account_id = $1
		  AND status = $6
		  AND created_at >= $2
		  AND created_at < $3`,
		accountID,
		timeToPgTimestamptz(from),
		timeToPgTimestamptz(to),
		string(domain.MovementEntry),
		string(domain.MovementExit),
		string(domain.MovementActive),
	).Scan(&entries, &exits, &count)
	if err != nil {
		return nil, err
	}

	return &domain.AccountSummary{
		AccountID:    accountID,
		TotalEntries: numericToDecimal(entries),
		TotalExits:   numericToDecimal(exits),
		Count:        count,
	}, nil
}

func scanMovement(row pgx.Row) (*domain.Movement, error) {
	var (
		movement         domain.Movement
		kind             string
		method           string
		amount           pgtype.Numeric
		resultingBalance pgtype.Numeric
		status           string
		voidedAt         pgtype.Timestamptz
		createdAt        pgtype.Timestamptz
	)

	err := row.Scan(
		&movement.ID,
		&movement.AccountID,
		&kind,
		&method,
		&amount,
		&resultingBalance,
		&movement.AccountVersion,
		&movement.Reference,
		&movement.SourceModule,
		&movement.SourceDocumentID,
		&movement.Description,
		&status,
		&movement.ReversedMovementID,
		&movement.VoidedBy,
		&voidedAt,
		&movement.VoidReason,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	movement.Kind = domain.MovementKind(kind)
	movement.Method = domain.PaymentMethod(method)
	movement.Amount = numericToDecimal(amount)
	movement.ResultingBalance = numericToDecimal(resultingBalance)
	movement.Status = domain.MovementStatus(status)
	movement.CreatedAt = createdAt.Time
	if voidedAt.Valid {
		t := voidedAt.Time
		movement.VoidedAt = &t
	}

	return &movement, nil
}
