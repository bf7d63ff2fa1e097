package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bancore/ledger/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	// GetByIDTx reads an account inside a transaction without locking it;
	// the conditional balance write is the only guard against lost updates.
	GetByIDTx(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	// CompareAndSwapBalance applies newBalance and bumps version by 1 only
	// if the stored version still equals expectedVersion. Returns
	// domain.ErrVersionConflict when another writer got there first.
	CompareAndSwapBalance(ctx context.Context, tx Transaction, id string, newBalance decimal.Decimal, expectedVersion int64, updatedAt time.Time) error
	SetStatus(ctx context.Context, tx Transaction, id string, status domain.AccountStatus, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// MovementRepository defines data access for movements and their details.
type MovementRepository interface {
	Create(ctx context.Context, tx Transaction, movement *domain.Movement) error
	CreateDetail(ctx context.Context, tx Transaction, movementID string, detail domain.MethodDetail) error
	GetByID(ctx context.Context, id string) (*domain.Movement, error)
	GetByIDTx(ctx context.Context, tx Transaction, id string) (*domain.Movement, error)
	GetDetail(ctx context.Context, movementID string, method domain.PaymentMethod) (domain.MethodDetail, error)
	// MarkVoided flips an ACTIVE movement to VOID, recording who, when and
	// why. Returns domain.ErrAlreadyVoided if the movement is not ACTIVE,
	// including when a concurrent void won the race.
	MarkVoided(ctx context.Context, tx Transaction, id, voidedBy string, voidedAt time.Time, reason string) error
	List(ctx context.Context, filter domain.MovementFilter) ([]*domain.Movement, error)
	Summarize(ctx context.Context, accountID string, from, to time.Time) (*domain.AccountSummary, error)
}

// AuditRepository defines data access for audit entries.
type AuditRepository interface {
	CreateTx(ctx context.Context, tx Transaction, entry *domain.AuditEntry) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditEntry, error)
}

// LedgerRepository defines ledger-wide operations.
type LedgerRepository interface {
	// CheckConsistency replays every account's active movements from its
	// opening balance and returns the accounts whose live balance does not
	// match. An empty result means the ledger is consistent.
	CheckConsistency(ctx context.Context) ([]*domain.BalanceMismatch, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
