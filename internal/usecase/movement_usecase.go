package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bancore/ledger/internal/domain"
	"github.com/bancore/ledger/internal/infrastructure/metrics"
)

// MovementUseCase orchestrates the compound write behind every
// balance-affecting operation: movement insert, optional method detail,
// conditional balance update, audit entry and outbox event commit or roll
// back as one unit. Races between concurrent writers are resolved solely by
// the version check on the balance write; the use case never retries a
// conflict on its own.
type MovementUseCase struct {
	txManager    TransactionManager
	accountRepo  AccountRepository
	movementRepo MovementRepository
	auditRepo    AuditRepository
	outboxRepo   OutboxRepository
	cache        Cache
	idGen        IDGenerator
	metrics      *metrics.Metrics
}

// NewMovementUseCase creates a new MovementUseCase. metrics may be nil.
func NewMovementUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	movementRepo MovementRepository,
	auditRepo AuditRepository,
	outboxRepo OutboxRepository,
	cache Cache,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *MovementUseCase {
	return &MovementUseCase{
		txManager:    txManager,
		accountRepo:  accountRepo,
		movementRepo: movementRepo,
		auditRepo:    auditRepo,
		outboxRepo:   outboxRepo,
		cache:        cache,
		idGen:        idGen,
		metrics:      metrics,
	}
}

// CreateMovementInput represents input for creating a movement.
type CreateMovementInput struct {
	AccountID        string
	Kind             domain.MovementKind
	Method           domain.PaymentMethod
	Amount           decimal.Decimal
	Detail           domain.MethodDetail
	Reference        string
	Description      string
	SourceModule     string
	SourceDocumentID string
	Actor            string
}

// CreateMovement records one balance-affecting event against an account.
func (uc *MovementUseCase) CreateMovement(ctx context.Context, input CreateMovementInput) (*domain.Movement, error) {
	movement, err := uc.createMovement(ctx, input)
	if err != nil {
		uc.recordError(err)
	}
	return movement, err
}

func (uc *MovementUseCase) createMovement(ctx context.Context, input CreateMovementInput) (*domain.Movement, error) {
	// Validate everything that does not need storage before opening the
	// transaction, so rejected calls touch no state at all.
	if !input.Kind.Valid() {
		return nil, domain.ErrInvalidMovementKind
	}

	if !input.Method.Valid() {
		return nil, domain.ErrInvalidPaymentMethod
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	if err := domain.ValidateDetail(input.Method, input.Detail); err != nil {
		return nil, err
	}

	if err := domain.ValidateReference(input.Reference); err != nil {
		return nil, err
	}

	if err := domain.ValidateDescription(input.Description); err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	account, err := uc.accountRepo.GetByIDTx(ctx, tx, input.AccountID)
	if err != nil {
		return nil, err
	}

	if !account.IsActive() {
		return nil, domain.ErrAccountInactive
	}

	newBalance := domain.NewBalance(account.Balance, input.Kind, input.Amount)
	if err := account.ValidateBalance(newBalance); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	movement := &domain.Movement{
		ID:               uc.idGen.Generate(),
		AccountID:        account.ID,
		Kind:             input.Kind,
		Method:           input.Method,
		Amount:           input.Amount,
		ResultingBalance: newBalance,
		AccountVersion:   account.Version + 1,
		Reference:        input.Reference,
		SourceModule:     input.SourceModule,
		SourceDocumentID: input.SourceDocumentID,
		Description:      input.Description,
		Status:           domain.MovementActive,
		Detail:           input.Detail,
		CreatedAt:        now,
	}

	if err := uc.movementRepo.Create(ctx, tx, movement); err != nil {
		return nil, err
	}

	if input.Detail != nil {
		if err := uc.movementRepo.CreateDetail(ctx, tx, movement.ID, input.Detail); err != nil {
			return nil, err
		}
	}

	if err := uc.accountRepo.CompareAndSwapBalance(ctx, tx, account.ID, newBalance, account.Version, now); err != nil {
		return nil, err
	}

	audit := &domain.AuditEntry{
		ID:            uc.idGen.Generate(),
		Actor:         input.Actor,
		Action:        auditActionForMethod(input.Method),
		ResourceType:  domain.ResourceTypeMovement,
		ResourceID:    movement.ID,
		AccountID:     account.ID,
		Description:   fmt.Sprintf("%s %s %s on account %s", movement.Kind, movement.Amount, movement.Method, account.Number),
		BalanceBefore: account.Balance,
		BalanceAfter:  newBalance,
		CreatedAt:     now,
	}

	if err := uc.auditRepo.CreateTx(ctx, tx, audit); err != nil {
		return nil, err
	}

	if err := uc.createMovementEvent(ctx, tx, movement, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.MovementsCreated.WithLabelValues(string(movement.Kind), string(movement.Method)).Inc()
		amount, _ := movement.Amount.Float64()
		uc.metrics.MovementAmount.Observe(amount)
		balance, _ := newBalance.Float64()
		uc.metrics.AccountBalance.WithLabelValues(account.ID, account.Currency).Set(balance)
		uc.metrics.AuditEntriesCreated.WithLabelValues(string(audit.Action)).Inc()
	}

	uc.invalidateBalance(ctx, account.ID)

	return movement, nil
}

// VoidMovement reverses a movement by compensation. The original record is
// marked VOID and kept; a new movement of the opposite kind restores the
// balance. History is never deleted or rewritten.
func (uc *MovementUseCase) VoidMovement(ctx context.Context, movementID, reason, actor string) (*domain.Movement, error) {
	movement, err := uc.voidMovement(ctx, movementID, reason, actor)
	if err != nil {
		uc.recordError(err)
	}
	return movement, err
}

func (uc *MovementUseCase) voidMovement(ctx context.Context, movementID, reason, actor string) (*domain.Movement, error) {
	if reason == "" {
		return nil, domain.ErrVoidReasonRequired
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	original, err := uc.movementRepo.GetByIDTx(ctx, tx, movementID)
	if err != nil {
		return nil, err
	}

	if original.Status != domain.MovementActive {
		return nil, domain.ErrAlreadyVoided
	}

	account, err := uc.accountRepo.GetByIDTx(ctx, tx, original.AccountID)
	if err != nil {
		return nil, err
	}

	reversedKind := original.Kind.Opposite()

	newBalance := domain.NewBalance(account.Balance, reversedKind, original.Amount)
	if err := account.ValidateBalance(newBalance); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	// Guarded on status, so a concurrent void of the same movement fails
	// here instead of reversing twice.
	if err := uc.movementRepo.MarkVoided(ctx, tx, original.ID, actor, now, reason); err != nil {
		return nil, err
	}

	compensating := &domain.Movement{
		ID:                 uc.idGen.Generate(),
		AccountID:          account.ID,
		Kind:               reversedKind,
		Method:             original.Method,
		Amount:             original.Amount,
		ResultingBalance:   newBalance,
		AccountVersion:     account.Version + 1,
		Reference:          original.Reference,
		Description:        fmt.Sprintf("reversal of movement %s: %s", original.ID, reason),
		Status:             domain.MovementActive,
		ReversedMovementID: &original.ID,
		CreatedAt:          now,
	}

	if err := uc.movementRepo.Create(ctx, tx, compensating); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.CompareAndSwapBalance(ctx, tx, account.ID, newBalance, account.Version, now); err != nil {
		return nil, err
	}

	audit := &domain.AuditEntry{
		ID:            uc.idGen.Generate(),
		Actor:         actor,
		Action:        domain.AuditActionMovementVoid,
		ResourceType:  domain.ResourceTypeMovement,
		ResourceID:    original.ID,
		AccountID:     account.ID,
		Description:   fmt.Sprintf("voided %s %s %s on account %s: %s", original.Kind, original.Amount, original.Method, account.Number, reason),
		BalanceBefore: account.Balance,
		BalanceAfter:  newBalance,
		CreatedAt:     now,
	}

	if err := uc.auditRepo.CreateTx(ctx, tx, audit); err != nil {
		return nil, err
	}

	if uc.outboxRepo != nil {
		event := &domain.OutboxEvent{
			AggregateID:   original.ID,
			AggregateType: domain.AggregateTypeMovement,
			EventType:     domain.EventTypeMovementVoided,
			Payload: map[string]any{
				"movement_id":              original.ID,
				"compensating_movement_id": compensating.ID,
				"account_id":               account.ID,
				"amount":                   original.Amount.String(),
				"reason":                   reason,
			},
			CreatedAt: now,
		}

		if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.MovementsVoided.Inc()
		balance, _ := newBalance.Float64()
		uc.metrics.AccountBalance.WithLabelValues(account.ID, account.Currency).Set(balance)
		uc.metrics.AuditEntriesCreated.WithLabelValues(string(audit.Action)).Inc()
	}

	uc.invalidateBalance(ctx, account.ID)

	return compensating, nil
}

// CreateAdjustmentInput represents input for a manual balance correction.
// This is the one entry point where the caller's sign is meaningful:
// positive credits the account, negative debits it.
type CreateAdjustmentInput struct {
	AccountID    string
	SignedAmount decimal.Decimal
	Description  string
	Reference    string
	Actor        string
}

// CreateAdjustment records a manual correction through the same atomic path
// as a regular movement.
func (uc *MovementUseCase) CreateAdjustment(ctx context.Context, input CreateAdjustmentInput) (*domain.Movement, error) {
	if input.SignedAmount.IsZero() {
		return nil, domain.ErrInvalidAmount
	}

	kind, amount := domain.KindFromSignedAmount(input.SignedAmount)

	return uc.CreateMovement(ctx, CreateMovementInput{
		AccountID:   input.AccountID,
		Kind:        kind,
		Method:      domain.MethodAdjustment,
		Amount:      amount,
		Reference:   input.Reference,
		Description: input.Description,
		Actor:       input.Actor,
	})
}

// GetMovement retrieves a movement by ID, including its method detail when
// one exists.
func (uc *MovementUseCase) GetMovement(ctx context.Context, id string) (*domain.Movement, error) {
	movement, err := uc.movementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if movement.Method.RequiresDetail() {
		detail, err := uc.movementRepo.GetDetail(ctx, movement.ID, movement.Method)
		if err != nil {
			return nil, err
		}

		movement.Detail = detail
	}

	return movement, nil
}

// ListMovements lists movements matching the filter.
func (uc *MovementUseCase) ListMovements(ctx context.Context, filter domain.MovementFilter) ([]*domain.Movement, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}

	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}

	return uc.movementRepo.List(ctx, filter)
}

func (uc *MovementUseCase) createMovementEvent(ctx context.Context, tx Transaction, movement *domain.Movement, now time.Time) error {
	if uc.outboxRepo == nil {
		return nil
	}

	eventType := domain.EventTypeMovementCreated
	if movement.Method == domain.MethodAdjustment {
		eventType = domain.EventTypeAdjustmentCreated
	}

	event := &domain.OutboxEvent{
		AggregateID:   movement.ID,
		AggregateType: domain.AggregateTypeMovement,
		EventType:     eventType,
		Payload: map[string]any{
			"movement_id":       movement.ID,
			"account_id":        movement.AccountID,
			"kind":              string(movement.Kind),
			"method":            string(movement.Method),
			"amount":            movement.Amount.String(),
			"resulting_balance": movement.ResultingBalance.String(),
		},
		CreatedAt: now,
	}

	return uc.outboxRepo.Create(ctx, tx, event)
}

func (uc *MovementUseCase) recordError(err error) {
	if uc.metrics == nil {
		return
	}

	if errors.Is(err, domain.ErrVersionConflict) {
		uc.metrics.VersionConflicts.Inc()
	}

	uc.metrics.MovementErrors.WithLabelValues(movementErrorType(err)).Inc()
}

func movementErrorType(err error) string {
	switch {
	case errors.Is(err, domain.ErrVersionConflict):
		return "version_conflict"
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrAccountInactive):
		return "account_inactive"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "account_not_found"
	case errors.Is(err, domain.ErrMovementNotFound):
		return "movement_not_found"
	case errors.Is(err, domain.ErrAlreadyVoided):
		return "already_voided"
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidMovementKind),
		errors.Is(err, domain.ErrInvalidPaymentMethod),
		errors.Is(err, domain.ErrMissingMethodDetail),
		errors.Is(err, domain.ErrUnexpectedMethodDetail),
		errors.Is(err, domain.ErrMethodDetailMismatch),
		errors.Is(err, domain.ErrVoidReasonRequired):
		return "validation"
	default:
		return "other"
	}
}

func (uc *MovementUseCase) invalidateBalance(ctx context.Context, accountID string) {
	if uc.cache == nil {
		return
	}

	// Best effort: a stale cached balance expires on its own TTL.
	_ = uc.cache.Delete(ctx, balanceCacheKey(accountID))
}

func auditActionForMethod(method domain.PaymentMethod) domain.AuditAction {
	if method == domain.MethodAdjustment {
		return domain.AuditActionAdjustmentCreate
	}
	return domain.AuditActionMovementCreate
}

func balanceCacheKey(accountID string) string {
	return "balance:" + accountID
}
