package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bancore/ledger/internal/domain"
	"github.com/bancore/ledger/internal/infrastructure/metrics"
)

// AccountUseCase handles account provisioning and read operations.
type AccountUseCase struct {
	txManager    TransactionManager
	accountRepo  AccountRepository
	movementRepo MovementRepository
	auditRepo    AuditRepository
	outboxRepo   OutboxRepository
	cache        Cache
	idGen        IDGenerator
	metrics      *metrics.Metrics
}

// NewAccountUseCase creates a new AccountUseCase. metrics may be nil.
func NewAccountUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	movementRepo MovementRepository,
	auditRepo AuditRepository,
	outboxRepo OutboxRepository,
	cache Cache,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *AccountUseCase {
	return &AccountUseCase{
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

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	Number               string
	Currency             string
	OpeningBalance       decimal.Decimal
	AllowNegativeBalance bool
	Actor                string
}

// CreateAccount provisions a new account.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateAccountNumber(input.Number); err != nil {
		return nil, err
	}

	if err := domain.ValidateCurrency(input.Currency); err != nil {
		return nil, err
	}

	if input.OpeningBalance.IsNegative() && !input.AllowNegativeBalance {
		return nil, domain.ErrInsufficientFunds
	}

	now := time.Now().UTC()

	account := &domain.Account{
		ID:                   uc.idGen.Generate(),
		Number:               input.Number,
		Currency:             input.Currency,
		Balance:              input.OpeningBalance,
		OpeningBalance:       input.OpeningBalance,
		Version:              0,
		AllowNegativeBalance: input.AllowNegativeBalance,
		Status:               domain.AccountActive,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.accountRepo.Create(ctx, tx, account); err != nil {
		return nil, err
	}

	audit := &domain.AuditEntry{
		ID:            uc.idGen.Generate(),
		Actor:         input.Actor,
		Action:        domain.AuditActionAccountCreate,
		ResourceType:  domain.ResourceTypeAccount,
		ResourceID:    account.ID,
		AccountID:     account.ID,
		Description:   fmt.Sprintf("account %s opened in %s", account.Number, account.Currency),
		BalanceBefore: decimal.Zero,
		BalanceAfter:  account.Balance,
		CreatedAt:     now,
	}

	if err := uc.auditRepo.CreateTx(ctx, tx, audit); err != nil {
		return nil, err
	}

	if uc.outboxRepo != nil {
		event := &domain.OutboxEvent{
			AggregateID:   account.ID,
			AggregateType: domain.AggregateTypeAccount,
			EventType:     domain.EventTypeAccountCreated,
			Payload: map[string]any{
				"account_id": account.ID,
				"number":     account.Number,
				"currency":   account.Currency,
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
		uc.metrics.AccountsCreated.Inc()
		uc.metrics.AccountOperations.WithLabelValues("create").Inc()
		uc.metrics.AuditEntriesCreated.WithLabelValues(string(audit.Action)).Inc()
	}

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// AccountBalance is the live balance of an account with its currency.
type AccountBalance struct {
	Balance  decimal.Decimal
	Currency string
}

// GetBalance returns the account's live balance, served from a short-TTL
// cache when available.
func (uc *AccountUseCase) GetBalance(ctx context.Context, id string) (*AccountBalance, error) {
	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, balanceCacheKey(id)); err == nil {
			if balance, currency, ok := decodeBalance(cached); ok {
				uc.countCache(true)
				return &AccountBalance{Balance: balance, Currency: currency}, nil
			}
		}
		uc.countCache(false)
	}

	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		_ = uc.cache.Set(ctx, balanceCacheKey(id), encodeBalance(account.Balance, account.Currency), balanceCacheTTL)
	}

	return &AccountBalance{Balance: account.Balance, Currency: account.Currency}, nil
}

// GetSummary aggregates the account's active movements over a date range.
func (uc *AccountUseCase) GetSummary(ctx context.Context, id string, from, to time.Time) (*domain.AccountSummary, error) {
	if _, err := uc.accountRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	return uc.movementRepo.Summarize(ctx, id, from, to)
}

// DeactivateAccount transitions an account to INACTIVE. Movements against
// the account are rejected afterwards; existing history stays queryable.
func (uc *AccountUseCase) DeactivateAccount(ctx context.Context, id, actor string) error {
	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !account.IsActive() {
		return nil
	}

	now := time.Now().UTC()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := uc.accountRepo.SetStatus(ctx, tx, id, domain.AccountInactive, now); err != nil {
		return err
	}

	audit := &domain.AuditEntry{
		ID:            uc.idGen.Generate(),
		Actor:         actor,
		Action:        domain.AuditActionAccountDeactivate,
		ResourceType:  domain.ResourceTypeAccount,
		ResourceID:    account.ID,
		AccountID:     account.ID,
		Description:   fmt.Sprintf("account %s deactivated", account.Number),
		BalanceBefore: account.Balance,
		BalanceAfter:  account.Balance,
		CreatedAt:     now,
	}

	if err := uc.auditRepo.CreateTx(ctx, tx, audit); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.AccountOperations.WithLabelValues("deactivate").Inc()
		uc.metrics.AuditEntriesCreated.WithLabelValues(string(audit.Action)).Inc()
	}

	return nil
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Limit  int
	Offset int
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	if input.Limit <= 0 {
		input.Limit = defaultPageSize
	}
	if input.Limit > maxPageSize {
		input.Limit = maxPageSize
	}
	return uc.accountRepo.List(ctx, input.Limit, input.Offset)
}

// ListAudit lists audit entries matching the filter.
func (uc *AccountUseCase) ListAudit(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditEntry, error) {
	filter.Limit, filter.Offset = domain.ValidatePagination(filter.Limit, filter.Offset)
	return uc.auditRepo.List(ctx, filter)
}

func (uc *AccountUseCase) countCache(hit bool) {
	if uc.metrics == nil {
		return
	}
	if hit {
		uc.metrics.CacheHits.Inc()
	} else {
		uc.metrics.CacheMisses.Inc()
	}
}

func encodeBalance(balance decimal.Decimal, currency string) string {
	return balance.String() + "|" + currency
}

func decodeBalance(cached string) (decimal.Decimal, string, bool) {
	for i := 0; i < len(cached); i++ {
		if cached[i] == '|' {
			balance, err := decimal.NewFromString(cached[:i])
			if err != nil {
				return decimal.Zero, "", false
			}
			return balance, cached[i+1:], true
		}
	}
	return decimal.Zero, "", false
}
