package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bancore/ledger/internal/domain"
	"github.com/bancore/ledger/internal/usecase"
	"github.com/bancore/ledger/internal/usecase/mocks"
)

type accountFixture struct {
	accountRepo  *mocks.MockAccountRepository
	movementRepo *mocks.MockMovementRepository
	auditRepo    *mocks.MockAuditRepository
	outboxRepo   *mocks.MockOutboxRepository
	cache        *mocks.MockCache
	txManager    *mocks.MockTransactionManager
	uc           *usecase.AccountUseCase
}

func newAccountFixture() *accountFixture {
	f := &accountFixture{
		accountRepo:  mocks.NewMockAccountRepository(),
		movementRepo: mocks.NewMockMovementRepository(),
		auditRepo:    mocks.NewMockAuditRepository(),
		outboxRepo:   mocks.NewMockOutboxRepository(),
		cache:        mocks.NewMockCache(),
		txManager:    mocks.NewMockTransactionManager(),
	}
	f.uc = usecase.NewAccountUseCase(f.txManager, f.accountRepo, f.movementRepo, f.auditRepo, f.outboxRepo, f.cache, mocks.NewMockIDGenerator(), nil)
	return f
}

func TestAccountUseCase_CreateAccount(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := newAccountFixture()

		account, err := f.uc.CreateAccount(context.Background(), usecase.CreateAccountInput{
			Number:         "10001-7",
			Currency:       "USD",
			OpeningBalance: decimal.RequireFromString("1000.00"),
			Actor:          "ops-1",
		})
		require.NoError(t, err)

		assert.Equal(t, domain.AccountActive, account.Status)
		assert.Equal(t, int64(0), account.Version)
		assert.True(t, account.Balance.Equal(account.OpeningBalance))

		stored, err := f.accountRepo.GetByID(context.Background(), account.ID)
		require.NoError(t, err)
		assert.Equal(t, "10001-7", stored.Number)

		require.Len(t, f.auditRepo.Entries, 1)
		assert.Equal(t, domain.AuditActionAccountCreate, f.auditRepo.Entries[0].Action)
		require.Len(t, f.outboxRepo.Events, 1)
		assert.Equal(t, domain.EventTypeAccountCreated, f.outboxRepo.Events[0].EventType)
	})

	t.Run("invalid account number", func(t *testing.T) {
		f := newAccountFixture()

		_, err := f.uc.CreateAccount(context.Background(), usecase.CreateAccountInput{
			Number:   "x",
			Currency: "USD",
		})
		assert.Error(t, err)
		assert.Equal(t, 0, f.txManager.Began)
	})

	t.Run("invalid currency", func(t *testing.T) {
		f := newAccountFixture()

		_, err := f.uc.CreateAccount(context.Background(), usecase.CreateAccountInput{
			Number:   "10001-7",
			Currency: "ZZZ",
		})
		assert.Error(t, err)
	})

	t.Run("negative opening balance needs the overdraft flag", func(t *testing.T) {
		f := newAccountFixture()

		_, err := f.uc.CreateAccount(context.Background(), usecase.CreateAccountInput{
			Number:         "10001-7",
			Currency:       "USD",
			OpeningBalance: decimal.RequireFromString("-10.00"),
		})
		assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

		_, err = f.uc.CreateAccount(context.Background(), usecase.CreateAccountInput{
			Number:               "10001-7",
			Currency:             "USD",
			OpeningBalance:       decimal.RequireFromString("-10.00"),
			AllowNegativeBalance: true,
		})
		assert.NoError(t, err)
	})
}

func TestAccountUseCase_GetBalance(t *testing.T) {
	t.Run("cache miss falls through and populates", func(t *testing.T) {
		f := newAccountFixture()
		f.accountRepo.Seed(&domain.Account{
			ID:       "acc-1",
			Number:   "10001-7",
			Currency: "USD",
			Balance:  decimal.RequireFromString("750.25"),
			Status:   domain.AccountActive,
		})

		balance, err := f.uc.GetBalance(context.Background(), "acc-1")
		require.NoError(t, err)
		assert.True(t, balance.Balance.Equal(decimal.RequireFromString("750.25")))
		assert.Equal(t, "USD", balance.Currency)

		cached, err := f.cache.Get(context.Background(), "balance:acc-1")
		require.NoError(t, err)
		assert.Equal(t, "750.25|USD", cached)
	})

	t.Run("cache hit skips the repository", func(t *testing.T) {
		f := newAccountFixture()
		require.NoError(t, f.cache.Set(context.Background(), "balance:acc-1", "900.00|EUR", time.Minute))

		f.accountRepo.GetByIDFunc = func(ctx context.Context, id string) (*domain.Account, error) {
			t.Fatal("repository must not be hit on a cache hit")
			return nil, nil
		}

		balance, err := f.uc.GetBalance(context.Background(), "acc-1")
		require.NoError(t, err)
		assert.True(t, balance.Balance.Equal(decimal.RequireFromString("900.00")))
		assert.Equal(t, "EUR", balance.Currency)
	})

	t.Run("corrupt cache entry falls back to the repository", func(t *testing.T) {
		f := newAccountFixture()
		require.NoError(t, f.cache.Set(context.Background(), "balance:acc-1", "not-a-balance", time.Minute))
		f.accountRepo.Seed(&domain.Account{
			ID:       "acc-1",
			Currency: "USD",
			Balance:  decimal.RequireFromString("10.00"),
			Status:   domain.AccountActive,
		})

		balance, err := f.uc.GetBalance(context.Background(), "acc-1")
		require.NoError(t, err)
		assert.True(t, balance.Balance.Equal(decimal.RequireFromString("10.00")))
	})

	t.Run("unknown account", func(t *testing.T) {
		f := newAccountFixture()

		_, err := f.uc.GetBalance(context.Background(), "missing")
		assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	})
}

func TestAccountUseCase_DeactivateAccount(t *testing.T) {
	f := newAccountFixture()
	f.accountRepo.Seed(&domain.Account{
		ID:     "acc-1",
		Status: domain.AccountActive,
	})

	require.NoError(t, f.uc.DeactivateAccount(context.Background(), "acc-1", "ops-1"))

	account, err := f.accountRepo.GetByID(context.Background(), "acc-1")
	require.NoError(t, err)
	assert.Equal(t, domain.AccountInactive, account.Status)
	require.Len(t, f.auditRepo.Entries, 1)
	assert.Equal(t, domain.AuditActionAccountDeactivate, f.auditRepo.Entries[0].Action)

	// Deactivating twice is a no-op, not an error.
	require.NoError(t, f.uc.DeactivateAccount(context.Background(), "acc-1", "ops-1"))
	assert.Len(t, f.auditRepo.Entries, 1)
}

func TestAccountUseCase_DeactivateAccount_FailedAuditRollsBack(t *testing.T) {
	f := newAccountFixture()
	f.accountRepo.Seed(&domain.Account{
		ID:     "acc-1",
		Status: domain.AccountActive,
	})

	var statusTx usecase.Transaction
	f.accountRepo.SetStatusFunc = func(ctx context.Context, tx usecase.Transaction, id string, status domain.AccountStatus, updatedAt time.Time) error {
		statusTx = tx
		return nil
	}
	f.auditRepo.CreateTxFunc = func(ctx context.Context, tx usecase.Transaction, entry *domain.AuditEntry) error {
		return errors.New("audit insert failed")
	}

	err := f.uc.DeactivateAccount(context.Background(), "acc-1", "ops-1")
	require.Error(t, err)

	// The status write must ride the same transaction as the audit entry,
	// so a failed audit write takes the status change down with it.
	assert.NotNil(t, statusTx)
	assert.Equal(t, 0, f.txManager.Committed)
	assert.Equal(t, 1, f.txManager.RolledBack)

	account, getErr := f.accountRepo.GetByID(context.Background(), "acc-1")
	require.NoError(t, getErr)
	assert.Equal(t, domain.AccountActive, account.Status)
	assert.Empty(t, f.auditRepo.Entries)
}

func TestAccountUseCase_Metrics(t *testing.T) {
	m := newTestMetrics(t)
	f := newAccountFixture()
	f.uc = usecase.NewAccountUseCase(f.txManager, f.accountRepo, f.movementRepo, f.auditRepo, f.outboxRepo, f.cache, mocks.NewMockIDGenerator(), m)

	_, err := f.uc.CreateAccount(context.Background(), usecase.CreateAccountInput{
		Number:         "10001-7",
		Currency:       "USD",
		OpeningBalance: decimal.RequireFromString("100.00"),
		Actor:          "ops-1",
	})
	require.NoError(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.AccountsCreated))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.AccountOperations.WithLabelValues("create")))

	f.accountRepo.Seed(&domain.Account{
		ID:       "acc-1",
		Currency: "USD",
		Balance:  decimal.RequireFromString("50.00"),
		Status:   domain.AccountActive,
	})

	// First read misses and populates, second read hits.
	_, err = f.uc.GetBalance(context.Background(), "acc-1")
	require.NoError(t, err)
	_, err = f.uc.GetBalance(context.Background(), "acc-1")
	require.NoError(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.CacheMisses))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CacheHits))
}

func TestAccountUseCase_GetSummary(t *testing.T) {
	f := newAccountFixture()
	f.accountRepo.Seed(&domain.Account{ID: "acc-1", Status: domain.AccountActive, Balance: decimal.Zero})

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)

	summary, err := f.uc.GetSummary(context.Background(), "acc-1", from, to)
	require.NoError(t, err)
	assert.NotNil(t, summary)

	_, err = f.uc.GetSummary(context.Background(), "missing", from, to)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestAccountUseCase_ListAccounts(t *testing.T) {
	f := newAccountFixture()
	for _, id := range []string{"a", "b", "c"} {
		f.accountRepo.Seed(&domain.Account{ID: id, Status: domain.AccountActive, Balance: decimal.Zero})
	}

	accounts, err := f.uc.ListAccounts(context.Background(), usecase.ListAccountsInput{})
	require.NoError(t, err)
	assert.Len(t, accounts, 3)
}
