package mocks

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bancore/ledger/internal/domain"
	"github.com/bancore/ledger/internal/usecase"
)

var errCacheMiss = errors.New("cache miss")

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc                func(ctx context.Context, tx usecase.Transaction, account *domain.Account) error
	GetByIDFunc               func(ctx context.Context, id string) (*domain.Account, error)
	GetByIDTxFunc             func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error)
	CompareAndSwapBalanceFunc func(ctx context.Context, tx usecase.Transaction, id string, newBalance decimal.Decimal, expectedVersion int64, updatedAt time.Time) error
	SetStatusFunc             func(ctx context.Context, tx usecase.Transaction, id string, status domain.AccountStatus, updatedAt time.Time) error
	ListFunc                  func(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

// Seed stores an account directly, bypassing any stubbed behavior.
func (m *MockAccountRepository) Seed(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
}

func (m *MockAccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		copied := *acc
		return &copied, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByIDTx(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	if m.GetByIDTxFunc != nil {
		return m.GetByIDTxFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockAccountRepository) CompareAndSwapBalance(ctx context.Context, tx usecase.Transaction, id string, newBalance decimal.Decimal, expectedVersion int64, updatedAt time.Time) error {
	if m.CompareAndSwapBalanceFunc != nil {
		return m.CompareAndSwapBalanceFunc(ctx, tx, id, newBalance, expectedVersion, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	if acc.Version != expectedVersion {
		return domain.ErrVersionConflict
	}
	acc.Balance = newBalance
	acc.Version++
	acc.UpdatedAt = updatedAt
	return nil
}

func (m *MockAccountRepository) SetStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.AccountStatus, updatedAt time.Time) error {
	if m.SetStatusFunc != nil {
		return m.SetStatusFunc(ctx, tx, id, status, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc, ok := m.accounts[id]; ok {
		acc.Status = status
		acc.UpdatedAt = updatedAt
	}
	return nil
}

func (m *MockAccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, acc := range m.accounts {
		accounts = append(accounts, acc)
	}
	return accounts, nil
}

// MockMovementRepository is a mock implementation of MovementRepository.
type MockMovementRepository struct {
	mu        sync.RWMutex
	movements map[string]*domain.Movement
	details   map[string]domain.MethodDetail

	CreateFunc       func(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error
	CreateDetailFunc func(ctx context.Context, tx usecase.Transaction, movementID string, detail domain.MethodDetail) error
	GetByIDFunc      func(ctx context.Context, id string) (*domain.Movement, error)
	GetByIDTxFunc    func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Movement, error)
	GetDetailFunc    func(ctx context.Context, movementID string, method domain.PaymentMethod) (domain.MethodDetail, error)
	MarkVoidedFunc   func(ctx context.Context, tx usecase.Transaction, id, voidedBy string, voidedAt time.Time, reason string) error
	ListFunc         func(ctx context.Context, filter domain.MovementFilter) ([]*domain.Movement, error)
	SummarizeFunc    func(ctx context.Context, accountID string, from, to time.Time) (*domain.AccountSummary, error)
}

func NewMockMovementRepository() *MockMovementRepository {
	return &MockMovementRepository{
		movements: make(map[string]*domain.Movement),
		details:   make(map[string]domain.MethodDetail),
	}
}

func (m *MockMovementRepository) Create(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, movement)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *movement
	m.movements[movement.ID] = &copied
	return nil
}

func (m *MockMovementRepository) CreateDetail(ctx context.Context, tx usecase.Transaction, movementID string, detail domain.MethodDetail) error {
	if m.CreateDetailFunc != nil {
		return m.CreateDetailFunc(ctx, tx, movementID, detail)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.details[movementID] = detail
	return nil
}

func (m *MockMovementRepository) GetByID(ctx context.Context, id string) (*domain.Movement, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if mov, ok := m.movements[id]; ok {
		copied := *mov
		return &copied, nil
	}
	return nil, domain.ErrMovementNotFound
}

func (m *MockMovementRepository) GetByIDTx(ctx context.Context, tx usecase.Transaction, id string) (*domain.Movement, error) {
	if m.GetByIDTxFunc != nil {
		return m.GetByIDTxFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockMovementRepository) GetDetail(ctx context.Context, movementID string, method domain.PaymentMethod) (domain.MethodDetail, error) {
	if m.GetDetailFunc != nil {
		return m.GetDetailFunc(ctx, movementID, method)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.details[movementID], nil
}

func (m *MockMovementRepository) MarkVoided(ctx context.Context, tx usecase.Transaction, id, voidedBy string, voidedAt time.Time, reason string) error {
	if m.MarkVoidedFunc != nil {
		return m.MarkVoidedFunc(ctx, tx, id, voidedBy, voidedAt, reason)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	mov, ok := m.movements[id]
	if !ok {
		return domain.ErrMovementNotFound
	}
	if mov.Status != domain.MovementActive {
		return domain.ErrAlreadyVoided
	}
	mov.Status = domain.MovementVoid
	mov.VoidedBy = voidedBy
	mov.VoidedAt = &voidedAt
	mov.VoidReason = reason
	return nil
}

func (m *MockMovementRepository) List(ctx context.Context, filter domain.MovementFilter) ([]*domain.Movement, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var movements []*domain.Movement
	for _, mov := range m.movements {
		if filter.AccountID != "" && mov.AccountID != filter.AccountID {
			continue
		}
		if filter.Status != "" && mov.Status != filter.Status {
			continue
		}
		if filter.Kind != "" && mov.Kind != filter.Kind {
			continue
		}
		if filter.Method != "" && mov.Method != filter.Method {
			continue
		}
		copied := *mov
		movements = append(movements, &copied)
	}
	return movements, nil
}

func (m *MockMovementRepository) Summarize(ctx context.Context, accountID string, from, to time.Time) (*domain.AccountSummary, error) {
	if m.SummarizeFunc != nil {
		return m.SummarizeFunc(ctx, accountID, from, to)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	summary := &domain.AccountSummary{
		AccountID:    accountID,
		TotalEntries: decimal.Zero,
		TotalExits:   decimal.Zero,
	}
	for _, mov := range m.movements {
		if mov.AccountID != accountID || mov.Status != domain.MovementActive {
			continue
		}
		if mov.Kind == domain.MovementEntry {
			summary.TotalEntries = summary.TotalEntries.Add(mov.Amount)
		} else {
			summary.TotalExits = summary.TotalExits.Add(mov.Amount)
		}
		summary.Count++
	}
	return summary, nil
}

// MockAuditRepository is a mock implementation of AuditRepository.
type MockAuditRepository struct {
	mu      sync.RWMutex
	Entries []*domain.AuditEntry

	CreateTxFunc func(ctx context.Context, tx usecase.Transaction, entry *domain.AuditEntry) error
	ListFunc     func(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditEntry, error)
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, entry *domain.AuditEntry) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, entry)
	return nil
}

func (m *MockAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditEntry, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Entries, nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	Events []*domain.OutboxEvent

	CreateFunc func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var events []*domain.OutboxEvent
	for _, e := range m.Events {
		if !e.Published {
			events = append(events, e)
		}
		if len(events) == limit {
			break
		}
	}
	return events, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.Events[:0]
	for _, e := range m.Events {
		if !e.Published || e.CreatedAt.After(before) {
			kept = append(kept, e)
		}
	}
	m.Events = kept
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)

	mu         sync.Mutex
	Began      int
	Committed  int
	RolledBack int
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	m.Began++
	m.mu.Unlock()
	return &MockTransaction{manager: m}, nil
}

// MockTransaction is a no-op transaction that records commit/rollback.
type MockTransaction struct {
	manager   *MockTransactionManager
	committed bool
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	t.committed = true
	if t.manager != nil {
		t.manager.mu.Lock()
		t.manager.Committed++
		t.manager.mu.Unlock()
	}
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if !t.committed && t.manager != nil {
		t.manager.mu.Lock()
		t.manager.RolledBack++
		t.manager.mu.Unlock()
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string

	mu      sync.Mutex
	counter int
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return "id-" + string(rune('0'+m.counter%10)) + string(rune('a'+m.counter/10))
}

// MockCache is a mock implementation of Cache.
type MockCache struct {
	mu     sync.RWMutex
	values map[string]string

	Deleted []string

	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key, value string, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{values: make(map[string]string)}
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.values[key]; ok {
		return v, nil
	}
	return "", errCacheMiss
}

func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	m.Deleted = append(m.Deleted, key)
	return nil
}
