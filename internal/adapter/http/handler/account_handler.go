package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bancore/ledger/internal/adapter/http/dto"
	"github.com/bancore/ledger/internal/domain"
	"github.com/bancore/ledger/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	GetBalance(ctx context.Context, id string) (*usecase.AccountBalance, error)
	GetSummary(ctx context.Context, id string, from, to time.Time) (*domain.AccountSummary, error)
	DeactivateAccount(ctx context.Context, id, actor string) error
	ListAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error)
	ListAudit(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditEntry, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accountUC AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// Create creates a new account.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.accountUC.CreateAccount(r.Context(), req.ToUseCaseInput(requestActor(r)))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create account", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get retrieves an account by ID.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	account, err := h.accountUC.GetAccount(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// GetBalance returns the live balance of an account.
func (h *AccountHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	balance, err := h.accountUC.GetBalance(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{
		AccountID: id,
		Balance:   balance.Balance,
		Currency:  balance.Currency,
	})
}

// GetSummary aggregates an account's movements over a date range.
func (h *AccountHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	to := time.Now().UTC()
	if t := parseTimeQuery(r, "to"); t != nil {
		to = *t
	}
	from := to.AddDate(0, -1, 0)
	if t := parseTimeQuery(r, "from"); t != nil {
		from = *t
	}

	summary, err := h.accountUC.GetSummary(r.Context(), id, from, to)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to summarize account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SummaryFromDomain(summary))
}

// Deactivate transitions an account to INACTIVE.
func (h *AccountHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.accountUC.DeactivateAccount(r.Context(), id, requestActor(r)); err != nil {
		writeError(w, mapDomainError(err), "failed to deactivate account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "inactive"})
}

// List lists accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	accounts, err := h.accountUC.ListAccounts(r.Context(), usecase.ListAccountsInput{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list accounts", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListAccountsResponse{
		Accounts: dto.AccountsFromDomain(accounts),
		Total:    int64(len(accounts)),
	})
}

// ListAudit lists audit entries.
func (h *AccountHandler) ListAudit(w http.ResponseWriter, r *http.Request) {
	filter := domain.AuditFilter{
		Actor:      r.URL.Query().Get("actor"),
		Action:     domain.AuditAction(r.URL.Query().Get("action")),
		ResourceID: r.URL.Query().Get("resource_id"),
		AccountID:  chi.URLParam(r, "id"),
		Limit:      parseIntQuery(r, "limit", 50),
		Offset:     parseIntQuery(r, "offset", 0),
	}

	entries, err := h.accountUC.ListAudit(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list audit entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListAuditResponse{
		Entries: dto.AuditEntriesFromDomain(entries),
		Total:   int64(len(entries)),
	})
}
