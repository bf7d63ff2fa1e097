package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bancore/ledger/internal/domain"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID                   string          `json:"id"`
	Number               string          `json:"number"`
	Currency             string          `json:"currency"`
	Balance              decimal.Decimal `json:"balance"`
	OpeningBalance       decimal.Decimal `json:"opening_balance"`
	Version              int64           `json:"version"`
	AllowNegativeBalance bool            `json:"allow_negative_balance"`
	Status               string          `json:"status"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:                   a.ID,
		Number:               a.Number,
		Currency:             a.Currency,
		Balance:              a.Balance,
		OpeningBalance:       a.OpeningBalance,
		Version:              a.Version,
		AllowNegativeBalance: a.AllowNegativeBalance,
		Status:               string(a.Status),
		CreatedAt:            a.CreatedAt,
		UpdatedAt:            a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// BalanceResponse is the live balance of an account.
type BalanceResponse struct {
	AccountID string          `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
}

// MethodDetailResponse mirrors MethodDetailRequest on the way out.
type MethodDetailResponse struct {
	CheckNumber string     `json:"check_number,omitempty"`
	Payee       string     `json:"payee,omitempty"`
	IssueDate   *time.Time `json:"issue_date,omitempty"`

	CounterpartyBank    string     `json:"counterparty_bank,omitempty"`
	CounterpartyAccount string     `json:"counterparty_account,omitempty"`
	AuthorizationCode   string     `json:"authorization_code,omitempty"`
	TransferDate        *time.Time `json:"transfer_date,omitempty"`

	DepositType string     `json:"deposit_type,omitempty"`
	SlipNumber  string     `json:"slip_number,omitempty"`
	DepositDate *time.Time `json:"deposit_date,omitempty"`
}

// DetailFromDomain converts a method detail to its response form.
func DetailFromDomain(detail domain.MethodDetail) *MethodDetailResponse {
	switch d := detail.(type) {
	case *domain.CheckDetail:
		issueDate := d.IssueDate
		return &MethodDetailResponse{
			CheckNumber: d.CheckNumber,
			Payee:       d.Payee,
			IssueDate:   &issueDate,
		}
	case *domain.TransferDetail:
		transferDate := d.TransferDate
		return &MethodDetailResponse{
			CounterpartyBank:    d.CounterpartyBank,
			CounterpartyAccount: d.CounterpartyAccount,
			AuthorizationCode:   d.AuthorizationCode,
			TransferDate:        &transferDate,
		}
	case *domain.DepositDetail:
		depositDate := d.DepositDate
		return &MethodDetailResponse{
			DepositType: d.DepositType,
			SlipNumber:  d.SlipNumber,
			DepositDate: &depositDate,
		}
	default:
		return nil
	}
}

// MovementResponse represents a movement in API responses.
type MovementResponse struct {
	ID                 string                `json:"id"`
	AccountID          string                `json:"account_id"`
	Kind               string                `json:"kind"`
	Method             string                `json:"method"`
	Amount             decimal.Decimal       `json:"amount"`
	ResultingBalance   decimal.Decimal       `json:"resulting_balance"`
	AccountVersion     int64                 `json:"account_version"`
	Reference          string                `json:"reference,omitempty"`
	SourceModule       string                `json:"source_module,omitempty"`
	SourceDocumentID   string                `json:"source_document_id,omitempty"`
	Description        string                `json:"description,omitempty"`
	Status             string                `json:"status"`
	ReversedMovementID *string               `json:"reversed_movement_id,omitempty"`
	VoidedBy           string                `json:"voided_by,omitempty"`
	VoidedAt           *time.Time            `json:"voided_at,omitempty"`
	VoidReason         string                `json:"void_reason,omitempty"`
	Detail             *MethodDetailResponse `json:"detail,omitempty"`
	CreatedAt          time.Time             `json:"created_at"`
}

// MovementFromDomain converts a domain movement to a response.
func MovementFromDomain(m *domain.Movement) *MovementResponse {
	return &MovementResponse{
		ID:                 m.ID,
		AccountID:          m.AccountID,
		Kind:               string(m.Kind),
		Method:             string(m.Method),
		Amount:             m.Amount,
		ResultingBalance:   m.ResultingBalance,
		AccountVersion:     m.AccountVersion,
		Reference:          m.Reference,
		SourceModule:       m.SourceModule,
		SourceDocumentID:   m.SourceDocumentID,
		Description:        m.Description,
		Status:             string(m.Status),
		ReversedMovementID: m.ReversedMovementID,
		VoidedBy:           m.VoidedBy,
		VoidedAt:           m.VoidedAt,
		VoidReason:         m.VoidReason,
		Detail:             DetailFromDomain(m.Detail),
		CreatedAt:          m.CreatedAt,
	}
}

// MovementsFromDomain converts domain movements to responses.
func MovementsFromDomain(movements []*domain.Movement) []*MovementResponse {
	result := make([]*MovementResponse, len(movements))
	for i, m := range movements {
		result[i] = MovementFromDomain(m)
	}
	return result
}

// SummaryResponse aggregates an account's activity over a range.
type SummaryResponse struct {
	AccountID    string          `json:"account_id"`
	TotalEntries decimal.Decimal `json:"total_entries"`
	TotalExits   decimal.Decimal `json:"total_exits"`
	Count        int64           `json:"count"`
}

// SummaryFromDomain converts a domain summary to a response.
func SummaryFromDomain(s *domain.AccountSummary) *SummaryResponse {
	return &SummaryResponse{
		AccountID:    s.AccountID,
		TotalEntries: s.TotalEntries,
		TotalExits:   s.TotalExits,
		Count:        s.Count,
	}
}

// AuditEntryResponse represents an audit entry in API responses.
type AuditEntryResponse struct {
	ID            string          `json:"id"`
	Actor         string          `json:"actor"`
	Action        string          `json:"action"`
	ResourceType  string          `json:"resource_type"`
	ResourceID    string          `json:"resource_id"`
	AccountID     string          `json:"account_id"`
	Description   string          `json:"description,omitempty"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	CreatedAt     time.Time       `json:"created_at"`
}

// AuditEntriesFromDomain converts domain audit entries to responses.
func AuditEntriesFromDomain(entries []*domain.AuditEntry) []*AuditEntryResponse {
	result := make([]*AuditEntryResponse, len(entries))
	for i, e := range entries {
		result[i] = &AuditEntryResponse{
			ID:            e.ID,
			Actor:         e.Actor,
			Action:        string(e.Action),
			ResourceType:  e.ResourceType,
			ResourceID:    e.ResourceID,
			AccountID:     e.AccountID,
			Description:   e.Description,
			BalanceBefore: e.BalanceBefore,
			BalanceAfter:  e.BalanceAfter,
			CreatedAt:     e.CreatedAt,
		}
	}
	return result
}

// MismatchResponse reports one inconsistent account.
type MismatchResponse struct {
	AccountID       string          `json:"account_id"`
	LiveBalance     decimal.Decimal `json:"live_balance"`
	ReplayedBalance decimal.Decimal `json:"replayed_balance"`
}

// ConsistencyResponse is the result of a ledger consistency check.
type ConsistencyResponse struct {
	Consistent bool                `json:"consistent"`
	Mismatches []*MismatchResponse `json:"mismatches,omitempty"`
}

// ConsistencyFromDomain converts mismatches to a response.
func ConsistencyFromDomain(mismatches []*domain.BalanceMismatch) *ConsistencyResponse {
	resp := &ConsistencyResponse{Consistent: len(mismatches) == 0}
	for _, m := range mismatches {
		resp.Mismatches = append(resp.Mismatches, &MismatchResponse{
			AccountID:       m.AccountID,
			LiveBalance:     m.LiveBalance,
			ReplayedBalance: m.ReplayedBalance,
		})
	}
	return resp
}

// ListAccountsResponse wraps a page of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// ListMovementsResponse wraps a page of movements.
type ListMovementsResponse struct {
	Movements []*MovementResponse `json:"movements"`
	Total     int64               `json:"total"`
}

// ListAuditResponse wraps a page of audit entries.
type ListAuditResponse struct {
	Entries []*AuditEntryResponse `json:"entries"`
	Total   int64                 `json:"total"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
