package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bancore/ledger/internal/domain"
	"github.com/bancore/ledger/internal/usecase"
)

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Number               string          `json:"number"`
	Currency             string          `json:"currency"`
	OpeningBalance       decimal.Decimal `json:"opening_balance"`
	AllowNegativeBalance bool            `json:"allow_negative_balance"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput(actor string) usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		Number:               r.Number,
		Currency:             r.Currency,
		OpeningBalance:       r.OpeningBalance,
		AllowNegativeBalance: r.AllowNegativeBalance,
		Actor:                actor,
	}
}

// MethodDetailRequest carries the per-method detail fields. Exactly one
// group is expected, matching the movement's payment method.
type MethodDetailRequest struct {
	// Check
	CheckNumber string     `json:"check_number,omitempty"`
	Payee       string     `json:"payee,omitempty"`
	IssueDate   *time.Time `json:"issue_date,omitempty"`

	// Transfer
	CounterpartyBank    string     `json:"counterparty_bank,omitempty"`
	CounterpartyAccount string     `json:"counterparty_account,omitempty"`
	AuthorizationCode   string     `json:"authorization_code,omitempty"`
	TransferDate        *time.Time `json:"transfer_date,omitempty"`

	// Deposit
	DepositType string     `json:"deposit_type,omitempty"`
	SlipNumber  string     `json:"slip_number,omitempty"`
	DepositDate *time.Time `json:"deposit_date,omitempty"`
}

// ToDomain builds the detail variant matching the payment method. An
// unknown or detail-free method yields nil.
func (r *MethodDetailRequest) ToDomain(method domain.PaymentMethod) domain.MethodDetail {
	if r == nil {
		return nil
	}

	switch method {
	case domain.MethodCheck:
		d := &domain.CheckDetail{
			CheckNumber: r.CheckNumber,
			Payee:       r.Payee,
		}
		if r.IssueDate != nil {
			d.IssueDate = *r.IssueDate
		}
		return d
	case domain.MethodTransfer:
		d := &domain.TransferDetail{
			CounterpartyBank:    r.CounterpartyBank,
			CounterpartyAccount: r.CounterpartyAccount,
			AuthorizationCode:   r.AuthorizationCode,
		}
		if r.TransferDate != nil {
			d.TransferDate = *r.TransferDate
		}
		return d
	case domain.MethodDeposit:
		d := &domain.DepositDetail{
			DepositType: r.DepositType,
			SlipNumber:  r.SlipNumber,
		}
		if r.DepositDate != nil {
			d.DepositDate = *r.DepositDate
		}
		return d
	default:
		return nil
	}
}

// CreateMovementRequest represents a request to record a movement.
type CreateMovementRequest struct {
	AccountID        string               `json:"account_id"`
	Kind             string               `json:"kind"`
	Method           string               `json:"method"`
	Amount           decimal.Decimal      `json:"amount"`
	Reference        string               `json:"reference,omitempty"`
	Description      string               `json:"description,omitempty"`
	SourceModule     string               `json:"source_module,omitempty"`
	SourceDocumentID string               `json:"source_document_id,omitempty"`
	Detail           *MethodDetailRequest `json:"detail,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateMovementRequest) ToUseCaseInput(actor string) usecase.CreateMovementInput {
	method := domain.PaymentMethod(r.Method)

	return usecase.CreateMovementInput{
		AccountID:        r.AccountID,
		Kind:             domain.MovementKind(r.Kind),
		Method:           method,
		Amount:           r.Amount,
		Reference:        r.Reference,
		Description:      r.Description,
		SourceModule:     r.SourceModule,
		SourceDocumentID: r.SourceDocumentID,
		Detail:           r.Detail.ToDomain(method),
		Actor:            actor,
	}
}

// VoidMovementRequest represents a request to void a movement.
type VoidMovementRequest struct {
	Reason string `json:"reason"`
}

// CreateAdjustmentRequest represents a manual balance adjustment.
type CreateAdjustmentRequest struct {
	AccountID   string          `json:"account_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	Reference   string          `json:"reference,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAdjustmentRequest) ToUseCaseInput(actor string) usecase.CreateAdjustmentInput {
	return usecase.CreateAdjustmentInput{
		AccountID:    r.AccountID,
		SignedAmount: r.Amount,
		Description:  r.Description,
		Reference:    r.Reference,
		Actor:        actor,
	}
}

// PaginationRequest represents pagination parameters.
type PaginationRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
