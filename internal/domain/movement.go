package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind classifies how a movement affects the balance.
type MovementKind string

const (
	MovementEntry MovementKind = "ENTRY"
	MovementExit  MovementKind = "EXIT"
)

// Opposite returns the kind that cancels this one.
func (k MovementKind) Opposite() MovementKind {
	if k == MovementEntry {
		return MovementExit
	}
	return MovementEntry
}

// Valid reports whether the kind is one of the known values.
func (k MovementKind) Valid() bool {
	return k == MovementEntry || k == MovementExit
}

// PaymentMethod tags the instrument behind a movement.
type PaymentMethod string

const (
	MethodCash       PaymentMethod = "CASH"
	MethodCheck      PaymentMethod = "CHECK"
	MethodTransfer   PaymentMethod = "TRANSFER"
	MethodDeposit    PaymentMethod = "DEPOSIT"
	MethodAdjustment PaymentMethod = "ADJUSTMENT"
)

// Valid reports whether the method is one of the known values.
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodCheck, MethodTransfer, MethodDeposit, MethodAdjustment:
		return true
	}
	return false
}

// RequiresDetail reports whether movements with this method must carry a
// structured detail record.
func (m PaymentMethod) RequiresDetail() bool {
	switch m {
	case MethodCheck, MethodTransfer, MethodDeposit:
		return true
	}
	return false
}

// MovementStatus is the lifecycle state of a movement.
type MovementStatus string

const (
	MovementActive MovementStatus = "ACTIVE"
	MovementVoid   MovementStatus = "VOID"
)

// Movement is one immutable ledger entry. ResultingBalance is the account
// balance snapshot at the instant the movement was applied; it stays correct
// even after later movements change the live balance. The only mutation a
// movement ever sees is the one-way ACTIVE -> VOID transition.
type Movement struct {
	ID                 string
	AccountID          string
	Kind               MovementKind
	Method             PaymentMethod
	Amount             decimal.Decimal
	ResultingBalance   decimal.Decimal
	AccountVersion     int64
	Reference          string
	SourceModule       string
	SourceDocumentID   string
	Description        string
	Status             MovementStatus
	ReversedMovementID *string
	VoidedBy           string
	VoidedAt           *time.Time
	VoidReason         string
	Detail             MethodDetail
	CreatedAt          time.Time
}

// SignedAmount returns the movement amount with its balance-effect sign.
func (m *Movement) SignedAmount() decimal.Decimal {
	return SignedAmount(m.Kind, m.Amount)
}

// Validate checks the movement invariants that hold regardless of account
// state.
func (m *Movement) Validate() error {
	if !m.Kind.Valid() {
		return ErrInvalidMovementKind
	}
	if !m.Method.Valid() {
		return ErrInvalidPaymentMethod
	}
	if m.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	return nil
}

// MovementFilter narrows movement listings.
type MovementFilter struct {
	AccountID string
	Kind      MovementKind
	Method    PaymentMethod
	Status    MovementStatus
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// AccountSummary aggregates the active movements of an account over a
// date range.
type AccountSummary struct {
	AccountID    string
	TotalEntries decimal.Decimal
	TotalExits   decimal.Decimal
	Count        int64
}

// BalanceMismatch reports an account whose live balance does not equal the
// replay of its active movements from the opening balance.
type BalanceMismatch struct {
	AccountID       string
	LiveBalance     decimal.Decimal
	ReplayedBalance decimal.Decimal
}
