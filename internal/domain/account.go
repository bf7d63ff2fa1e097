package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountStatus is the lifecycle state of an account.
type AccountStatus string

const (
	AccountActive   AccountStatus = "ACTIVE"
	AccountInactive AccountStatus = "INACTIVE"
)

// Account represents a bank account carrying a running balance.
//
// Balance and Version are always written together through the conditional
// update; Version advances by exactly 1 per applied movement.
type Account struct {
	ID                   string
	Number               string
	Currency             string
	Balance              decimal.Decimal
	OpeningBalance       decimal.Decimal
	Version              int64
	AllowNegativeBalance bool
	Status               AccountStatus
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// IsActive reports whether the account accepts movements.
func (a *Account) IsActive() bool {
	return a.Status == AccountActive
}

// ValidateBalance checks a prospective balance against the account policy.
func (a *Account) ValidateBalance(newBalance decimal.Decimal) error {
	if !a.AllowNegativeBalance && newBalance.IsNegative() {
		return ErrInsufficientFunds
	}
	return nil
}
