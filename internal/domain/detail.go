package domain

import (
	"fmt"
	"time"
)

// MethodDetail is the structured data attached 1:1 to a movement whose
// payment method requires it. Modelled as a tagged variant so "exactly one
// detail kind per applicable method" is structural, not a runtime check.
type MethodDetail interface {
	PaymentMethod() PaymentMethod
	Validate() error
}

// CheckDetail describes a check-backed movement.
type CheckDetail struct {
	CheckNumber string
	Payee       string
	IssueDate   time.Time
}

func (d *CheckDetail) PaymentMethod() PaymentMethod { return MethodCheck }

func (d *CheckDetail) Validate() error {
	if d.CheckNumber == "" {
		return fmt.Errorf("%w: check number is required", ErrMethodDetailMismatch)
	}
	if d.Payee == "" {
		return fmt.Errorf("%w: payee is required", ErrMethodDetailMismatch)
	}
	if d.IssueDate.IsZero() {
		return fmt.Errorf("%w: issue date is required", ErrMethodDetailMismatch)
	}
	return nil
}

// TransferDetail describes a bank-transfer movement.
type TransferDetail struct {
	CounterpartyBank    string
	CounterpartyAccount string
	AuthorizationCode   string
	TransferDate        time.Time
}

func (d *TransferDetail) PaymentMethod() PaymentMethod { return MethodTransfer }

func (d *TransferDetail) Validate() error {
	if d.CounterpartyBank == "" {
		return fmt.Errorf("%w: counterparty bank is required", ErrMethodDetailMismatch)
	}
	if d.CounterpartyAccount == "" {
		return fmt.Errorf("%w: counterparty account is required", ErrMethodDetailMismatch)
	}
	if d.TransferDate.IsZero() {
		return fmt.Errorf("%w: transfer date is required", ErrMethodDetailMismatch)
	}
	return nil
}

// DepositDetail describes a deposit-slip movement.
type DepositDetail struct {
	DepositType string
	SlipNumber  string
	DepositDate time.Time
}

func (d *DepositDetail) PaymentMethod() PaymentMethod { return MethodDeposit }

func (d *DepositDetail) Validate() error {
	if d.SlipNumber == "" {
		return fmt.Errorf("%w: slip number is required", ErrMethodDetailMismatch)
	}
	if d.DepositDate.IsZero() {
		return fmt.Errorf("%w: deposit date is required", ErrMethodDetailMismatch)
	}
	return nil
}

// ValidateDetail enforces the method/detail pairing rules before any write:
// methods that require a detail must get a matching, valid one; methods that
// take none must not get one.
func ValidateDetail(method PaymentMethod, detail MethodDetail) error {
	if method.RequiresDetail() {
		if detail == nil {
			return ErrMissingMethodDetail
		}
		if detail.PaymentMethod() != method {
			return ErrMethodDetailMismatch
		}
		return detail.Validate()
	}
	if detail != nil {
		return ErrUnexpectedMethodDetail
	}
	return nil
}
