package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountInactive = errors.New("account is inactive")

	// Balance errors
	ErrInsufficientFunds = errors.New("operation would leave a negative balance")

	// Movement errors
	ErrMovementNotFound       = errors.New("movement not found")
	ErrInvalidAmount          = errors.New("amount must be positive")
	ErrInvalidMovementKind    = errors.New("unknown movement kind")
	ErrInvalidPaymentMethod   = errors.New("unknown payment method")
	ErrMissingMethodDetail    = errors.New("payment method requires a detail record")
	ErrUnexpectedMethodDetail = errors.New("payment method does not take a detail record")
	ErrMethodDetailMismatch   = errors.New("detail record does not match payment method")

	// Void errors
	ErrAlreadyVoided      = errors.New("movement is already voided")
	ErrVoidReasonRequired = errors.New("void reason is required")

	// Concurrency errors
	ErrVersionConflict = errors.New("account version changed, re-read and retry")
)
