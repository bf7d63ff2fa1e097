package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidAccountNumber = errors.New("invalid account number")
	ErrInvalidCurrency      = errors.New("invalid currency code")
	ErrAmountTooLarge       = errors.New("amount exceeds maximum allowed")
	ErrDescriptionTooLong   = errors.New("description exceeds maximum length")
	ErrReferenceTooLong     = errors.New("reference exceeds maximum length")
)

// Validation constants
const (
	MaxDescriptionLength = 500
	MaxReferenceLength   = 100
	MaxMovementAmount    = "1000000000000" // 1 trillion
)

// Valid currency codes (ISO 4217)
var validCurrencies = map[string]bool{
	"USD": true, "EUR": true, "GBP": true, "JPY": true,
	"CNY": true, "AUD": true, "CAD": true, "CHF": true,
	"MXN": true, "BRL": true, "ARS": true, "CLP": true,
	"COP": true, "PEN": true, "UYU": true, "BOB": true,
	"PYG": true, "GTQ": true, "DOP": true, "HNL": true,
}

var accountNumberRegex = regexp.MustCompile(`^[0-9][0-9-]{3,28}[0-9]$`)

// ValidateAccountNumber validates a bank account number.
func ValidateAccountNumber(number string) error {
	number = strings.TrimSpace(number)

	if !accountNumberRegex.MatchString(number) {
		return fmt.Errorf("%w: %q", ErrInvalidAccountNumber, number)
	}

	return nil
}

// ValidateCurrency validates a currency code.
func ValidateCurrency(currency string) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))

	if !validCurrencies[currency] {
		return fmt.Errorf("%w: %s is not a valid ISO 4217 currency code", ErrInvalidCurrency, currency)
	}

	return nil
}

// ValidateAmount validates a movement amount. The sign is implied by the
// movement kind, so the amount itself must be strictly positive.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxMovementAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxMovementAmount)
	}

	return nil
}

// ValidateDescription validates a free-text description.
func ValidateDescription(description string) error {
	if len(description) > MaxDescriptionLength {
		return fmt.Errorf("%w: %d characters", ErrDescriptionTooLong, MaxDescriptionLength)
	}
	return nil
}

// ValidateReference validates an external reference string.
func ValidateReference(reference string) error {
	if len(reference) > MaxReferenceLength {
		return fmt.Errorf("%w: %d characters", ErrReferenceTooLong, MaxReferenceLength)
	}
	return nil
}

// ValidatePagination validates and limits pagination parameters.
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
