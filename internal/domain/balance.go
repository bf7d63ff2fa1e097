package domain

import "github.com/shopspring/decimal"

// NewBalance computes the balance that results from applying a movement of
// the given kind and amount to the current balance. Amount is expected to be
// positive; the sign is implied by the kind.
func NewBalance(current decimal.Decimal, kind MovementKind, amount decimal.Decimal) decimal.Decimal {
	if kind == MovementEntry {
		return current.Add(amount)
	}
	return current.Sub(amount)
}

// SignedAmount returns the amount with the sign implied by the kind:
// positive for entries, negative for exits.
func SignedAmount(kind MovementKind, amount decimal.Decimal) decimal.Decimal {
	if kind == MovementEntry {
		return amount
	}
	return amount.Neg()
}

// KindFromSignedAmount maps a caller-supplied signed amount to a movement
// kind and its absolute value. This is only meaningful for the manual
// adjustment flow, where the sign is the caller's choice.
func KindFromSignedAmount(signed decimal.Decimal) (MovementKind, decimal.Decimal) {
	if signed.IsNegative() {
		return MovementExit, signed.Abs()
	}
	return MovementEntry, signed
}
