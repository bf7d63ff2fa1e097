package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestAccount_ValidateBalance(t *testing.T) {
	tests := []struct {
		name        string
		newBalance  string
		allowNeg    bool
		expectError bool
	}{
		{
			name:        "positive balance always ok",
			newBalance:  "100.00",
			allowNeg:    false,
			expectError: false,
		},
		{
			name:        "zero balance always ok",
			newBalance:  "0",
			allowNeg:    false,
			expectError: false,
		},
		{
			name:        "negative balance rejected by default",
			newBalance:  "-0.01",
			allowNeg:    false,
			expectError: true,
		},
		{
			name:        "negative balance allowed by policy",
			newBalance:  "-500.00",
			allowNeg:    true,
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := &Account{
				AllowNegativeBalance: tt.allowNeg,
			}

			err := acc.ValidateBalance(decimal.RequireFromString(tt.newBalance))

			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestAccount_IsActive(t *testing.T) {
	active := &Account{Status: AccountActive}
	if !active.IsActive() {
		t.Error("expected active account")
	}

	inactive := &Account{Status: AccountInactive}
	if inactive.IsActive() {
		t.Error("expected inactive account")
	}
}
