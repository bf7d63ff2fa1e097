package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditEntry is an append-only record of an applied state change. Entries
// are written only on success paths, inside the same transaction as the
// change they describe, so the trail is a gap-free account of what was
// actually applied.
type AuditEntry struct {
	ID            string
	Actor         string
	Action        AuditAction
	ResourceType  string
	ResourceID    string
	AccountID     string
	Description   string
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	CreatedAt     time.Time
}

// AuditAction names an auditable operation.
type AuditAction string

const (
	AuditActionMovementCreate    AuditAction = "movement.create"
	AuditActionMovementVoid      AuditAction = "movement.void"
	AuditActionAdjustmentCreate  AuditAction = "adjustment.create"
	AuditActionAccountCreate     AuditAction = "account.create"
	AuditActionAccountDeactivate AuditAction = "account.deactivate"
)

// Resource types for audit entries.
const (
	ResourceTypeMovement = "movement"
	ResourceTypeAccount  = "account"
)

// AuditFilter narrows audit listings.
type AuditFilter struct {
	Actor      string
	Action     AuditAction
	ResourceID string
	AccountID  string
	Limit      int
	Offset     int
}
