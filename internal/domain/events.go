package domain

import "time"

// Event types
const (
	EventTypeMovementCreated   = "movement.created"
	EventTypeMovementVoided    = "movement.voided"
	EventTypeAdjustmentCreated = "adjustment.created"
	EventTypeAccountCreated    = "account.created"
)

// Aggregate types
const (
	AggregateTypeMovement = "movement"
	AggregateTypeAccount  = "account"
)

// OutboxEvent represents an event to be published. It is written in the
// same transaction as the change it announces and drained asynchronously.
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// MovementCreatedEvent payload
type MovementCreatedEvent struct {
	MovementID       string `json:"movement_id"`
	AccountID        string `json:"account_id"`
	Kind             string `json:"kind"`
	Method           string `json:"method"`
	Amount           string `json:"amount"`
	ResultingBalance string `json:"resulting_balance"`
}

// MovementVoidedEvent payload
type MovementVoidedEvent struct {
	MovementID             string `json:"movement_id"`
	CompensatingMovementID string `json:"compensating_movement_id"`
	AccountID              string `json:"account_id"`
	Amount                 string `json:"amount"`
	Reason                 string `json:"reason"`
}

// AccountCreatedEvent payload
type AccountCreatedEvent struct {
	AccountID string `json:"account_id"`
	Number    string `json:"number"`
	Currency  string `json:"currency"`
}
