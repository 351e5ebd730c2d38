package domain

import "time"

// AuditAction tags the lifecycle step an audit event records.
type AuditAction string

const (
	ActionCreateTransaction   AuditAction = "create_transaction"
	ActionValidateTransaction AuditAction = "validate_transaction"
	ActionCancelTransaction   AuditAction = "cancel_transaction"
)

// AuditEvent is an immutable record of a completed lifecycle step.
// The core emits events; persistence and formatting live behind AuditSink.
type AuditEvent struct {
	EventID       string            `json:"eventID"` // Primary key (UUID)
	Action        AuditAction       `json:"action"`
	ActorID       string            `json:"actorID"`
	ActorRole     string            `json:"actorRole,omitempty"`
	TransactionID *string           `json:"transactionID,omitempty"`
	Description   string            `json:"description"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	OccurredAt    time.Time         `json:"occurredAt"`
}
