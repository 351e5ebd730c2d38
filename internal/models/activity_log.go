package models

import "time"

// ActivityLog is one immutable audit row. Metadata is stored as JSONB.
type ActivityLog struct {
	EventID       string            `json:"eventID"` // Primary Key (UUID)
	Action        string            `json:"action"`
	ActorID       string            `json:"actorID"`
	ActorRole     string            `json:"actorRole"`
	TransactionID *string           `json:"transactionID"`
	Description   string            `json:"description"`
	Metadata      map[string]string `json:"metadata"`
	OccurredAt    time.Time         `json:"occurredAt"`
}
