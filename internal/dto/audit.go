package dto

import (
	"time"

	"github.com/SterilFlow/cssd_tracking_app/internal/core/domain"
)

// AuditEventResponse is the API shape of one audit event.
type AuditEventResponse struct {
	EventID       string            `json:"eventID"`
	Action        string            `json:"action"`
	ActorID       string            `json:"actorID"`
	ActorRole     string            `json:"actorRole,omitempty"`
	TransactionID *string           `json:"transactionID,omitempty"`
	Description   string            `json:"description"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	OccurredAt    time.Time         `json:"occurredAt"`
}

// ListAuditEventsParams pages an audit event listing.
type ListAuditEventsParams struct {
	TransactionID *string `form:"transactionID"`
	Limit         int     `form:"limit"`
	NextToken     *string `form:"nextToken"`
}

// ListAuditEventsResponse is a page of audit events plus the next-page token.
type ListAuditEventsResponse struct {
	Events    []AuditEventResponse `json:"events"`
	NextToken *string              `json:"nextToken,omitempty"`
}

// ToAuditEventResponse converts a domain audit event to its API shape.
func ToAuditEventResponse(event domain.AuditEvent) AuditEventResponse {
	return AuditEventResponse{
		EventID:       event.EventID,
		Action:        string(event.Action),
		ActorID:       event.ActorID,
		ActorRole:     event.ActorRole,
		TransactionID: event.TransactionID,
		Description:   event.Description,
		Metadata:      event.Metadata,
		OccurredAt:    event.OccurredAt,
	}
}
