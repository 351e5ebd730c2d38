package mapping

import (
	"github.com/SterilFlow/cssd_tracking_app/internal/core/domain"
	"github.com/SterilFlow/cssd_tracking_app/internal/models"
)

// ToModelActivityLog converts a domain AuditEvent to a model ActivityLog
func ToModelActivityLog(d domain.AuditEvent) models.ActivityLog {
	return models.ActivityLog{
		EventID:       d.EventID,
		Action:        string(d.Action),
		ActorID:       d.ActorID,
		ActorRole:     d.ActorRole,
		TransactionID: d.TransactionID,
		Description:   d.Description,
		Metadata:      d.Metadata,
		OccurredAt:    d.OccurredAt,
	}
}

// ToDomainAuditEvent converts a model ActivityLog to a domain AuditEvent
func ToDomainAuditEvent(m models.ActivityLog) domain.AuditEvent {
	return domain.AuditEvent{
		EventID:       m.EventID,
		Action:        domain.AuditAction(m.Action),
		ActorID:       m.ActorID,
		ActorRole:     m.ActorRole,
		TransactionID: m.TransactionID,
		Description:   m.Description,
		Metadata:      m.Metadata,
		OccurredAt:    m.OccurredAt,
	}
}

// ToDomainAuditEventSlice converts a slice of model ActivityLogs to domain AuditEvents
func ToDomainAuditEventSlice(ms []models.ActivityLog) []domain.AuditEvent {
	ds := make([]domain.AuditEvent, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAuditEvent(m)
	}
	return ds
}
