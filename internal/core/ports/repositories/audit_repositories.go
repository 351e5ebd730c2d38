package repositories

import (
	"context"

	"github.com/SterilFlow/cssd_tracking_app/internal/core/domain"
)

// AuditSink receives immutable audit events from the lifecycle engine.
// Recording is best-effort: the engine logs a sink failure but never rolls
// back the stock/ledger mutation because of it.
type AuditSink interface {
	RecordEvent(ctx context.Context, event domain.AuditEvent) error
}

// AuditReader defines read access to recorded audit events.
type AuditReader interface {
	// ListEvents retrieves a token-paginated list of audit events, newest
	// first, optionally filtered by transaction.
	ListEvents(ctx context.Context, transactionID *string, limit int, nextToken *string) ([]domain.AuditEvent, *string, error)
}

// AuditRepositoryFacade combines the audit sink and reader.
type AuditRepositoryFacade interface {
	AuditSink
	AuditReader
}
