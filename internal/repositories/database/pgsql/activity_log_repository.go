package pgsql

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SterilFlow/cssd_tracking_app/internal/apperrors"
	"github.com/SterilFlow/cssd_tracking_app/internal/core/domain"
	portsrepo "github.com/SterilFlow/cssd_tracking_app/internal/core/ports/repositories"
	"github.com/SterilFlow/cssd_tracking_app/internal/models"
	"github.com/SterilFlow/cssd_tracking_app/internal/utils/mapping"
	"github.com/SterilFlow/cssd_tracking_app/internal/utils/pagination"
)

type PgxActivityLogRepository struct {
	BaseRepository
}

// newPgxActivityLogRepository creates the append-only audit trail repository.
func newPgxActivityLogRepository(pool *pgxpool.Pool) portsrepo.AuditRepositoryFacade {
	return &PgxActivityLogRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AuditRepositoryFacade = (*PgxActivityLogRepository)(nil)

// RecordEvent appends one audit row. Rows are never updated or deleted.
func (r *PgxActivityLogRepository) RecordEvent(ctx context.Context, event domain.AuditEvent) error {
	m := mapping.ToModelActivityLog(event)
	query := `
		INSERT INTO activity_logs (event_id, action, actor_id, actor_role, transaction_id, description, metadata, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.EventID, m.Action, m.ActorID, m.ActorRole, m.TransactionID, m.Description, m.Metadata, m.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert activity log %s: %w", m.EventID, err)
	}
	return nil
}

// ListEvents retrieves a token-paginated listing of audit rows, newest first,
// optionally filtered by transaction.
func (r *PgxActivityLogRepository) ListEvents(ctx context.Context, transactionID *string, limit int, nextToken *string) ([]domain.AuditEvent, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	query := `
		SELECT event_id, action, actor_id, actor_role, transaction_id, description, metadata, occurred_at
		FROM activity_logs
	`
	clauses := []string{}
	args := []interface{}{}
	if transactionID != nil {
		args = append(args, *transactionID)
		clauses = append(clauses, "transaction_id = $"+strconv.Itoa(len(args)))
	}
	if nextToken != nil && *nextToken != "" {
		lastOccurredAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken", apperrors.ErrValidation)
		}
		args = append(args, lastOccurredAt, lastID)
		clauses = append(clauses, "(occurred_at, event_id) < ($"+strconv.Itoa(len(args)-1)+", $"+strconv.Itoa(len(args))+")")
	}
	if len(clauses) > 0 {
		query += " WHERE " + clauses[0]
		for _, clause := range clauses[1:] {
			query += " AND " + clause
		}
	}
	args = append(args, fetchLimit)
	query += " ORDER BY occurred_at DESC, event_id DESC LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query activity logs: %w", err)
	}
	defer rows.Close()

	logs := []models.ActivityLog{}
	for rows.Next() {
		var m models.ActivityLog
		err := rows.Scan(
			&m.EventID,
			&m.Action,
			&m.ActorID,
			&m.ActorRole,
			&m.TransactionID,
			&m.Description,
			&m.Metadata,
			&m.OccurredAt,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan activity log row: %w", err)
		}
		logs = append(logs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating activity log rows: %w", err)
	}

	var nextTokenVal *string
	if len(logs) > limit {
		last := logs[limit-1]
		token := pagination.EncodeToken(last.OccurredAt, last.EventID)
		nextTokenVal = &token
		logs = logs[:limit]
	}

	return mapping.ToDomainAuditEventSlice(logs), nextTokenVal, nil
}
