package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SterilFlow/cssd_tracking_app/internal/apperrors"
	"github.com/SterilFlow/cssd_tracking_app/internal/core/domain"
	portsrepo "github.com/SterilFlow/cssd_tracking_app/internal/core/ports/repositories"
	"github.com/SterilFlow/cssd_tracking_app/internal/models"
	"github.com/SterilFlow/cssd_tracking_app/internal/utils/mapping"
)

type PgxInstrumentRepository struct {
	BaseRepository
}

// newPgxInstrumentRepository creates the instrument catalogue repository.
func newPgxInstrumentRepository(pool *pgxpool.Pool) portsrepo.InstrumentRepositoryFacade {
	return &PgxInstrumentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.InstrumentRepositoryFacade = (*PgxInstrumentRepository)(nil)

const instrumentColumns = `instrument_id, name, code, description, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanInstrument(row pgx.Row) (*models.Instrument, error) {
	var m models.Instrument
	err := row.Scan(
		&m.InstrumentID,
		&m.Name,
		&m.Code,
		&m.Description,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveInstrument inserts a new instrument.
func (r *PgxInstrumentRepository) SaveInstrument(ctx context.Context, instrument domain.Instrument) error {
	m := mapping.ToModelInstrument(instrument)
	query := `
		INSERT INTO instruments (` + instrumentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.InstrumentID, m.Name, m.Code, m.Description, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: instrument code %s", apperrors.ErrDuplicate, m.Code)
		}
		return fmt.Errorf("failed to insert instrument %s: %w", m.InstrumentID, err)
	}
	return nil
}

// UpdateInstrument writes back mutable instrument fields.
func (r *PgxInstrumentRepository) UpdateInstrument(ctx context.Context, instrument domain.Instrument) error {
	m := mapping.ToModelInstrument(instrument)
	query := `
		UPDATE instruments
		SET name = $1, description = $2, is_active = $3, last_updated_at = $4, last_updated_by = $5
		WHERE instrument_id = $6;
	`
	ct, err := r.Pool.Exec(ctx, query, m.Name, m.Description, m.IsActive, m.LastUpdatedAt, m.LastUpdatedBy, m.InstrumentID)
	if err != nil {
		return fmt.Errorf("failed to update instrument %s: %w", m.InstrumentID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindInstrumentByID retrieves an instrument by its ID.
func (r *PgxInstrumentRepository) FindInstrumentByID(ctx context.Context, instrumentID string) (*domain.Instrument, error) {
	query := `SELECT ` + instrumentColumns + ` FROM instruments WHERE instrument_id = $1;`
	m, err := scanInstrument(r.Pool.QueryRow(ctx, query, instrumentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find instrument %s: %w", instrumentID, err)
	}
	d := mapping.ToDomainInstrument(*m)
	return &d, nil
}

// FindInstrumentByCode retrieves an instrument by its unique code.
func (r *PgxInstrumentRepository) FindInstrumentByCode(ctx context.Context, code string) (*domain.Instrument, error) {
	query := `SELECT ` + instrumentColumns + ` FROM instruments WHERE code = $1;`
	m, err := scanInstrument(r.Pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find instrument by code %s: %w", code, err)
	}
	d := mapping.ToDomainInstrument(*m)
	return &d, nil
}

// FindInstrumentsByIDs retrieves multiple instruments keyed by ID. Missing
// IDs are simply absent from the map.
func (r *PgxInstrumentRepository) FindInstrumentsByIDs(ctx context.Context, instrumentIDs []string) (map[string]domain.Instrument, error) {
	query := `SELECT ` + instrumentColumns + ` FROM instruments WHERE instrument_id = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, instrumentIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query instruments by IDs: %w", err)
	}
	defer rows.Close()

	result := make(map[string]domain.Instrument, len(instrumentIDs))
	for rows.Next() {
		m, err := scanInstrument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan instrument row: %w", err)
		}
		result[m.InstrumentID] = mapping.ToDomainInstrument(*m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating instrument rows: %w", err)
	}
	return result, nil
}

// ListInstruments retrieves a paginated instrument listing ordered by code.
func (r *PgxInstrumentRepository) ListInstruments(ctx context.Context, includeInactive bool, limit int, offset int) ([]domain.Instrument, error) {
	query := `SELECT ` + instrumentColumns + ` FROM instruments`
	if !includeInactive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY code LIMIT $1 OFFSET $2;`

	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query instruments: %w", err)
	}
	defer rows.Close()

	instruments := []models.Instrument{}
	for rows.Next() {
		m, err := scanInstrument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan instrument row: %w", err)
		}
		instruments = append(instruments, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating instrument rows: %w", err)
	}

	return mapping.ToDomainInstrumentSlice(instruments), nil
}
