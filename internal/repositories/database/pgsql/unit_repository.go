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

type PgxUnitRepository struct {
	BaseRepository
}

// newPgxUnitRepository creates the hospital unit repository.
func newPgxUnitRepository(pool *pgxpool.Pool) portsrepo.UnitRepositoryFacade {
	return &PgxUnitRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.UnitRepositoryFacade = (*PgxUnitRepository)(nil)

const unitColumns = `unit_id, code, name, description, qr_token, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanUnit(row pgx.Row) (*models.Unit, error) {
	var m models.Unit
	err := row.Scan(
		&m.UnitID,
		&m.Code,
		&m.Name,
		&m.Description,
		&m.QRToken,
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

// SaveUnit inserts a new unit.
func (r *PgxUnitRepository) SaveUnit(ctx context.Context, unit domain.Unit) error {
	m := mapping.ToModelUnit(unit)
	query := `
		INSERT INTO units (` + unitColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.UnitID, m.Code, m.Name, m.Description, m.QRToken, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: unit code %s", apperrors.ErrDuplicate, m.Code)
		}
		return fmt.Errorf("failed to insert unit %s: %w", m.UnitID, err)
	}
	return nil
}

// UpdateUnit writes back mutable unit fields, including a rotated QR token.
func (r *PgxUnitRepository) UpdateUnit(ctx context.Context, unit domain.Unit) error {
	m := mapping.ToModelUnit(unit)
	query := `
		UPDATE units
		SET name = $1, description = $2, qr_token = $3, is_active = $4, last_updated_at = $5, last_updated_by = $6
		WHERE unit_id = $7;
	`
	ct, err := r.Pool.Exec(ctx, query, m.Name, m.Description, m.QRToken, m.IsActive, m.LastUpdatedAt, m.LastUpdatedBy, m.UnitID)
	if err != nil {
		return fmt.Errorf("failed to update unit %s: %w", m.UnitID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindUnitByID retrieves a unit by its ID.
func (r *PgxUnitRepository) FindUnitByID(ctx context.Context, unitID string) (*domain.Unit, error) {
	query := `SELECT ` + unitColumns + ` FROM units WHERE unit_id = $1;`
	m, err := scanUnit(r.Pool.QueryRow(ctx, query, unitID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find unit %s: %w", unitID, err)
	}
	d := mapping.ToDomainUnit(*m)
	return &d, nil
}

// FindUnitByQRToken retrieves a unit by its current QR token.
func (r *PgxUnitRepository) FindUnitByQRToken(ctx context.Context, qrToken string) (*domain.Unit, error) {
	query := `SELECT ` + unitColumns + ` FROM units WHERE qr_token = $1;`
	m, err := scanUnit(r.Pool.QueryRow(ctx, query, qrToken))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find unit by QR token: %w", err)
	}
	d := mapping.ToDomainUnit(*m)
	return &d, nil
}

// ListUnits retrieves a paginated unit listing ordered by code.
func (r *PgxUnitRepository) ListUnits(ctx context.Context, includeInactive bool, limit int, offset int) ([]domain.Unit, error) {
	query := `SELECT ` + unitColumns + ` FROM units`
	if !includeInactive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY code LIMIT $1 OFFSET $2;`

	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query units: %w", err)
	}
	defer rows.Close()

	units := []models.Unit{}
	for rows.Next() {
		m, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan unit row: %w", err)
		}
		units = append(units, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating unit rows: %w", err)
	}

	return mapping.ToDomainUnitSlice(units), nil
}
