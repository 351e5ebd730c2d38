package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SterilFlow/cssd_tracking_app/internal/core/domain"
	portsrepo "github.com/SterilFlow/cssd_tracking_app/internal/core/ports/repositories"
	"github.com/SterilFlow/cssd_tracking_app/internal/models"
	"github.com/SterilFlow/cssd_tracking_app/internal/utils/mapping"
)

type PgxStockRepository struct {
	BaseRepository
}

// newPgxStockRepository creates the read-only stock ledger repository.
// Writes happen exclusively inside the transaction repository's units of work.
func newPgxStockRepository(pool *pgxpool.Pool) portsrepo.StockRepositoryFacade {
	return &PgxStockRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.StockRepositoryFacade = (*PgxStockRepository)(nil)

const stockColumns = `instrument_id, location_type, location_unit_id, stock_steril, stock_kotor, stock_in_use, created_at, created_by, last_updated_at, last_updated_by`

func scanStockRecord(row pgx.Row) (*models.StockRecord, error) {
	var m models.StockRecord
	err := row.Scan(
		&m.InstrumentID,
		&m.LocationType,
		&m.LocationUnitID,
		&m.StockSteril,
		&m.StockKotor,
		&m.StockInUse,
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

// GetStockRecord retrieves the counter triple for one key. Rows are created
// lazily by the transaction units of work, so a missing row simply means
// nothing has ever moved for this key and comes back zero-valued.
func (r *PgxStockRepository) GetStockRecord(ctx context.Context, key domain.StockKey) (*domain.StockRecord, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock_records
		WHERE instrument_id = $1 AND location_type = $2 AND location_unit_id = $3;
	`
	m, err := scanStockRecord(r.Pool.QueryRow(ctx, query, key.InstrumentID, string(key.Location.Type), key.Location.UnitID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &domain.StockRecord{InstrumentID: key.InstrumentID, Location: key.Location}, nil
		}
		return nil, fmt.Errorf("failed to get stock record for instrument %s: %w", key.InstrumentID, err)
	}
	d := mapping.ToDomainStockRecord(*m)
	return &d, nil
}

// ListStockByLocation retrieves every stock record at a location, optionally
// restricted to records with a positive value in counter.
func (r *PgxStockRepository) ListStockByLocation(ctx context.Context, location domain.Location, counter *domain.StockCounter) ([]domain.StockRecord, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock_records
		WHERE location_type = $1 AND location_unit_id = $2
	`
	if counter != nil {
		switch *counter {
		case domain.CounterSteril:
			query += ` AND stock_steril > 0`
		case domain.CounterKotor:
			query += ` AND stock_kotor > 0`
		case domain.CounterInUse:
			query += ` AND stock_in_use > 0`
		}
	}
	query += ` ORDER BY instrument_id;`

	return r.queryStockRecords(ctx, query, string(location.Type), location.UnitID)
}

// ListStockByInstrument retrieves the records for one instrument across all
// locations.
func (r *PgxStockRepository) ListStockByInstrument(ctx context.Context, instrumentID string) ([]domain.StockRecord, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock_records
		WHERE instrument_id = $1
		ORDER BY location_type, location_unit_id;
	`
	return r.queryStockRecords(ctx, query, instrumentID)
}

func (r *PgxStockRepository) queryStockRecords(ctx context.Context, query string, args ...interface{}) ([]domain.StockRecord, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock records: %w", err)
	}
	defer rows.Close()

	records := []models.StockRecord{}
	for rows.Next() {
		m, err := scanStockRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock record row: %w", err)
		}
		records = append(records, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock record rows: %w", err)
	}

	return mapping.ToDomainStockRecordSlice(records), nil
}
