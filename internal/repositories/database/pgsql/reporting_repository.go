package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SterilFlow/cssd_tracking_app/internal/core/domain"
	portsrepo "github.com/SterilFlow/cssd_tracking_app/internal/core/ports/repositories"
)

type PgxReportingRepository struct {
	BaseRepository
}

// newPgxReportingRepository creates the dashboard aggregate repository.
func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingReader {
	return &PgxReportingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportingReader = (*PgxReportingRepository)(nil)

// CountTransactionsByStatus counts transactions per status created at or
// after since.
func (r *PgxReportingRepository) CountTransactionsByStatus(ctx context.Context, since time.Time) (map[domain.TransactionStatus]int64, error) {
	query := `
		SELECT status, COUNT(*)
		FROM transactions
		WHERE created_at >= $1
		GROUP BY status;
	`
	rows, err := r.Pool.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to count transactions by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.TransactionStatus]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count row: %w", err)
		}
		counts[domain.TransactionStatus(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status count rows: %w", err)
	}
	return counts, nil
}

// SumStockCounters totals each counter across all stock records.
func (r *PgxReportingRepository) SumStockCounters(ctx context.Context) (domain.StockTotals, error) {
	query := `
		SELECT COALESCE(SUM(stock_steril), 0), COALESCE(SUM(stock_kotor), 0), COALESCE(SUM(stock_in_use), 0)
		FROM stock_records;
	`
	var totals domain.StockTotals
	err := r.Pool.QueryRow(ctx, query).Scan(&totals.TotalSteril, &totals.TotalKotor, &totals.TotalInUse)
	if err != nil {
		return domain.StockTotals{}, fmt.Errorf("failed to sum stock counters: %w", err)
	}
	return totals, nil
}
