package repositories

import (
	"context"
	"time"

	"github.com/SterilFlow/cssd_tracking_app/internal/core/domain"
)

// ReportingReader defines aggregate queries for dashboards.
type ReportingReader interface {
	// CountTransactionsByStatus counts transactions per status created at or
	// after since.
	CountTransactionsByStatus(ctx context.Context, since time.Time) (map[domain.TransactionStatus]int64, error)

	// SumStockCounters totals each counter across all locations.
	SumStockCounters(ctx context.Context) (domain.StockTotals, error)
}
