package repositories

import (
	"context"

	"github.com/SterilFlow/cssd_tracking_app/internal/core/domain"
)

// StockReader defines read operations for stock records.
type StockReader interface {
	// GetStockRecord retrieves the counter triple for one key. A missing
	// record is returned as a zero-valued record, never an error.
	GetStockRecord(ctx context.Context, key domain.StockKey) (*domain.StockRecord, error)

	// ListStockByLocation retrieves every stock record at a location,
	// optionally restricted to records with a positive value in counter.
	ListStockByLocation(ctx context.Context, location domain.Location, counter *domain.StockCounter) ([]domain.StockRecord, error)

	// ListStockByInstrument retrieves the records for one instrument across
	// all locations.
	ListStockByInstrument(ctx context.Context, instrumentID string) ([]domain.StockRecord, error)
}

// StockRepositoryFacade combines all stock repository interfaces.
// All writes to stock records happen inside the transaction repository's
// units of work; there is no standalone stock writer.
type StockRepositoryFacade interface {
	StockReader
}
