package services

import (
	"context"

	"github.com/SterilFlow/cssd_tracking_app/internal/core/domain"
)

// StockSvcFacade exposes read access to the stock ledger.
type StockSvcFacade interface {
	// GetStock returns the counter triple for one instrument at one location.
	// Absent records come back zero-valued.
	GetStock(ctx context.Context, instrumentID string, location domain.Location) (*domain.StockRecord, error)

	// ListAvailableSteril lists CSSD records with sterile stock to hand out.
	ListAvailableSteril(ctx context.Context) ([]domain.StockRecord, error)

	// ListUnitStock lists a unit's records holding in-use or dirty stock.
	ListUnitStock(ctx context.Context, unitID string) ([]domain.StockRecord, error)

	// ListInstrumentStock lists one instrument's records across locations.
	ListInstrumentStock(ctx context.Context, instrumentID string) ([]domain.StockRecord, error)
}
