package services

import (
	"context"
	"fmt"

	"github.com/SterilFlow/cssd_tracking_app/internal/apperrors"
	"github.com/SterilFlow/cssd_tracking_app/internal/core/domain"
	portsrepo "github.com/SterilFlow/cssd_tracking_app/internal/core/ports/repositories"
	portssvc "github.com/SterilFlow/cssd_tracking_app/internal/core/ports/services"
)

type stockService struct {
	stockRepo portsrepo.StockRepositoryFacade
}

// NewStockService creates a read-only stock query service.
func NewStockService(stockRepo portsrepo.StockRepositoryFacade) portssvc.StockSvcFacade {
	return &stockService{stockRepo: stockRepo}
}

var _ portssvc.StockSvcFacade = (*stockService)(nil)

// GetStock returns the counter triple for one instrument at one location.
// Absent records come back zero-valued.
func (s *stockService) GetStock(ctx context.Context, instrumentID string, location domain.Location) (*domain.StockRecord, error) {
	if instrumentID == "" {
		return nil, fmt.Errorf("%w: instrument ID is required", apperrors.ErrValidation)
	}
	if location.Type == domain.LocationUnit && location.UnitID == "" {
		return nil, fmt.Errorf("%w: unit ID is required for a unit location", apperrors.ErrValidation)
	}
	if location.Type == domain.LocationCSSD && location.UnitID != "" {
		return nil, fmt.Errorf("%w: the CSSD location carries no unit ID", apperrors.ErrValidation)
	}

	return s.stockRepo.GetStockRecord(ctx, domain.StockKey{InstrumentID: instrumentID, Location: location})
}

// ListAvailableSteril lists CSSD records with sterile stock to hand out.
func (s *stockService) ListAvailableSteril(ctx context.Context) ([]domain.StockRecord, error) {
	counter := domain.CounterSteril
	return s.stockRepo.ListStockByLocation(ctx, domain.CSSDLocation(), &counter)
}

// ListUnitStock lists a unit's records holding in-use or dirty stock.
func (s *stockService) ListUnitStock(ctx context.Context, unitID string) ([]domain.StockRecord, error) {
	if unitID == "" {
		return nil, fmt.Errorf("%w: unit ID is required", apperrors.ErrValidation)
	}
	records, err := s.stockRepo.ListStockByLocation(ctx, domain.UnitLocation(unitID), nil)
	if err != nil {
		return nil, err
	}
	held := make([]domain.StockRecord, 0, len(records))
	for _, rec := range records {
		if rec.StockInUse > 0 || rec.StockKotor > 0 {
			held = append(held, rec)
		}
	}
	return held, nil
}

// ListInstrumentStock lists one instrument's records across locations.
func (s *stockService) ListInstrumentStock(ctx context.Context, instrumentID string) ([]domain.StockRecord, error) {
	if instrumentID == "" {
		return nil, fmt.Errorf("%w: instrument ID is required", apperrors.ErrValidation)
	}
	return s.stockRepo.ListStockByInstrument(ctx, instrumentID)
}
