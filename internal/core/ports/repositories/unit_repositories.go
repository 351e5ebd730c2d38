package repositories

import (
	"context"

	"github.com/SterilFlow/cssd_tracking_app/internal/core/domain"
)

// UnitReader defines read operations for hospital unit data.
type UnitReader interface {
	FindUnitByID(ctx context.Context, unitID string) (*domain.Unit, error)
	FindUnitByQRToken(ctx context.Context, qrToken string) (*domain.Unit, error)
	ListUnits(ctx context.Context, includeInactive bool, limit int, offset int) ([]domain.Unit, error)
}

// UnitWriter defines write operations for hospital unit data.
type UnitWriter interface {
	SaveUnit(ctx context.Context, unit domain.Unit) error
	UpdateUnit(ctx context.Context, unit domain.Unit) error
}

// UnitRepositoryFacade combines all unit repository interfaces.
type UnitRepositoryFacade interface {
	UnitReader
	UnitWriter
}
