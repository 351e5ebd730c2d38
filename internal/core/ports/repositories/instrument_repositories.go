package repositories

import (
	"context"

	"github.com/SterilFlow/cssd_tracking_app/internal/core/domain"
)

// InstrumentReader defines read operations for instrument data.
type InstrumentReader interface {
	FindInstrumentByID(ctx context.Context, instrumentID string) (*domain.Instrument, error)

	// FindInstrumentsByIDs retrieves multiple instruments keyed by ID.
	// Missing IDs are simply absent from the map.
	FindInstrumentsByIDs(ctx context.Context, instrumentIDs []string) (map[string]domain.Instrument, error)

	FindInstrumentByCode(ctx context.Context, code string) (*domain.Instrument, error)

	ListInstruments(ctx context.Context, includeInactive bool, limit int, offset int) ([]domain.Instrument, error)
}

// InstrumentWriter defines write operations for instrument data.
type InstrumentWriter interface {
	SaveInstrument(ctx context.Context, instrument domain.Instrument) error
	UpdateInstrument(ctx context.Context, instrument domain.Instrument) error
}

// InstrumentRepositoryFacade combines all instrument repository interfaces.
type InstrumentRepositoryFacade interface {
	InstrumentReader
	InstrumentWriter
}
