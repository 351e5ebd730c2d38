package services

import (
	"context"

	"github.com/SterilFlow/cssd_tracking_app/internal/core/domain"
	"github.com/SterilFlow/cssd_tracking_app/internal/dto"
)

// InstrumentSvcFacade exposes instrument administration.
type InstrumentSvcFacade interface {
	CreateInstrument(ctx context.Context, req dto.CreateInstrumentRequest, creatorUserID string) (*domain.Instrument, error)
	GetInstrumentByID(ctx context.Context, instrumentID string) (*domain.Instrument, error)
	GetInstrumentsByIDs(ctx context.Context, instrumentIDs []string) (map[string]domain.Instrument, error)
	ListInstruments(ctx context.Context, includeInactive bool, limit int, offset int) ([]domain.Instrument, error)
	UpdateInstrument(ctx context.Context, instrumentID string, req dto.UpdateInstrumentRequest, userID string) (*domain.Instrument, error)
}
