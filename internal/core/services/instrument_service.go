package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/SterilFlow/cssd_tracking_app/internal/apperrors"
	"github.com/SterilFlow/cssd_tracking_app/internal/core/domain"
	portsrepo "github.com/SterilFlow/cssd_tracking_app/internal/core/ports/repositories"
	portssvc "github.com/SterilFlow/cssd_tracking_app/internal/core/ports/services"
	"github.com/SterilFlow/cssd_tracking_app/internal/dto"
	"github.com/SterilFlow/cssd_tracking_app/internal/middleware"
)

type instrumentService struct {
	instrumentRepo portsrepo.InstrumentRepositoryFacade
}

// NewInstrumentService creates the instrument administration service.
func NewInstrumentService(instrumentRepo portsrepo.InstrumentRepositoryFacade) portssvc.InstrumentSvcFacade {
	return &instrumentService{instrumentRepo: instrumentRepo}
}

var _ portssvc.InstrumentSvcFacade = (*instrumentService)(nil)

// CreateInstrument registers a new instrument type. Codes are unique.
func (s *instrumentService) CreateInstrument(ctx context.Context, req dto.CreateInstrumentRequest, creatorUserID string) (*domain.Instrument, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	existing, err := s.instrumentRepo.FindInstrumentByCode(ctx, req.Code)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		logger.Error("Failed to check instrument code uniqueness", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to check instrument code: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: instrument code %s already exists", apperrors.ErrDuplicate, req.Code)
	}

	now := time.Now().UTC()
	instrument := domain.Instrument{
		InstrumentID: uuid.NewString(),
		Name:         req.Name,
		Code:         req.Code,
		Description:  req.Description,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.instrumentRepo.SaveInstrument(ctx, instrument); err != nil {
		logger.Error("Failed to save instrument", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save instrument: %w", err)
	}

	logger.Info("Instrument created", slog.String("instrument_id", instrument.InstrumentID), slog.String("code", instrument.Code))
	return &instrument, nil
}

// GetInstrumentByID retrieves a single instrument.
func (s *instrumentService) GetInstrumentByID(ctx context.Context, instrumentID string) (*domain.Instrument, error) {
	return s.instrumentRepo.FindInstrumentByID(ctx, instrumentID)
}

// GetInstrumentsByIDs retrieves multiple instruments keyed by ID. Missing IDs
// are absent from the map; existence checks are the caller's concern.
func (s *instrumentService) GetInstrumentsByIDs(ctx context.Context, instrumentIDs []string) (map[string]domain.Instrument, error) {
	if len(instrumentIDs) == 0 {
		return map[string]domain.Instrument{}, nil
	}
	return s.instrumentRepo.FindInstrumentsByIDs(ctx, instrumentIDs)
}

// ListInstruments retrieves a paginated instrument list.
func (s *instrumentService) ListInstruments(ctx context.Context, includeInactive bool, limit int, offset int) ([]domain.Instrument, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.instrumentRepo.ListInstruments(ctx, includeInactive, limit, offset)
}

// UpdateInstrument applies a partial update to an instrument.
func (s *instrumentService) UpdateInstrument(ctx context.Context, instrumentID string, req dto.UpdateInstrumentRequest, userID string) (*domain.Instrument, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	instrument, err := s.instrumentRepo.FindInstrumentByID(ctx, instrumentID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		instrument.Name = *req.Name
	}
	if req.Description != nil {
		instrument.Description = *req.Description
	}
	if req.IsActive != nil {
		instrument.IsActive = *req.IsActive
	}
	instrument.LastUpdatedAt = time.Now().UTC()
	instrument.LastUpdatedBy = userID

	if err := s.instrumentRepo.UpdateInstrument(ctx, *instrument); err != nil {
		logger.Error("Failed to update instrument", slog.String("error", err.Error()), slog.String("instrument_id", instrumentID))
		return nil, fmt.Errorf("failed to update instrument: %w", err)
	}

	logger.Info("Instrument updated", slog.String("instrument_id", instrumentID))
	return instrument, nil
}
