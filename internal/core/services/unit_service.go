package services

import (
	"context"
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

type unitService struct {
	unitRepo portsrepo.UnitRepositoryFacade
}

// NewUnitService creates the hospital unit administration service.
func NewUnitService(unitRepo portsrepo.UnitRepositoryFacade) portssvc.UnitSvcFacade {
	return &unitService{unitRepo: unitRepo}
}

var _ portssvc.UnitSvcFacade = (*unitService)(nil)

// CreateUnit registers a new hospital unit with a fresh QR token.
func (s *unitService) CreateUnit(ctx context.Context, req dto.CreateUnitRequest, creatorUserID string) (*domain.Unit, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	unit := domain.Unit{
		UnitID:      uuid.NewString(),
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		QRToken:     uuid.NewString(),
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.unitRepo.SaveUnit(ctx, unit); err != nil {
		logger.Error("Failed to save unit", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save unit: %w", err)
	}

	logger.Info("Unit created", slog.String("unit_id", unit.UnitID), slog.String("code", unit.Code))
	return &unit, nil
}

// GetUnitByID retrieves a single unit.
func (s *unitService) GetUnitByID(ctx context.Context, unitID string) (*domain.Unit, error) {
	return s.unitRepo.FindUnitByID(ctx, unitID)
}

// GetUnitByQRToken resolves a scanned unit QR token. Inactive units resolve
// with an error so stale printed labels stop working once a unit is retired.
func (s *unitService) GetUnitByQRToken(ctx context.Context, qrToken string) (*domain.Unit, error) {
	unit, err := s.unitRepo.FindUnitByQRToken(ctx, qrToken)
	if err != nil {
		return nil, err
	}
	if !unit.IsActive {
		return nil, fmt.Errorf("%w: unit %s is inactive", apperrors.ErrValidation, unit.UnitID)
	}
	return unit, nil
}

// ListUnits retrieves a paginated unit list.
func (s *unitService) ListUnits(ctx context.Context, includeInactive bool, limit int, offset int) ([]domain.Unit, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.unitRepo.ListUnits(ctx, includeInactive, limit, offset)
}

// UpdateUnit applies a partial update to a unit.
func (s *unitService) UpdateUnit(ctx context.Context, unitID string, req dto.UpdateUnitRequest, userID string) (*domain.Unit, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	unit, err := s.unitRepo.FindUnitByID(ctx, unitID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		unit.Name = *req.Name
	}
	if req.Description != nil {
		unit.Description = *req.Description
	}
	if req.IsActive != nil {
		unit.IsActive = *req.IsActive
	}
	unit.LastUpdatedAt = time.Now().UTC()
	unit.LastUpdatedBy = userID

	if err := s.unitRepo.UpdateUnit(ctx, *unit); err != nil {
		logger.Error("Failed to update unit", slog.String("error", err.Error()), slog.String("unit_id", unitID))
		return nil, fmt.Errorf("failed to update unit: %w", err)
	}

	logger.Info("Unit updated", slog.String("unit_id", unitID))
	return unit, nil
}

// RotateQRToken issues a fresh QR token for a unit, invalidating printed labels.
func (s *unitService) RotateQRToken(ctx context.Context, unitID string, userID string) (*domain.Unit, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	unit, err := s.unitRepo.FindUnitByID(ctx, unitID)
	if err != nil {
		return nil, err
	}

	unit.QRToken = uuid.NewString()
	unit.LastUpdatedAt = time.Now().UTC()
	unit.LastUpdatedBy = userID

	if err := s.unitRepo.UpdateUnit(ctx, *unit); err != nil {
		logger.Error("Failed to rotate unit QR token", slog.String("error", err.Error()), slog.String("unit_id", unitID))
		return nil, fmt.Errorf("failed to rotate QR token: %w", err)
	}

	logger.Info("Unit QR token rotated", slog.String("unit_id", unitID))
	return unit, nil
}
