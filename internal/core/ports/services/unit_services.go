package services

import (
	"context"

	"github.com/SterilFlow/cssd_tracking_app/internal/core/domain"
	"github.com/SterilFlow/cssd_tracking_app/internal/dto"
)

// UnitSvcFacade exposes hospital unit administration.
type UnitSvcFacade interface {
	CreateUnit(ctx context.Context, req dto.CreateUnitRequest, creatorUserID string) (*domain.Unit, error)
	GetUnitByID(ctx context.Context, unitID string) (*domain.Unit, error)
	GetUnitByQRToken(ctx context.Context, qrToken string) (*domain.Unit, error)
	ListUnits(ctx context.Context, includeInactive bool, limit int, offset int) ([]domain.Unit, error)
	UpdateUnit(ctx context.Context, unitID string, req dto.UpdateUnitRequest, userID string) (*domain.Unit, error)
	// RotateQRToken issues a fresh QR token for a unit, invalidating printed labels.
	RotateQRToken(ctx context.Context, unitID string, userID string) (*domain.Unit, error)
}
