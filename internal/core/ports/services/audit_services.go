package services

import (
	"context"

	"github.com/SterilFlow/cssd_tracking_app/internal/core/domain"
	"github.com/SterilFlow/cssd_tracking_app/internal/dto"
)

// AuditSvcFacade exposes read access to the recorded audit trail.
type AuditSvcFacade interface {
	ListEvents(ctx context.Context, params dto.ListAuditEventsParams) ([]domain.AuditEvent, *string, error)
}

// ReportingSvcFacade exposes dashboard aggregates.
type ReportingSvcFacade interface {
	GetDashboardStats(ctx context.Context) (*domain.DashboardStats, error)
}
