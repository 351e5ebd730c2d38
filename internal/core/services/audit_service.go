package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SterilFlow/cssd_tracking_app/internal/core/domain"
	portsrepo "github.com/SterilFlow/cssd_tracking_app/internal/core/ports/repositories"
	portssvc "github.com/SterilFlow/cssd_tracking_app/internal/core/ports/services"
	"github.com/SterilFlow/cssd_tracking_app/internal/dto"
	"github.com/SterilFlow/cssd_tracking_app/internal/middleware"
)

type auditService struct {
	auditRepo portsrepo.AuditRepositoryFacade
}

// NewAuditService creates the audit trail query service.
func NewAuditService(auditRepo portsrepo.AuditRepositoryFacade) portssvc.AuditSvcFacade {
	return &auditService{auditRepo: auditRepo}
}

var _ portssvc.AuditSvcFacade = (*auditService)(nil)

// ListEvents retrieves a token-paginated audit event listing, newest first.
func (s *auditService) ListEvents(ctx context.Context, params dto.ListAuditEventsParams) ([]domain.AuditEvent, *string, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	return s.auditRepo.ListEvents(ctx, params.TransactionID, limit, params.NextToken)
}

type reportingService struct {
	reportingRepo portsrepo.ReportingReader
}

// NewReportingService creates the dashboard aggregate service.
func NewReportingService(reportingRepo portsrepo.ReportingReader) portssvc.ReportingSvcFacade {
	return &reportingService{reportingRepo: reportingRepo}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// GetDashboardStats aggregates today's transaction counts and the current
// stock totals. "Today" starts at midnight UTC.
func (s *reportingService) GetDashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	counts, err := s.reportingRepo.CountTransactionsByStatus(ctx, midnight)
	if err != nil {
		logger.Error("Failed to count transactions for dashboard", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}

	totals, err := s.reportingRepo.SumStockCounters(ctx)
	if err != nil {
		logger.Error("Failed to sum stock counters for dashboard", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to sum stock counters: %w", err)
	}

	return &domain.DashboardStats{
		PendingToday:   counts[domain.StatusPending],
		ValidatedToday: counts[domain.StatusValidated],
		CancelledToday: counts[domain.StatusCancelled],
		Stock:          totals,
	}, nil
}
