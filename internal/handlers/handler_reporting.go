package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SterilFlow/cssd_tracking_app/internal/core/ports/services"
	"github.com/SterilFlow/cssd_tracking_app/internal/dto"
	"github.com/SterilFlow/cssd_tracking_app/internal/middleware"
)

// reportingHandler serves dashboard aggregates and the audit trail.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
	auditService     portssvc.AuditSvcFacade
}

func newReportingHandler(reportingService portssvc.ReportingSvcFacade, auditService portssvc.AuditSvcFacade) *reportingHandler {
	return &reportingHandler{reportingService: reportingService, auditService: auditService}
}

func registerReportingRoutes(rg *gin.RouterGroup, h *reportingHandler) {
	rg.GET("/dashboard/stats", h.getDashboardStats)
	rg.GET("/activity-logs", h.listActivityLogs)
}

func (h *reportingHandler) getDashboardStats(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	stats, err := h.reportingService.GetDashboardStats(c.Request.Context())
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve dashboard stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *reportingHandler) listActivityLogs(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListAuditEventsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	events, nextToken, err := h.auditService.ListEvents(c.Request.Context(), params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list activity logs")
		return
	}

	responses := make([]dto.AuditEventResponse, len(events))
	for i, event := range events {
		responses[i] = dto.ToAuditEventResponse(event)
	}
	c.JSON(http.StatusOK, dto.ListAuditEventsResponse{Events: responses, NextToken: nextToken})
}
