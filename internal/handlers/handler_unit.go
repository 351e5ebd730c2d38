package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SterilFlow/cssd_tracking_app/internal/core/ports/services"
	"github.com/SterilFlow/cssd_tracking_app/internal/dto"
	"github.com/SterilFlow/cssd_tracking_app/internal/middleware"
	"github.com/SterilFlow/cssd_tracking_app/internal/utils/qr"
)

// unitHandler handles hospital unit administration.
type unitHandler struct {
	unitService  portssvc.UnitSvcFacade
	stockService portssvc.StockSvcFacade
}

func newUnitHandler(unitService portssvc.UnitSvcFacade, stockService portssvc.StockSvcFacade) *unitHandler {
	return &unitHandler{unitService: unitService, stockService: stockService}
}

func registerUnitRoutes(rg *gin.RouterGroup, h *unitHandler) {
	units := rg.Group("/units")
	{
		units.POST("", h.createUnit)
		units.GET("", h.listUnits)
		units.GET("/:unitID", h.getUnit)
		units.PUT("/:unitID", h.updateUnit)
		units.POST("/:unitID/rotate-qr", h.rotateQRToken)
		units.GET("/:unitID/stock", h.getUnitStock)
	}
}

func (h *unitHandler) createUnit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	unit, err := h.unitService.CreateUnit(c.Request.Context(), req, actor.UserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create unit")
		return
	}

	logger.Info("Unit created via API", slog.String("unit_id", unit.UnitID))
	c.JSON(http.StatusCreated, dto.ToUnitResponse(unit, qr.UnitContent(unit.QRToken)))
}

func (h *unitHandler) listUnits(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	includeInactive, _ := strconv.ParseBool(c.DefaultQuery("includeInactive", "false"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	units, err := h.unitService.ListUnits(c.Request.Context(), includeInactive, limit, offset)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list units")
		return
	}

	responses := make([]dto.UnitResponse, len(units))
	for i := range units {
		responses[i] = dto.ToUnitResponse(&units[i], qr.UnitContent(units[i].QRToken))
	}
	c.JSON(http.StatusOK, gin.H{"units": responses})
}

func (h *unitHandler) getUnit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	unitID := c.Param("unitID")

	unit, err := h.unitService.GetUnitByID(c.Request.Context(), unitID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve unit")
		return
	}

	c.JSON(http.StatusOK, dto.ToUnitResponse(unit, qr.UnitContent(unit.QRToken)))
}

func (h *unitHandler) updateUnit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	unitID := c.Param("unitID")

	var req dto.UpdateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	unit, err := h.unitService.UpdateUnit(c.Request.Context(), unitID, req, actor.UserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update unit")
		return
	}

	c.JSON(http.StatusOK, dto.ToUnitResponse(unit, qr.UnitContent(unit.QRToken)))
}

// rotateQRToken reissues a unit's QR token, invalidating printed labels.
func (h *unitHandler) rotateQRToken(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	unitID := c.Param("unitID")

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	unit, err := h.unitService.RotateQRToken(c.Request.Context(), unitID, actor.UserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to rotate unit QR token")
		return
	}

	logger.Info("Unit QR token rotated via API", slog.String("unit_id", unitID))
	c.JSON(http.StatusOK, dto.ToUnitResponse(unit, qr.UnitContent(unit.QRToken)))
}

// getUnitStock lists a unit's current in-use and dirty holdings.
func (h *unitHandler) getUnitStock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	unitID := c.Param("unitID")

	records, err := h.stockService.ListUnitStock(c.Request.Context(), unitID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list unit stock")
		return
	}

	c.JSON(http.StatusOK, gin.H{"stock": dto.ToStockRecordResponses(records)})
}
