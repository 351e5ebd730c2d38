package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SterilFlow/cssd_tracking_app/internal/core/domain"
	portssvc "github.com/SterilFlow/cssd_tracking_app/internal/core/ports/services"
	"github.com/SterilFlow/cssd_tracking_app/internal/dto"
	"github.com/SterilFlow/cssd_tracking_app/internal/middleware"
)

// stockHandler handles read-only stock ledger queries.
type stockHandler struct {
	stockService portssvc.StockSvcFacade
}

func newStockHandler(stockService portssvc.StockSvcFacade) *stockHandler {
	return &stockHandler{stockService: stockService}
}

func registerStockRoutes(rg *gin.RouterGroup, h *stockHandler) {
	stock := rg.Group("/stock")
	{
		stock.GET("", h.getStock)
		stock.GET("/available-steril", h.listAvailableSteril)
	}
}

// getStock returns the counter triple for one (instrument, location) key.
// locationType defaults to CSSD; unitID is required for UNIT.
func (h *stockHandler) getStock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	instrumentID := c.Query("instrumentID")
	locationType := c.DefaultQuery("locationType", string(domain.LocationCSSD))
	unitID := c.Query("unitID")

	var location domain.Location
	switch domain.LocationType(locationType) {
	case domain.LocationCSSD:
		location = domain.CSSDLocation()
	case domain.LocationUnit:
		location = domain.UnitLocation(unitID)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "locationType must be CSSD or UNIT"})
		return
	}

	record, err := h.stockService.GetStock(c.Request.Context(), instrumentID, location)
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve stock record")
		return
	}

	c.JSON(http.StatusOK, dto.ToStockRecordResponse(*record))
}

func (h *stockHandler) listAvailableSteril(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	records, err := h.stockService.ListAvailableSteril(c.Request.Context())
	if err != nil {
		respondWithError(c, logger, err, "Failed to list available sterile stock")
		return
	}

	c.JSON(http.StatusOK, gin.H{"stock": dto.ToStockRecordResponses(records)})
}
