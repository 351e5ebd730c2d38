package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SterilFlow/cssd_tracking_app/internal/core/ports/services"
	"github.com/SterilFlow/cssd_tracking_app/internal/dto"
	"github.com/SterilFlow/cssd_tracking_app/internal/middleware"
)

// instrumentHandler handles instrument catalogue administration.
type instrumentHandler struct {
	instrumentService portssvc.InstrumentSvcFacade
	stockService      portssvc.StockSvcFacade
}

func newInstrumentHandler(instrumentService portssvc.InstrumentSvcFacade, stockService portssvc.StockSvcFacade) *instrumentHandler {
	return &instrumentHandler{instrumentService: instrumentService, stockService: stockService}
}

func registerInstrumentRoutes(rg *gin.RouterGroup, h *instrumentHandler) {
	instruments := rg.Group("/instruments")
	{
		instruments.POST("", h.createInstrument)
		instruments.GET("", h.listInstruments)
		instruments.GET("/:instrumentID", h.getInstrument)
		instruments.PUT("/:instrumentID", h.updateInstrument)
		instruments.GET("/:instrumentID/stock", h.getInstrumentStock)
	}
}

func (h *instrumentHandler) createInstrument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateInstrumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	instrument, err := h.instrumentService.CreateInstrument(c.Request.Context(), req, actor.UserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create instrument")
		return
	}

	logger.Info("Instrument created via API", slog.String("instrument_id", instrument.InstrumentID))
	c.JSON(http.StatusCreated, dto.ToInstrumentResponse(instrument))
}

func (h *instrumentHandler) listInstruments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	includeInactive, _ := strconv.ParseBool(c.DefaultQuery("includeInactive", "false"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	instruments, err := h.instrumentService.ListInstruments(c.Request.Context(), includeInactive, limit, offset)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list instruments")
		return
	}

	responses := make([]dto.InstrumentResponse, len(instruments))
	for i := range instruments {
		responses[i] = dto.ToInstrumentResponse(&instruments[i])
	}
	c.JSON(http.StatusOK, gin.H{"instruments": responses})
}

func (h *instrumentHandler) getInstrument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	instrumentID := c.Param("instrumentID")

	instrument, err := h.instrumentService.GetInstrumentByID(c.Request.Context(), instrumentID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve instrument")
		return
	}

	c.JSON(http.StatusOK, dto.ToInstrumentResponse(instrument))
}

func (h *instrumentHandler) updateInstrument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	instrumentID := c.Param("instrumentID")

	var req dto.UpdateInstrumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	instrument, err := h.instrumentService.UpdateInstrument(c.Request.Context(), instrumentID, req, actor.UserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update instrument")
		return
	}

	c.JSON(http.StatusOK, dto.ToInstrumentResponse(instrument))
}

// getInstrumentStock lists one instrument's stock records across locations.
func (h *instrumentHandler) getInstrumentStock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	instrumentID := c.Param("instrumentID")

	records, err := h.stockService.ListInstrumentStock(c.Request.Context(), instrumentID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list instrument stock")
		return
	}

	c.JSON(http.StatusOK, gin.H{"stock": dto.ToStockRecordResponses(records)})
}
