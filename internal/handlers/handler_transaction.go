package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SterilFlow/cssd_tracking_app/internal/core/domain"
	portssvc "github.com/SterilFlow/cssd_tracking_app/internal/core/ports/services"
	"github.com/SterilFlow/cssd_tracking_app/internal/dto"
	"github.com/SterilFlow/cssd_tracking_app/internal/middleware"
	"github.com/SterilFlow/cssd_tracking_app/internal/utils/qr"
)

// transactionHandler handles HTTP requests for the transaction lifecycle.
type transactionHandler struct {
	txnService   portssvc.TransactionSvcFacade
	unitService  portssvc.UnitSvcFacade
	stockService portssvc.StockSvcFacade
}

func newTransactionHandler(txnService portssvc.TransactionSvcFacade, unitService portssvc.UnitSvcFacade, stockService portssvc.StockSvcFacade) *transactionHandler {
	return &transactionHandler{
		txnService:   txnService,
		unitService:  unitService,
		stockService: stockService,
	}
}

// registerTransactionRoutes wires the transaction endpoints. scanLimiter is
// applied to the QR-driven endpoints hit by handheld scanners.
func registerTransactionRoutes(rg *gin.RouterGroup, h *transactionHandler, scanLimiter gin.HandlerFunc) {
	txns := rg.Group("/transactions")
	{
		txns.GET("", h.listTransactions)
		txns.GET("/:transactionID", h.getTransaction)
		txns.POST("/scan-unit", scanLimiter, h.scanUnit)
		txns.POST("/steril", scanLimiter, h.createSteril)
		txns.POST("/kotor", scanLimiter, h.createKotor)
		txns.POST("/return", scanLimiter, h.createReturn)
		txns.POST("/validate", scanLimiter, h.validateByQR)
		txns.POST("/:transactionID/cancel", h.cancelTransaction)
	}
}

// scanUnit resolves a scanned unit QR label into the stock the requested
// transaction type can draw from: CSSD sterile availability for a steril
// distribution, the unit's own holdings for a dirty pickup.
func (h *transactionHandler) scanUnit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ScanUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	kind, token, err := qr.Parse(req.QRContent)
	if err != nil || kind != qr.KindUnit {
		logger.Warn("Rejected scan content that is not a unit payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Scanned content is not a unit QR code"})
		return
	}

	unit, err := h.unitService.GetUnitByQRToken(c.Request.Context(), token)
	if err != nil {
		respondWithError(c, logger, err, "Failed to resolve unit")
		return
	}

	var records []domain.StockRecord
	if req.TransactionType == "steril" {
		records, err = h.stockService.ListAvailableSteril(c.Request.Context())
	} else {
		records, err = h.stockService.ListUnitStock(c.Request.Context(), unit.UnitID)
	}
	if err != nil {
		respondWithError(c, logger, err, "Failed to list stock for scanned unit")
		return
	}

	c.JSON(http.StatusOK, dto.ScanUnitResponse{
		Unit:            dto.ToUnitResponse(unit, qr.UnitContent(unit.QRToken)),
		TransactionType: req.TransactionType,
		Stock:           dto.ToStockRecordResponses(records),
	})
}

func (h *transactionHandler) createSteril(c *gin.Context) {
	h.createTransaction(c, domain.DistributeSteril)
}

func (h *transactionHandler) createKotor(c *gin.Context) {
	h.createTransaction(c, domain.PickupKotor)
}

func (h *transactionHandler) createReturn(c *gin.Context) {
	h.createTransaction(c, domain.ReturnToCssd)
}

func (h *transactionHandler) createTransaction(c *gin.Context, kind domain.TransactionKind) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for transaction creation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, err := h.txnService.CreateTransaction(c.Request.Context(), actor, kind, req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create transaction")
		return
	}

	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn, qr.TransactionContent(txn.QRToken)))
}

// validateByQR validates a transaction identified by its scanned QR slip.
func (h *transactionHandler) validateByQR(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ValidateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	kind, token, err := qr.Parse(req.QRContent)
	if err != nil || kind != qr.KindTransaction {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Scanned content is not a transaction QR code"})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	found, err := h.txnService.GetTransactionByQRToken(c.Request.Context(), token)
	if err != nil {
		respondWithError(c, logger, err, "Failed to resolve transaction")
		return
	}

	txn, err := h.txnService.ValidateTransaction(c.Request.Context(), actor, found.TransactionID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to validate transaction")
		return
	}

	logger.Info("Transaction validated via QR scan", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn, qr.TransactionContent(txn.QRToken)))
}

func (h *transactionHandler) cancelTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	var req dto.CancelTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cancel reason is required"})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.txnService.CancelTransaction(c.Request.Context(), actor, transactionID, req.Reason)
	if err != nil {
		respondWithError(c, logger, err, "Failed to cancel transaction")
		return
	}

	resp := dto.ToTransactionResponse(result.Transaction, qr.TransactionContent(result.Transaction.QRToken))
	for _, key := range result.ClampedKeys {
		resp.Warnings = append(resp.Warnings, "reversal clamped at zero for instrument "+key.InstrumentID)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	txn, err := h.txnService.GetTransaction(c.Request.Context(), transactionID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve transaction")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn, qr.TransactionContent(txn.QRToken)))
}

func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	txns, nextToken, err := h.txnService.ListTransactions(c.Request.Context(), params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list transactions")
		return
	}

	responses := make([]dto.TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = dto.ToTransactionResponse(&txns[i], qr.TransactionContent(txns[i].QRToken))
	}
	c.JSON(http.StatusOK, dto.ListTransactionsResponse{Transactions: responses, NextToken: nextToken})
}
