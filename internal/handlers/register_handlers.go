package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	portssvc "github.com/SterilFlow/cssd_tracking_app/internal/core/ports/services"
	"github.com/SterilFlow/cssd_tracking_app/internal/middleware"
	"github.com/SterilFlow/cssd_tracking_app/pkg/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	registerCustomValidators()

	registerHomeRoutes(r)

	scanLimiter := newScanLimiter(cfg)

	authHandler := newAuthHandler(cfg, services.User)
	registerAuthRoutes(r, authHandler, scanLimiter)

	setupAPIV1Routes(r, cfg, services, scanLimiter)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	scanLimiter gin.HandlerFunc,
) {
	// Apply AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerTransactionRoutes(v1, newTransactionHandler(services.Transaction, services.Unit, services.Stock), scanLimiter)
	registerStockRoutes(v1, newStockHandler(services.Stock))
	registerInstrumentRoutes(v1, newInstrumentHandler(services.Instrument, services.Stock))
	registerUnitRoutes(v1, newUnitHandler(services.Unit, services.Stock))
	registerUserRoutes(v1, newUserHandler(services.User))
	registerReportingRoutes(v1, newReportingHandler(services.Reporting, services.Audit))
}

// newScanLimiter builds the per-IP limiter applied to QR-driven and login
// endpoints. An in-memory store suffices for a single-instance deployment.
func newScanLimiter(cfg *config.Config) gin.HandlerFunc {
	rate := limiter.Rate{
		Period: cfg.ScanRatePeriod,
		Limit:  cfg.ScanRateLimit,
	}
	return middleware.RateLimit(limiter.New(memory.NewStore(), rate))
}
