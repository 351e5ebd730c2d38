package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SterilFlow/cssd_tracking_app/internal/core/ports/services"
	"github.com/SterilFlow/cssd_tracking_app/internal/dto"
	"github.com/SterilFlow/cssd_tracking_app/internal/middleware"
	"github.com/SterilFlow/cssd_tracking_app/internal/utils"
	"github.com/SterilFlow/cssd_tracking_app/pkg/config"
)

// authHandler handles credential login and token issuance.
type authHandler struct {
	cfg         *config.Config
	userService portssvc.UserSvcFacade
}

func newAuthHandler(cfg *config.Config, userService portssvc.UserSvcFacade) *authHandler {
	return &authHandler{cfg: cfg, userService: userService}
}

// registerAuthRoutes wires the public authentication endpoints.
func registerAuthRoutes(r *gin.Engine, h *authHandler, limiterMiddleware gin.HandlerFunc) {
	auth := r.Group("/auth", limiterMiddleware)
	{
		auth.POST("/login", h.login)
	}
}

func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	user, err := h.userService.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		// Every credential failure reads the same to the caller.
		logger.Warn("Login failed", slog.String("username", req.Username))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	token, err := utils.GenerateJWT(user.UserID, string(user.Role), h.cfg.JWTSecret, h.cfg.JWTExpiryDuration, h.cfg.JWTIssuer)
	if err != nil {
		logger.Error("Failed to generate token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	logger.Info("User logged in", slog.String("user_id", user.UserID))
	c.JSON(http.StatusOK, dto.LoginResponse{Token: token, User: dto.ToUserResponse(user)})
}
