package middleware

import (
	"github.com/SterilFlow/cssd_tracking_app/internal/core/domain"
	"github.com/gin-gonic/gin"
)

const actorKey = contextKey("actor")

// GetActorFromContext retrieves the authenticated actor set by AuthMiddleware.
func GetActorFromContext(c *gin.Context) (domain.Actor, bool) {
	actorVal := c.Request.Context().Value(actorKey)
	if actorVal == nil {
		return domain.Actor{}, false
	}

	actor, ok := actorVal.(domain.Actor)
	if !ok {
		return domain.Actor{}, false
	}
	return actor, true
}
