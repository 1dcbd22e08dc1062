package middleware

import (
	"github.com/SscSPs/trust_ledger_app/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// actorKey is the key used to store the authenticated actor in the request context.
const actorKey = contextKey("actor")

// GetActorFromContext retrieves the authenticated actor from the Gin context.
// The client IP is always taken from the current request.
func GetActorFromContext(c *gin.Context) (domain.Actor, bool) {
	actorVal, exists := c.Get(string(actorKey))
	if !exists {
		// check in the request context as well
		actorVal = c.Request.Context().Value(actorKey)
		if actorVal == nil {
			return domain.Actor{}, false
		}
	}

	actor, ok := actorVal.(domain.Actor)
	if !ok || actor.UserID == "" {
		return domain.Actor{}, false
	}
	actor.ClientIP = c.ClientIP()
	return actor, true
}

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	actor, ok := GetActorFromContext(c)
	return actor.UserID, ok
}
