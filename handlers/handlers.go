package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aimodels/inventory-api/internal/apierr"
	"github.com/aimodels/inventory-api/pkg/logger"
)

// fail translates a service error into the JSON error contract. API errors
// carry their own status and caller-safe message; anything else is logged
// server-side and surfaced only as the generic message with a 500.
func fail(c *gin.Context, err error, generic string) {
	if ae, ok := apierr.IsAPIError(err); ok {
		c.JSON(ae.Status, gin.H{"message": ae.Message})
		return
	}
	logger.Errorf("%s: %v", generic, err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": generic})
}

// RegisterNotFound installs the catch-all JSON 404 for unmatched routes.
func RegisterNotFound(r *gin.Engine) {
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Route not found"})
	})
}
