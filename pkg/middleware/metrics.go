package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aimodels/inventory-api/pkg/metrics"
)

// Metrics counts every request by method, matched route and status. The
// route label uses the route template, not the raw path, to keep the label
// cardinality bounded.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, status).Inc()
	}
}
