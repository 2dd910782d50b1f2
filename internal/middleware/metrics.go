package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/rajbhasha-api/internal/service"
)

const unmatchedRoute = "unmatched"

// Health checks and scrapes would swamp the register and report series.
var unobservedRoutes = map[string]struct{}{
	"/health":  {},
	"/ready":   {},
	"/metrics": {},
}

// Metrics observes each request under its route template. Requests that match
// no route share a single series.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		route := c.FullPath()
		if _, skip := unobservedRoutes[route]; skip {
			c.Next()
			return
		}
		if route == "" {
			route = unmatchedRoute
		}

		start := time.Now()
		c.Next()
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
