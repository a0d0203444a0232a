package middleware

import (
	"time"

	"user-crud-service/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records count and latency of every request by route template.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveRequest(c.Request.Method, routeOf(c), c.Writer.Status(), time.Since(start))
	}
}
