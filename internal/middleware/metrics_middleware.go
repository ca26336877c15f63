package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"studybee/internal/metrics"
)

// Metrics records a request counter and duration histogram per route.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		m.IncRequestsTotal(endpoint, strconv.Itoa(c.Writer.Status()))
		m.ObserveRequestDuration(endpoint, time.Since(start))
	}
}
