package middlewares

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aliskhannn/push-reminder/internal/metrics"
)

// Metrics records request count and latency per route.
func Metrics(m *metrics.HTTP) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		m.Observe(path, c.Request.Method, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
