package metrics

import (
	"strconv"
	"time"

	pm "ReviewHub/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Gin 记录每个路由的请求数与耗时，endpoint 使用路由模板避免高基数
func Gin() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		pm.HttpRequestsTotal.WithLabelValues(endpoint, status, method).Inc()
		pm.HttpRequestDuration.WithLabelValues(endpoint, method).Observe(time.Since(start).Seconds())
	}
}
