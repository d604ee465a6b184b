package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// HTTPRecorder 请求指标
type HTTPRecorder interface {
	RecordHTTP(method, route string, status int, elapsed time.Duration)
}

// MetricsMiddleware 按路由模板统计，未匹配的路由归为 unmatched
func MetricsMiddleware(rec HTTPRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		rec.RecordHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
