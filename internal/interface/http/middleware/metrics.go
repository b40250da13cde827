package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/edubook/pkg/metrics"
)

// Metrics HTTP指标中间件
// 按method/path/status维度统计请求量和耗时
// path用路由模板(/api/books/:id)而不是真实URL,避免标签基数爆炸
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		if metrics.HTTPRequestsInProgress != nil {
			metrics.HTTPRequestsInProgress.Inc()
			defer metrics.HTTPRequestsInProgress.Dec()
		}

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		if metrics.HTTPRequestsTotal != nil {
			metrics.IncCounterVec(metrics.HTTPRequestsTotal, map[string]string{
				"method": c.Request.Method,
				"path":   path,
				"status": strconv.Itoa(c.Writer.Status()),
			})
			metrics.HTTPRequestDuration.With(map[string]string{
				"method": c.Request.Method,
				"path":   path,
			}).Observe(time.Since(start).Seconds())
		}
	}
}
