package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	resp "go-gin-gorm-users/internal/transport/http/response"
)

// ConcurrencyLimit 限制同时处理的请求数（保护 DB 连接池）；等待到请求被取消时返回 503
func ConcurrencyLimit(max int64) gin.HandlerFunc {
	sem := semaphore.NewWeighted(max)
	return func(c *gin.Context) {
		if err := sem.Acquire(c.Request.Context(), 1); err != nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, resp.Error(resp.CodeBusy, "server busy"))
			return
		}
		defer sem.Release(1)
		c.Next()
	}
}
