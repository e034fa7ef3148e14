package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go-gin-gorm-users/internal/core/server"
	mdw "go-gin-gorm-users/internal/transport/http/middleware"
	resp "go-gin-gorm-users/internal/transport/http/response"
)

// Options 零值表示不启用对应保护
type Options struct {
	BasePath      string
	MaxBodyBytes  int64
	Timeout       time.Duration
	MaxConcurrent int64
	CORSOrigins   []string
	// Health 返回非 nil 时 /health 回 503
	Health func() error
}

func NewAPIEngine(l *zap.Logger, o Options, mods ...APIModule) *gin.Engine {
	r := server.NewEngine(l, o.CORSOrigins)

	r.Use(mdw.RequestID(), mdw.Metrics(), mdw.AccessLog(l))
	if o.MaxConcurrent > 0 {
		r.Use(mdw.ConcurrencyLimit(o.MaxConcurrent))
	}
	if o.MaxBodyBytes > 0 {
		r.Use(mdw.MaxBodyBytes(o.MaxBodyBytes))
	}
	if o.Timeout > 0 {
		r.Use(mdw.Timeout(o.Timeout))
	}

	r.GET("/health", func(c *gin.Context) {
		if o.Health != nil {
			if err := o.Health(); err != nil {
				c.JSON(http.StatusServiceUnavailable, resp.Error(resp.CodeBusy, err.Error()))
				return
			}
		}
		c.JSON(http.StatusOK, resp.OK(gin.H{"ok": 1}))
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	base := o.BasePath
	if base == "" {
		base = "/"
	}
	mountAll(r.Group(base), mods)
	return r
}
