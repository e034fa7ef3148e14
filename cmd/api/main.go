package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"go-gin-gorm-users/internal/app"
	"go-gin-gorm-users/internal/core/config"
	"go-gin-gorm-users/internal/core/database"
	"go-gin-gorm-users/internal/core/logger"
	"go-gin-gorm-users/internal/core/server"
	"go-gin-gorm-users/internal/transport/http/handler"
	"go-gin-gorm-users/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.MustLoad(os.Getenv("CONFIG_PATH"))
	log, cleanup := app.NewLogger(cfg)
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()

	if cfg.App.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = logger.ToWriter(log.Named("gin"), zapcore.DebugLevel)

	// 数据库（失败直接 Fatal）
	db, err := app.OpenDB(cfg, log)
	if err != nil {
		log.Fatal("db open", zap.Error(err))
	}
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	rc := app.OpenCache(cfg, log)
	if rc != nil {
		defer rc.Close()
	}

	userH := handler.NewUserHandler(app.NewUserService(cfg, db, rc, log), log.Named("http"))
	r := router.NewAPIEngine(log, router.Options{
		BasePath:      cfg.App.HTTP.BasePath,
		MaxBodyBytes:  cfg.HTTP.MaxBodyBytes,
		Timeout:       time.Duration(cfg.HTTP.TimeoutSec) * time.Second,
		MaxConcurrent: cfg.HTTP.MaxConcurrent,
		CORSOrigins:   cfg.HTTP.CORSOrigins,
		Health:        func() error { return database.Ping(db) },
	}, userH)

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(addr, r, server.Timeouts{
		Read:  time.Duration(cfg.App.HTTP.ReadTimeoutSec) * time.Second,
		Write: time.Duration(cfg.App.HTTP.WriteTimeoutSec) * time.Second,
		Idle:  time.Duration(cfg.App.HTTP.IdleTimeoutSec) * time.Second,
	}, logger.ToStdLogger(log.Named("http.server"), zapcore.ErrorLevel))

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("users api starting",
		zap.String("addr", addr),
		zap.String("health", baseURL+"/health"),
		zap.String("metrics", baseURL+"/metrics"),
		zap.Bool("cache", rc != nil),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("users api start FAILED", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("shutdown", zap.Error(err))
	}
	log.Info("users api stopped gracefully")
}
