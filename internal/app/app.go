// Package app 组装配置、日志、数据库、缓存与业务服务，供 cmd/* 复用
package app

import (
	"context"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"go-gin-gorm-users/internal/core/cache"
	"go-gin-gorm-users/internal/core/config"
	"go-gin-gorm-users/internal/core/database"
	"go-gin-gorm-users/internal/core/logger"
	"go-gin-gorm-users/internal/domain"
	"go-gin-gorm-users/internal/repo"
	"go-gin-gorm-users/internal/service"
	"go-gin-gorm-users/pkg/utils"
)

func NewLogger(cfg *config.Config) (*zap.Logger, func()) {
	if cfg.Log.File.Enable {
		f := cfg.Log.File
		return logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON, logger.FileRotate{
			Filename:   f.Filename,
			MaxSizeMB:  f.MaxSizeMB,
			MaxBackups: f.MaxBackups,
			MaxAgeDays: f.MaxAgeDays,
			Compress:   f.Compress,
		})
	}
	return logger.New(cfg.Log.Level, cfg.Log.JSON)
}

// OpenDB 打开数据库，按配置自动迁移
func OpenDB(cfg *config.Config, l *zap.Logger) (*gorm.DB, error) {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Writer:             logger.ToStdLogger(l.Named("gorm"), zapcore.WarnLevel),
	})
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(domain.Models()...); err != nil {
			return nil, err
		}
		l.Info("automigrate done")
	}
	return db, nil
}

// OpenCache redis 未启用或连不上时返回 nil（读操作直接查库）
func OpenCache(cfg *config.Config, l *zap.Logger) *cache.Cache {
	if !cfg.Redis.Enabled {
		return nil
	}
	c := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	c.Prefix = cfg.App.Name + ":"
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		l.Warn("redis unavailable, cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		_ = c.Close()
		return nil
	}
	l.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
	return c
}

func NewUserService(cfg *config.Config, db *gorm.DB, c *cache.Cache, l *zap.Logger) *service.UserService {
	return service.NewUserService(repo.NewStore(db), utils.BcryptHasher{Cost: cfg.Users.BcryptCost}, service.Options{
		StrictEmailOnUpdate: cfg.Users.StrictEmailOnUpdate,
		Cache:               c,
		CacheTTL:            time.Duration(cfg.Users.CacheTTLSec) * time.Second,
		Logger:              l.Named("users"),
	})
}
