// Package testutil 测试用 sqlite 数据库
package testutil

import (
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"go-gin-gorm-users/internal/core/database"
	"go-gin-gorm-users/internal/domain"
)

// NewDB 临时目录下的 sqlite，已迁移 users/articles
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:   "sqlite",
		DSN:      filepath.Join(t.TempDir(), "test.db"),
		LogLevel: "silent",
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(domain.Models()...); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// SeedArticle 给 userID 插一篇文章
func SeedArticle(t *testing.T, db *gorm.DB, userID uint) {
	t.Helper()
	if err := db.Create(&domain.Article{Name: "article", UserID: userID}).Error; err != nil {
		t.Fatalf("seed article: %v", err)
	}
}
