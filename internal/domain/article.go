package domain

import (
	"context"
	"time"
)

// Article 只被引用：存在 user_id 指向某用户的文章时，该用户不能删除
type Article struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"size:1000" json:"description"`
	UserID      uint      `gorm:"not null;index" json:"userId"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

func (Article) TableName() string { return "articles" }

type ArticleRepository interface {
	CountByUser(ctx context.Context, userID uint) (int64, error)
}

// Store 聚合仓储，Transaction 内的 fn 拿到绑定同一事务的 Store
type Store interface {
	Users() UserRepository
	Articles() ArticleRepository
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

// Models 自动迁移用
func Models() []any { return []any{&User{}, &Article{}} }
