package repo

import (
	"context"

	"gorm.io/gorm"

	"go-gin-gorm-users/internal/domain"
)

type Store struct{ db *gorm.DB }

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

func (s *Store) Users() domain.UserRepository       { return NewUserRepo(s.db) }
func (s *Store) Articles() domain.ArticleRepository { return NewArticleRepo(s.db) }

// Transaction fn 返回错误即回滚
func (s *Store) Transaction(ctx context.Context, fn func(tx domain.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
