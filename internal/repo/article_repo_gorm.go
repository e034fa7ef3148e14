package repo

import (
	"context"

	"gorm.io/gorm"

	"go-gin-gorm-users/internal/domain"
)

type ArticleRepo struct{ db *gorm.DB }

func NewArticleRepo(db *gorm.DB) *ArticleRepo { return &ArticleRepo{db: db} }

func (r *ArticleRepo) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Article{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}
