package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"go-gin-gorm-users/internal/domain"
)

// UserRepo 所有查询都经过 gorm 软删作用域（deleted_at IS NULL）
type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepo) FindActiveByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) FindActiveByID(ctx context.Context, id uint) (*domain.UserView, error) {
	var v domain.UserView
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Select("id", "name", "email", "admin").
		Where("id = ?", id).
		First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *UserRepo) ListActive(ctx context.Context) ([]domain.UserView, error) {
	users := make([]domain.UserView, 0)
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Select("id", "name", "email", "admin").
		Order("id").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateActive 只更新未软删的行，返回影响行数
func (r *UserRepo) UpdateActive(ctx context.Context, id uint, fields map[string]any) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(fields)
	return res.RowsAffected, res.Error
}

// SoftDelete 设置 deleted_at；已软删的行不再计入影响行数
func (r *UserRepo) SoftDelete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.User{})
	return res.RowsAffected, res.Error
}
