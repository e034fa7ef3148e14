package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// User 用户表；email 不加唯一索引：软删后同一 email 可再次注册
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:64;not null" json:"name"`
	Email     string         `gorm:"size:191;not null;index" json:"email"`
	Password  string         `gorm:"size:100;not null" json:"-"`
	Admin     bool           `gorm:"not null;default:false" json:"admin"`
	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

// UserView 对外返回的列（id, name, email, admin）
type UserView struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Admin bool   `json:"admin"`
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindActiveByEmail(ctx context.Context, email string) (*User, error)
	FindActiveByID(ctx context.Context, id uint) (*UserView, error)
	ListActive(ctx context.Context) ([]UserView, error)
	UpdateActive(ctx context.Context, id uint, fields map[string]any) (int64, error)
	SoftDelete(ctx context.Context, id uint) (int64, error)
}
