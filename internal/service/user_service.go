package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"go-gin-gorm-users/internal/core/cache"
	"go-gin-gorm-users/internal/core/validation"
	"go-gin-gorm-users/internal/domain"
)

// 校验消息同时也是 400 响应体
const (
	MsgNameRequired     = "Nome nao informado"
	MsgEmailRequired    = "E-mail nao informado"
	MsgPasswordRequired = "Senha nao informada"
	MsgConfirmInvalid   = "Confirmacao de senha invalida"
	MsgPasswordMismatch = "Senhas nao conferem"
	MsgUserExists       = "Usuario ja cadastrado"
	MsgIDRequired       = "Nenhum id informado"
	MsgUserHasArticles  = "Usuario possui artigos"
	MsgUserNotFound     = "Usuario nao encontrado"
)

const (
	keyUserList = "users:list"
	keyUserByID = "users:id:"
)

type Hasher interface {
	Hash(pw string) (string, error)
}

type Options struct {
	// StrictEmailOnUpdate 更新时 email 被其他活跃用户占用也报 "Usuario ja cadastrado"
	StrictEmailOnUpdate bool
	// Cache 为 nil 时读操作直接查库
	Cache    *cache.Cache
	CacheTTL time.Duration
	Logger   *zap.Logger
}

type UserService struct {
	store  domain.Store
	hasher Hasher
	opt    Options
	log    *zap.Logger
}

func NewUserService(store domain.Store, hasher Hasher, opt Options) *UserService {
	l := opt.Logger
	if l == nil {
		l = zap.NewNop()
	}
	if opt.CacheTTL <= 0 {
		opt.CacheTTL = time.Minute
	}
	return &UserService{store: store, hasher: hasher, opt: opt, log: l}
}

// SaveInput ID 非空即更新模式
type SaveInput struct {
	ID              string
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	Admin           *bool
}

// validate 按顺序校验，第一条失败即返回
func (in SaveInput) validate() error {
	for _, err := range []error{
		validation.ExistsOrError(in.Name, MsgNameRequired),
		validation.ExistsOrError(in.Email, MsgEmailRequired),
		validation.ExistsOrError(in.Password, MsgPasswordRequired),
		validation.ExistsOrError(in.ConfirmPassword, MsgConfirmInvalid),
		validation.EqualsOrError(in.Password, in.ConfirmPassword, MsgPasswordMismatch),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

// Save 新建或更新用户。校验失败返回 *validation.Error，其余为存储/哈希错误。
func (s *UserService) Save(ctx context.Context, in SaveInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	updating := in.ID != ""
	id, idOK := parseID(in.ID)

	// 事务外哈希
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	var created uint
	err = s.store.Transaction(ctx, func(tx domain.Store) error {
		existing, err := tx.Users().FindActiveByEmail(ctx, in.Email)
		if err != nil {
			return fmt.Errorf("find user by email: %w", err)
		}
		switch {
		case !updating:
			if err := validation.NotExistsOrError(existing, MsgUserExists); err != nil {
				return err
			}
		case s.opt.StrictEmailOnUpdate && existing != nil && existing.ID != id:
			return validation.New(MsgUserExists)
		}

		if updating {
			if !idOK {
				return nil
			}
			fields := map[string]any{"name": in.Name, "email": in.Email, "password": hash}
			if in.Admin != nil {
				fields["admin"] = *in.Admin
			}
			_, err := tx.Users().UpdateActive(ctx, id, fields)
			return err
		}

		u := &domain.User{Name: in.Name, Email: in.Email, Password: hash}
		if in.Admin != nil {
			u.Admin = *in.Admin
		}
		if err := tx.Users().Create(ctx, u); err != nil {
			return err
		}
		created = u.ID
		return nil
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx, id, created)
	return nil
}

// List 所有未软删用户，按 id 排序；没有时返回空 slice
func (s *UserService) List(ctx context.Context) ([]domain.UserView, error) {
	load := func(ctx context.Context) (*[]domain.UserView, error) {
		users, err := s.store.Users().ListActive(ctx)
		if err != nil {
			return nil, err
		}
		return &users, nil
	}

	var p *[]domain.UserView
	var err error
	if s.opt.Cache == nil {
		p, err = load(ctx)
	} else {
		p, err = cache.GetOrLoadJSON(s.opt.Cache, ctx, keyUserList, s.opt.CacheTTL, load)
	}
	if err != nil {
		return nil, err
	}
	if p == nil || *p == nil {
		return []domain.UserView{}, nil
	}
	return *p, nil
}

// GetByID 找不到返回 (nil, nil)
func (s *UserService) GetByID(ctx context.Context, rawID string) (*domain.UserView, error) {
	if err := validation.ExistsOrError(rawID, MsgIDRequired); err != nil {
		return nil, err
	}
	id, ok := parseID(rawID)
	if !ok {
		return nil, nil
	}
	load := func(ctx context.Context) (*domain.UserView, error) {
		return s.store.Users().FindActiveByID(ctx, id)
	}
	if s.opt.Cache == nil {
		return load(ctx)
	}
	return cache.GetOrLoadJSON(s.opt.Cache, ctx, userKey(id), s.opt.CacheTTL, load)
}

// Remove 软删；有文章引用或用户不存在（含已软删）时返回校验错误
func (s *UserService) Remove(ctx context.Context, rawID string) error {
	id, ok := parseID(rawID)
	err := s.store.Transaction(ctx, func(tx domain.Store) error {
		var articles, rows int64
		var err error
		if ok {
			if articles, err = tx.Articles().CountByUser(ctx, id); err != nil {
				return err
			}
		}
		if err := validation.NotExistsOrError(articles, MsgUserHasArticles); err != nil {
			return err
		}
		if ok {
			if rows, err = tx.Users().SoftDelete(ctx, id); err != nil {
				return err
			}
		}
		return validation.ExistsOrError(rows, MsgUserNotFound)
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *UserService) invalidate(ctx context.Context, ids ...uint) {
	if s.opt.Cache == nil {
		return
	}
	keys := []string{keyUserList}
	for _, id := range ids {
		if id != 0 {
			keys = append(keys, userKey(id))
		}
	}
	if err := s.opt.Cache.Del(context.WithoutCancel(ctx), keys...); err != nil {
		s.log.Warn("user cache invalidate failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

func userKey(id uint) string { return keyUserByID + strconv.FormatUint(uint64(id), 10) }

// parseID 只接受正整数，且不超过 int64（驱动参数上限）
func parseID(raw string) (uint, bool) {
	v, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 63)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}
