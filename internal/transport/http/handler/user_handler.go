package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-gin-gorm-users/internal/core/validation"
	"go-gin-gorm-users/internal/domain"
	"go-gin-gorm-users/internal/service"
	httpez "go-gin-gorm-users/internal/transport/http/ez"
)

// saveIn 显式白名单；body 中其它字段（id、deletedAt 等）被忽略
type saveIn struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Admin           *bool  `json:"admin"`
}

type UserHandler struct {
	svc *service.UserService
	log *zap.Logger
}

func NewUserHandler(svc *service.UserService, l *zap.Logger) *UserHandler {
	if l == nil {
		l = zap.NewNop()
	}
	return &UserHandler{svc: svc, log: l}
}

func (h *UserHandler) Priority() int { return 10 }

// MountAPI POST/PUT 保存，GET 列表/详情，DELETE 软删
func (h *UserHandler) MountAPI(g *gin.RouterGroup) {
	ez := httpez.New(g)

	save := httpez.Action[saveIn, struct{}]{
		Binder:  httpez.BindJSON,
		Status:  http.StatusNoContent,
		Handler: h.save,
	}
	save.Method, save.Path = http.MethodPost, "/users"
	httpez.RegisterAction(ez, save)
	save.Method, save.Path = http.MethodPut, "/users/:id"
	httpez.RegisterAction(ez, save)

	httpez.RegisterAction(ez, httpez.Action[struct{}, []domain.UserView]{
		Method:  http.MethodGet,
		Path:    "/users",
		Binder:  httpez.BindNone,
		Handler: h.list,
	})
	httpez.RegisterAction(ez, httpez.Action[struct{}, *domain.UserView]{
		Method:  http.MethodGet,
		Path:    "/users/:id",
		Binder:  httpez.BindNone,
		Handler: h.getByID,
	})
	httpez.RegisterAction(ez, httpez.Action[struct{}, struct{}]{
		Method:  http.MethodDelete,
		Path:    "/users/:id",
		Binder:  httpez.BindNone,
		Status:  http.StatusNoContent,
		Handler: h.remove,
	})
}

func (h *UserHandler) save(c *gin.Context, in *saveIn) (struct{}, error) {
	err := h.svc.Save(c.Request.Context(), service.SaveInput{
		ID:              c.Param("id"),
		Name:            in.Name,
		Email:           in.Email,
		Password:        in.Password,
		ConfirmPassword: in.ConfirmPassword,
		Admin:           in.Admin,
	})
	return struct{}{}, h.classify("save user", err)
}

func (h *UserHandler) list(c *gin.Context, _ *struct{}) ([]domain.UserView, error) {
	users, err := h.svc.List(c.Request.Context())
	return users, h.classify("list users", err)
}

func (h *UserHandler) getByID(c *gin.Context, _ *struct{}) (*domain.UserView, error) {
	u, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	return u, h.classify("get user", err)
}

// remove 校验失败与存储错误都回 400
func (h *UserHandler) remove(c *gin.Context, _ *struct{}) (struct{}, error) {
	err := h.svc.Remove(c.Request.Context(), c.Param("id"))
	if err == nil {
		return struct{}{}, nil
	}
	if _, ok := validation.Message(err); !ok {
		h.log.Error("remove user failed", zap.String("id", c.Param("id")), zap.Error(err))
	}
	return struct{}{}, httpez.BadRequest(err.Error())
}

// classify 校验错误 -> 400，其余 -> 500
func (h *UserHandler) classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if msg, ok := validation.Message(err); ok {
		return httpez.BadRequest(msg)
	}
	h.log.Error(op+" failed", zap.Error(err))
	return httpez.Internal("", err)
}
