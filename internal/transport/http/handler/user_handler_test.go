package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"go-gin-gorm-users/internal/domain"
	"go-gin-gorm-users/internal/repo"
	"go-gin-gorm-users/internal/service"
	"go-gin-gorm-users/internal/testutil"
	"go-gin-gorm-users/internal/transport/http/router"
	"go-gin-gorm-users/pkg/utils"
)

func init() { gin.SetMode(gin.TestMode) }

type env struct {
	t  *testing.T
	db *gorm.DB
	r  *gin.Engine
}

func newEnv(t *testing.T, o router.Options) *env {
	t.Helper()
	db := testutil.NewDB(t)
	svc := service.NewUserService(repo.NewStore(db), utils.BcryptHasher{Cost: bcrypt.MinCost}, service.Options{})
	r := router.NewAPIEngine(zap.NewNop(), o, NewUserHandler(svc, nil))
	return &env{t: t, db: db, r: r}
}

func (e *env) do(method, path, body string) *httptest.ResponseRecorder {
	e.t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func (e *env) create(name, email string) domain.User {
	e.t.Helper()
	w := e.do(http.MethodPost, "/users", `{"name":"`+name+`","email":"`+email+`","password":"123456","confirmPassword":"123456"}`)
	require.Equal(e.t, http.StatusNoContent, w.Code, w.Body.String())
	var u domain.User
	require.NoError(e.t, e.db.Where("email = ?", email).First(&u).Error)
	return u
}

func (e *env) closeDB() {
	sqlDB, err := e.db.DB()
	require.NoError(e.t, err)
	require.NoError(e.t, sqlDB.Close())
}

func (e *env) count() int64 {
	var n int64
	require.NoError(e.t, e.db.Unscoped().Model(&domain.User{}).Count(&n).Error)
	return n
}

func id(u domain.User) string { return strconv.FormatUint(uint64(u.ID), 10) }

func TestSave_Create(t *testing.T) {
	e := newEnv(t, router.Options{})
	w := e.do(http.MethodPost, "/users", `{"name":"Ana","email":"ana@example.com","password":"123456","confirmPassword":"123456"}`)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	var u domain.User
	require.NoError(t, e.db.Where("email = ?", "ana@example.com").First(&u).Error)
	assert.NotEqual(t, "123456", u.Password)
	assert.True(t, utils.CheckPassword("123456", u.Password))
	assert.False(t, e.db.Migrator().HasColumn(&domain.User{}, "confirm_password"))
}

func TestSave_ValidationFailures(t *testing.T) {
	cases := []struct {
		name, body, want string
	}{
		{"empty body", "", service.MsgNameRequired},
		{"empty object", `{}`, service.MsgNameRequired},
		{"missing email", `{"name":"Ana","password":"1","confirmPassword":"1"}`, service.MsgEmailRequired},
		{"missing password", `{"name":"Ana","email":"a@x.com","confirmPassword":"1"}`, service.MsgPasswordRequired},
		{"missing confirm", `{"name":"Ana","email":"a@x.com","password":"1"}`, service.MsgConfirmInvalid},
		{"mismatch", `{"name":"Ana","email":"a@x.com","password":"1","confirmPassword":"2"}`, service.MsgPasswordMismatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newEnv(t, router.Options{})
			w := e.do(http.MethodPost, "/users", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.want, w.Body.String())
			assert.Zero(t, e.count())
		})
	}
}

func TestSave_MalformedJSON(t *testing.T) {
	e := newEnv(t, router.Options{})
	w := e.do(http.MethodPost, "/users", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, e.count())
}

// 类型不符的字段按解码错误返回 400，不进入业务校验
func TestSave_WrongFieldType(t *testing.T) {
	e := newEnv(t, router.Options{})
	w := e.do(http.MethodPost, "/users", `{"name":5,"email":"ana@example.com","password":"1","confirmPassword":"1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "cannot unmarshal")
	assert.Zero(t, e.count())
}

func TestSave_LongPassword(t *testing.T) {
	e := newEnv(t, router.Options{})
	pw := strings.Repeat("a", 80)
	w := e.do(http.MethodPost, "/users", `{"name":"Ana","email":"ana@example.com","password":"`+pw+`","confirmPassword":"`+pw+`"}`)
	assert.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
	assert.EqualValues(t, 1, e.count())
}

func TestSave_DuplicateEmail(t *testing.T) {
	e := newEnv(t, router.Options{})
	e.create("Ana", "ana@example.com")

	w := e.do(http.MethodPost, "/users", `{"name":"Outra","email":"ana@example.com","password":"1","confirmPassword":"1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, service.MsgUserExists, w.Body.String())
	assert.Equal(t, int64(1), e.count())
}

func TestSave_IgnoresUnknownFields(t *testing.T) {
	e := newEnv(t, router.Options{})
	w := e.do(http.MethodPost, "/users", `{"id":99,"deletedAt":"2020-01-01T00:00:00Z","name":"Ana","email":"ana@example.com","password":"1","confirmPassword":"1","admin":true}`)
	require.Equal(t, http.StatusNoContent, w.Code)

	var u domain.User
	require.NoError(t, e.db.Where("email = ?", "ana@example.com").First(&u).Error)
	assert.NotEqual(t, uint(99), u.ID)
	assert.False(t, u.DeletedAt.Valid)
	assert.True(t, u.Admin)
}

func TestSave_Update(t *testing.T) {
	e := newEnv(t, router.Options{})
	u := e.create("Ana", "ana@example.com")

	w := e.do(http.MethodPut, "/users/"+id(u), `{"name":"Ana Maria","email":"ana@example.com","password":"abc","confirmPassword":"abc"}`)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	var got domain.User
	require.NoError(t, e.db.First(&got, u.ID).Error)
	assert.Equal(t, "Ana Maria", got.Name)
	assert.True(t, utils.CheckPassword("abc", got.Password))
}

func TestSave_UpdateStillValidates(t *testing.T) {
	e := newEnv(t, router.Options{})
	u := e.create("Ana", "ana@example.com")

	w := e.do(http.MethodPut, "/users/"+id(u), `{"name":"Ana","email":"ana@example.com","password":"abc","confirmPassword":"xyz"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, service.MsgPasswordMismatch, w.Body.String())
}

func TestSave_StoreFailure(t *testing.T) {
	e := newEnv(t, router.Options{})
	e.closeDB()

	w := e.do(http.MethodPost, "/users", `{"name":"Ana","email":"ana@example.com","password":"1","confirmPassword":"1"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "database is closed")
}

func TestSave_BodyTooLarge(t *testing.T) {
	e := newEnv(t, router.Options{MaxBodyBytes: 32})
	w := e.do(http.MethodPost, "/users", `{"name":"`+strings.Repeat("a", 64)+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestGet_List(t *testing.T) {
	e := newEnv(t, router.Options{})

	w := e.do(http.MethodGet, "/users", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	ana := e.create("Ana", "ana@example.com")
	bia := e.create("Bia", "bia@example.com")
	require.Equal(t, http.StatusNoContent, e.do(http.MethodDelete, "/users/"+id(bia), "").Code)

	w = e.do(http.MethodGet, "/users", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":`+id(ana)+`,"name":"Ana","email":"ana@example.com","admin":false}]`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "password")
}

func TestGet_StoreFailure(t *testing.T) {
	e := newEnv(t, router.Options{})
	e.closeDB()

	w := e.do(http.MethodGet, "/users", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetByID(t *testing.T) {
	e := newEnv(t, router.Options{})
	u := e.create("Ana", "ana@example.com")

	w := e.do(http.MethodGet, "/users/"+id(u), "")
	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, map[string]any{"id": float64(u.ID), "name": "Ana", "email": "ana@example.com", "admin": false}, got)

	w = e.do(http.MethodGet, "/users/999", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", w.Body.String())
}

func TestGetByID_MissingIDBeforeQuery(t *testing.T) {
	e := newEnv(t, router.Options{})
	// 库已关闭：若执行了查询会是 500
	e.closeDB()

	w := e.do(http.MethodGet, "/users/%20", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, service.MsgIDRequired, w.Body.String())
}

func TestGetByID_StoreFailure(t *testing.T) {
	e := newEnv(t, router.Options{})
	e.closeDB()

	w := e.do(http.MethodGet, "/users/1", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRemove(t *testing.T) {
	e := newEnv(t, router.Options{})
	u := e.create("Ana", "ana@example.com")

	w := e.do(http.MethodDelete, "/users/"+id(u), "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	var raw domain.User
	require.NoError(t, e.db.Unscoped().First(&raw, u.ID).Error)
	assert.True(t, raw.DeletedAt.Valid)

	assert.Equal(t, "null", e.do(http.MethodGet, "/users/"+id(u), "").Body.String())
	assert.JSONEq(t, `[]`, e.do(http.MethodGet, "/users", "").Body.String())

	// 第二次删除
	w = e.do(http.MethodDelete, "/users/"+id(u), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, service.MsgUserNotFound, w.Body.String())
}

func TestRemove_UserHasArticles(t *testing.T) {
	e := newEnv(t, router.Options{})
	u := e.create("Ana", "ana@example.com")
	testutil.SeedArticle(t, e.db, u.ID)

	w := e.do(http.MethodDelete, "/users/"+id(u), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, service.MsgUserHasArticles, w.Body.String())

	var raw domain.User
	require.NoError(t, e.db.Unscoped().First(&raw, u.ID).Error)
	assert.False(t, raw.DeletedAt.Valid)
}

func TestRemove_NotFound(t *testing.T) {
	e := newEnv(t, router.Options{})
	w := e.do(http.MethodDelete, "/users/12345", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, service.MsgUserNotFound, w.Body.String())
}

func TestRemove_StoreFailureIsBadRequest(t *testing.T) {
	e := newEnv(t, router.Options{})
	e.closeDB()

	w := e.do(http.MethodDelete, "/users/1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "database is closed")
}

func TestBasePath(t *testing.T) {
	e := newEnv(t, router.Options{BasePath: "/api/v1"})
	assert.Equal(t, http.StatusOK, e.do(http.MethodGet, "/api/v1/users", "").Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/users", "").Code)
}
