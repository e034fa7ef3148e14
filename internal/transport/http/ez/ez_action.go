// Package ez 把 (in) -> (out, error) 形式的处理函数注册为 gin 路由，统一绑定与错误映射。
package ez

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

type Binder string

const (
	BindJSON Binder = "json" // 空 body 视为 {}
	BindNone Binder = "none" // 不绑定，自己从 c.Param 取
)

// AErr 带状态码的错误；Msg 即响应体
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error { return &AErr{Code: http.StatusBadRequest, Msg: msg} }
func NotFound(msg string) error   { return &AErr{Code: http.StatusNotFound, Msg: msg} }

// Internal msg 为空时响应体是 err.Error()
func Internal(msg string, err error) error {
	return &AErr{Code: http.StatusInternalServerError, Msg: msg, Err: err}
}

// Action I 入参，O 出参
type Action[I any, O any] struct {
	Method string // GET | POST | PUT | DELETE
	Path   string // 例：/users/:id
	Binder Binder
	// Status 成功状态码，默认 200；204 不写 body
	Status  int
	Handler func(c *gin.Context, in *I) (O, error)
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}
	h := func(c *gin.Context) {
		var in I
		if a.Binder == BindJSON {
			if err := c.ShouldBindJSON(&in); err != nil && !errors.Is(err, io.EOF) {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					writeError(c, &AErr{Code: http.StatusRequestEntityTooLarge, Err: err})
					return
				}
				writeError(c, &AErr{Code: http.StatusBadRequest, Err: err})
				return
			}
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			writeError(c, err)
			return
		}
		if status == http.StatusNoContent {
			c.Status(status)
			return
		}
		c.JSON(status, out)
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default:
		e.g.POST(a.Path, h)
	}
}

// writeError AErr 按其状态码，其余一律 500；body 为纯文本消息
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)
	code := http.StatusInternalServerError
	var ae *AErr
	if errors.As(err, &ae) {
		code = ae.Code
	}
	c.String(code, err.Error())
}
