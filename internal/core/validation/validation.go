package validation

import (
	"errors"
	"reflect"
	"strings"
)

// Error 校验失败（消息直接作为 400 响应体）
type Error struct{ Msg string }

func (e *Error) Error() string { return e.Msg }

// New 构造校验错误
func New(msg string) error { return &Error{Msg: msg} }

// Message 取出校验错误消息；不是校验错误时 ok=false
func Message(err error) (string, bool) {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Msg, true
	}
	return "", false
}

// ExistsOrError value 不存在时返回 msg 错误。
// nil、空白字符串、空 slice/map、零值数字和 false 都视为不存在。
func ExistsOrError(value any, msg string) error {
	if !exists(value) {
		return New(msg)
	}
	return nil
}

// NotExistsOrError value 存在时返回 msg 错误
func NotExistsOrError(value any, msg string) error {
	if exists(value) {
		return New(msg)
	}
	return nil
}

// EqualsOrError a != b 时返回 msg 错误
func EqualsOrError(a, b any, msg string) error {
	if !reflect.DeepEqual(a, b) {
		return New(msg)
	}
	return nil
}

func exists(value any) bool {
	if value == nil {
		return false
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) != ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() > 0
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return false
		}
		return exists(v.Elem().Interface())
	case reflect.Bool:
		return v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return v.Float() != 0
	}
	return true
}
