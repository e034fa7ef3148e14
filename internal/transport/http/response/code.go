package response

// 错误码直接复用 HTTP 状态码
const (
	CodeOK          = 0
	CodeBadRequest  = 400
	CodeNotFound    = 404
	CodeTooLarge    = 413
	CodeServerError = 500
	CodeBusy        = 503
	CodeTimeout     = 504
)

var CodeMsgMap = map[int]string{
	CodeOK:          "OK",
	CodeBadRequest:  "Bad Request",
	CodeNotFound:    "Not Found",
	CodeTooLarge:    "Request Entity Too Large",
	CodeServerError: "Internal Server Error",
	CodeBusy:        "Service Unavailable",
	CodeTimeout:     "Gateway Timeout",
}
