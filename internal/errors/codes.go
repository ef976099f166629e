package errors

import "net/http"

// Code 错误码
type Code string

// 错误码定义
const (
	CodeOK              Code = "OK"
	CodeInvalidArgument Code = "INVALID_ARGUMENT" // 输入不合法，调用方可见，不重试
	CodeNotFound        Code = "NOT_FOUND"        // 记录不存在或在事务中被删除
	CodeAborted         Code = "ABORTED"          // 并发写冲突（乐观锁），可重试
	CodeUnavailable     Code = "UNAVAILABLE"      // 存储介质不可用
	CodeUnauthenticated Code = "UNAUTHENTICATED"
	CodeInternal        Code = "INTERNAL"
)

// String 返回错误码字符串
func (c Code) String() string {
	return string(c)
}

// HTTPStatus 错误码对应的 HTTP 状态码
func (c Code) HTTPStatus() int {
	switch c {
	case CodeOK:
		return http.StatusOK
	case CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAborted:
		return http.StatusConflict
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
