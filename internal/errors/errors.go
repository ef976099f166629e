// Package errors 提供带错误码的结构化错误，贯穿 repository -> service -> httpapi。
//
// 仓储层负责把底层错误归类为错误码，服务层原样传播，HTTP 层统一翻译为状态码。
package errors

import (
	"errors"
	"fmt"
)

// Error 结构化错误
type Error struct {
	Code    Code           `json:"code"`
	Message string         `json:"message"`
	Cause   error          `json:"-"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// Error 实现 error 接口
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap 返回被包装的错误
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is 按错误码比较
func (e *Error) Is(target error) bool {
	var targetErr *Error
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// WithMeta 附加元数据
func (e *Error) WithMeta(key string, value any) *Error {
	if e.Meta == nil {
		e.Meta = make(map[string]any)
	}
	e.Meta[key] = value
	return e
}

// New 创建错误
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf 创建格式化错误
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap 包装错误；若已是 *Error 则保留其错误码，否则归为 Internal
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}

	var existing *Error
	if errors.As(err, &existing) {
		return &Error{
			Code:    existing.Code,
			Message: message,
			Cause:   err,
			Meta:    existing.Meta,
		}
	}

	return &Error{Code: CodeInternal, Message: message, Cause: err}
}

// Wrapf 格式化包装
func Wrapf(err error, format string, args ...any) *Error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WrapWithCode 以指定错误码包装
func WrapWithCode(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Cause: err}
}

// InvalidArgument 输入校验失败
func InvalidArgument(message string) *Error {
	return New(CodeInvalidArgument, message)
}

// InvalidArgumentf 输入校验失败（格式化）
func InvalidArgumentf(format string, args ...any) *Error {
	return Newf(CodeInvalidArgument, format, args...)
}

// NotFound 记录不存在
func NotFound(message string) *Error {
	return New(CodeNotFound, message)
}

// NotFoundf 记录不存在（格式化）
func NotFoundf(format string, args ...any) *Error {
	return Newf(CodeNotFound, format, args...)
}

// Conflict 并发写冲突
func Conflict(message string) *Error {
	return New(CodeAborted, message)
}

// Conflictf 并发写冲突（格式化）
func Conflictf(format string, args ...any) *Error {
	return Newf(CodeAborted, format, args...)
}

// Unavailable 存储不可用
func Unavailable(err error, message string) *Error {
	return WrapWithCode(err, CodeUnavailable, message)
}

// Unauthenticated 未认证
func Unauthenticated(message string) *Error {
	return New(CodeUnauthenticated, message)
}

// Internal 内部错误
func Internal(message string) *Error {
	return New(CodeInternal, message)
}

// As errors.As 的便捷封装
func As(err error, target **Error) bool {
	return errors.As(err, target)
}

// Is errors.Is 的便捷封装
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// GetCode 提取错误码，非结构化错误视为 Internal
func GetCode(err error) Code {
	if err == nil {
		return CodeOK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// GetMessage 提取面向调用方的错误信息
func GetMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsInvalidArgument 是否为输入校验错误
func IsInvalidArgument(err error) bool { return GetCode(err) == CodeInvalidArgument }

// IsNotFound 是否为记录不存在
func IsNotFound(err error) bool { return GetCode(err) == CodeNotFound }

// IsConflict 是否为并发冲突
func IsConflict(err error) bool { return GetCode(err) == CodeAborted }

// IsUnavailable 是否为存储不可用
func IsUnavailable(err error) bool { return GetCode(err) == CodeUnavailable }
