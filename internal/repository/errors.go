package repository

import (
	"errors"
	"strings"

	apperrors "github.com/yuqie6/trainerhub/internal/errors"
	"gorm.io/gorm"
)

// classify 把底层存储错误归类为业务错误码：
// 已分类的原样返回；SQLite 忙/锁冲突视为可重试的并发冲突；其余视为存储不可用
func classify(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.WrapWithCode(err, apperrors.CodeNotFound, message)
	}
	if isBusy(err) {
		return apperrors.WrapWithCode(err, apperrors.CodeAborted, message)
	}
	return apperrors.Unavailable(err, message)
}

func isBusy(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "sqlite_busy") ||
		strings.Contains(msg, "database table is locked")
}
