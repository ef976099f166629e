package repository

import (
	"context"

	"gorm.io/gorm"
)

// ProgressionTx 同一事务内可见的仓储
type ProgressionTx struct {
	Progress *ProgressRepository
	XPLogs   *XPLogRepository
}

// UnitOfWork 把进度写入与（同库时的）流水追加放进同一个事务
type UnitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork 创建事务单元
func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

// Do 在事务中执行 fn，fn 返回错误则整体回滚
func (u *UnitOfWork) Do(ctx context.Context, fn func(tx ProgressionTx) error) error {
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ProgressionTx{
			Progress: NewProgressRepository(tx),
			XPLogs:   NewXPLogRepository(tx),
		})
	})
	return classify(err, "养成事务失败")
}
