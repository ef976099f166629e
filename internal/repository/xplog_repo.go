package repository

import (
	"context"
	"time"

	"github.com/yuqie6/trainerhub/internal/schema"
	"gorm.io/gorm"
)

// XPLogRepository 经验流水仓储（只追加）
type XPLogRepository struct {
	db *gorm.DB
}

// NewXPLogRepository 创建仓储
func NewXPLogRepository(db *gorm.DB) *XPLogRepository {
	return &XPLogRepository{db: db}
}

// Append 追加一条流水，Timestamp 为空时取当前时间
func (r *XPLogRepository) Append(ctx context.Context, entry *schema.XPLog) error {
	if entry.Timestamp == 0 {
		entry.Timestamp = time.Now().UnixMilli()
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return classify(err, "写入经验流水失败")
	}
	return nil
}

// ListByOwner 按时间倒序列出用户流水，同一时间戳按插入顺序倒序；limit<=0 表示全部
func (r *XPLogRepository) ListByOwner(ctx context.Context, ownerID int64, limit int) ([]schema.XPLog, error) {
	var logs []schema.XPLog
	q := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("timestamp DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&logs).Error; err != nil {
		return nil, classify(err, "查询经验流水失败")
	}
	return logs, nil
}

// CountByOwner 统计用户流水条数
func (r *XPLogRepository) CountByOwner(ctx context.Context, ownerID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&schema.XPLog{}).Where("owner_id = ?", ownerID).Count(&count).Error
	if err != nil {
		return 0, classify(err, "统计经验流水失败")
	}
	return count, nil
}
