package repository

import (
	"context"
	"errors"

	apperrors "github.com/yuqie6/trainerhub/internal/errors"
	"github.com/yuqie6/trainerhub/internal/schema"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FocusRepository 每日专注统计仓储
type FocusRepository struct {
	db *gorm.DB
}

// NewFocusRepository 创建仓储
func NewFocusRepository(db *gorm.DB) *FocusRepository {
	return &FocusRepository{db: db}
}

// AddSession 累加一次专注会话到当天统计（单条 upsert，天然并发安全）
func (r *FocusRepository) AddSession(ctx context.Context, ownerID int64, date string, minutes int, xp int64) (*schema.FocusStat, error) {
	row := &schema.FocusStat{
		OwnerID:  ownerID,
		Date:     date,
		Minutes:  minutes,
		Sessions: 1,
		XPGained: xp,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "owner_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]any{
			"minutes":    gorm.Expr("minutes + excluded.minutes"),
			"sessions":   gorm.Expr("sessions + 1"),
			"xp_gained":  gorm.Expr("xp_gained + excluded.xp_gained"),
			"updated_at": gorm.Expr("excluded.updated_at"),
		}),
	}).Create(row).Error
	if err != nil {
		return nil, classify(err, "写入专注统计失败")
	}
	return r.GetByDate(ctx, ownerID, date)
}

// GetByDate 获取某天统计
func (r *FocusRepository) GetByDate(ctx context.Context, ownerID int64, date string) (*schema.FocusStat, error) {
	var stat schema.FocusStat
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND date = ?", ownerID, date).
		First(&stat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("%s 没有专注记录", date)
		}
		return nil, classify(err, "查询专注统计失败")
	}
	return &stat, nil
}

// ListByOwner 按日期倒序列出，可选日期范围（闭区间，空串表示不限）
func (r *FocusRepository) ListByOwner(ctx context.Context, ownerID int64, from, to string) ([]schema.FocusStat, error) {
	var stats []schema.FocusStat
	q := r.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if from != "" {
		q = q.Where("date >= ?", from)
	}
	if to != "" {
		q = q.Where("date <= ?", to)
	}
	if err := q.Order("date DESC").Find(&stats).Error; err != nil {
		return nil, classify(err, "查询专注统计失败")
	}
	return stats, nil
}
