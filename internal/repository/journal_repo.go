package repository

import (
	"context"
	"errors"

	apperrors "github.com/yuqie6/trainerhub/internal/errors"
	"github.com/yuqie6/trainerhub/internal/schema"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// JournalRepository 日记仓储
type JournalRepository struct {
	db *gorm.DB
}

// NewJournalRepository 创建仓储
func NewJournalRepository(db *gorm.DB) *JournalRepository {
	return &JournalRepository{db: db}
}

// Upsert 写入当天日记，已存在则覆盖内容
func (r *JournalRepository) Upsert(ctx context.Context, entry *schema.JournalEntry) (*schema.JournalEntry, error) {
	if entry.Tags == nil {
		entry.Tags = schema.JSONArray{}
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"text", "mood", "tags", "media", "updated_at"}),
	}).Create(entry).Error
	if err != nil {
		return nil, classify(err, "保存日记失败")
	}
	return r.GetByDate(ctx, entry.OwnerID, entry.Date)
}

// GetByDate 获取某天日记
func (r *JournalRepository) GetByDate(ctx context.Context, ownerID int64, date string) (*schema.JournalEntry, error) {
	var entry schema.JournalEntry
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND date = ?", ownerID, date).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("%s 没有日记", date)
		}
		return nil, classify(err, "查询日记失败")
	}
	return &entry, nil
}

// ListByOwner 按日期倒序列出，limit<=0 表示全部
func (r *JournalRepository) ListByOwner(ctx context.Context, ownerID int64, limit int) ([]schema.JournalEntry, error) {
	var entries []schema.JournalEntry
	q := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("date DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&entries).Error; err != nil {
		return nil, classify(err, "查询日记失败")
	}
	return entries, nil
}

// Delete 删除某天日记
func (r *JournalRepository) Delete(ctx context.Context, ownerID int64, date string) error {
	res := r.db.WithContext(ctx).
		Where("owner_id = ? AND date = ?", ownerID, date).
		Delete(&schema.JournalEntry{})
	if res.Error != nil {
		return classify(res.Error, "删除日记失败")
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFoundf("%s 没有日记", date)
	}
	return nil
}
