package repository

import (
	"context"
	"errors"

	apperrors "github.com/yuqie6/trainerhub/internal/errors"
	"github.com/yuqie6/trainerhub/internal/schema"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingsRepository 用户设置仓储
type SettingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository 创建仓储
func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetOrCreate 读取用户设置，不存在时按 defaults 创建
func (r *SettingsRepository) GetOrCreate(ctx context.Context, ownerID int64, defaults schema.Settings) (*schema.Settings, error) {
	fresh := defaults
	fresh.ID = 0
	fresh.OwnerID = ownerID
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}},
		DoNothing: true,
	}).Create(&fresh).Error
	if err != nil {
		return nil, classify(err, "创建用户设置失败")
	}

	var s schema.Settings
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&s).Error; err != nil {
		return nil, classify(err, "查询用户设置失败")
	}
	return &s, nil
}

// Get 读取用户设置
func (r *SettingsRepository) Get(ctx context.Context, ownerID int64) (*schema.Settings, error) {
	var s schema.Settings
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("用户 %d 尚无设置", ownerID)
		}
		return nil, classify(err, "查询用户设置失败")
	}
	return &s, nil
}

// Update 写回用户设置的可变字段
func (r *SettingsRepository) Update(ctx context.Context, s *schema.Settings) error {
	res := r.db.WithContext(ctx).
		Model(&schema.Settings{}).
		Where("owner_id = ?", s.OwnerID).
		Updates(map[string]any{
			"goal_minutes":    s.GoalMinutes,
			"theme":           s.Theme,
			"partner_pokemon": s.PartnerPokemon,
		})
	if res.Error != nil {
		return classify(res.Error, "更新用户设置失败")
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFoundf("用户 %d 尚无设置", s.OwnerID)
	}
	return nil
}
