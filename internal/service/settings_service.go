package service

import (
	"context"
	"strings"
	"unicode/utf8"

	apperrors "github.com/yuqie6/trainerhub/internal/errors"
	"github.com/yuqie6/trainerhub/internal/schema"
)

const (
	maxGoalMinutes = 24 * 60
	maxThemeLen    = 20
)

// SettingsPatch 设置的部分更新，nil 字段保持不变
type SettingsPatch struct {
	GoalMinutes    *int    `json:"goal_minutes,omitempty"`
	Theme          *string `json:"theme,omitempty"`
	PartnerPokemon *int64  `json:"partner_pokemon,omitempty"`
}

// SettingsService 用户设置服务
type SettingsService struct {
	repo     SettingsRepository
	defaults schema.Settings
}

// NewSettingsService 创建设置服务，defaults 来自配置
func NewSettingsService(repo SettingsRepository, defaults schema.Settings) *SettingsService {
	return &SettingsService{repo: repo, defaults: defaults}
}

// Get 读取设置，首次访问时按默认值创建
func (s *SettingsService) Get(ctx context.Context, ownerID int64) (*schema.Settings, error) {
	if err := validateOwner(ownerID); err != nil {
		return nil, err
	}
	return s.repo.GetOrCreate(ctx, ownerID, s.defaults)
}

// Update 部分更新设置
func (s *SettingsService) Update(ctx context.Context, ownerID int64, patch SettingsPatch) (*schema.Settings, error) {
	if err := validateSettingsPatch(&patch); err != nil {
		return nil, err
	}

	current, err := s.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	changed := false
	if patch.GoalMinutes != nil && *patch.GoalMinutes != current.GoalMinutes {
		current.GoalMinutes = *patch.GoalMinutes
		changed = true
	}
	if patch.Theme != nil && *patch.Theme != current.Theme {
		current.Theme = *patch.Theme
		changed = true
	}
	if patch.PartnerPokemon != nil && *patch.PartnerPokemon != current.PartnerPokemon {
		current.PartnerPokemon = *patch.PartnerPokemon
		changed = true
	}
	if !changed {
		return current, nil
	}

	if err := s.repo.Update(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

func validateSettingsPatch(patch *SettingsPatch) error {
	if patch.GoalMinutes != nil {
		if v := *patch.GoalMinutes; v < 1 || v > maxGoalMinutes {
			return apperrors.InvalidArgumentf("goal_minutes 应在 1-%d 之间: %d", maxGoalMinutes, v)
		}
	}
	if patch.Theme != nil {
		theme := strings.TrimSpace(*patch.Theme)
		if theme == "" || utf8.RuneCountInString(theme) > maxThemeLen {
			return apperrors.InvalidArgumentf("theme 长度应在 1-%d 之间", maxThemeLen)
		}
		patch.Theme = &theme
	}
	if patch.PartnerPokemon != nil && *patch.PartnerPokemon < 0 {
		return apperrors.InvalidArgumentf("partner_pokemon 不能为负数: %d", *patch.PartnerPokemon)
	}
	return nil
}
