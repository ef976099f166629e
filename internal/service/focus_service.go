package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	apperrors "github.com/yuqie6/trainerhub/internal/errors"
	"github.com/yuqie6/trainerhub/internal/eventbus"
	"github.com/yuqie6/trainerhub/internal/schema"
)

const maxFocusMinutes = 24 * 60

// FocusSessionInput 一次专注会话
type FocusSessionInput struct {
	Date    string // YYYY-MM-DD，空表示今天
	Minutes int
}

// FocusSessionResult 专注会话记录结果
type FocusSessionResult struct {
	Stat         *schema.FocusStat
	Progress     *schema.PokemonProgress // 获得经验的伙伴宝可梦
	XPAwarded    int64
	LeveledUp    bool
	AuditMissing bool
}

// FocusService 专注统计服务：记录会话并把专注时长折算为伙伴宝可梦的经验
type FocusService struct {
	repo        FocusRepository
	progress    ProgressRepository
	settings    *SettingsService
	progression *ProgressionService
	xpPerMinute int64
	events      EventPublisher
	now         func() time.Time
}

// NewFocusService 创建专注服务
func NewFocusService(repo FocusRepository, progress ProgressRepository, settings *SettingsService, progression *ProgressionService, xpPerMinute int64, events EventPublisher) *FocusService {
	return &FocusService{
		repo:        repo,
		progress:    progress,
		settings:    settings,
		progression: progression,
		xpPerMinute: xpPerMinute,
		events:      events,
		now:         time.Now,
	}
}

// RecordSession 记录一次专注会话
func (s *FocusService) RecordSession(ctx context.Context, ownerID int64, in FocusSessionInput) (*FocusSessionResult, error) {
	if err := validateOwner(ownerID); err != nil {
		return nil, err
	}
	if in.Minutes < 1 || in.Minutes > maxFocusMinutes {
		return nil, apperrors.InvalidArgumentf("minutes 应在 1-%d 之间: %d", maxFocusMinutes, in.Minutes)
	}
	date, err := normalizeDate(in.Date, s.now())
	if err != nil {
		return nil, err
	}

	settings, err := s.settings.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	partner := settings.PartnerPokemon

	result := &FocusSessionResult{XPAwarded: int64(in.Minutes) * s.xpPerMinute}
	if result.XPAwarded > 0 {
		gained, err := s.progression.GainXP(ctx, GainXPInput{
			OwnerID:   ownerID,
			PokemonID: partner,
			Delta:     result.XPAwarded,
			Reason:    fmt.Sprintf("Focus session for %d", partner),
		})
		if err != nil {
			return nil, err
		}
		result.LeveledUp = gained.LeveledUp
		result.AuditMissing = gained.AuditMissing
	}

	p, err := s.progress.IncrementSessions(ctx, ownerID, partner)
	if err != nil {
		return nil, err
	}
	result.Progress = p

	stat, err := s.repo.AddSession(ctx, ownerID, date, in.Minutes, result.XPAwarded)
	if err != nil {
		return nil, err
	}
	result.Stat = stat

	slog.Debug("专注会话已记录", "owner", ownerID, "date", date, "minutes", in.Minutes, "xp", result.XPAwarded)
	if s.events != nil {
		s.events.Publish(eventbus.Event{
			Type:  eventbus.TypeFocus,
			Owner: ownerID,
			Data: map[string]any{
				"date":       date,
				"minutes":    in.Minutes,
				"pokemon_id": partner,
				"xp":         result.XPAwarded,
			},
		})
	}
	return result, nil
}

// Get 获取某天的专注统计
func (s *FocusService) Get(ctx context.Context, ownerID int64, date string) (*schema.FocusStat, error) {
	if err := validateOwner(ownerID); err != nil {
		return nil, err
	}
	if date == "" {
		return nil, apperrors.InvalidArgument("date 不能为空")
	}
	date, err := normalizeDate(date, s.now())
	if err != nil {
		return nil, err
	}
	return s.repo.GetByDate(ctx, ownerID, date)
}

// List 按日期倒序列出专注统计，from/to 可为空
func (s *FocusService) List(ctx context.Context, ownerID int64, from, to string) ([]schema.FocusStat, error) {
	if err := validateOwner(ownerID); err != nil {
		return nil, err
	}
	for _, d := range []string{from, to} {
		if d == "" {
			continue
		}
		if _, err := normalizeDate(d, s.now()); err != nil {
			return nil, err
		}
	}
	return s.repo.ListByOwner(ctx, ownerID, from, to)
}
