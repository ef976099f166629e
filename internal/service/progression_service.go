package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	apperrors "github.com/yuqie6/trainerhub/internal/errors"
	"github.com/yuqie6/trainerhub/internal/eventbus"
	"github.com/yuqie6/trainerhub/internal/schema"
)

// MaxXPDelta 单次经验变化的绝对值上限
const MaxXPDelta int64 = 1_000_000_000

const (
	defaultMaxConflictRetries = 5
	defaultAppendRetries      = 3
	defaultRetryBackoff       = 10 * time.Millisecond
	defaultAppendTimeout      = 5 * time.Second
)

// ProgressionOptions 养成服务参数
type ProgressionOptions struct {
	Levels             schema.LevelTable
	MaxConflictRetries int           // 乐观锁冲突后整事务重试次数
	LedgerInTx         bool          // 流水与进度同库：在同一事务内追加
	AppendRetries      int           // 独立流水介质：提交后追加的重试次数
	RetryBackoff       time.Duration // 线性退避基数
	AppendTimeout      time.Duration // 提交后追加（含重试）的总时限，不受请求取消影响
	Events             EventPublisher
}

// DefaultProgressionOptions 默认参数（同库流水）
func DefaultProgressionOptions() ProgressionOptions {
	return ProgressionOptions{
		Levels:             schema.DefaultLevelTable(),
		MaxConflictRetries: defaultMaxConflictRetries,
		LedgerInTx:         true,
		AppendRetries:      defaultAppendRetries,
		RetryBackoff:       defaultRetryBackoff,
		AppendTimeout:      defaultAppendTimeout,
	}
}

// GainXPInput 经验变化请求
type GainXPInput struct {
	OwnerID   int64
	PokemonID int64
	Delta     int64
	Reason    string
}

// GainXPResult 经验变化结果
type GainXPResult struct {
	Progress      *schema.PokemonProgress
	PreviousLevel int
	LeveledUp     bool
	AuditMissing  bool // 进度已保存但流水未能写入
}

// ProgressionService 养成服务：经验变化、等级推导、流水
type ProgressionService struct {
	uow      UnitOfWork
	progress ProgressRepository
	ledger   XPLedger
	opts     ProgressionOptions
}

// NewProgressionService 创建养成服务。
// opts.LedgerInTx 为 true 时流水在事务内追加，ledger 仅用于读取；否则提交后写入 ledger
func NewProgressionService(uow UnitOfWork, progress ProgressRepository, ledger XPLedger, opts ProgressionOptions) *ProgressionService {
	if opts.MaxConflictRetries < 0 {
		opts.MaxConflictRetries = 0
	}
	if opts.AppendRetries < 0 {
		opts.AppendRetries = 0
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = defaultRetryBackoff
	}
	if opts.AppendTimeout <= 0 {
		opts.AppendTimeout = defaultAppendTimeout
	}
	return &ProgressionService{
		uow:      uow,
		progress: progress,
		ledger:   ledger,
		opts:     opts,
	}
}

// Levels 当前等级阈值表
func (s *ProgressionService) Levels() schema.LevelTable {
	return s.opts.Levels
}

// GainXP 给用户的某只宝可梦增加（或扣减）经验
func (s *ProgressionService) GainXP(ctx context.Context, in GainXPInput) (*GainXPResult, error) {
	reason, err := validateGainXP(in)
	if err != nil {
		return nil, err
	}

	var (
		result *GainXPResult
		entry  *schema.XPLog
	)
	for attempt := 0; ; attempt++ {
		result, entry, err = s.gainOnce(ctx, in, reason)
		if err == nil {
			break
		}
		if !apperrors.IsConflict(err) || attempt >= s.opts.MaxConflictRetries {
			return nil, err
		}
		slog.Debug("经验写入冲突，重试", "owner", in.OwnerID, "pokemon_id", in.PokemonID, "attempt", attempt+1, "error", err)
		if err := sleepCtx(ctx, s.opts.RetryBackoff*time.Duration(attempt+1)); err != nil {
			return nil, err
		}
	}

	if !s.opts.LedgerInTx {
		if err := s.appendWithRetry(ctx, entry); err != nil {
			result.AuditMissing = true
			slog.Error("经验流水缺失：进度已保存但流水写入失败",
				"owner", in.OwnerID, "pokemon_id", in.PokemonID, "delta", in.Delta, "reason", reason, "error", err)
			s.publish(eventbus.Event{
				Type:  eventbus.TypeAuditMissing,
				Owner: in.OwnerID,
				Data: map[string]any{
					"pokemon_id": in.PokemonID,
					"delta":      in.Delta,
					"reason":     reason,
				},
			})
		}
	}

	p := result.Progress
	s.publish(eventbus.Event{
		Type:  eventbus.TypeXPGained,
		Owner: in.OwnerID,
		Data: map[string]any{
			"pokemon_id": p.PokemonID,
			"delta":      in.Delta,
			"xp":         p.XP,
			"level":      p.Level,
		},
	})
	if result.LeveledUp {
		slog.Info("宝可梦升级", "owner", in.OwnerID, "pokemon_id", p.PokemonID, "from", result.PreviousLevel, "to", p.Level)
		s.publish(eventbus.Event{
			Type:  eventbus.TypeLevelUp,
			Owner: in.OwnerID,
			Data: map[string]any{
				"pokemon_id":     p.PokemonID,
				"previous_level": result.PreviousLevel,
				"level":          p.Level,
				"xp_to_next":     s.opts.Levels.XPToNext(p.XP),
			},
		})
	}
	return result, nil
}

// gainOnce 一次完整的读取-变更-保存事务
func (s *ProgressionService) gainOnce(ctx context.Context, in GainXPInput, reason string) (*GainXPResult, *schema.XPLog, error) {
	var result *GainXPResult
	entry := &schema.XPLog{
		OwnerID:   in.OwnerID,
		Timestamp: time.Now().UnixMilli(),
		Delta:     in.Delta,
		Reason:    reason,
		AppendKey: uuid.NewString(),
	}

	err := s.uow.Do(ctx, func(progress ProgressRepository, ledger XPLedger) error {
		p, err := progress.GetOrCreate(ctx, in.OwnerID, in.PokemonID)
		if err != nil {
			return err
		}
		prev := p.ApplyXP(in.Delta, s.opts.Levels)
		if err := progress.Save(ctx, p); err != nil {
			return err
		}
		if s.opts.LedgerInTx {
			if err := ledger.Append(ctx, entry); err != nil {
				return err
			}
		}
		result = &GainXPResult{
			Progress:      p,
			PreviousLevel: prev,
			LeveledUp:     p.Level > prev,
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return result, entry, nil
}

// appendWithRetry 在进度提交后追加流水。
// 此时经验已生效，调用方断开不应让流水丢失，因此脱离请求的取消信号，只受 AppendTimeout 约束
func (s *ProgressionService) appendWithRetry(ctx context.Context, entry *schema.XPLog) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.AppendTimeout)
	defer cancel()

	var err error
	for attempt := 0; attempt <= s.opts.AppendRetries; attempt++ {
		if attempt > 0 {
			if werr := sleepCtx(ctx, s.opts.RetryBackoff*time.Duration(attempt)); werr != nil {
				return fmt.Errorf("%w (上次错误: %v)", werr, err)
			}
		}
		if err = s.ledger.Append(ctx, entry); err == nil {
			return nil
		}
		slog.Warn("追加经验流水失败", "owner", entry.OwnerID, "attempt", attempt+1, "error", err)
	}
	return err
}

// Capture 收服一只宝可梦：仅创建初始进度，不写流水也不改经验。
// 已收服时原样返回，created=false
func (s *ProgressionService) Capture(ctx context.Context, ownerID, pokemonID int64) (*schema.PokemonProgress, bool, error) {
	if err := validateOwner(ownerID); err != nil {
		return nil, false, err
	}
	if pokemonID < 0 {
		return nil, false, apperrors.InvalidArgumentf("pokemon_id 不能为负数: %d", pokemonID)
	}

	p, created, err := s.progress.Capture(ctx, ownerID, pokemonID)
	if err != nil {
		return nil, false, err
	}
	if created {
		slog.Info("收服宝可梦", "owner", ownerID, "pokemon_id", pokemonID)
		s.publish(eventbus.Event{
			Type:  eventbus.TypeCaptured,
			Owner: ownerID,
			Data: map[string]any{
				"pokemon_id": pokemonID,
				"level":      p.Level,
			},
		})
	}
	return p, created, nil
}

// Get 获取单只宝可梦的进度
func (s *ProgressionService) Get(ctx context.Context, ownerID, pokemonID int64) (*schema.PokemonProgress, error) {
	if err := validateOwner(ownerID); err != nil {
		return nil, err
	}
	return s.progress.GetByPokemon(ctx, ownerID, pokemonID)
}

// List 获取用户全部进度
func (s *ProgressionService) List(ctx context.Context, ownerID int64) ([]schema.PokemonProgress, error) {
	if err := validateOwner(ownerID); err != nil {
		return nil, err
	}
	return s.progress.ListByOwner(ctx, ownerID)
}

// Release 删除一只宝可梦的进度，流水保留
func (s *ProgressionService) Release(ctx context.Context, ownerID, pokemonID int64) error {
	if err := validateOwner(ownerID); err != nil {
		return err
	}
	return s.progress.Delete(ctx, ownerID, pokemonID)
}

// ListLedger 按时间倒序列出流水，limit=0 表示全部
func (s *ProgressionService) ListLedger(ctx context.Context, ownerID int64, limit int) ([]schema.XPLog, error) {
	if err := validateOwner(ownerID); err != nil {
		return nil, err
	}
	if limit < 0 {
		return nil, apperrors.InvalidArgumentf("limit 不能为负数: %d", limit)
	}
	return s.ledger.ListByOwner(ctx, ownerID, limit)
}

func (s *ProgressionService) publish(evt eventbus.Event) {
	if s.opts.Events == nil {
		return
	}
	s.opts.Events.Publish(evt)
}

// validateGainXP 校验输入并返回最终 reason
func validateGainXP(in GainXPInput) (string, error) {
	if err := validateOwner(in.OwnerID); err != nil {
		return "", err
	}
	if in.PokemonID < 0 {
		return "", apperrors.InvalidArgumentf("pokemon_id 不能为负数: %d", in.PokemonID)
	}
	if in.Delta > MaxXPDelta || in.Delta < -MaxXPDelta {
		return "", apperrors.InvalidArgumentf("delta 超出范围 [-%d, %d]: %d", MaxXPDelta, MaxXPDelta, in.Delta)
	}
	reason := in.Reason
	if reason == "" {
		reason = fmt.Sprintf("XP for %d", in.PokemonID)
	}
	if utf8.RuneCountInString(reason) > schema.MaxXPLogReasonLen {
		return "", apperrors.InvalidArgumentf("reason 长度不能超过 %d", schema.MaxXPLogReasonLen)
	}
	return reason, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return apperrors.WrapWithCode(ctx.Err(), apperrors.CodeUnavailable, "请求已取消")
	case <-timer.C:
		return nil
	}
}
