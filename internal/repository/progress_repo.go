package repository

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/yuqie6/trainerhub/internal/errors"
	"github.com/yuqie6/trainerhub/internal/schema"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressRepository 宝可梦养成进度仓储
type ProgressRepository struct {
	db *gorm.DB
}

// NewProgressRepository 创建仓储
func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// GetOrCreate 获取进度，不存在则以初始值原子创建。
// 依赖 (owner_id, pokemon_id) 唯一索引 + ON CONFLICT DO NOTHING，并发调用不会产生重复行
func (r *ProgressRepository) GetOrCreate(ctx context.Context, ownerID, pokemonID int64) (*schema.PokemonProgress, error) {
	p, _, err := r.Capture(ctx, ownerID, pokemonID)
	return p, err
}

// Capture 同 GetOrCreate，并返回本次调用是否新建了记录
func (r *ProgressRepository) Capture(ctx context.Context, ownerID, pokemonID int64) (*schema.PokemonProgress, bool, error) {
	fresh := schema.NewPokemonProgress(ownerID, pokemonID, time.Now())
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}, {Name: "pokemon_id"}},
		DoNothing: true,
	}).Create(fresh)
	if res.Error != nil {
		return nil, false, classify(res.Error, "创建养成进度失败")
	}
	created := res.RowsAffected == 1

	var p schema.PokemonProgress
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND pokemon_id = ?", ownerID, pokemonID).
		First(&p).Error
	if err != nil {
		return nil, false, classify(err, "查询养成进度失败")
	}
	return &p, created, nil
}

// Save 持久化可变字段，以 version 做乐观并发校验。
// 记录已被删除返回 NotFound；被其他写者推进过返回 Conflict
func (r *ProgressRepository) Save(ctx context.Context, p *schema.PokemonProgress) error {
	if p == nil || p.ID == 0 {
		return apperrors.InvalidArgument("progress 未持久化，无法保存")
	}

	res := r.db.WithContext(ctx).
		Model(&schema.PokemonProgress{}).
		Where("id = ? AND version = ?", p.ID, p.Version).
		Updates(map[string]any{
			"xp":                   p.XP,
			"level":                p.Level,
			"sessions_contributed": p.SessionsContributed,
			"version":              gorm.Expr("version + 1"),
			"updated_at":           time.Now(),
		})
	if res.Error != nil {
		return classify(res.Error, "保存养成进度失败")
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&schema.PokemonProgress{}).Where("id = ?", p.ID).Count(&count).Error; err != nil {
			return classify(err, "检查养成进度失败")
		}
		if count == 0 {
			return apperrors.NotFoundf("养成进度已不存在: pokemon_id=%d", p.PokemonID)
		}
		return apperrors.Conflictf("养成进度已被并发修改: pokemon_id=%d version=%d", p.PokemonID, p.Version)
	}

	p.Version++
	return nil
}

// GetByPokemon 获取某只宝可梦的进度，不存在返回 NotFound
func (r *ProgressRepository) GetByPokemon(ctx context.Context, ownerID, pokemonID int64) (*schema.PokemonProgress, error) {
	var p schema.PokemonProgress
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND pokemon_id = ?", ownerID, pokemonID).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("未找到宝可梦 %d 的养成进度", pokemonID)
		}
		return nil, classify(err, "查询养成进度失败")
	}
	return &p, nil
}

// ListByOwner 获取用户全部进度
func (r *ProgressRepository) ListByOwner(ctx context.Context, ownerID int64) ([]schema.PokemonProgress, error) {
	var items []schema.PokemonProgress
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("pokemon_id ASC").
		Find(&items).Error
	if err != nil {
		return nil, classify(err, "查询养成进度失败")
	}
	return items, nil
}

// IncrementSessions 专注会话计数 +1（同时推进 version，使并发中的 Save 感知冲突）
func (r *ProgressRepository) IncrementSessions(ctx context.Context, ownerID, pokemonID int64) (*schema.PokemonProgress, error) {
	var out *schema.PokemonProgress
	err := r.Transaction(ctx, func(tx *ProgressRepository) error {
		p, err := tx.GetOrCreate(ctx, ownerID, pokemonID)
		if err != nil {
			return err
		}
		err = tx.db.WithContext(ctx).
			Model(&schema.PokemonProgress{}).
			Where("id = ?", p.ID).
			Updates(map[string]any{
				"sessions_contributed": gorm.Expr("sessions_contributed + 1"),
				"version":              gorm.Expr("version + 1"),
				"updated_at":           time.Now(),
			}).Error
		if err != nil {
			return classify(err, "更新专注次数失败")
		}
		out, err = tx.GetByPokemon(ctx, ownerID, pokemonID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete 删除进度（流水不受影响）
func (r *ProgressRepository) Delete(ctx context.Context, ownerID, pokemonID int64) error {
	res := r.db.WithContext(ctx).
		Where("owner_id = ? AND pokemon_id = ?", ownerID, pokemonID).
		Delete(&schema.PokemonProgress{})
	if res.Error != nil {
		return classify(res.Error, "删除养成进度失败")
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFoundf("未找到宝可梦 %d 的养成进度", pokemonID)
	}
	return nil
}

// Transaction 在事务中执行操作
func (r *ProgressRepository) Transaction(ctx context.Context, fn func(tx *ProgressRepository) error) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewProgressRepository(tx))
	})
	return classify(err, "养成进度事务失败")
}
