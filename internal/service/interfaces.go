package service

import (
	"context"

	"github.com/yuqie6/trainerhub/internal/eventbus"
	"github.com/yuqie6/trainerhub/internal/repository"
	"github.com/yuqie6/trainerhub/internal/schema"
)

// 仓储/外部依赖的最小接口集合（ISP）

type ProgressRepository interface {
	GetOrCreate(ctx context.Context, ownerID, pokemonID int64) (*schema.PokemonProgress, error)
	Capture(ctx context.Context, ownerID, pokemonID int64) (*schema.PokemonProgress, bool, error)
	Save(ctx context.Context, p *schema.PokemonProgress) error
	GetByPokemon(ctx context.Context, ownerID, pokemonID int64) (*schema.PokemonProgress, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]schema.PokemonProgress, error)
	IncrementSessions(ctx context.Context, ownerID, pokemonID int64) (*schema.PokemonProgress, error)
	Delete(ctx context.Context, ownerID, pokemonID int64) error
}

type XPLedger interface {
	Append(ctx context.Context, entry *schema.XPLog) error
	ListByOwner(ctx context.Context, ownerID int64, limit int) ([]schema.XPLog, error)
}

// UnitOfWork 在一个存储事务内执行 fn；fn 返回错误则整体回滚
type UnitOfWork interface {
	Do(ctx context.Context, fn func(progress ProgressRepository, ledger XPLedger) error) error
}

type SettingsRepository interface {
	GetOrCreate(ctx context.Context, ownerID int64, defaults schema.Settings) (*schema.Settings, error)
	Update(ctx context.Context, s *schema.Settings) error
}

type FocusRepository interface {
	AddSession(ctx context.Context, ownerID int64, date string, minutes int, xp int64) (*schema.FocusStat, error)
	GetByDate(ctx context.Context, ownerID int64, date string) (*schema.FocusStat, error)
	ListByOwner(ctx context.Context, ownerID int64, from, to string) ([]schema.FocusStat, error)
}

type JournalRepository interface {
	Upsert(ctx context.Context, entry *schema.JournalEntry) (*schema.JournalEntry, error)
	GetByDate(ctx context.Context, ownerID int64, date string) (*schema.JournalEntry, error)
	ListByOwner(ctx context.Context, ownerID int64, limit int) ([]schema.JournalEntry, error)
	Delete(ctx context.Context, ownerID int64, date string) error
}

type EventPublisher interface {
	Publish(evt eventbus.Event)
}

// gormUnitOfWork 把 repository.UnitOfWork 适配为 UnitOfWork
type gormUnitOfWork struct {
	uow *repository.UnitOfWork
}

// NewGormUnitOfWork 创建基于 gorm 事务的 UnitOfWork
func NewGormUnitOfWork(uow *repository.UnitOfWork) UnitOfWork {
	return gormUnitOfWork{uow: uow}
}

func (u gormUnitOfWork) Do(ctx context.Context, fn func(progress ProgressRepository, ledger XPLedger) error) error {
	return u.uow.Do(ctx, func(tx repository.ProgressionTx) error {
		return fn(tx.Progress, tx.XPLogs)
	})
}
