package schema

import (
	"math"
	"time"
)

// PokemonProgress 用户对某只宝可梦的养成进度
// 每个 (OwnerID, PokemonID) 至多一行，由唯一索引保证
type PokemonProgress struct {
	ID                  int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID             int64     `gorm:"not null;uniqueIndex:idx_progress_owner_pokemon,priority:1" json:"owner_id"`
	PokemonID           int64     `gorm:"not null;uniqueIndex:idx_progress_owner_pokemon,priority:2" json:"pokemon_id"`
	XP                  int64     `gorm:"not null;default:0" json:"xp"`    // 累计经验，不小于 0
	Level               int       `gorm:"not null;default:1" json:"level"` // 恒等于 LevelFor(XP)
	CapturedAt          time.Time `gorm:"not null" json:"captured_at"`     // 首次创建时间，之后不变
	SessionsContributed int       `gorm:"not null;default:0" json:"sessions_contributed"`
	Version             int64     `gorm:"not null;default:1" json:"-"` // 乐观并发版本号
	UpdatedAt           time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定表名
func (PokemonProgress) TableName() string {
	return "pokemon_progress"
}

// NewPokemonProgress 创建初始进度：0 经验、1 级
func NewPokemonProgress(ownerID, pokemonID int64, capturedAt time.Time) *PokemonProgress {
	return &PokemonProgress{
		OwnerID:    ownerID,
		PokemonID:  pokemonID,
		XP:         0,
		Level:      1,
		CapturedAt: capturedAt,
		Version:    1,
	}
}

// ApplyXP 应用经验变化（下限为 0）并按阈值表重算等级，返回变化前的等级
func (p *PokemonProgress) ApplyXP(delta int64, table LevelTable) int {
	prevLevel := p.Level
	next := p.XP + delta
	if delta > 0 && next < p.XP {
		next = math.MaxInt64
	}
	if next < 0 {
		next = 0
	}
	p.XP = next
	p.Level = table.LevelFor(p.XP)
	return prevLevel
}
