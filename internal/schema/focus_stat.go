package schema

import "time"

// FocusStat 每日专注统计
// 数据量级：百级/年
type FocusStat struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID   int64     `gorm:"not null;uniqueIndex:idx_focus_owner_date,priority:1" json:"owner_id"`
	Date      string    `gorm:"size:10;not null;uniqueIndex:idx_focus_owner_date,priority:2" json:"date"` // YYYY-MM-DD
	Minutes   int       `gorm:"not null;default:0" json:"minutes"`
	Sessions  int       `gorm:"not null;default:0" json:"sessions"`
	XPGained  int64     `gorm:"not null;default:0" json:"xp_gained"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定表名
func (FocusStat) TableName() string {
	return "focus_stats"
}
