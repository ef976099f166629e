package schema

import "time"

// MaxXPLogReasonLen reason 字段最大长度
const MaxXPLogReasonLen = 100

// XPLog 经验变动流水（只追加，不修改不删除）
// 与 PokemonProgress 无外键关联，仅通过 OwnerID 与 Reason 中的宝可梦编号关联
type XPLog struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID   int64  `gorm:"not null;index:idx_xplog_owner_ts,priority:1" json:"owner_id"`
	Timestamp int64  `gorm:"not null;index:idx_xplog_owner_ts,priority:2" json:"timestamp"` // Unix 时间戳（毫秒）
	Delta     int64  `gorm:"not null" json:"delta"`
	Reason    string `gorm:"size:100" json:"reason"`

	AppendKey string `gorm:"-" json:"-"` // 幂等键：同一次经验变化重试追加时保持不变
}

// TableName 指定表名
func (XPLog) TableName() string {
	return "xp_logs"
}

// Time 返回流水时间
func (l XPLog) Time() time.Time {
	return time.UnixMilli(l.Timestamp)
}
