package schema

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// JournalEntry 每日日记，每个用户每天一篇
type JournalEntry struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID   int64     `gorm:"not null;uniqueIndex:idx_journal_owner_date,priority:1" json:"owner_id"`
	Date      string    `gorm:"size:10;not null;uniqueIndex:idx_journal_owner_date,priority:2" json:"date"` // YYYY-MM-DD
	Text      string    `gorm:"type:text" json:"text"`
	Mood      string    `gorm:"size:1" json:"mood"`
	Tags      JSONArray `gorm:"type:text" json:"tags"`
	Media     string    `gorm:"size:500" json:"media"` // 媒体文件引用（URL）
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定表名
func (JournalEntry) TableName() string {
	return "journal_entries"
}

// JSONArray 用于存储 JSON 数组
type JSONArray []string

// Value 实现 driver.Valuer 接口
func (j JSONArray) Value() (driver.Value, error) {
	if j == nil {
		return "[]", nil
	}
	b, err := json.Marshal(j)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan 实现 sql.Scanner 接口
func (j *JSONArray) Scan(value interface{}) error {
	if value == nil {
		*j = make(JSONArray, 0)
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*j = make(JSONArray, 0)
		return nil
	}

	return json.Unmarshal(bytes, j)
}
