package schema

// Settings 用户偏好设置，每个用户一行
type Settings struct {
	ID             int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID        int64  `gorm:"not null;uniqueIndex" json:"owner_id"`
	GoalMinutes    int    `gorm:"not null" json:"goal_minutes"`
	Theme          string `gorm:"size:20;not null" json:"theme"`
	PartnerPokemon int64  `gorm:"not null" json:"partner_pokemon"`
}

// TableName 指定表名
func (Settings) TableName() string {
	return "settings"
}
