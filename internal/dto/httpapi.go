package dto

// 注意：本包用于承载“对外契约”的 DTO（与前端/HTTP API 保持稳定）。
// 不要在这里放 GORM/持久化细节；内部持久化 schema 请见 internal/schema；业务逻辑收敛在 internal/service。

type PokemonProgressDTO struct {
	PokemonID           int64  `json:"pokemon_id"`
	XP                  int64  `json:"xp"`
	Level               int    `json:"level"`
	CapturedAt          string `json:"captured_at"` // RFC3339
	SessionsContributed int    `json:"sessions_contributed"`
}

type XPLogDTO struct {
	TS     string `json:"ts"` // RFC3339
	Delta  int64  `json:"delta"`
	Reason string `json:"reason"`
}

// GainXPRequestDTO pokemon_id 与 delta 必填，用指针区分缺省与 0
type GainXPRequestDTO struct {
	PokemonID *int64 `json:"pokemon_id"`
	Delta     *int64 `json:"delta"`
	Reason    string `json:"reason,omitempty"`
}

// CaptureRequestDTO 收服请求
type CaptureRequestDTO struct {
	PokemonID *int64 `json:"pokemon_id"`
}

type SettingsDTO struct {
	GoalMinutes    int    `json:"goal_minutes"`
	Theme          string `json:"theme"`
	PartnerPokemon int64  `json:"partner_pokemon"`
}

type UserDTO struct {
	ID int64 `json:"id"`
}

type MeDTO struct {
	User     UserDTO             `json:"user"`
	Settings SettingsDTO         `json:"settings"`
	Partner  *PokemonProgressDTO `json:"partner,omitempty"`
	Caught   int                 `json:"caught"`
}

type FocusStatDTO struct {
	Date     string `json:"date"`
	Minutes  int    `json:"minutes"`
	Sessions int    `json:"sessions"`
	XPGained int64  `json:"xp_gained"`
}

type FocusSessionRequestDTO struct {
	Date    string `json:"date,omitempty"`
	Minutes int    `json:"minutes"`
}

type FocusSessionResultDTO struct {
	Stat      FocusStatDTO       `json:"stat"`
	Pokemon   PokemonProgressDTO `json:"pokemon"`
	XPAwarded int64              `json:"xp_awarded"`
	LeveledUp bool               `json:"leveled_up"`
}

type JournalEntryDTO struct {
	Date      string   `json:"date"`
	Text      string   `json:"text"`
	Mood      string   `json:"mood"`
	Tags      []string `json:"tags"`
	Media     string   `json:"media"`
	UpdatedAt string   `json:"updated_at"`
}

type JournalRequestDTO struct {
	Text  string   `json:"text"`
	Mood  string   `json:"mood"`
	Tags  []string `json:"tags"`
	Media string   `json:"media"`
}

type ErrorDTO struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
