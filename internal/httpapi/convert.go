package httpapi

import (
	"time"

	"github.com/yuqie6/trainerhub/internal/dto"
	"github.com/yuqie6/trainerhub/internal/schema"
)

func toPokemonDTO(p *schema.PokemonProgress) dto.PokemonProgressDTO {
	return dto.PokemonProgressDTO{
		PokemonID:           p.PokemonID,
		XP:                  p.XP,
		Level:               p.Level,
		CapturedAt:          p.CapturedAt.Format(time.RFC3339),
		SessionsContributed: p.SessionsContributed,
	}
}

func toXPLogDTO(l schema.XPLog) dto.XPLogDTO {
	return dto.XPLogDTO{
		TS:     l.Time().Format(time.RFC3339),
		Delta:  l.Delta,
		Reason: l.Reason,
	}
}

func toSettingsDTO(s *schema.Settings) dto.SettingsDTO {
	return dto.SettingsDTO{
		GoalMinutes:    s.GoalMinutes,
		Theme:          s.Theme,
		PartnerPokemon: s.PartnerPokemon,
	}
}

func toFocusStatDTO(s *schema.FocusStat) dto.FocusStatDTO {
	return dto.FocusStatDTO{
		Date:     s.Date,
		Minutes:  s.Minutes,
		Sessions: s.Sessions,
		XPGained: s.XPGained,
	}
}

func toJournalDTO(e *schema.JournalEntry) dto.JournalEntryDTO {
	tags := []string(e.Tags)
	if tags == nil {
		tags = []string{}
	}
	return dto.JournalEntryDTO{
		Date:      e.Date,
		Text:      e.Text,
		Mood:      e.Mood,
		Tags:      tags,
		Media:     e.Media,
		UpdatedAt: e.UpdatedAt.Format(time.RFC3339),
	}
}
