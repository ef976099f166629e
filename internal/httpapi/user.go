package httpapi

import (
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yuqie6/trainerhub/internal/dto"
	"github.com/yuqie6/trainerhub/internal/pkg/buildinfo"
	"github.com/yuqie6/trainerhub/internal/schema"
	"github.com/yuqie6/trainerhub/internal/service"
)

func (a *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	cfg := a.core.Cfg
	db := a.core.DB
	writeJSON(w, http.StatusOK, dto.StatusDTO{
		OK: !db.SafeMode,
		App: dto.AppStatusDTO{
			Name:      cfg.App.Name,
			Version:   cfg.App.Version,
			Build:     buildinfo.String(),
			Commit:    buildinfo.Commit,
			StartedAt: a.startTime.Format(time.RFC3339),
			UptimeSec: int64(time.Since(a.startTime).Seconds()),
			SafeMode:  db.SafeMode,
		},
		Storage: dto.StorageStatusDTO{
			SchemaVersion:  db.SchemaVersion,
			SafeModeReason: db.MigrationError,
		},
		Ledger: dto.LedgerStatusDTO{Backend: cfg.Ledger.Backend},
	})
}

// me 并发读取设置与进度，拼出当前用户概览
func (a *apiServer) me(w http.ResponseWriter, r *http.Request, owner int64) {
	var (
		settings *schema.Settings
		progress []schema.PokemonProgress
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		s, err := a.core.Services.Settings.Get(ctx, owner)
		settings = s
		return err
	})
	g.Go(func() error {
		items, err := a.core.Services.Progression.List(ctx, owner)
		progress = items
		return err
	})
	if err := g.Wait(); err != nil {
		writeAppError(w, r, err)
		return
	}

	out := dto.MeDTO{
		User:     dto.UserDTO{ID: owner},
		Settings: toSettingsDTO(settings),
		Caught:   len(progress),
	}
	for i := range progress {
		if progress[i].PokemonID == settings.PartnerPokemon {
			partner := toPokemonDTO(&progress[i])
			out.Partner = &partner
			break
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *apiServer) getSettings(w http.ResponseWriter, r *http.Request, owner int64) {
	s, err := a.core.Services.Settings.Get(r.Context(), owner)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingsDTO(s))
}

func (a *apiServer) patchSettings(w http.ResponseWriter, r *http.Request, owner int64) {
	var patch service.SettingsPatch
	if err := readJSON(r, &patch); err != nil {
		writeBadRequest(w, "请求体不是合法 JSON: "+err.Error())
		return
	}
	s, err := a.core.Services.Settings.Update(r.Context(), owner, patch)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingsDTO(s))
}
