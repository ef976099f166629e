package httpapi

import (
	"net/http"

	"github.com/yuqie6/trainerhub/internal/dto"
	"github.com/yuqie6/trainerhub/internal/service"
)

func (a *apiServer) listFocus(w http.ResponseWriter, r *http.Request, owner int64) {
	q := r.URL.Query()
	stats, err := a.core.Services.Focus.List(r.Context(), owner, q.Get("from"), q.Get("to"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := make([]dto.FocusStatDTO, 0, len(stats))
	for i := range stats {
		out = append(out, toFocusStatDTO(&stats[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *apiServer) getFocus(w http.ResponseWriter, r *http.Request, owner int64) {
	stat, err := a.core.Services.Focus.Get(r.Context(), owner, r.PathValue("date"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toFocusStatDTO(stat))
}

func (a *apiServer) recordFocus(w http.ResponseWriter, r *http.Request, owner int64) {
	var req dto.FocusSessionRequestDTO
	if err := readJSON(r, &req); err != nil {
		writeBadRequest(w, "请求体不是合法 JSON: "+err.Error())
		return
	}
	res, err := a.core.Services.Focus.RecordSession(r.Context(), owner, service.FocusSessionInput{
		Date:    req.Date,
		Minutes: req.Minutes,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	if res.AuditMissing {
		w.Header().Set(auditIncompleteHeader, "true")
	}
	writeJSON(w, http.StatusCreated, dto.FocusSessionResultDTO{
		Stat:      toFocusStatDTO(res.Stat),
		Pokemon:   toPokemonDTO(res.Progress),
		XPAwarded: res.XPAwarded,
		LeveledUp: res.LeveledUp,
	})
}
