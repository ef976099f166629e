package httpapi

import (
	"net/http"

	"github.com/yuqie6/trainerhub/internal/dto"
	"github.com/yuqie6/trainerhub/internal/service"
)

func (a *apiServer) listJournal(w http.ResponseWriter, r *http.Request, owner int64) {
	limit, err := parseLimit(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	entries, err := a.core.Services.Journal.List(r.Context(), owner, limit)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := make([]dto.JournalEntryDTO, 0, len(entries))
	for i := range entries {
		out = append(out, toJournalDTO(&entries[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *apiServer) getJournal(w http.ResponseWriter, r *http.Request, owner int64) {
	entry, err := a.core.Services.Journal.Get(r.Context(), owner, r.PathValue("date"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toJournalDTO(entry))
}

func (a *apiServer) putJournal(w http.ResponseWriter, r *http.Request, owner int64) {
	var req dto.JournalRequestDTO
	if err := readJSON(r, &req); err != nil {
		writeBadRequest(w, "请求体不是合法 JSON: "+err.Error())
		return
	}
	entry, err := a.core.Services.Journal.Put(r.Context(), owner, r.PathValue("date"), service.JournalInput{
		Text:  req.Text,
		Mood:  req.Mood,
		Tags:  req.Tags,
		Media: req.Media,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toJournalDTO(entry))
}

func (a *apiServer) deleteJournal(w http.ResponseWriter, r *http.Request, owner int64) {
	if err := a.core.Services.Journal.Delete(r.Context(), owner, r.PathValue("date")); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
