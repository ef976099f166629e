package httpapi

import (
	"net/http"

	"github.com/yuqie6/trainerhub/internal/dto"
	"github.com/yuqie6/trainerhub/internal/service"
)

const auditIncompleteHeader = "X-Audit-Incomplete"

func (a *apiServer) gainXP(w http.ResponseWriter, r *http.Request, owner int64) {
	var req dto.GainXPRequestDTO
	if err := readJSON(r, &req); err != nil {
		writeBadRequest(w, "请求体不是合法 JSON: "+err.Error())
		return
	}
	if req.PokemonID == nil || req.Delta == nil {
		writeBadRequest(w, "pokemon_id 与 delta 必填")
		return
	}

	res, err := a.core.Services.Progression.GainXP(r.Context(), service.GainXPInput{
		OwnerID:   owner,
		PokemonID: *req.PokemonID,
		Delta:     *req.Delta,
		Reason:    req.Reason,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	if res.AuditMissing {
		w.Header().Set(auditIncompleteHeader, "true")
	}
	writeJSON(w, http.StatusOK, toPokemonDTO(res.Progress))
}

func (a *apiServer) listPokemon(w http.ResponseWriter, r *http.Request, owner int64) {
	items, err := a.core.Services.Progression.List(r.Context(), owner)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := make([]dto.PokemonProgressDTO, 0, len(items))
	for i := range items {
		out = append(out, toPokemonDTO(&items[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// capturePokemon 新收服返回 201，已拥有返回 200
func (a *apiServer) capturePokemon(w http.ResponseWriter, r *http.Request, owner int64) {
	var req dto.CaptureRequestDTO
	if err := readJSON(r, &req); err != nil {
		writeBadRequest(w, "请求体不是合法 JSON: "+err.Error())
		return
	}
	if req.PokemonID == nil {
		writeBadRequest(w, "pokemon_id 必填")
		return
	}

	p, created, err := a.core.Services.Progression.Capture(r.Context(), owner, *req.PokemonID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, toPokemonDTO(p))
}

func (a *apiServer) getPokemon(w http.ResponseWriter, r *http.Request, owner int64) {
	pokemonID, err := parseInt64Param(r.PathValue("pokemon_id"))
	if err != nil {
		writeBadRequest(w, "pokemon_id 必须为整数")
		return
	}
	p, err := a.core.Services.Progression.Get(r.Context(), owner, pokemonID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPokemonDTO(p))
}

func (a *apiServer) releasePokemon(w http.ResponseWriter, r *http.Request, owner int64) {
	pokemonID, err := parseInt64Param(r.PathValue("pokemon_id"))
	if err != nil {
		writeBadRequest(w, "pokemon_id 必须为整数")
		return
	}
	if err := a.core.Services.Progression.Release(r.Context(), owner, pokemonID); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *apiServer) listXPLog(w http.ResponseWriter, r *http.Request, owner int64) {
	limit, err := parseLimit(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	logs, err := a.core.Services.Progression.ListLedger(r.Context(), owner, limit)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := make([]dto.XPLogDTO, 0, len(logs))
	for _, l := range logs {
		out = append(out, toXPLogDTO(l))
	}
	writeJSON(w, http.StatusOK, out)
}
