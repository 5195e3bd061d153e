package handler

import (
	"net/http"
	"strconv"

	"github.com/freeeve/relic-eclipse/internal/model"
	"github.com/freeeve/relic-eclipse/internal/repository"
)

// MatchHandler serves the archive of finished games.
type MatchHandler struct {
	matches repository.MatchRepository
}

// NewMatchHandler creates a MatchHandler.
func NewMatchHandler(matches repository.MatchRepository) *MatchHandler {
	return &MatchHandler{matches: matches}
}

// ListMatches handles GET /api/v1/matches?limit=
func (h *MatchHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	matches, err := h.matches.ListRecent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if matches == nil {
		matches = []model.Match{}
	}
	writeJSON(w, http.StatusOK, matches)
}

// GetMatch handles GET /api/v1/matches/{id}
func (h *MatchHandler) GetMatch(w http.ResponseWriter, r *http.Request) {
	m, err := h.matches.FindByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if m == nil {
		writeError(w, http.StatusNotFound, "match not found")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// FactionStats handles GET /api/v1/stats/factions?source=
func (h *MatchHandler) FactionStats(w http.ResponseWriter, r *http.Request) {
	source := r.URL.Query().Get("source")
	if source != "" && source != "session" && source != "simulation" {
		writeError(w, http.StatusBadRequest, "source must be session or simulation")
		return
	}
	stats, err := h.matches.FactionStats(r.Context(), source)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if stats == nil {
		stats = []model.FactionStat{}
	}
	writeJSON(w, http.StatusOK, stats)
}

// Register mounts the archive routes on mux.
func (h *MatchHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/matches", h.ListMatches)
	mux.HandleFunc("GET /api/v1/matches/{id}", h.GetMatch)
	mux.HandleFunc("GET /api/v1/stats/factions", h.FactionStats)
}
