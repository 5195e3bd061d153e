package handler

import (
	"context"
	"net/http"

	"github.com/freeeve/relic-eclipse/internal/auth"
	"github.com/freeeve/relic-eclipse/internal/logger"
	"github.com/freeeve/relic-eclipse/internal/model"
	"github.com/freeeve/relic-eclipse/internal/service"
	"github.com/freeeve/relic-eclipse/pkg/eclipse"
)

// GameHandler serves the live-session endpoints.
type GameHandler struct {
	sessions *service.SessionService
	jwtMgr   *auth.JWTManager
}

// NewGameHandler creates a GameHandler.
func NewGameHandler(sessions *service.SessionService, jwtMgr *auth.JWTManager) *GameHandler {
	return &GameHandler{sessions: sessions, jwtMgr: jwtMgr}
}

// GameResponse is a session envelope plus the caller's view of the board.
type GameResponse struct {
	Session *model.Session     `json:"session"`
	State   *eclipse.GameState `json:"state"`
	Token   *auth.SeatToken    `json:"token,omitempty"`
}

// CreateGame handles POST /api/v1/games. The response carries the seat token
// for the human seat.
func (h *GameHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req service.CreateInput
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	sess, gs, err := h.sessions.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	tok, err := h.jwtMgr.IssueSeatToken(sess.ID, sess.HumanSeat)
	if err != nil {
		l := logger.ForRequest(logger.WithGameID(r.Context(), sess.ID))
		l.Error().Err(err).Msg("Failed to issue seat token")
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	writeJSON(w, http.StatusCreated, GameResponse{
		Session: sess,
		State:   eclipse.PlayerView(gs, eclipse.PlayerID(sess.HumanSeat)),
		Token:   tok,
	})
}

// GetGame handles GET /api/v1/games/{id}
func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	r = r.WithContext(logger.WithGameID(r.Context(), gameID))
	seat, err := auth.SeatFor(r.Context(), gameID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	sess, gs, err := h.sessions.Get(r.Context(), gameID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, GameResponse{
		Session: sess,
		State:   eclipse.PlayerView(gs, eclipse.PlayerID(seat)),
	})
}

// DeleteGame handles DELETE /api/v1/games/{id}
func (h *GameHandler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	r = r.WithContext(logger.WithGameID(r.Context(), gameID))
	if _, err := auth.SeatFor(r.Context(), gameID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := h.sessions.Delete(r.Context(), gameID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type intentFunc func(ctx context.Context, gameID string, seat int) (*eclipse.GameState, error)

// intent resolves the caller's seat, runs fn, and answers with the new view.
func (h *GameHandler) intent(w http.ResponseWriter, r *http.Request, fn intentFunc) {
	gameID := r.PathValue("id")
	r = r.WithContext(logger.WithGameID(r.Context(), gameID))
	seat, err := auth.SeatFor(r.Context(), gameID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	gs, err := fn(r.Context(), gameID, seat)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, eclipse.PlayerView(gs, eclipse.PlayerID(seat)))
}

// SelectRole handles POST /api/v1/games/{id}/role
func (h *GameHandler) SelectRole(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Role string `json:"role"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.intent(w, r, func(ctx context.Context, gameID string, seat int) (*eclipse.GameState, error) {
		return h.sessions.SelectRole(ctx, gameID, seat, req.Role)
	})
}

// PerformAction handles POST /api/v1/games/{id}/action
func (h *GameHandler) PerformAction(w http.ResponseWriter, r *http.Request) {
	var req service.ActionInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.intent(w, r, func(ctx context.Context, gameID string, seat int) (*eclipse.GameState, error) {
		return h.sessions.Act(ctx, gameID, seat, req)
	})
}

// Pass handles POST /api/v1/games/{id}/pass
func (h *GameHandler) Pass(w http.ResponseWriter, r *http.Request) {
	h.intent(w, r, h.sessions.Pass)
}

// Declare handles POST /api/v1/games/{id}/declare
func (h *GameHandler) Declare(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TileType string `json:"tile_type"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.intent(w, r, func(ctx context.Context, gameID string, seat int) (*eclipse.GameState, error) {
		return h.sessions.Declare(ctx, gameID, seat, req.TileType)
	})
}

// Cancel handles POST /api/v1/games/{id}/cancel
func (h *GameHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.intent(w, r, h.sessions.Cancel)
}

// Challenge handles POST /api/v1/games/{id}/challenge
func (h *GameHandler) Challenge(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Challenge bool `json:"challenge"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.intent(w, r, func(ctx context.Context, gameID string, seat int) (*eclipse.GameState, error) {
		return h.sessions.Challenge(ctx, gameID, seat, req.Challenge)
	})
}

// ChooseResource handles POST /api/v1/games/{id}/event-resource
func (h *GameHandler) ChooseResource(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Resource string `json:"resource"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.intent(w, r, func(ctx context.Context, gameID string, seat int) (*eclipse.GameState, error) {
		return h.sessions.ChooseResource(ctx, gameID, seat, req.Resource)
	})
}

// Advance handles POST /api/v1/games/{id}/advance
func (h *GameHandler) Advance(w http.ResponseWriter, r *http.Request) {
	h.intent(w, r, h.sessions.Advance)
}

// Register mounts the session routes on mux. authMw guards everything except creation.
func (h *GameHandler) Register(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	protected := func(fn http.HandlerFunc) http.Handler { return authMw(fn) }
	mux.HandleFunc("POST /api/v1/games", h.CreateGame)
	mux.Handle("GET /api/v1/games/{id}", protected(h.GetGame))
	mux.Handle("DELETE /api/v1/games/{id}", protected(h.DeleteGame))
	mux.Handle("POST /api/v1/games/{id}/role", protected(h.SelectRole))
	mux.Handle("POST /api/v1/games/{id}/action", protected(h.PerformAction))
	mux.Handle("POST /api/v1/games/{id}/pass", protected(h.Pass))
	mux.Handle("POST /api/v1/games/{id}/declare", protected(h.Declare))
	mux.Handle("POST /api/v1/games/{id}/cancel", protected(h.Cancel))
	mux.Handle("POST /api/v1/games/{id}/challenge", protected(h.Challenge))
	mux.Handle("POST /api/v1/games/{id}/event-resource", protected(h.ChooseResource))
	mux.Handle("POST /api/v1/games/{id}/advance", protected(h.Advance))
}
