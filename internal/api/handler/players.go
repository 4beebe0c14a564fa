package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/albapepper/courtside-data/internal/api/respond"
	"github.com/albapepper/courtside-data/internal/cache"
	"github.com/albapepper/courtside-data/internal/model"
)

// PlayersKeyPrefix prefixes every cached player list. Player documents change
// when embedded game logs are rebuilt, so the rebuild drops these keys.
const PlayersKeyPrefix = "players:"

// GetPlayer returns one player document, embedded game logs included.
// @Summary Get player
// @Tags players
// @Produce json
// @Param id path string true "Player document id"
// @Success 200 {object} model.Player
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/player/{id} [get]
func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.PlayerByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeStoreError(w, err, "Player")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, p)
}

// ListPlayers returns all players, or the players of one team. Responses are
// cached per tid.
// @Summary List players
// @Tags players
// @Produce json
// @Param tid query int false "Team id (0-29)"
// @Success 200 {array} model.Player
// @Failure 400 {object} respond.ErrorResponse
// @Router /api/players [get]
func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	var tid *int
	key := PlayersKeyPrefix + "list"
	if raw := r.URL.Query().Get("tid"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respond.WriteError(w, http.StatusBadRequest, "INVALID_TID", "tid must be an integer")
			return
		}
		tid = &n
		key = fmt.Sprintf("%stid:%d", PlayersKeyPrefix, n)
	}
	h.serveCached(w, r, key, cache.TTLPlayers, func() (any, error) {
		return h.store.ListPlayers(r.Context(), tid)
	})
}

// GetPlayerGameLogs reads a player's logs straight from the game log
// collection, so it never lags behind the embedded copy.
// @Summary Get player game logs
// @Tags players
// @Produce json
// @Param id path string true "Player document id"
// @Success 200 {array} model.GameLog
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/player/{id}/gamelogs [get]
func (h *Handler) GetPlayerGameLogs(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.PlayerByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeStoreError(w, err, "Player")
		return
	}
	if p.PlayerID == "" {
		respond.WriteJSONObject(w, http.StatusOK, []model.GameLog{})
		return
	}
	logs, err := h.store.GameLogsForPlayer(r.Context(), p.PlayerID)
	if err != nil {
		h.writeStoreError(w, err, "Game logs")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, logs)
}
