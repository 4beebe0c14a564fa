package handler

import (
	"net/http"

	"github.com/albapepper/courtside-data/internal/api/respond"
	"github.com/albapepper/courtside-data/internal/model"
	"github.com/albapepper/courtside-data/internal/store"
)

// ListGames returns scheduled games, optionally for one team or status.
// @Summary List games
// @Tags games
// @Produce json
// @Param team query string false "Team name (home or away)"
// @Param status query string false "Game status" Enums(Scheduled, In Progress, Final)
// @Success 200 {array} model.Game
// @Failure 400 {object} respond.ErrorResponse
// @Router /api/games [get]
func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	filter := store.GameFilter{
		Team:   r.URL.Query().Get("team"),
		Status: model.GameStatus(r.URL.Query().Get("status")),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_STATUS",
			"status must be 'Scheduled', 'In Progress' or 'Final'")
		return
	}
	games, err := h.store.ListGames(r.Context(), filter)
	if err != nil {
		h.writeStoreError(w, err, "Games")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, games)
}
