package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"github.com/albapepper/courtside-data/internal/api/respond"
	"github.com/albapepper/courtside-data/internal/model"
)

// SearchResult is the response of /api/search.
type SearchResult struct {
	Players []model.Player `json:"players"`
	Teams   []model.Team   `json:"teams"`
}

// Search matches players and teams by case-insensitive name substring.
// @Summary Search players and teams
// @Tags search
// @Produce json
// @Param q query string false "Name fragment"
// @Success 200 {object} SearchResult
// @Router /api/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	result := SearchResult{Players: []model.Player{}, Teams: []model.Team{}}
	if q == "" {
		respond.WriteJSONObject(w, http.StatusOK, result)
		return
	}

	p := pool.New().WithContext(r.Context()).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		players, err := h.store.SearchPlayers(ctx, q)
		result.Players = players
		return err
	})
	p.Go(func(ctx context.Context) error {
		teams, err := h.store.SearchTeams(ctx, q)
		result.Teams = teams
		return err
	})
	if err := p.Wait(); err != nil {
		h.writeStoreError(w, err, "Search results")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, result)
}
