package handler

import (
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/albapepper/courtside-data/internal/api/respond"
	"github.com/albapepper/courtside-data/internal/cache"
	"github.com/albapepper/courtside-data/internal/model"
)

// Cache keys. All share the "teams:" prefix so an import can drop them
// together.
const (
	keyTeams     = "teams:list"
	keyStandings = "teams:standings"
	keyAverages  = "teams:averages"
)

// GetTeam returns one team document.
// @Summary Get team
// @Tags teams
// @Produce json
// @Param id path string true "Team document id"
// @Success 200 {object} model.Team
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/team/{id} [get]
func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	t, err := h.store.TeamByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeStoreError(w, err, "Team")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, t)
}

// TeamRoster is a team together with its current players.
type TeamRoster struct {
	Team    model.Team     `json:"team"`
	Players []model.Player `json:"players"`
}

// GetTeamRoster looks a team up by franchise id and lists its players.
// @Summary Get team roster
// @Tags teams
// @Produce json
// @Param tid path int true "Team id (0-29)"
// @Success 200 {object} TeamRoster
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/teams/{tid}/roster [get]
func (h *Handler) GetTeamRoster(w http.ResponseWriter, r *http.Request) {
	tid, err := strconv.Atoi(chi.URLParam(r, "tid"))
	if err != nil || !model.ValidTID(tid) {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_TID", "tid must be an integer between 0 and 29")
		return
	}
	t, err := h.store.TeamByTID(r.Context(), tid)
	if err != nil {
		h.writeStoreError(w, err, "Team")
		return
	}
	players, err := h.store.ListPlayers(r.Context(), &tid)
	if err != nil {
		h.writeStoreError(w, err, "Players")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, TeamRoster{Team: t, Players: players})
}

// ListTeams returns every team.
// @Summary List teams
// @Tags teams
// @Produce json
// @Success 200 {array} model.Team
// @Success 304
// @Router /api/teams [get]
func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, keyTeams, cache.TTLTeams, func() (any, error) {
		return h.store.ListTeams(r.Context())
	})
}

// Division is one division table, best record first.
type Division struct {
	Name       string       `json:"name"`
	Conference string       `json:"conference"`
	Teams      []model.Team `json:"teams"`
}

// GetStandings groups teams by division, ordered by win percentage.
// @Summary Standings
// @Tags teams
// @Produce json
// @Success 200 {array} Division
// @Router /api/standings [get]
func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, keyStandings, cache.TTLTeams, func() (any, error) {
		teams, err := h.store.ListTeams(r.Context())
		if err != nil {
			return nil, err
		}
		return Standings(teams), nil
	})
}

const noDivision = "No Division"

// Standings groups teams by division in order of first appearance and sorts
// each division by winPct, highest first. Ties keep stored order.
func Standings(teams []model.Team) []Division {
	out := []Division{}
	index := make(map[string]int)
	for _, t := range teams {
		name := t.Div
		if name == "" {
			name = noDivision
		}
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, Division{Name: name, Conference: t.Conf})
		}
		out[i].Teams = append(out[i].Teams, t)
	}
	for i := range out {
		slices.SortStableFunc(out[i].Teams, func(a, b model.Team) int {
			switch {
			case a.WinPct > b.WinPct:
				return -1
			case a.WinPct < b.WinPct:
				return 1
			}
			return 0
		})
	}
	return out
}

// LeagueAverages is the per-team mean of the headline team stats.
type LeagueAverages struct {
	Teams  int     `json:"teams"`
	PPG    float64 `json:"ppg"`
	OPPG   float64 `json:"oppg"`
	OffRtg float64 `json:"offRtg"`
	DefRtg float64 `json:"defRtg"`
	Pace   float64 `json:"pace"`
}

// GetTeamAverages returns league averages for comparison on team pages.
// @Summary League averages
// @Tags teams
// @Produce json
// @Success 200 {object} LeagueAverages
// @Router /api/teams/averages [get]
func (h *Handler) GetTeamAverages(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, keyAverages, cache.TTLTeams, func() (any, error) {
		teams, err := h.store.ListTeams(r.Context())
		if err != nil {
			return nil, err
		}
		return Averages(teams), nil
	})
}

// Averages computes LeagueAverages. No teams gives all zeros.
func Averages(teams []model.Team) LeagueAverages {
	avg := LeagueAverages{Teams: len(teams)}
	if len(teams) == 0 {
		return avg
	}
	for _, t := range teams {
		avg.PPG += t.PPG
		avg.OPPG += t.OPPG
		avg.OffRtg += t.OffRtg
		avg.DefRtg += t.DefRtg
		avg.Pace += t.Pace
	}
	n := float64(len(teams))
	avg.PPG /= n
	avg.OPPG /= n
	avg.OffRtg /= n
	avg.DefRtg /= n
	avg.Pace /= n
	return avg
}
