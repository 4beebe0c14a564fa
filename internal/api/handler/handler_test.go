package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/courtside-data/internal/cache"
	"github.com/albapepper/courtside-data/internal/config"
	"github.com/albapepper/courtside-data/internal/logging"
	"github.com/albapepper/courtside-data/internal/model"
	"github.com/albapepper/courtside-data/internal/predict"
	"github.com/albapepper/courtside-data/internal/store/memory"
)

type fakePredictor struct {
	got  predict.Request
	out  []byte
	err  error
	hits int
}

func (f *fakePredictor) Predict(_ context.Context, req predict.Request) ([]byte, error) {
	f.hits++
	f.got = req
	return f.out, f.err
}

type fixture struct {
	store *memory.Store
	cache *cache.Cache
	pred  *fakePredictor
	h     *Handler
	mux   *chi.Mux
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memory.New()
	c := cache.New(true)
	t.Cleanup(c.Close)
	pred := &fakePredictor{out: []byte(`{"predictedPoints":24.1}`)}
	h := New(st, c, &config.Config{StoreDriver: config.DriverMemory}, pred, logging.Discard())

	mux := chi.NewRouter()
	mux.Get("/api/teams", h.ListTeams)
	mux.Get("/api/teams/averages", h.GetTeamAverages)
	mux.Get("/api/teams/{tid}/roster", h.GetTeamRoster)
	mux.Get("/api/team/{id}", h.GetTeam)
	mux.Get("/api/standings", h.GetStandings)
	mux.Get("/api/players", h.ListPlayers)
	mux.Get("/api/player/{id}", h.GetPlayer)
	mux.Get("/api/player/{id}/gamelogs", h.GetPlayerGameLogs)
	mux.Get("/api/games", h.ListGames)
	mux.Get("/api/search", h.Search)
	mux.Get("/api/news", h.GetNews)
	mux.Post("/api/predict/points", h.PredictPoints)
	mux.Get("/health/db", h.HealthCheckDB)

	return &fixture{store: st, cache: c, pred: pred, h: h, mux: mux}
}

func (f *fixture) do(t *testing.T, method, target, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (f *fixture) seedTeams(t *testing.T) {
	t.Helper()
	_, err := f.store.InsertTeams(context.Background(), []model.Team{
		{TID: 1, Region: "Boston", Name: "Celtics", Abbrev: "BOS", Conf: "East", Div: "Atlantic", WinPct: 0.6, PPG: 120, Pace: 98},
		{TID: 13, Region: "Los Angeles", Name: "Lakers", Abbrev: "LAL", Conf: "West", Div: "Pacific", WinPct: 0.55, PPG: 110, Pace: 100},
		{TID: 19, Region: "New York", Name: "Knicks", Abbrev: "NYK", Conf: "East", Div: "Atlantic", WinPct: 0.7, PPG: 112, Pace: 96},
	})
	require.NoError(t, err)
}

func TestListTeams_CachedWithETag(t *testing.T) {
	f := newFixture(t)
	f.seedTeams(t)

	rec := f.do(t, http.MethodGet, "/api/teams", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)
	assert.Len(t, decode[[]model.Team](t, rec), 3)

	rec = f.do(t, http.MethodGet, "/api/teams", "")
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))

	rec = f.do(t, http.MethodGet, "/api/teams", "", "If-None-Match", etag)
	assert.Equal(t, http.StatusNotModified, rec.Code)
}

func TestGetTeam_NotFound(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/api/team/64b000000000000000000000", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")
}

func TestStandings_GroupedAndSorted(t *testing.T) {
	divs := Standings([]model.Team{
		{Abbrev: "BOS", Div: "Atlantic", Conf: "East", WinPct: 0.6},
		{Abbrev: "LAL", Div: "Pacific", Conf: "West", WinPct: 0.55},
		{Abbrev: "NYK", Div: "Atlantic", Conf: "East", WinPct: 0.7},
		{Abbrev: "XXX"},
	})
	require.Len(t, divs, 3)
	assert.Equal(t, "Atlantic", divs[0].Name)
	assert.Equal(t, "East", divs[0].Conference)
	assert.Equal(t, "NYK", divs[0].Teams[0].Abbrev)
	assert.Equal(t, "BOS", divs[0].Teams[1].Abbrev)
	assert.Equal(t, "Pacific", divs[1].Name)
	assert.Equal(t, noDivision, divs[2].Name)
}

func TestTeamAverages(t *testing.T) {
	f := newFixture(t)
	f.seedTeams(t)

	rec := f.do(t, http.MethodGet, "/api/teams/averages", "")
	require.Equal(t, http.StatusOK, rec.Code)
	avg := decode[LeagueAverages](t, rec)
	assert.Equal(t, 3, avg.Teams)
	assert.InDelta(t, 114.0, avg.PPG, 1e-9)
	assert.InDelta(t, 98.0, avg.Pace, 1e-9)

	assert.Equal(t, LeagueAverages{}, Averages(nil))
}

func TestListPlayers_FilterByTID(t *testing.T) {
	f := newFixture(t)
	_, err := f.store.InsertPlayers(context.Background(), []model.Player{
		{Name: "Jayson Tatum", TID: model.TIDPtr(1)},
		{Name: "LeBron James", TID: model.TIDPtr(13)},
	})
	require.NoError(t, err)

	rec := f.do(t, http.MethodGet, "/api/players?tid=13", "")
	require.Equal(t, http.StatusOK, rec.Code)
	players := decode[[]model.Player](t, rec)
	require.Len(t, players, 1)
	assert.Equal(t, "LeBron James", players[0].Name)

	rec = f.do(t, http.MethodGet, "/api/players?tid=lakers", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_TID")
}

func TestListPlayers_CachedUntilInvalidated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.store.InsertPlayers(ctx, []model.Player{{Name: "Jayson Tatum", TID: model.TIDPtr(1)}})
	require.NoError(t, err)

	rec := f.do(t, http.MethodGet, "/api/players", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[[]model.Player](t, rec), 1)
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	_, err = f.store.InsertPlayers(ctx, []model.Player{{Name: "Jaylen Brown", TID: model.TIDPtr(1)}})
	require.NoError(t, err)

	rec = f.do(t, http.MethodGet, "/api/players", "", "If-None-Match", etag)
	assert.Equal(t, http.StatusNotModified, rec.Code)

	assert.Equal(t, 1, f.cache.InvalidatePrefix(PlayersKeyPrefix))
	rec = f.do(t, http.MethodGet, "/api/players", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Player](t, rec), 2)
}

func TestGetTeamRoster(t *testing.T) {
	f := newFixture(t)
	f.seedTeams(t)
	_, err := f.store.InsertPlayers(context.Background(), []model.Player{
		{Name: "Jayson Tatum", TID: model.TIDPtr(1)},
		{Name: "LeBron James", TID: model.TIDPtr(13)},
	})
	require.NoError(t, err)

	rec := f.do(t, http.MethodGet, "/api/teams/1/roster", "")
	require.Equal(t, http.StatusOK, rec.Code)
	roster := decode[TeamRoster](t, rec)
	assert.Equal(t, "Celtics", roster.Team.Name)
	require.Len(t, roster.Players, 1)
	assert.Equal(t, "Jayson Tatum", roster.Players[0].Name)

	rec = f.do(t, http.MethodGet, "/api/teams/5/roster", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	for _, tid := range []string{"celtics", "30", "-1"} {
		rec = f.do(t, http.MethodGet, "/api/teams/"+tid+"/roster", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, tid)
		assert.Contains(t, rec.Body.String(), "INVALID_TID")
	}
}

func TestPlayerGameLogs_ReadFromCollection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.store.InsertPlayers(ctx, []model.Player{{Name: "LeBron James", PlayerID: "2544"}})
	require.NoError(t, err)
	_, err = f.store.InsertGameLogs(ctx, []model.GameLog{
		{PlayerID: "2544", Points: 30, Opponent: "BOS"},
		{PlayerID: "2544", Points: 25, Opponent: "NYK"},
		{PlayerID: "201939", Points: 40},
	})
	require.NoError(t, err)

	players, err := f.store.ListPlayers(ctx, nil)
	require.NoError(t, err)
	id := players[0].ID

	rec := f.do(t, http.MethodGet, "/api/player/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[model.Player](t, rec).GameLogs)

	rec = f.do(t, http.MethodGet, "/api/player/"+id+"/gamelogs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	logs := decode[[]model.GameLog](t, rec)
	require.Len(t, logs, 2)
	assert.Equal(t, 30, logs[0].Points)
}

func TestListGames_StatusValidation(t *testing.T) {
	f := newFixture(t)
	_, err := f.store.InsertGames(context.Background(), []model.Game{
		model.NewScheduledGame("", "Tue, Oct 22, 2024", "7:30p", "New York Knicks", "Boston Celtics"),
		model.NewScheduledGame("", "Tue, Oct 22, 2024", "10:00p", "Minnesota Timberwolves", "Los Angeles Lakers"),
	})
	require.NoError(t, err)

	rec := f.do(t, http.MethodGet, "/api/games?team=Boston+Celtics&status=Scheduled", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Game](t, rec), 1)

	rec = f.do(t, http.MethodGet, "/api/games?status=Postponed", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearch(t *testing.T) {
	f := newFixture(t)
	f.seedTeams(t)
	_, err := f.store.InsertPlayers(context.Background(), []model.Player{{Name: "Jalen Brunson"}, {Name: "Jayson Tatum"}})
	require.NoError(t, err)

	rec := f.do(t, http.MethodGet, "/api/search?q=ce", "")
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[SearchResult](t, rec)
	require.Len(t, res.Teams, 1)
	assert.Equal(t, "Celtics", res.Teams[0].Name)
	assert.Empty(t, res.Players)

	rec = f.do(t, http.MethodGet, "/api/search?q=JA", "")
	res = decode[SearchResult](t, rec)
	assert.Len(t, res.Players, 2)

	rec = f.do(t, http.MethodGet, "/api/search", "")
	assert.JSONEq(t, `{"players":[],"teams":[]}`, rec.Body.String())
}

func TestPredict_FillsRecentGamesFromPlayer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.store.InsertPlayers(ctx, []model.Player{{Name: "LeBron James", PlayerID: "2544"}})
	require.NoError(t, err)
	logs := make([]model.GameLog, 7)
	for i := range logs {
		logs[i] = model.GameLog{PlayerID: "2544", Points: 20 + i}
	}
	_, err = f.store.SetPlayerGameLogs(ctx, "2544", logs)
	require.NoError(t, err)

	rec := f.do(t, http.MethodPost, "/api/predict/points", `{"playerData":{"playerId":"2544"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"predictedPoints":24.1}`, rec.Body.String())
	assert.Len(t, f.pred.got.PlayerData.RecentGames, predict.RecentGamesDefault)
}

func TestPredict_KeepsClientGames(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/api/predict/points",
		`{"playerData":{"playerId":"9","recentGames":[{"points":10}]}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, f.pred.got.PlayerData.RecentGames, 1)
}

func TestPredict_Errors(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/predict/points", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/predict/points", `{"playerData":{}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_PLAYER_DATA")
	assert.Zero(t, f.pred.hits)

	f.pred.err = &predict.PredictionError{Message: "not enough games"}
	rec = f.do(t, http.MethodPost, "/api/predict/points", `{"playerData":{"playerId":"1"}}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "not enough games")

	f.pred.err = errors.Wrap(predict.ErrUnavailable, "exec")
	rec = f.do(t, http.MethodPost, "/api/predict/points", `{"playerData":{"playerId":"1"}}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestNews_NotConfigured(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/api/news", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthCheckDB(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/health/db", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"connected"`)

	require.NoError(t, f.store.Close(context.Background()))
	rec = f.do(t, http.MethodGet, "/health/db", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
