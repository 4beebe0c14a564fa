package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/courtside-data/internal/model"
	"github.com/albapepper/courtside-data/internal/store"
)

func TestInsertTeams_OrderedStopsAtDuplicate(t *testing.T) {
	ctx := context.Background()
	s := New()

	n, err := s.InsertTeams(ctx, []model.Team{{TID: 0, Abbrev: "ATL"}, {TID: 1, Abbrev: "BOS"}})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = s.InsertTeams(ctx, []model.Team{{TID: 2, Abbrev: "BKN"}, {TID: 0, Abbrev: "ATL"}, {TID: 3, Abbrev: "CHA"}})
	require.ErrorIs(t, err, store.ErrDuplicate)
	assert.Equal(t, 1, n)

	teams, err := s.ListTeams(ctx)
	require.NoError(t, err)
	require.Len(t, teams, 3)
	assert.Equal(t, "BKN", teams[2].Abbrev)
	assert.NotEmpty(t, teams[2].ID)
}

func TestUpdateTeamStats_NeverInserts(t *testing.T) {
	ctx := context.Background()
	s := New()
	_, err := s.InsertTeams(ctx, []model.Team{{TID: 4, Name: "Bulls", Abbrev: "CHI"}})
	require.NoError(t, err)

	matched, err := s.UpdateTeamStats(ctx, 7, model.TeamStats{PPG: 100})
	require.NoError(t, err)
	assert.False(t, matched)

	matched, err = s.UpdateTeamStats(ctx, 4, model.TeamStats{Conf: "East", PPG: 112.3})
	require.NoError(t, err)
	assert.True(t, matched)

	teams, _ := s.ListTeams(ctx)
	require.Len(t, teams, 1)
	assert.Equal(t, "Bulls", teams[0].Name)
	assert.Equal(t, "CHI", teams[0].Abbrev)
	assert.Equal(t, 112.3, teams[0].PPG)

	_, err = s.TeamByTID(ctx, 7)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestInsertPlayersBestEffort(t *testing.T) {
	ctx := context.Background()
	s := New()
	_, err := s.InsertPlayers(ctx, []model.Player{{ID: "fixed", Name: "Existing"}})
	require.NoError(t, err)

	results := s.InsertPlayersBestEffort(ctx, []model.Player{
		{Name: "A"},
		{ID: "fixed", Name: "Dup"},
		{Name: ""},
		{Name: "B"},
	})
	require.Len(t, results, 4)
	assert.Equal(t, store.Inserted, results[0].Status)
	assert.Equal(t, store.Skipped, results[1].Status)
	assert.ErrorIs(t, results[1].Err, store.ErrDuplicate)
	assert.Equal(t, store.Failed, results[2].Status)
	assert.Equal(t, store.Inserted, results[3].Status)

	inserted, skipped, failed := store.CountResults(results)
	assert.Equal(t, []int{2, 1, 1}, []int{inserted, skipped, failed})

	players, _ := s.ListPlayers(ctx, nil)
	assert.Len(t, players, 3)
}

func TestGameLogGroupings(t *testing.T) {
	ctx := context.Background()
	s := New()
	_, err := s.InsertGameLogs(ctx, []model.GameLog{
		{PlayerID: "P2", PlayerName: "Two", Team: "BOS", Points: 1},
		{PlayerID: "P1", PlayerName: "One", Team: "LAL", Points: 2},
		{PlayerID: "P1", PlayerName: "One", Team: "DAL", Points: 3},
	})
	require.NoError(t, err)

	groups, err := s.GameLogPlayerGroups(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, store.PlayerGroup{Name: "Two", Team: "BOS", PlayerID: "P2", Games: 1}, groups[0])
	assert.Equal(t, store.PlayerGroup{Name: "One", Team: "LAL", PlayerID: "P1", Games: 2}, groups[1])

	byPlayer, err := s.GameLogsByPlayer(ctx)
	require.NoError(t, err)
	require.Len(t, byPlayer, 2)
	assert.Equal(t, "P1", byPlayer[0].PlayerID)
	require.Len(t, byPlayer[0].Logs, 2)
	assert.Equal(t, 2, byPlayer[0].Logs[0].Points)
	assert.Equal(t, 3, byPlayer[0].Logs[1].Points)
}

func TestSearchAndFilters(t *testing.T) {
	ctx := context.Background()
	s := New()
	_, err := s.InsertPlayers(ctx, []model.Player{
		{Name: "LeBron James", TID: model.TIDPtr(13)},
		{Name: "Jalen Brunson", TID: model.TIDPtr(19)},
		{Name: "Stub"},
	})
	require.NoError(t, err)
	_, err = s.InsertTeams(ctx, []model.Team{{TID: 13, Name: "Lakers"}, {TID: 19, Name: "Knicks"}})
	require.NoError(t, err)

	found, err := s.SearchPlayers(ctx, "JAMES")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "LeBron James", found[0].Name)

	teams, err := s.SearchTeams(ctx, "nic")
	require.NoError(t, err)
	require.Len(t, teams, 1)

	onTeam, err := s.ListPlayers(ctx, model.TIDPtr(19))
	require.NoError(t, err)
	require.Len(t, onTeam, 1)
	assert.Equal(t, "Jalen Brunson", onTeam[0].Name)

	byID, err := s.PlayerByID(ctx, onTeam[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Jalen Brunson", byID.Name)
	assert.NotNil(t, byID.GameLogs)

	_, err = s.PlayerByID(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListGamesFilter(t *testing.T) {
	ctx := context.Background()
	s := New()
	g1 := model.NewScheduledGame("", "Tue, Oct 22, 2024", "7:30p", "New York Knicks", "Boston Celtics")
	g2 := model.NewScheduledGame("", "Tue, Oct 22, 2024", "10:00p", "Minnesota Timberwolves", "Los Angeles Lakers")
	g2.Status = model.StatusFinal
	_, err := s.InsertGames(ctx, []model.Game{g1, g2})
	require.NoError(t, err)

	_, err = s.InsertGames(ctx, []model.Game{g1})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	games, _ := s.ListGames(ctx, store.GameFilter{Team: "Boston Celtics"})
	require.Len(t, games, 1)
	games, _ = s.ListGames(ctx, store.GameFilter{Status: model.StatusFinal})
	require.Len(t, games, 1)
	assert.Equal(t, g2.GameID, games[0].GameID)
	games, _ = s.ListGames(ctx, store.GameFilter{})
	assert.Len(t, games, 2)
}

func TestClosedStoreFailsEveryOperation(t *testing.T) {
	s := New()
	ctx := context.Background()
	_, err := s.InsertTeams(ctx, []model.Team{{TID: 1, Abbrev: "BOS"}})
	require.NoError(t, err)
	require.NoError(t, s.Ping(ctx))
	require.NoError(t, s.Close(ctx))

	assert.Error(t, s.Ping(ctx))
	assert.Error(t, s.EnsureSchema(ctx))

	n, err := s.InsertTeams(ctx, []model.Team{{TID: 2}})
	assert.ErrorIs(t, err, errClosed)
	assert.Zero(t, n)
	_, err = s.InsertGameLogs(ctx, []model.GameLog{{PlayerID: "1"}})
	assert.ErrorIs(t, err, errClosed)

	results := s.InsertPlayersBestEffort(ctx, []model.Player{{Name: "A"}})
	require.Len(t, results, 1)
	assert.Equal(t, store.Failed, results[0].Status)

	_, err = s.UpdateTeamStats(ctx, 1, model.TeamStats{})
	assert.ErrorIs(t, err, errClosed)
	_, err = s.ListTeams(ctx)
	assert.ErrorIs(t, err, errClosed)
	_, err = s.TeamByTID(ctx, 1)
	assert.ErrorIs(t, err, errClosed)
	_, err = s.PlayerByPlayerID(ctx, "1")
	assert.ErrorIs(t, err, errClosed)
	_, err = s.ClearPlayerGameLogs(ctx)
	assert.ErrorIs(t, err, errClosed)
	_, err = s.ListGames(ctx, store.GameFilter{})
	assert.ErrorIs(t, err, errClosed)
}
