package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/courtside-data/internal/logging"
	"github.com/albapepper/courtside-data/internal/model"
	"github.com/albapepper/courtside-data/internal/parse"
	"github.com/albapepper/courtside-data/internal/store"
	"github.com/albapepper/courtside-data/internal/store/memory"
)

// rejectingStore fails the best-effort insert of one named player.
type rejectingStore struct {
	*memory.Store
	reject string
}

func (s *rejectingStore) InsertPlayersBestEffort(ctx context.Context, players []model.Player) []store.RecordResult {
	var keep []model.Player
	var keepIdx []int
	results := make([]store.RecordResult, len(players))
	for i, p := range players {
		if p.Name == s.reject {
			results[i] = store.RecordResult{Index: i, Key: p.Name, Status: store.Failed, Err: assert.AnError}
			continue
		}
		keep = append(keep, p)
		keepIdx = append(keepIdx, i)
	}
	for j, r := range s.Store.InsertPlayersBestEffort(ctx, keep) {
		r.Index = keepIdx[j]
		results[keepIdx[j]] = r
	}
	return results
}

func TestDerivePlayers(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	_, err := st.InsertTeams(ctx, []model.Team{{TID: 13, Abbrev: "LAL"}, {TID: 1, Abbrev: "BOS"}})
	require.NoError(t, err)
	_, err = st.InsertPlayers(ctx, []model.Player{{Name: "Jayson Tatum", TID: model.TIDPtr(1)}})
	require.NoError(t, err)
	_, err = st.InsertGameLogs(ctx, []model.GameLog{
		{PlayerID: "2544", PlayerName: "LeBron James", Team: "LAL"},
		{PlayerID: "2544", PlayerName: "LeBron James", Team: "CLE"},
		{PlayerID: "1628369", PlayerName: "Jayson Tatum", Team: "BOS"},
		{PlayerID: "9", PlayerName: "Traded Guy", Team: "XYZ"},
		{PlayerID: "77"},
	})
	require.NoError(t, err)

	res, err := DerivePlayers(ctx, st, logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, 4, res.Processed)
	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 2, res.Skipped)
	assert.Zero(t, res.Failed)
	require.Len(t, res.Warnings, 1)

	lebron, err := st.PlayerByPlayerID(ctx, "2544")
	require.NoError(t, err)
	assert.Equal(t, "LeBron James", lebron.Name)
	assert.Equal(t, "LAL", lebron.Team, "first-seen team")
	require.NotNil(t, lebron.TID)
	assert.Equal(t, 13, *lebron.TID)

	traded, err := st.PlayerByPlayerID(ctx, "9")
	require.NoError(t, err)
	assert.Nil(t, traded.TID)

	n, _ := st.CountPlayersByName(ctx, "Jayson Tatum")
	assert.Equal(t, 1, n)

	again, err := DerivePlayers(ctx, st, logging.Discard())
	require.NoError(t, err)
	assert.Zero(t, again.Created)
}

func TestAttachPlayerIDs(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	_, err := st.InsertPlayers(ctx, []model.Player{
		{Name: "Nikola Jokic"},
		{Name: "Luka Doncic"},
		{Name: "Marcus Morris", TID: model.TIDPtr(5)},
		{Name: "Marcus Morris", TID: model.TIDPtr(6)},
	})
	require.NoError(t, err)

	res, err := AttachPlayerIDs(ctx, st, []parse.PlayerIDPair{
		{ID: "203999", Name: "Nikola Jokic"},
		{ID: "1", Name: "nikola jokic"},
		{ID: "111", Name: "Luka Doncic"},
		{ID: "1629029", Name: "Luka Doncic"},
		{ID: "202694", Name: "Marcus Morris"},
		{ID: "404", Name: "Nobody"},
	}, logging.Discard())
	require.NoError(t, err)

	assert.Equal(t, 6, res.Processed)
	assert.Equal(t, 3, res.Updated)
	assert.Equal(t, 2, res.Unmatched)
	assert.Equal(t, 1, res.Ambiguous)
	require.Len(t, res.Warnings, 1)

	jokic, err := st.PlayerByPlayerID(ctx, "203999")
	require.NoError(t, err)
	assert.Equal(t, "Nikola Jokic", jokic.Name)

	luka, err := st.PlayerByPlayerID(ctx, "1629029")
	require.NoError(t, err)
	assert.Equal(t, "Luka Doncic", luka.Name, "later feed row wins")

	_, err = st.PlayerByPlayerID(ctx, "202694")
	assert.Error(t, err)
}

func TestPassesCompose(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	_, err := st.InsertGameLogs(ctx, []model.GameLog{
		{PlayerID: "P1", PlayerName: "One", Team: "LAL", Points: 1},
		{PlayerID: "P1", PlayerName: "One", Team: "LAL", Points: 2},
		{PlayerID: "P2", PlayerName: "Two", Team: "BOS", Points: 3},
	})
	require.NoError(t, err)

	_, err = DerivePlayers(ctx, st, logging.Discard())
	require.NoError(t, err)
	_, err = RebuildGameLogs(ctx, st, logging.Discard())
	require.NoError(t, err)

	p1, err := st.PlayerByPlayerID(ctx, "P1")
	require.NoError(t, err)
	assert.Len(t, p1.GameLogs, 2)
	p2, err := st.PlayerByPlayerID(ctx, "P2")
	require.NoError(t, err)
	assert.Len(t, p2.GameLogs, 1)
}

func TestDerivePlayers_CountsFailedInserts(t *testing.T) {
	ctx := context.Background()
	st := &rejectingStore{Store: memory.New(), reject: "Bad Write"}
	_, err := st.InsertGameLogs(ctx, []model.GameLog{
		{PlayerID: "1", PlayerName: "Good Write", Team: "LAL"},
		{PlayerID: "2", PlayerName: "Bad Write", Team: "LAL"},
	})
	require.NoError(t, err)

	res, err := DerivePlayers(ctx, st, logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Processed)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "Bad Write")
}
