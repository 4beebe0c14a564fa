package postgres

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/courtside-data/internal/model"
	"github.com/albapepper/courtside-data/internal/store"
)

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@localhost:5432/nba", migrateURL("postgres://u:p@localhost:5432/nba"))
	assert.Equal(t, "pgx5://localhost/nba?sslmode=disable", migrateURL("postgresql://localhost/nba?sslmode=disable"))
	assert.Equal(t, "pgx5://already", migrateURL("pgx5://already"))
}

func TestGamesQuery(t *testing.T) {
	sql, args := gamesQuery(store.GameFilter{})
	assert.Equal(t, "SELECT doc FROM games ORDER BY seq", sql)
	assert.Empty(t, args)

	sql, args = gamesQuery(store.GameFilter{Team: "Boston Celtics", Status: model.StatusFinal})
	assert.Equal(t, "SELECT doc FROM games WHERE (home_team = $1 OR away_team = $1) AND status = $2 ORDER BY seq", sql)
	assert.Equal(t, []any{"Boston Celtics", "Final"}, args)

	sql, args = gamesQuery(store.GameFilter{Status: model.StatusScheduled})
	assert.Equal(t, "SELECT doc FROM games WHERE status = $1 ORDER BY seq", sql)
	assert.Equal(t, []any{"Scheduled"}, args)
}

func TestLikeEscape(t *testing.T) {
	assert.Equal(t, `100\%`, likeEscape("100%"))
	assert.Equal(t, `a\_b`, likeEscape("a_b"))
	assert.Equal(t, `c\\d`, likeEscape(`c\d`))
	assert.Equal(t, "james", likeEscape("james"))
}

func TestEmbeddedMigrations(t *testing.T) {
	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	require.NoError(t, err)
	assert.Contains(t, names, "migrations/000001_documents.up.sql")
	assert.Contains(t, names, "migrations/000001_documents.down.sql")
}

func TestEncodeTeamStatsPatch(t *testing.T) {
	doc, err := encode(model.TeamStats{Conf: "West", PPG: 117.2})
	require.NoError(t, err)
	assert.Contains(t, doc, `"conf":"West"`)
	assert.Contains(t, doc, `"ppg":117.2`)
	assert.NotContains(t, doc, `"name"`)
	assert.NotContains(t, doc, `"tid"`)
}
