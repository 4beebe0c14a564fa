package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidTID(t *testing.T) {
	cases := map[int]bool{-1: false, 0: true, 15: true, 29: true, 30: false}
	for tid, want := range cases {
		assert.Equal(t, want, ValidTID(tid), "tid=%d", tid)
	}
}

func TestNewScheduledGame(t *testing.T) {
	g := NewScheduledGame("", "Tue, Oct 22, 2024", "7:30p", "New York Knicks", "Boston Celtics")

	assert.Equal(t, "Tue, Oct 22, 2024_7:30p_New York Knicks_at_Boston Celtics", g.GameID)
	assert.Equal(t, DefaultSeason, g.Season)
	assert.Equal(t, StatusScheduled, g.Status)
	assert.Zero(t, g.HomeScore)
	assert.Zero(t, g.AwayScore)
}

func TestGameStatusValid(t *testing.T) {
	assert.True(t, StatusInProgress.Valid())
	assert.False(t, GameStatus("Postponed").Valid())
}

func TestTeamStatsApplyLeavesIdentity(t *testing.T) {
	team := Team{TID: 2, Name: "Celtics", Abbrev: "BOS"}
	TeamStats{Conf: "East", PPG: 118.5, Win: 50}.Apply(&team)

	assert.Equal(t, "Celtics", team.Name)
	assert.Equal(t, "BOS", team.Abbrev)
	assert.Equal(t, "East", team.Conf)
	assert.Equal(t, 118.5, team.PPG)
	assert.Equal(t, float64(50), team.Win)
}
