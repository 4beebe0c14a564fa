// Package model defines the stored shapes of teams, players, game logs and
// scheduled games. Field names in bson/json tags match the collections the
// frontend and the predictor script read.
package model

// Team id bounds. Only the 30 franchises are ever imported.
const (
	MinTID = 0
	MaxTID = 29
)

// ValidTID reports whether tid names one of the 30 franchises.
func ValidTID(tid int) bool {
	return tid >= MinTID && tid <= MaxTID
}

// Collection names, shared by every store driver.
const (
	TeamsCollection    = "teams"
	PlayersCollection  = "players"
	GameLogsCollection = "gamelogs"
	GamesCollection    = "games"
)
