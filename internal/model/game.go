package model

import "fmt"

// GameStatus is the lifecycle state of a scheduled game.
type GameStatus string

const (
	StatusScheduled  GameStatus = "Scheduled"
	StatusInProgress GameStatus = "In Progress"
	StatusFinal      GameStatus = "Final"
)

// Valid reports whether s is one of the known statuses.
func (s GameStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusInProgress, StatusFinal:
		return true
	}
	return false
}

// DefaultSeason is the season label applied when a schedule import does not
// name one.
const DefaultSeason = "2024-2025"

// Game is a scheduled matchup. GameID is a synthesized composite key.
type Game struct {
	ID        string     `bson:"_id,omitempty" json:"_id,omitempty"`
	GameID    string     `bson:"gameId" json:"gameId" validate:"required"`
	Season    string     `bson:"season" json:"season"`
	GameDate  string     `bson:"gameDate" json:"gameDate" validate:"required"`
	StartTime string     `bson:"startTime" json:"startTime"`
	HomeTeam  string     `bson:"homeTeam" json:"homeTeam" validate:"required"`
	AwayTeam  string     `bson:"awayTeam" json:"awayTeam" validate:"required"`
	HomeScore int        `bson:"homeScore" json:"homeScore"`
	AwayScore int        `bson:"awayScore" json:"awayScore"`
	Status    GameStatus `bson:"status" json:"status"`
}

// GameKey builds the composite game id: date, start time, away, home.
func GameKey(date, startTime, away, home string) string {
	return fmt.Sprintf("%s_%s_%s_at_%s", date, startTime, away, home)
}

// NewScheduledGame returns a zero-score Scheduled game with its composite id.
func NewScheduledGame(season, date, startTime, away, home string) Game {
	if season == "" {
		season = DefaultSeason
	}
	return Game{
		GameID:    GameKey(date, startTime, away, home),
		Season:    season,
		GameDate:  date,
		StartTime: startTime,
		HomeTeam:  home,
		AwayTeam:  away,
		Status:    StatusScheduled,
	}
}
