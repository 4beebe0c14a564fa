package parse

import (
	"strings"

	"github.com/albapepper/courtside-data/internal/model"
)

// Game log CSV columns (NBA stats player game log export).
const (
	colPlayerID       = "Player_ID"
	colPlayerName     = "PLAYER_NAME"
	colMatchup        = "MATCHUP"
	colWL             = "WL"
	colMinutes        = "MIN"
	colFGM            = "FGM"
	colFGA            = "FGA"
	colFGPct          = "FG_PCT"
	colFG3M           = "FG3M"
	colFG3A           = "FG3A"
	colFG3Pct         = "FG3_PCT"
	colFTM            = "FTM"
	colFTA            = "FTA"
	colFTPct          = "FT_PCT"
	colOReb           = "OREB"
	colDReb           = "DREB"
	colReb            = "REB"
	colAst            = "AST"
	colStl            = "STL"
	colBlk            = "BLK"
	colTov            = "TOV"
	colPF             = "PF"
	colPts            = "PTS"
	colPlusMinus      = "PLUS_MINUS"
	colVideoAvailable = "VIDEO_AVAILABLE"
	colGameDate       = "GAME_DATE"
	colDateAdded      = "DATE_ADDED"
)

// GameLogRow maps one game log CSV row. Every numeric column falls back to
// 0. The result is not validated; loaders call Validate before persisting so
// that rows without a player id are skipped rather than stored.
func GameLogRow(row Row) model.GameLog {
	team, opponent := SplitMatchup(row[colMatchup])

	gl := model.GameLog{
		PlayerID:   strings.TrimSpace(row[colPlayerID]),
		PlayerName: strings.TrimSpace(row[colPlayerName]),
		Team:       team,
		Opponent:   opponent,
		Result:     row[colWL],

		MinutesPlayed:        Float(row[colMinutes]),
		FieldGoals:           Int(row[colFGM]),
		FieldGoalAttempts:    Int(row[colFGA]),
		FieldGoalPercentage:  Float(row[colFGPct]),
		ThreePointers:        Int(row[colFG3M]),
		ThreePointAttempts:   Int(row[colFG3A]),
		ThreePointPercentage: Float(row[colFG3Pct]),
		FreeThrows:           Int(row[colFTM]),
		FreeThrowAttempts:    Int(row[colFTA]),
		FreeThrowPercentage:  Float(row[colFTPct]),
		OffensiveRebounds:    Int(row[colOReb]),
		DefensiveRebounds:    Int(row[colDReb]),
		TotalRebounds:        Int(row[colReb]),
		Assists:              Int(row[colAst]),
		Steals:               Int(row[colStl]),
		Blocks:               Int(row[colBlk]),
		Turnovers:            Int(row[colTov]),
		PersonalFouls:        Int(row[colPF]),
		Points:               Int(row[colPts]),
		PlusMinus:            Float(row[colPlusMinus]),
		VideoAvailable:       Int(row[colVideoAvailable]),

		GameDate:  row[colGameDate],
		DateAdded: row[colDateAdded],
	}
	return gl
}
