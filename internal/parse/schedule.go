package parse

import (
	"strings"

	"github.com/albapepper/courtside-data/internal/model"
)

// Schedule CSV columns (basketball-reference season schedule export).
const (
	colSchedDate  = "GameDate"
	colSchedStart = "Start(ET)"
	colSchedAway  = "Visitor/Neutral"
	colSchedHome  = "Home/Neutral"
)

// ScheduleRow maps one schedule row to a Scheduled game with zero scores.
func ScheduleRow(row Row, season string) (model.Game, error) {
	g := model.NewScheduledGame(
		season,
		strings.TrimSpace(row[colSchedDate]),
		strings.TrimSpace(row[colSchedStart]),
		strings.TrimSpace(row[colSchedAway]),
		strings.TrimSpace(row[colSchedHome]),
	)
	if err := Validate(g); err != nil {
		return model.Game{}, err
	}
	return g, nil
}
