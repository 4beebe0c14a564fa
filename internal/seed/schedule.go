package seed

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/albapepper/courtside-data/internal/model"
	"github.com/albapepper/courtside-data/internal/parse"
	"github.com/albapepper/courtside-data/internal/store"
)

// ImportSchedule loads a season schedule CSV as Scheduled games with zero
// scores. An empty season falls back to model.DefaultSeason.
func ImportSchedule(ctx context.Context, st store.Store, r io.Reader, season string, logger *slog.Logger) (result Result, err error) {
	result.Job = "schedule"
	defer logFinal(logger, &result, &err)

	if season == "" {
		season = model.DefaultSeason
	}

	var games []model.Game
	err = parse.ReadCSV(r, parse.CSVOptions{}, func(line int, row parse.Row) error {
		result.Read++
		g, err := parse.ScheduleRow(row, season)
		if err != nil {
			result.Skipf("line %d: %v", line, err)
			return nil
		}
		games = append(games, g)
		return nil
	})
	if err != nil {
		return result, err
	}

	n, err := st.InsertGames(ctx, games)
	result.Inserted += n
	if err != nil {
		return result, fmt.Errorf("insert games: %w", err)
	}
	return result, nil
}
