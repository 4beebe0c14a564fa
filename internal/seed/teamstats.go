package seed

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/albapepper/courtside-data/internal/parse"
	"github.com/albapepper/courtside-data/internal/store"
)

// ImportTeamStats applies a team-stats CSV to existing teams, matched by
// tid. Unknown tids are counted as unmatched and never create a team. Rows
// with an invalid tid are skipped.
func ImportTeamStats(ctx context.Context, st store.Store, r io.Reader, logger *slog.Logger) (result Result, err error) {
	result.Job = "teamstats"
	defer logFinal(logger, &result, &err)

	err = parse.ReadCSV(r, parse.CSVOptions{TrimHeaders: true}, func(line int, row parse.Row) error {
		result.Read++
		tid, stats, err := parse.TeamStatRow(row)
		if err != nil {
			result.Skipf("line %d: %v", line, err)
			return nil
		}
		matched, err := st.UpdateTeamStats(ctx, tid, stats)
		if err != nil {
			return fmt.Errorf("update team %d: %w", tid, err)
		}
		if !matched {
			result.Unmatched++
			return nil
		}
		result.Updated++
		return nil
	})
	return result, err
}
