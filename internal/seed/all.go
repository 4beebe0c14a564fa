package seed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/albapepper/courtside-data/internal/store"
)

// Sources names the files for ImportAll. Empty paths are skipped.
type Sources struct {
	Roster    string
	TeamStats string
	Schedule  string
	GameLogs  string
	Season    string
}

// ImportAll runs every configured import in dependency order: roster, team
// stats, schedule, game logs. A failing job is recorded and the remaining
// jobs still run; the returned error reports how many failed.
func ImportAll(ctx context.Context, st store.Store, src Sources, logger *slog.Logger) (Result, error) {
	total := Result{Job: "all"}

	type job struct {
		name string
		path string
		run  func(io.Reader) (Result, error)
	}
	jobs := []job{
		{"roster", src.Roster, func(r io.Reader) (Result, error) { return ImportRoster(ctx, st, r, logger) }},
		{"teamstats", src.TeamStats, func(r io.Reader) (Result, error) { return ImportTeamStats(ctx, st, r, logger) }},
		{"schedule", src.Schedule, func(r io.Reader) (Result, error) { return ImportSchedule(ctx, st, r, src.Season, logger) }},
		{"gamelogs", src.GameLogs, func(r io.Reader) (Result, error) { return ImportGameLogs(ctx, st, r, logger) }},
	}

	ran, failed := 0, 0
	for _, j := range jobs {
		if j.path == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return total, err
		}
		ran++
		res, err := runFile(j.path, j.run)
		total.Add(res)
		if err != nil {
			failed++
			total.AddErrorf("%s: %v", j.name, err)
		}
	}

	logger.Info("Import run complete", "jobs", ran, "failed", failed, "summary", total.Summary())
	if failed > 0 {
		return total, fmt.Errorf("%d of %d import jobs failed", failed, ran)
	}
	return total, nil
}

func runFile(path string, run func(io.Reader) (Result, error)) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return run(f)
}
