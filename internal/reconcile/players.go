package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/albapepper/courtside-data/internal/model"
	"github.com/albapepper/courtside-data/internal/store"
)

// DerivePlayers creates a player stub for every distinct name in the game
// logs that has no player yet. A stub carries the name, the first-seen team
// abbreviation and player id, and the tid of that team when the
// abbreviation is known. Stubs are inserted best-effort: duplicates are
// skipped and failures counted without stopping the batch.
func DerivePlayers(ctx context.Context, st store.Store, logger *slog.Logger) (Result, error) {
	res := Result{Pass: "derive-players"}

	groups, err := st.GameLogPlayerGroups(ctx)
	if err != nil {
		return res, fmt.Errorf("group game logs by name: %w", err)
	}
	tids, err := teamIndex(ctx, st)
	if err != nil {
		return res, err
	}
	logger.Info("Deriving players from game logs", "names", len(groups), "teams", len(tids))

	var stubs []model.Player
	for _, g := range groups {
		res.Processed++
		if g.Name == "" {
			res.Skipped++
			res.warnf("%d game logs for player id %q have no player name", g.Games, g.PlayerID)
			continue
		}
		n, err := st.CountPlayersByName(ctx, g.Name)
		if err != nil {
			return res, fmt.Errorf("look up %q: %w", g.Name, err)
		}
		if n > 0 {
			res.Skipped++
			continue
		}

		stub := model.Player{
			Name:     g.Name,
			PlayerID: g.PlayerID,
			Team:     g.Team,
			GameLogs: []model.GameLog{},
		}
		if tid, ok := tids[g.Team]; ok {
			stub.TID = model.TIDPtr(tid)
		}
		stubs = append(stubs, stub)
	}

	if len(stubs) > 0 {
		results := st.InsertPlayersBestEffort(ctx, stubs)
		created, skipped, failed := store.CountResults(results)
		res.Created += created
		res.Skipped += skipped
		res.Failed += failed
		for _, r := range results {
			if r.Status == store.Failed {
				res.warnf("insert %q: %v", r.Key, r.Err)
			}
		}
	}

	res.log(logger)
	return res, nil
}

// teamIndex maps team abbreviation to tid.
func teamIndex(ctx context.Context, st store.Store) (map[string]int, error) {
	teams, err := st.ListTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	idx := make(map[string]int, len(teams))
	for _, t := range teams {
		if t.Abbrev != "" {
			idx[t.Abbrev] = t.TID
		}
	}
	return idx, nil
}
