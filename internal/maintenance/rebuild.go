package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/albapepper/courtside-data/internal/store"
)

// RebuildResult counts what one rebuild touched.
type RebuildResult struct {
	Cleared      int64 // players whose embedded array was emptied
	Groups       int   // distinct playerIds in the game logs
	Updated      int   // players that received a group
	Logs         int   // game logs copied onto players
	Orphaned     int   // groups whose playerId matches no player
	OrphanedLogs int
}

// Summary returns a human-readable summary of the rebuild.
func (r RebuildResult) Summary() string {
	return fmt.Sprintf("cleared=%d groups=%d updated=%d logs=%d orphaned=%d orphaned_logs=%d",
		r.Cleared, r.Groups, r.Updated, r.Logs, r.Orphaned, r.OrphanedLogs)
}

// RebuildGameLogs overwrites every player's embedded game log array from the
// game log collection. Arrays are emptied first and then set from each
// playerId group, so players without logs end with an empty array and
// groups that match no player are dropped. Logs keep storage order.
//
// The embedded array is a cache of the game log collection and this is its
// only writer. A rebuild that fails after the clear leaves players with
// empty arrays until the next successful run.
func RebuildGameLogs(ctx context.Context, st store.Store, logger *slog.Logger) (RebuildResult, error) {
	var res RebuildResult
	start := time.Now()

	groups, err := st.GameLogsByPlayer(ctx)
	if err != nil {
		return res, fmt.Errorf("group game logs: %w", err)
	}
	res.Groups = len(groups)

	res.Cleared, err = st.ClearPlayerGameLogs(ctx)
	if err != nil {
		return res, fmt.Errorf("clear embedded game logs: %w", err)
	}

	for _, g := range groups {
		matched, err := st.SetPlayerGameLogs(ctx, g.PlayerID, g.Logs)
		if err != nil {
			return res, fmt.Errorf("set game logs for %s: %w", g.PlayerID, err)
		}
		if !matched {
			res.Orphaned++
			res.OrphanedLogs += len(g.Logs)
			continue
		}
		res.Updated++
		res.Logs += len(g.Logs)
	}

	logger.Info("Game log rebuild complete",
		"summary", res.Summary(),
		"duration", time.Since(start).Round(time.Millisecond))
	return res, nil
}
