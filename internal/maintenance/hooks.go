package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/albapepper/courtside-data/internal/store"
)

// RefreshAfterImport brings derived data up to date after a game log import:
// it rebuilds the embedded arrays so player documents reflect the new rows.
func RefreshAfterImport(ctx context.Context, st store.Store, logger *slog.Logger) error {
	start := time.Now()
	res, err := RebuildGameLogs(ctx, st, logger)
	dur := time.Since(start).Round(time.Millisecond)
	if err != nil {
		logger.Warn("Post-import refresh failed", "duration", dur, "error", err)
		return fmt.Errorf("refresh after import: %w", err)
	}
	logger.Info("Post-import refresh done", "players", res.Updated, "duration", dur)
	return nil
}
