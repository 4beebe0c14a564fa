// Package maintenance holds the jobs that reshape data already in the store:
// the embedded game log rebuild, run on demand from the CLI or on a ticker
// inside the API process.
package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/albapepper/courtside-data/internal/store"
)

// Config controls maintenance task intervals. Zero duration disables a task.
type Config struct {
	RebuildInterval time.Duration // Embedded game log rebuild

	// OnRebuild runs after each successful scheduled rebuild. The API uses
	// it to drop cached player responses.
	OnRebuild func(RebuildResult)
}

// Start launches the configured tickers and blocks until ctx is cancelled.
// Intended to be called with `go`. With every interval at zero it returns
// immediately.
func Start(ctx context.Context, st store.Store, cfg Config, logger *slog.Logger) {
	if cfg.RebuildInterval <= 0 {
		logger.Info("Maintenance tickers disabled")
		return
	}
	logger.Info("Maintenance tickers started", "rebuild", cfg.RebuildInterval)

	t := time.NewTicker(cfg.RebuildInterval)
	defer t.Stop()

	runLoop(ctx, t.C, func() { rebuildTick(ctx, st, cfg, logger) })
	logger.Info("Maintenance tickers stopped")
}

func rebuildTick(ctx context.Context, st store.Store, cfg Config, logger *slog.Logger) {
	res, err := RebuildGameLogs(ctx, st, logger)
	if err != nil {
		logger.Warn("Scheduled game log rebuild failed", "error", err)
		return
	}
	if cfg.OnRebuild != nil {
		cfg.OnRebuild(res)
	}
}

func runLoop(ctx context.Context, ch <-chan time.Time, fn func()) {
	for {
		select {
		case <-ch:
			fn()
		case <-ctx.Done():
			return
		}
	}
}
