// Package reconcile links records from different feeds to the same player.
// Each pass reads the store, decides, and writes; passes are independent
// and may run in any order.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/albapepper/courtside-data/internal/maintenance"
	"github.com/albapepper/courtside-data/internal/store"
)

// Result tracks what a pass did.
type Result struct {
	Pass      string
	Processed int
	Created   int
	Updated   int
	Skipped   int // already present, or duplicate on insert
	Unmatched int
	Ambiguous int
	Failed    int
	Warnings  []string
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary of the pass.
func (r *Result) Summary() string {
	return fmt.Sprintf(
		"processed=%d created=%d updated=%d skipped=%d unmatched=%d ambiguous=%d failed=%d warnings=%d",
		r.Processed, r.Created, r.Updated, r.Skipped,
		r.Unmatched, r.Ambiguous, r.Failed, len(r.Warnings),
	)
}

func (r *Result) log(logger *slog.Logger) {
	for _, w := range r.Warnings {
		logger.Warn("Reconcile warning", "pass", r.Pass, "detail", w)
	}
	logger.Info("Reconcile pass complete", "pass", r.Pass, "summary", r.Summary())
}

// RebuildGameLogs is the embedded log rebuild, exposed here so all three
// passes can be driven from one place.
func RebuildGameLogs(ctx context.Context, st store.Store, logger *slog.Logger) (maintenance.RebuildResult, error) {
	return maintenance.RebuildGameLogs(ctx, st, logger)
}
