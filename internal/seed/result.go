// Package seed runs the import jobs that load roster, game log, schedule and
// team-stat files into the store.
package seed

import (
	"fmt"
	"log/slog"
)

// Result tracks counts, warnings and errors from one import job.
type Result struct {
	Job       string
	Read      int
	Inserted  int
	Updated   int
	Skipped   int
	Unmatched int
	Warnings  []string
	Errors    []string
}

// Add merges another Result into this one.
func (r *Result) Add(other Result) {
	r.Read += other.Read
	r.Inserted += other.Inserted
	r.Updated += other.Updated
	r.Skipped += other.Skipped
	r.Unmatched += other.Unmatched
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Errors = append(r.Errors, other.Errors...)
}

// AddErrorf records a formatted error message.
func (r *Result) AddErrorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Skipf counts a skipped record and records why.
func (r *Result) Skipf(format string, args ...any) {
	r.Skipped++
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary of the import.
func (r *Result) Summary() string {
	return fmt.Sprintf(
		"read=%d inserted=%d updated=%d skipped=%d unmatched=%d warnings=%d errors=%d",
		r.Read, r.Inserted, r.Updated, r.Skipped, r.Unmatched,
		len(r.Warnings), len(r.Errors),
	)
}

// logFinal reports the outcome of a job. It runs on every exit path so a
// failed import still reports how far it got.
func logFinal(logger *slog.Logger, r *Result, errp *error) {
	for _, w := range r.Warnings {
		logger.Warn("Import warning", "job", r.Job, "detail", w)
	}
	if *errp != nil {
		logger.Error("Import failed", "job", r.Job, "summary", r.Summary(), "error", *errp)
		return
	}
	logger.Info("Import complete", "job", r.Job, "summary", r.Summary())
}
