// Command ingest is the Courtside data import CLI.
//
// Usage:
//
//	courtside-ingest migrate
//	courtside-ingest import roster --file 2024-25.NBA.Roster.json
//	courtside-ingest import gamelogs --file NBA_PLAYER_GAMES.csv --rebuild
//	courtside-ingest import schedule --file schedule.csv --season 2024-2025
//	courtside-ingest import teamstats --file NBA_Team_Stats.csv
//	courtside-ingest import all --roster r.json --teamstats t.csv --schedule s.csv --gamelogs g.csv
//	courtside-ingest reconcile players
//	courtside-ingest reconcile ids --file NBA_PLAYERS.csv
//	courtside-ingest rebuild gamelogs
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/albapepper/courtside-data/internal/config"
	"github.com/albapepper/courtside-data/internal/logging"
	"github.com/albapepper/courtside-data/internal/maintenance"
	"github.com/albapepper/courtside-data/internal/model"
	"github.com/albapepper/courtside-data/internal/parse"
	"github.com/albapepper/courtside-data/internal/reconcile"
	"github.com/albapepper/courtside-data/internal/seed"
	"github.com/albapepper/courtside-data/internal/store"
	"github.com/albapepper/courtside-data/internal/store/backend"
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:           "courtside-ingest",
		Short:         "Courtside data import CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(migrateCmd())
	root.AddCommand(importCmd())
	root.AddCommand(reconcileCmd())
	root.AddCommand(rebuildCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// migrate command
// --------------------------------------------------------------------------

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create tables, collections and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob(func(ctx context.Context, cfg *config.Config, st store.Store, logger *slog.Logger) error {
				if err := st.EnsureSchema(ctx); err != nil {
					return fmt.Errorf("ensure schema: %w", err)
				}
				logger.Info("Schema ready", "driver", cfg.StoreDriver)
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// import command
// --------------------------------------------------------------------------

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import source files into the store",
	}
	cmd.AddCommand(importRosterCmd())
	cmd.AddCommand(importGameLogsCmd())
	cmd.AddCommand(importScheduleCmd())
	cmd.AddCommand(importTeamStatsCmd())
	cmd.AddCommand(importAllCmd())
	return cmd
}

func importAllCmd() *cobra.Command {
	var (
		src     seed.Sources
		rebuild bool
	)
	cmd := &cobra.Command{
		Use:   "all",
		Short: "Run every import that has a file, in dependency order",
		RunE: func(cmd *cobra.Command, args []string) error {
			if src == (seed.Sources{Season: src.Season}) {
				return fmt.Errorf("at least one of --roster, --teamstats, --schedule, --gamelogs is required")
			}
			return runJob(func(ctx context.Context, cfg *config.Config, st store.Store, logger *slog.Logger) error {
				start := time.Now()
				res, err := seed.ImportAll(ctx, st, src, logger)
				for _, e := range res.Errors {
					logger.Error("import error", "error", e)
				}
				logger.Info("Import run finished",
					"duration", time.Since(start).Round(time.Millisecond),
					"summary", res.Summary())
				if err != nil {
					return err
				}
				if rebuild && src.GameLogs != "" {
					return maintenance.RefreshAfterImport(ctx, st, logger)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&src.Roster, "roster", "", "Roster JSON export")
	cmd.Flags().StringVar(&src.TeamStats, "teamstats", "", "Team stats CSV")
	cmd.Flags().StringVar(&src.Schedule, "schedule", "", "Schedule CSV")
	cmd.Flags().StringVar(&src.GameLogs, "gamelogs", "", "Player game log CSV")
	cmd.Flags().StringVar(&src.Season, "season", model.DefaultSeason, "Season label stored on each game")
	cmd.Flags().BoolVar(&rebuild, "rebuild", false, "Rebuild embedded player game logs after a game log import")
	return cmd
}

func importRosterCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Import teams and players from a roster JSON export",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFileJob(file, func(ctx context.Context, st store.Store, r io.Reader, logger *slog.Logger) (seed.Result, error) {
				return seed.ImportRoster(ctx, st, r, logger)
			})
		},
	}
	fileFlag(cmd, &file)
	return cmd
}

func importGameLogsCmd() *cobra.Command {
	var (
		file    string
		rebuild bool
	)
	cmd := &cobra.Command{
		Use:   "gamelogs",
		Short: "Import per-game player box scores from CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFileJob(file, func(ctx context.Context, st store.Store, r io.Reader, logger *slog.Logger) (seed.Result, error) {
				res, err := seed.ImportGameLogs(ctx, st, r, logger)
				if err != nil || !rebuild {
					return res, err
				}
				return res, maintenance.RefreshAfterImport(ctx, st, logger)
			})
		},
	}
	fileFlag(cmd, &file)
	cmd.Flags().BoolVar(&rebuild, "rebuild", false, "Rebuild embedded player game logs after import")
	return cmd
}

func importScheduleCmd() *cobra.Command {
	var file, season string
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Import the season schedule from CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFileJob(file, func(ctx context.Context, st store.Store, r io.Reader, logger *slog.Logger) (seed.Result, error) {
				return seed.ImportSchedule(ctx, st, r, season, logger)
			})
		},
	}
	fileFlag(cmd, &file)
	cmd.Flags().StringVar(&season, "season", model.DefaultSeason, "Season label stored on each game")
	return cmd
}

func importTeamStatsCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "teamstats",
		Short: "Update team season aggregates from CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFileJob(file, func(ctx context.Context, st store.Store, r io.Reader, logger *slog.Logger) (seed.Result, error) {
				return seed.ImportTeamStats(ctx, st, r, logger)
			})
		},
	}
	fileFlag(cmd, &file)
	return cmd
}

// --------------------------------------------------------------------------
// reconcile command
// --------------------------------------------------------------------------

func reconcileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Link player records across feeds",
	}
	cmd.AddCommand(reconcilePlayersCmd())
	cmd.AddCommand(reconcileIDsCmd())
	return cmd
}

func reconcilePlayersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "players",
		Short: "Create player documents for names seen only in game logs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob(func(ctx context.Context, cfg *config.Config, st store.Store, logger *slog.Logger) error {
				start := time.Now()
				res, err := reconcile.DerivePlayers(ctx, st, logger)
				logger.Info("Player derivation finished",
					"duration", time.Since(start).Round(time.Millisecond),
					"summary", res.Summary())
				return err
			})
		},
	}
}

func reconcileIDsCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "ids",
		Short: "Attach external player ids by exact name match",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("--file is required")
			}
			return runJob(func(ctx context.Context, cfg *config.Config, st store.Store, logger *slog.Logger) error {
				pairs, err := readPlayerIDs(file, logger)
				if err != nil {
					return err
				}
				start := time.Now()
				res, err := reconcile.AttachPlayerIDs(ctx, st, pairs, logger)
				logger.Info("Player id attach finished",
					"duration", time.Since(start).Round(time.Millisecond),
					"summary", res.Summary())
				return err
			})
		},
	}
	fileFlag(cmd, &file)
	return cmd
}

// readPlayerIDs loads the id feed. Rows without an id or name are logged
// and dropped.
func readPlayerIDs(path string, logger *slog.Logger) ([]parse.PlayerIDPair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var pairs []parse.PlayerIDPair
	err = parse.ReadCSV(f, parse.CSVOptions{TrimHeaders: true}, func(line int, row parse.Row) error {
		pair, err := parse.PlayerIDRow(row)
		if err != nil {
			logger.Warn("Skipping id row", "line", line, "error", err)
			return nil
		}
		pairs = append(pairs, pair)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return pairs, nil
}

// --------------------------------------------------------------------------
// rebuild command
// --------------------------------------------------------------------------

func rebuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Rebuild denormalized data",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "gamelogs",
		Short: "Replace every player's embedded game logs from the game log collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob(func(ctx context.Context, cfg *config.Config, st store.Store, logger *slog.Logger) error {
				start := time.Now()
				res, err := reconcile.RebuildGameLogs(ctx, st, logger)
				logger.Info("Game log rebuild finished",
					"duration", time.Since(start).Round(time.Millisecond),
					"summary", res.Summary())
				return err
			})
		},
	})
	return cmd
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

func fileFlag(cmd *cobra.Command, file *string) {
	cmd.Flags().StringVar(file, "file", "", "Path to the source file")
	_ = cmd.MarkFlagRequired("file")
}

// runFileJob opens path and runs an import job over it.
func runFileJob(path string, fn func(ctx context.Context, st store.Store, r io.Reader, logger *slog.Logger) (seed.Result, error)) error {
	return runJob(func(ctx context.Context, cfg *config.Config, st store.Store, logger *slog.Logger) error {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()

		start := time.Now()
		res, err := fn(ctx, st, f, logger)
		logger.Info("Import finished",
			"job", res.Job, "file", path,
			"duration", time.Since(start).Round(time.Millisecond))
		return err
	})
}

// runJob handles config loading, store connection, and context cancellation.
func runJob(fn func(ctx context.Context, cfg *config.Config, st store.Store, logger *slog.Logger) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := logging.New(cfg.Environment, cfg.LogLevel)

	st, err := backend.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("connect to store: %w", err)
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		if err := st.Close(closeCtx); err != nil {
			logger.Warn("Store close failed", "error", err)
		}
	}()

	return fn(ctx, cfg, st, logger)
}
