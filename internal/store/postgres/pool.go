// Package postgres stores the four collections as JSONB documents in
// PostgreSQL. It is the alternative to the mongo driver for deployments
// that already run Postgres.
package postgres

import (
	"context"
	"embed"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/albapepper/courtside-data/internal/config"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store wraps pgxpool.Pool with the collection operations.
type Store struct {
	pool *pgxpool.Pool
}

// New migrates the schema, creates the pool and verifies connectivity.
// Migrations run first so every pooled connection can prepare statements
// against existing tables.
func New(ctx context.Context, cfg *config.Config) (*Store, error) {
	if err := Migrate(cfg.DatabaseURL); err != nil {
		return nil, err
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse database URL")
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = cfg.DBPoolMaxIdle
	if cfg.DBConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = cfg.DBConnectTimeout
	}

	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, errors.Wrap(err, "create pool")
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "ping database")
	}

	return &Store{pool: pool}, nil
}

// Migrate applies every embedded migration. Already-current schemas are not
// an error.
func Migrate(databaseURL string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return errors.Wrap(err, "open embedded migrations")
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, migrateURL(databaseURL))
	if err != nil {
		return errors.Wrap(err, "create migrator")
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "apply migrations")
	}
	return nil
}

// migrateURL swaps the postgres scheme for the one the pgx/v5 migrate
// driver registers.
func migrateURL(databaseURL string) string {
	for _, scheme := range []string{"postgresql://", "postgres://"} {
		if rest, ok := strings.CutPrefix(databaseURL, scheme); ok {
			return "pgx5://" + rest
		}
	}
	return databaseURL
}

// registerPreparedStatements prepares the fixed statements on every new
// connection. Statements are executed by name.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Inserts
		"insert_team":     "INSERT INTO teams (id, tid, name, doc) VALUES ($1, $2, $3, $4::jsonb)",
		"insert_player":   "INSERT INTO players (id, player_id, tid, name, doc) VALUES ($1, NULLIF($2, ''), $3, $4, $5::jsonb)",
		"insert_game_log": "INSERT INTO game_logs (id, player_id, player_name, doc) VALUES ($1, $2, $3, $4::jsonb)",
		"insert_game":     "INSERT INTO games (id, game_id, home_team, away_team, status, doc) VALUES ($1, $2, $3, $4, $5, $6::jsonb)",

		// Updates
		"update_team_stats":     "UPDATE teams SET doc = doc || $2::jsonb WHERE tid = $1",
		"count_players_by_name": "SELECT count(*)::int FROM players WHERE name = $1",
		"set_player_id_by_name": `UPDATE players SET player_id = $2, doc = jsonb_set(doc, '{playerId}', to_jsonb($2::text))
			WHERE seq = (SELECT seq FROM players WHERE name = $1 ORDER BY seq LIMIT 1)`,
		"clear_player_game_logs": `UPDATE players SET doc = jsonb_set(doc, '{gameLogs}', '[]'::jsonb)`,
		"set_player_game_logs": `UPDATE players SET doc = jsonb_set(doc, '{gameLogs}', $2::jsonb)
			WHERE seq = (SELECT seq FROM players WHERE player_id = $1 ORDER BY seq LIMIT 1)`,

		// Groupings
		"game_log_player_groups": `SELECT name, team, player_id, games FROM (
				SELECT DISTINCT ON (player_name)
					player_name AS name,
					COALESCE(doc->>'team', '') AS team,
					player_id,
					(count(*) OVER (PARTITION BY player_name))::int AS games,
					seq
				FROM game_logs
				ORDER BY player_name, seq
			) g ORDER BY seq`,
		"game_logs_by_player": "SELECT player_id, doc FROM game_logs ORDER BY player_id, seq",

		// Reads
		"list_teams":           "SELECT doc FROM teams ORDER BY seq",
		"team_by_id":           "SELECT doc FROM teams WHERE id = $1",
		"team_by_tid":          "SELECT doc FROM teams WHERE tid = $1",
		"search_teams":         `SELECT doc FROM teams WHERE name ILIKE '%' || $1 || '%' ORDER BY seq`,
		"list_players":         "SELECT doc FROM players ORDER BY seq",
		"list_players_by_tid":  "SELECT doc FROM players WHERE tid = $1 ORDER BY seq",
		"player_by_id":         "SELECT doc FROM players WHERE id = $1",
		"player_by_player_id":  "SELECT doc FROM players WHERE player_id = $1 ORDER BY seq LIMIT 1",
		"search_players":       `SELECT doc FROM players WHERE name ILIKE '%' || $1 || '%' ORDER BY seq`,
		"game_logs_for_player": "SELECT doc FROM game_logs WHERE player_id = $1 ORDER BY seq",
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return errors.Wrapf(err, "prepare %q", name)
		}
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	var n int
	return errors.Wrap(s.pool.QueryRow(ctx, "health_check").Scan(&n), "health check")
}

func (s *Store) Close(_ context.Context) error {
	s.pool.Close()
	return nil
}

func (s *Store) EnsureSchema(_ context.Context) error {
	return Migrate(s.pool.Config().ConnString())
}
