package postgres

import (
	"context"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/albapepper/courtside-data/internal/model"
	"github.com/albapepper/courtside-data/internal/store"
)

var _ store.Store = (*Store)(nil)

const uniqueViolation = "23505"

// newID keeps ids in the same 24-hex form the mongo driver exposes.
func newID() string {
	return primitive.NewObjectID().Hex()
}

func encode(v any) (string, error) {
	b, err := sonic.Marshal(v)
	if err != nil {
		return "", errors.Wrap(err, "encode document")
	}
	return string(b), nil
}

// classify maps unique violations onto store.ErrDuplicate.
func classify(err error, what string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return errors.Wrapf(store.ErrDuplicate, "%s: %s", what, pgErr.Detail)
	}
	return errors.Wrap(err, what)
}

// insertEach runs insert for every record in order and stops at the first
// failure, returning how many succeeded.
func insertEach[T any](items []T, insert func(int, T) error) (int, error) {
	for i, item := range items {
		if err := insert(i, item); err != nil {
			return i, err
		}
	}
	return len(items), nil
}

// --------------------------------------------------------------------------
// Inserts
// --------------------------------------------------------------------------

func (s *Store) InsertTeams(ctx context.Context, teams []model.Team) (int, error) {
	return insertEach(teams, func(i int, t model.Team) error {
		if t.ID == "" {
			t.ID = newID()
		}
		doc, err := encode(t)
		if err != nil {
			return err
		}
		_, err = s.pool.Exec(ctx, "insert_team", t.ID, t.TID, t.Name, doc)
		if err != nil {
			return classify(err, "insert team "+strconv.Itoa(t.TID))
		}
		return nil
	})
}

func (s *Store) insertPlayer(ctx context.Context, p model.Player) error {
	if err := store.CheckPlayer(p); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = newID()
	}
	if p.GameLogs == nil {
		p.GameLogs = []model.GameLog{}
	}
	doc, err := encode(p)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, "insert_player", p.ID, p.PlayerID, p.TID, p.Name, doc)
	if err != nil {
		return classify(err, "insert player "+p.Name)
	}
	return nil
}

func (s *Store) InsertPlayers(ctx context.Context, players []model.Player) (int, error) {
	return insertEach(players, func(_ int, p model.Player) error {
		return s.insertPlayer(ctx, p)
	})
}

func (s *Store) InsertPlayersBestEffort(ctx context.Context, players []model.Player) []store.RecordResult {
	results := make([]store.RecordResult, len(players))
	for i, p := range players {
		res := store.RecordResult{Index: i, Key: p.Name, Status: store.Inserted}
		if err := s.insertPlayer(ctx, p); err != nil {
			res.Err = err
			res.Status = store.Failed
			if errors.Is(err, store.ErrDuplicate) {
				res.Status = store.Skipped
			}
		}
		results[i] = res
	}
	return results
}

func (s *Store) InsertGameLogs(ctx context.Context, logs []model.GameLog) (int, error) {
	return insertEach(logs, func(i int, gl model.GameLog) error {
		if gl.ID == "" {
			gl.ID = newID()
		}
		doc, err := encode(gl)
		if err != nil {
			return err
		}
		_, err = s.pool.Exec(ctx, "insert_game_log", gl.ID, gl.PlayerID, gl.PlayerName, doc)
		if err != nil {
			return classify(err, "insert game log "+strconv.Itoa(i))
		}
		return nil
	})
}

func (s *Store) InsertGames(ctx context.Context, games []model.Game) (int, error) {
	return insertEach(games, func(_ int, g model.Game) error {
		if g.ID == "" {
			g.ID = newID()
		}
		doc, err := encode(g)
		if err != nil {
			return err
		}
		_, err = s.pool.Exec(ctx, "insert_game", g.ID, g.GameID, g.HomeTeam, g.AwayTeam, string(g.Status), doc)
		if err != nil {
			return classify(err, "insert game "+g.GameID)
		}
		return nil
	})
}

// --------------------------------------------------------------------------
// Updates
// --------------------------------------------------------------------------

// UpdateTeamStats merges the stat fields into the stored document. Only
// keys present in the patch change.
func (s *Store) UpdateTeamStats(ctx context.Context, tid int, stats model.TeamStats) (bool, error) {
	patch, err := encode(stats)
	if err != nil {
		return false, err
	}
	tag, err := s.pool.Exec(ctx, "update_team_stats", tid, patch)
	if err != nil {
		return false, errors.Wrapf(err, "update team %d", tid)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) CountPlayersByName(ctx context.Context, name string) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, "count_players_by_name", name).Scan(&n); err != nil {
		return 0, errors.Wrapf(err, "count players named %q", name)
	}
	return n, nil
}

func (s *Store) SetPlayerIDByName(ctx context.Context, name, playerID string) (bool, error) {
	tag, err := s.pool.Exec(ctx, "set_player_id_by_name", name, playerID)
	if err != nil {
		return false, errors.Wrapf(err, "set playerId for %q", name)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) ClearPlayerGameLogs(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, "clear_player_game_logs")
	if err != nil {
		return 0, errors.Wrap(err, "clear player game logs")
	}
	return tag.RowsAffected(), nil
}

func (s *Store) SetPlayerGameLogs(ctx context.Context, playerID string, logs []model.GameLog) (bool, error) {
	if logs == nil {
		logs = []model.GameLog{}
	}
	doc, err := encode(logs)
	if err != nil {
		return false, err
	}
	tag, err := s.pool.Exec(ctx, "set_player_game_logs", playerID, doc)
	if err != nil {
		return false, errors.Wrapf(err, "set game logs for %s", playerID)
	}
	return tag.RowsAffected() > 0, nil
}

// --------------------------------------------------------------------------
// Groupings
// --------------------------------------------------------------------------

func (s *Store) GameLogPlayerGroups(ctx context.Context) ([]store.PlayerGroup, error) {
	rows, err := s.pool.Query(ctx, "game_log_player_groups")
	if err != nil {
		return nil, errors.Wrap(err, "group game logs by player name")
	}
	groups, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (store.PlayerGroup, error) {
		var g store.PlayerGroup
		err := row.Scan(&g.Name, &g.Team, &g.PlayerID, &g.Games)
		return g, err
	})
	return groups, errors.Wrap(err, "scan player groups")
}

func (s *Store) GameLogsByPlayer(ctx context.Context) ([]store.GameLogGroup, error) {
	rows, err := s.pool.Query(ctx, "game_logs_by_player")
	if err != nil {
		return nil, errors.Wrap(err, "scan game logs")
	}
	defer rows.Close()

	var groups []store.GameLogGroup
	for rows.Next() {
		var (
			playerID string
			raw      []byte
		)
		if err := rows.Scan(&playerID, &raw); err != nil {
			return nil, errors.Wrap(err, "scan game log")
		}
		var gl model.GameLog
		if err := sonic.Unmarshal(raw, &gl); err != nil {
			return nil, errors.Wrap(err, "decode game log")
		}
		if n := len(groups); n > 0 && groups[n-1].PlayerID == playerID {
			groups[n-1].Logs = append(groups[n-1].Logs, gl)
			continue
		}
		groups = append(groups, store.GameLogGroup{PlayerID: playerID, Logs: []model.GameLog{gl}})
	}
	return groups, errors.Wrap(rows.Err(), "scan game logs")
}

// --------------------------------------------------------------------------
// Reads
// --------------------------------------------------------------------------

func queryDocs[T any](ctx context.Context, s *Store, sql string, args ...any) ([]T, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "query %s", sql)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (T, error) {
		var (
			raw []byte
			v   T
		)
		if err := row.Scan(&raw); err != nil {
			return v, err
		}
		return v, sonic.Unmarshal(raw, &v)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", sql)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func queryDoc[T any](ctx context.Context, s *Store, sql string, args ...any) (T, error) {
	var (
		raw []byte
		v   T
	)
	err := s.pool.QueryRow(ctx, sql, args...).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return v, errors.Wrapf(store.ErrNotFound, "%s %v", sql, args)
	}
	if err != nil {
		return v, errors.Wrapf(err, "query %s", sql)
	}
	if err := sonic.Unmarshal(raw, &v); err != nil {
		return v, errors.Wrapf(err, "decode %s", sql)
	}
	return v, nil
}

func (s *Store) ListTeams(ctx context.Context) ([]model.Team, error) {
	return queryDocs[model.Team](ctx, s, "list_teams")
}

func (s *Store) TeamByID(ctx context.Context, id string) (model.Team, error) {
	return queryDoc[model.Team](ctx, s, "team_by_id", id)
}

func (s *Store) TeamByTID(ctx context.Context, tid int) (model.Team, error) {
	return queryDoc[model.Team](ctx, s, "team_by_tid", tid)
}

func (s *Store) SearchTeams(ctx context.Context, q string) ([]model.Team, error) {
	return queryDocs[model.Team](ctx, s, "search_teams", likeEscape(q))
}

func (s *Store) ListPlayers(ctx context.Context, tid *int) ([]model.Player, error) {
	if tid != nil {
		return queryDocs[model.Player](ctx, s, "list_players_by_tid", *tid)
	}
	return queryDocs[model.Player](ctx, s, "list_players")
}

func (s *Store) PlayerByID(ctx context.Context, id string) (model.Player, error) {
	return queryDoc[model.Player](ctx, s, "player_by_id", id)
}

func (s *Store) PlayerByPlayerID(ctx context.Context, playerID string) (model.Player, error) {
	return queryDoc[model.Player](ctx, s, "player_by_player_id", playerID)
}

func (s *Store) SearchPlayers(ctx context.Context, q string) ([]model.Player, error) {
	return queryDocs[model.Player](ctx, s, "search_players", likeEscape(q))
}

func (s *Store) GameLogsForPlayer(ctx context.Context, playerID string) ([]model.GameLog, error) {
	return queryDocs[model.GameLog](ctx, s, "game_logs_for_player", playerID)
}

// ListGames builds its WHERE clause from the filter, so it is not one of
// the prepared statements.
func (s *Store) ListGames(ctx context.Context, filter store.GameFilter) ([]model.Game, error) {
	sql, args := gamesQuery(filter)
	return queryDocs[model.Game](ctx, s, sql, args...)
}

func gamesQuery(filter store.GameFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	if filter.Team != "" {
		args = append(args, filter.Team)
		n := strconv.Itoa(len(args))
		where = append(where, "(home_team = $"+n+" OR away_team = $"+n+")")
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where = append(where, "status = $"+strconv.Itoa(len(args)))
	}
	sql := "SELECT doc FROM games"
	if len(where) > 0 {
		sql += " WHERE " + strings.Join(where, " AND ")
	}
	return sql + " ORDER BY seq", args
}

var likeReplacer = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likeEscape makes q match literally inside an ILIKE pattern.
func likeEscape(q string) string {
	return likeReplacer.Replace(q)
}
