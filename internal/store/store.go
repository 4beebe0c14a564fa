// Package store defines the persistence contract shared by the import jobs,
// the reconciliation passes and the read API. Drivers live in the mongo,
// postgres and memory subpackages; backend.Open picks one from config.
package store

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/albapepper/courtside-data/internal/model"
)

var (
	// ErrNotFound is returned by single-record lookups that match nothing.
	ErrNotFound = errors.New("store: not found")
	// ErrDuplicate wraps unique-key violations on insert.
	ErrDuplicate = errors.New("store: duplicate key")
	// ErrUnsupportedDriver is returned by Open for an unknown driver name.
	ErrUnsupportedDriver = errors.New("store: unsupported driver")
	// ErrInvalidID marks a lookup id that is not in the driver's id format.
	ErrInvalidID = errors.New("store: invalid id")
)

// Store is a handle on the four collections. Handles are acquired once per
// job or process and released with Close.
type Store interface {
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
	// EnsureSchema creates indexes or runs migrations. Safe to repeat.
	EnsureSchema(ctx context.Context) error

	// Ordered inserts stop at the first failing record and report how many
	// records were written before it.
	InsertTeams(ctx context.Context, teams []model.Team) (int, error)
	InsertPlayers(ctx context.Context, players []model.Player) (int, error)
	InsertGameLogs(ctx context.Context, logs []model.GameLog) (int, error)
	InsertGames(ctx context.Context, games []model.Game) (int, error)

	// InsertPlayersBestEffort attempts every record and returns one result
	// per input, in input order.
	InsertPlayersBestEffort(ctx context.Context, players []model.Player) []RecordResult

	// UpdateTeamStats sets the stat fields on the team with the given tid.
	// It never inserts; matched is false when no team has that tid.
	UpdateTeamStats(ctx context.Context, tid int, stats model.TeamStats) (matched bool, err error)

	// GameLogPlayerGroups groups game logs by player name in natural order,
	// keeping the first-seen team and player id of each group.
	GameLogPlayerGroups(ctx context.Context) ([]PlayerGroup, error)
	CountPlayersByName(ctx context.Context, name string) (int, error)
	// SetPlayerIDByName sets playerId on the player with exactly this name.
	SetPlayerIDByName(ctx context.Context, name, playerID string) (matched bool, err error)

	// ClearPlayerGameLogs empties the embedded log array on every player.
	ClearPlayerGameLogs(ctx context.Context) (int64, error)
	// GameLogsByPlayer groups every game log by playerId. Groups are ordered
	// by playerId; logs inside a group keep storage order.
	GameLogsByPlayer(ctx context.Context) ([]GameLogGroup, error)
	// SetPlayerGameLogs overwrites the embedded array of the player with
	// this playerId.
	SetPlayerGameLogs(ctx context.Context, playerID string, logs []model.GameLog) (matched bool, err error)

	ListTeams(ctx context.Context) ([]model.Team, error)
	TeamByID(ctx context.Context, id string) (model.Team, error)
	TeamByTID(ctx context.Context, tid int) (model.Team, error)
	SearchTeams(ctx context.Context, q string) ([]model.Team, error)

	// ListPlayers returns every player, or only those on tid when non-nil.
	ListPlayers(ctx context.Context, tid *int) ([]model.Player, error)
	PlayerByID(ctx context.Context, id string) (model.Player, error)
	PlayerByPlayerID(ctx context.Context, playerID string) (model.Player, error)
	SearchPlayers(ctx context.Context, q string) ([]model.Player, error)

	// GameLogsForPlayer reads straight from the game log collection.
	GameLogsForPlayer(ctx context.Context, playerID string) ([]model.GameLog, error)
	ListGames(ctx context.Context, filter GameFilter) ([]model.Game, error)
}

// RecordStatus is the outcome of one record in a best-effort insert.
type RecordStatus int

const (
	Inserted RecordStatus = iota
	Skipped
	Failed
)

func (s RecordStatus) String() string {
	switch s {
	case Inserted:
		return "inserted"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// RecordResult reports what happened to input record Index. Err is set for
// Skipped (duplicate) and Failed records.
type RecordResult struct {
	Index  int
	Key    string
	Status RecordStatus
	Err    error
}

// CountResults tallies best-effort results by status.
func CountResults(results []RecordResult) (inserted, skipped, failed int) {
	for _, r := range results {
		switch r.Status {
		case Inserted:
			inserted++
		case Skipped:
			skipped++
		default:
			failed++
		}
	}
	return inserted, skipped, failed
}

// PlayerGroup is one distinct player name seen in the game logs.
type PlayerGroup struct {
	Name     string
	Team     string
	PlayerID string
	Games    int
}

// GameLogGroup is every game log of one playerId.
type GameLogGroup struct {
	PlayerID string
	Logs     []model.GameLog
}

// GameFilter narrows ListGames. Team matches either side of the game.
type GameFilter struct {
	Team   string
	Status model.GameStatus
}

// CheckPlayer is the write-time check every driver applies to players: a
// player must have a name.
func CheckPlayer(p model.Player) error {
	if p.Name == "" {
		return errors.New("player name is required")
	}
	return nil
}
