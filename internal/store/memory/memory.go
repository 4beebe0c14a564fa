// Package memory is an in-process store used by tests and by
// STORE_DRIVER=memory for local runs. It enforces the same unique keys as
// the mongo indexes: teams.tid and games.gameId.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/albapepper/courtside-data/internal/model"
	"github.com/albapepper/courtside-data/internal/store"
)

// Store keeps each collection as a slice in insertion order.
type Store struct {
	mu       sync.RWMutex
	teams    []model.Team
	players  []model.Player
	gameLogs []model.GameLog
	games    []model.Game
	closed   bool
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

var _ store.Store = (*Store)(nil)

// errClosed is returned by every operation once Close has been called.
var errClosed = errors.New("memory store closed")

func newID() string {
	return primitive.NewObjectID().Hex()
}

func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return errClosed
	}
	return nil
}

func (s *Store) Close(_ context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

func (s *Store) EnsureSchema(ctx context.Context) error { return s.Ping(ctx) }

// --------------------------------------------------------------------------
// Inserts
// --------------------------------------------------------------------------

func (s *Store) InsertTeams(_ context.Context, teams []model.Team) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, errClosed
	}
	for i, t := range teams {
		if slices.ContainsFunc(s.teams, func(e model.Team) bool { return e.TID == t.TID }) {
			return i, errors.Wrapf(store.ErrDuplicate, "team tid %d", t.TID)
		}
		if t.ID == "" {
			t.ID = newID()
		}
		s.teams = append(s.teams, t)
	}
	return len(teams), nil
}

func (s *Store) InsertPlayers(_ context.Context, players []model.Player) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, errClosed
	}
	for i, p := range players {
		if err := s.insertPlayerLocked(p); err != nil {
			return i, err
		}
	}
	return len(players), nil
}

func (s *Store) InsertPlayersBestEffort(_ context.Context, players []model.Player) []store.RecordResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	results := make([]store.RecordResult, len(players))
	for i, p := range players {
		res := store.RecordResult{Index: i, Key: p.Name, Status: store.Inserted}
		if s.closed {
			res.Status, res.Err = store.Failed, errClosed
			results[i] = res
			continue
		}
		if err := s.insertPlayerLocked(p); err != nil {
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

func (s *Store) insertPlayerLocked(p model.Player) error {
	if err := store.CheckPlayer(p); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = newID()
	} else if slices.ContainsFunc(s.players, func(e model.Player) bool { return e.ID == p.ID }) {
		return errors.Wrapf(store.ErrDuplicate, "player _id %s", p.ID)
	}
	if p.GameLogs == nil {
		p.GameLogs = []model.GameLog{}
	}
	s.players = append(s.players, clonePlayer(p))
	return nil
}

func (s *Store) InsertGameLogs(_ context.Context, logs []model.GameLog) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, errClosed
	}
	for _, gl := range logs {
		if gl.ID == "" {
			gl.ID = newID()
		}
		s.gameLogs = append(s.gameLogs, gl)
	}
	return len(logs), nil
}

func (s *Store) InsertGames(_ context.Context, games []model.Game) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, errClosed
	}
	for i, g := range games {
		if slices.ContainsFunc(s.games, func(e model.Game) bool { return e.GameID == g.GameID }) {
			return i, errors.Wrapf(store.ErrDuplicate, "game %s", g.GameID)
		}
		if g.ID == "" {
			g.ID = newID()
		}
		s.games = append(s.games, g)
	}
	return len(games), nil
}

// --------------------------------------------------------------------------
// Updates
// --------------------------------------------------------------------------

func (s *Store) UpdateTeamStats(_ context.Context, tid int, stats model.TeamStats) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, errClosed
	}
	for i := range s.teams {
		if s.teams[i].TID == tid {
			stats.Apply(&s.teams[i])
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) GameLogPlayerGroups(_ context.Context) ([]store.PlayerGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errClosed
	}
	index := make(map[string]int)
	var groups []store.PlayerGroup
	for _, gl := range s.gameLogs {
		i, ok := index[gl.PlayerName]
		if !ok {
			index[gl.PlayerName] = len(groups)
			groups = append(groups, store.PlayerGroup{Name: gl.PlayerName, Team: gl.Team, PlayerID: gl.PlayerID, Games: 1})
			continue
		}
		groups[i].Games++
	}
	return groups, nil
}

func (s *Store) CountPlayersByName(_ context.Context, name string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, errClosed
	}
	n := 0
	for _, p := range s.players {
		if p.Name == name {
			n++
		}
	}
	return n, nil
}

func (s *Store) SetPlayerIDByName(_ context.Context, name, playerID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, errClosed
	}
	for i := range s.players {
		if s.players[i].Name == name {
			s.players[i].PlayerID = playerID
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) ClearPlayerGameLogs(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, errClosed
	}
	for i := range s.players {
		s.players[i].GameLogs = []model.GameLog{}
	}
	return int64(len(s.players)), nil
}

func (s *Store) GameLogsByPlayer(_ context.Context) ([]store.GameLogGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errClosed
	}
	byID := make(map[string][]model.GameLog)
	for _, gl := range s.gameLogs {
		byID[gl.PlayerID] = append(byID[gl.PlayerID], gl)
	}
	groups := make([]store.GameLogGroup, 0, len(byID))
	for id, logs := range byID {
		groups = append(groups, store.GameLogGroup{PlayerID: id, Logs: logs})
	}
	slices.SortFunc(groups, func(a, b store.GameLogGroup) int {
		return strings.Compare(a.PlayerID, b.PlayerID)
	})
	return groups, nil
}

func (s *Store) SetPlayerGameLogs(_ context.Context, playerID string, logs []model.GameLog) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, errClosed
	}
	for i := range s.players {
		if s.players[i].PlayerID == playerID {
			s.players[i].GameLogs = slices.Clone(logs)
			if s.players[i].GameLogs == nil {
				s.players[i].GameLogs = []model.GameLog{}
			}
			return true, nil
		}
	}
	return false, nil
}

// --------------------------------------------------------------------------
// Reads
// --------------------------------------------------------------------------

func (s *Store) ListTeams(_ context.Context) ([]model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errClosed
	}
	return slices.Clone(s.teams), nil
}

func (s *Store) TeamByID(_ context.Context, id string) (model.Team, error) {
	return s.findTeam(func(t model.Team) bool { return t.ID == id }, id)
}

func (s *Store) TeamByTID(_ context.Context, tid int) (model.Team, error) {
	return s.findTeam(func(t model.Team) bool { return t.TID == tid }, tid)
}

func (s *Store) findTeam(match func(model.Team) bool, key any) (model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return model.Team{}, errClosed
	}
	for _, t := range s.teams {
		if match(t) {
			return t, nil
		}
	}
	return model.Team{}, errors.Wrapf(store.ErrNotFound, "team %v", key)
}

func (s *Store) SearchTeams(_ context.Context, q string) ([]model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errClosed
	}
	out := []model.Team{}
	for _, t := range s.teams {
		if containsFold(t.Name, q) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *Store) ListPlayers(_ context.Context, tid *int) ([]model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errClosed
	}
	out := []model.Player{}
	for _, p := range s.players {
		if tid != nil && (p.TID == nil || *p.TID != *tid) {
			continue
		}
		out = append(out, clonePlayer(p))
	}
	return out, nil
}

func (s *Store) PlayerByID(_ context.Context, id string) (model.Player, error) {
	return s.findPlayer(func(p model.Player) bool { return p.ID == id }, id)
}

func (s *Store) PlayerByPlayerID(_ context.Context, playerID string) (model.Player, error) {
	return s.findPlayer(func(p model.Player) bool { return p.PlayerID == playerID }, playerID)
}

func (s *Store) findPlayer(match func(model.Player) bool, key string) (model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return model.Player{}, errClosed
	}
	for _, p := range s.players {
		if match(p) {
			return clonePlayer(p), nil
		}
	}
	return model.Player{}, errors.Wrapf(store.ErrNotFound, "player %s", key)
}

func (s *Store) SearchPlayers(_ context.Context, q string) ([]model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errClosed
	}
	out := []model.Player{}
	for _, p := range s.players {
		if containsFold(p.Name, q) {
			out = append(out, clonePlayer(p))
		}
	}
	return out, nil
}

func (s *Store) GameLogsForPlayer(_ context.Context, playerID string) ([]model.GameLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errClosed
	}
	out := []model.GameLog{}
	for _, gl := range s.gameLogs {
		if gl.PlayerID == playerID {
			out = append(out, gl)
		}
	}
	return out, nil
}

func (s *Store) ListGames(_ context.Context, filter store.GameFilter) ([]model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errClosed
	}
	out := []model.Game{}
	for _, g := range s.games {
		if filter.Team != "" && g.HomeTeam != filter.Team && g.AwayTeam != filter.Team {
			continue
		}
		if filter.Status != "" && g.Status != filter.Status {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func clonePlayer(p model.Player) model.Player {
	p.GameLogs = slices.Clone(p.GameLogs)
	if p.GameLogs == nil {
		p.GameLogs = []model.GameLog{}
	}
	if p.TID != nil {
		p.TID = model.TIDPtr(*p.TID)
	}
	return p
}
