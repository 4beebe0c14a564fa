// Package mongo is the MongoDB store driver, the primary backend. Documents
// keep the field names of the existing collections so the predictor script
// and the frontend read them unchanged.
package mongo

import (
	"context"
	"regexp"
	"time"

	"github.com/cockroachdb/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/albapepper/courtside-data/internal/config"
	"github.com/albapepper/courtside-data/internal/model"
	"github.com/albapepper/courtside-data/internal/store"
)

const defaultConnectTimeout = 10 * time.Second

// Store wraps a connected client and the four collections.
type Store struct {
	client   *mongo.Client
	teams    *mongo.Collection
	players  *mongo.Collection
	gameLogs *mongo.Collection
	games    *mongo.Collection
}

var _ store.Store = (*Store)(nil)

// New connects, pings the primary and returns the store. A failed ping
// disconnects before returning so no partial work can start.
func New(ctx context.Context, cfg *config.Config) (*Store, error) {
	timeout := cfg.DBConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}

	client, err := mongo.Connect(ctx, clientOptions(cfg, timeout))
	if err != nil {
		return nil, errors.Wrap(err, "connect mongo")
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "ping mongo")
	}

	db := client.Database(cfg.DatabaseName)
	return &Store{
		client:   client,
		teams:    db.Collection(model.TeamsCollection),
		players:  db.Collection(model.PlayersCollection),
		gameLogs: db.Collection(model.GameLogsCollection),
		games:    db.Collection(model.GamesCollection),
	}, nil
}

// clientOptions maps pool settings onto the driver. The driver has no
// connection lifetime cap, so only the idle timeout applies. String _id
// fields decode ObjectIDs as hex through the default string codec.
func clientOptions(cfg *config.Config, timeout time.Duration) *options.ClientOptions {
	opts := options.Client().
		ApplyURI(cfg.DatabaseURL).
		SetConnectTimeout(timeout).
		SetMinPoolSize(uint64(cfg.DBPoolMinConns)).
		SetMaxPoolSize(uint64(cfg.DBPoolMaxConns)).
		SetBSONOptions(&options.BSONOptions{
			DefaultDocumentM: true,
			NilSliceAsEmpty:  true,
		})
	if cfg.DBPoolMaxIdle > 0 {
		opts.SetMaxConnIdleTime(cfg.DBPoolMaxIdle)
	}
	return opts
}

func (s *Store) Ping(ctx context.Context) error {
	return errors.Wrap(s.client.Ping(ctx, readpref.Primary()), "ping mongo")
}

func (s *Store) Close(ctx context.Context) error {
	return errors.Wrap(s.client.Disconnect(ctx), "disconnect mongo")
}

// EnsureSchema creates the lookup indexes and the unique keys on
// games.gameId and teams.tid.
func (s *Store) EnsureSchema(ctx context.Context) error {
	indexes := map[*mongo.Collection][]mongo.IndexModel{
		s.games: {
			{Keys: bson.D{{Key: "gameId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		s.teams: {
			{Keys: bson.D{{Key: "tid", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		s.players: {
			{Keys: bson.D{{Key: "name", Value: 1}}},
			{Keys: bson.D{{Key: "playerId", Value: 1}}},
			{Keys: bson.D{{Key: "tid", Value: 1}}},
		},
		s.gameLogs: {
			{Keys: bson.D{{Key: "playerId", Value: 1}, {Key: "_id", Value: 1}}},
			{Keys: bson.D{{Key: "playerName", Value: 1}}},
		},
	}
	for coll, models := range indexes {
		if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
			return errors.Wrapf(err, "create indexes on %s", coll.Name())
		}
	}
	return nil
}

// --------------------------------------------------------------------------
// Inserts
// --------------------------------------------------------------------------

func (s *Store) InsertTeams(ctx context.Context, teams []model.Team) (int, error) {
	return insertOrdered(ctx, s.teams, toDocs(teams))
}

func (s *Store) InsertPlayers(ctx context.Context, players []model.Player) (int, error) {
	valid := len(players)
	var checkErr error
	for i, p := range players {
		if err := store.CheckPlayer(p); err != nil {
			valid, checkErr = i, errors.Wrapf(err, "player %d", i)
			break
		}
	}
	n, err := insertOrdered(ctx, s.players, toDocs(players[:valid]))
	if err != nil {
		return n, err
	}
	return n, checkErr
}

func (s *Store) InsertGameLogs(ctx context.Context, logs []model.GameLog) (int, error) {
	return insertOrdered(ctx, s.gameLogs, toDocs(logs))
}

func (s *Store) InsertGames(ctx context.Context, games []model.Game) (int, error) {
	return insertOrdered(ctx, s.games, toDocs(games))
}

// InsertPlayersBestEffort sends one unordered InsertMany and maps each
// write error back to its input index. Duplicate keys are Skipped, every
// other write error is Failed.
func (s *Store) InsertPlayersBestEffort(ctx context.Context, players []model.Player) []store.RecordResult {
	results := make([]store.RecordResult, len(players))
	docs := make([]any, 0, len(players))
	sent := make([]int, 0, len(players))
	for i, p := range players {
		results[i] = store.RecordResult{Index: i, Key: p.Name, Status: store.Inserted}
		if err := store.CheckPlayer(p); err != nil {
			results[i].Status = store.Failed
			results[i].Err = err
			continue
		}
		docs = append(docs, p)
		sent = append(sent, i)
	}
	if len(docs) == 0 {
		return results
	}

	_, err := s.players.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err == nil {
		return results
	}

	var bwe mongo.BulkWriteException
	if !errors.As(err, &bwe) || len(bwe.WriteErrors) == 0 {
		for _, i := range sent {
			results[i].Status = store.Failed
			results[i].Err = errors.Wrap(err, "insert players")
		}
		return results
	}
	for _, we := range bwe.WriteErrors {
		if we.Index < 0 || we.Index >= len(sent) {
			continue
		}
		i := sent[we.Index]
		if isDuplicate(we.Code) {
			results[i].Status = store.Skipped
			results[i].Err = errors.Wrap(store.ErrDuplicate, we.Message)
			continue
		}
		results[i].Status = store.Failed
		results[i].Err = errors.Newf("write error %d: %s", we.Code, we.Message)
	}
	return results
}

// isDuplicate reports whether a server write error code is a unique index
// violation.
func isDuplicate(code int) bool {
	return code == 11000 || code == 11001 || code == 12582
}

func toDocs[T any](items []T) []any {
	docs := make([]any, len(items))
	for i := range items {
		docs[i] = items[i]
	}
	return docs
}

// insertOrdered writes docs in order and stops at the first failure. The
// index of that failure is the number of documents written before it.
func insertOrdered(ctx context.Context, coll *mongo.Collection, docs []any) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}
	_, err := coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	if err == nil {
		return len(docs), nil
	}

	var bwe mongo.BulkWriteException
	if errors.As(err, &bwe) && len(bwe.WriteErrors) > 0 {
		first := bwe.WriteErrors[0]
		if isDuplicate(first.Code) {
			return first.Index, errors.Wrapf(store.ErrDuplicate, "%s record %d: %s", coll.Name(), first.Index, first.Message)
		}
		return first.Index, errors.Newf("insert %s record %d: %s", coll.Name(), first.Index, first.Message)
	}
	return 0, errors.Wrapf(err, "insert %s", coll.Name())
}

// --------------------------------------------------------------------------
// Updates
// --------------------------------------------------------------------------

func (s *Store) UpdateTeamStats(ctx context.Context, tid int, stats model.TeamStats) (bool, error) {
	res, err := s.teams.UpdateOne(ctx,
		bson.M{"tid": tid},
		bson.M{"$set": stats},
		options.Update().SetUpsert(false),
	)
	if err != nil {
		return false, errors.Wrapf(err, "update team %d", tid)
	}
	return res.MatchedCount > 0, nil
}

func (s *Store) CountPlayersByName(ctx context.Context, name string) (int, error) {
	n, err := s.players.CountDocuments(ctx, bson.M{"name": name})
	if err != nil {
		return 0, errors.Wrapf(err, "count players named %q", name)
	}
	return int(n), nil
}

func (s *Store) SetPlayerIDByName(ctx context.Context, name, playerID string) (bool, error) {
	res, err := s.players.UpdateOne(ctx, bson.M{"name": name}, bson.M{"$set": bson.M{"playerId": playerID}})
	if err != nil {
		return false, errors.Wrapf(err, "set playerId for %q", name)
	}
	return res.MatchedCount > 0, nil
}

func (s *Store) ClearPlayerGameLogs(ctx context.Context) (int64, error) {
	res, err := s.players.UpdateMany(ctx, bson.M{}, bson.M{"$set": bson.M{"gameLogs": bson.A{}}})
	if err != nil {
		return 0, errors.Wrap(err, "clear player game logs")
	}
	return res.MatchedCount, nil
}

func (s *Store) SetPlayerGameLogs(ctx context.Context, playerID string, logs []model.GameLog) (bool, error) {
	if logs == nil {
		logs = []model.GameLog{}
	}
	res, err := s.players.UpdateOne(ctx, bson.M{"playerId": playerID}, bson.M{"$set": bson.M{"gameLogs": logs}})
	if err != nil {
		return false, errors.Wrapf(err, "set game logs for %s", playerID)
	}
	return res.MatchedCount > 0, nil
}

// --------------------------------------------------------------------------
// Groupings
// --------------------------------------------------------------------------

type playerGroupDoc struct {
	Name     string `bson:"_id"`
	Team     string `bson:"team"`
	PlayerID string `bson:"playerId"`
	Games    int    `bson:"games"`
}

// GameLogPlayerGroups groups in _id order so $first is the first-seen row,
// then orders groups by their first row.
func (s *Store) GameLogPlayerGroups(ctx context.Context) ([]store.PlayerGroup, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$playerName"},
			{Key: "team", Value: bson.D{{Key: "$first", Value: "$team"}}},
			{Key: "playerId", Value: bson.D{{Key: "$first", Value: "$playerId"}}},
			{Key: "games", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "firstSeen", Value: bson.D{{Key: "$first", Value: "$_id"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "firstSeen", Value: 1}}}},
	}
	cursor, err := s.gameLogs.Aggregate(ctx, pipeline, options.Aggregate().SetAllowDiskUse(true))
	if err != nil {
		return nil, errors.Wrap(err, "group game logs by player name")
	}
	var docs []playerGroupDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decode player groups")
	}
	groups := make([]store.PlayerGroup, len(docs))
	for i, d := range docs {
		groups[i] = store.PlayerGroup(d)
	}
	return groups, nil
}

// GameLogsByPlayer streams the collection sorted by (playerId, _id) and cuts
// it into groups, so no single group has to fit in one aggregation document.
func (s *Store) GameLogsByPlayer(ctx context.Context) ([]store.GameLogGroup, error) {
	opts := options.Find().SetSort(bson.D{{Key: "playerId", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.gameLogs.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "scan game logs")
	}
	defer cursor.Close(ctx)

	var groups []store.GameLogGroup
	for cursor.Next(ctx) {
		var gl model.GameLog
		if err := cursor.Decode(&gl); err != nil {
			return nil, errors.Wrap(err, "decode game log")
		}
		if n := len(groups); n > 0 && groups[n-1].PlayerID == gl.PlayerID {
			groups[n-1].Logs = append(groups[n-1].Logs, gl)
			continue
		}
		groups = append(groups, store.GameLogGroup{PlayerID: gl.PlayerID, Logs: []model.GameLog{gl}})
	}
	return groups, errors.Wrap(cursor.Err(), "scan game logs")
}

// --------------------------------------------------------------------------
// Reads
// --------------------------------------------------------------------------

func (s *Store) ListTeams(ctx context.Context) ([]model.Team, error) {
	return findAll[model.Team](ctx, s.teams, bson.M{})
}

func (s *Store) TeamByID(ctx context.Context, id string) (model.Team, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return model.Team{}, errors.Wrapf(store.ErrInvalidID, "team %q", id)
	}
	return findOne[model.Team](ctx, s.teams, bson.M{"_id": oid})
}

func (s *Store) TeamByTID(ctx context.Context, tid int) (model.Team, error) {
	return findOne[model.Team](ctx, s.teams, bson.M{"tid": tid})
}

func (s *Store) SearchTeams(ctx context.Context, q string) ([]model.Team, error) {
	return findAll[model.Team](ctx, s.teams, nameFilter(q))
}

func (s *Store) ListPlayers(ctx context.Context, tid *int) ([]model.Player, error) {
	filter := bson.M{}
	if tid != nil {
		filter["tid"] = *tid
	}
	return findAll[model.Player](ctx, s.players, filter)
}

func (s *Store) PlayerByID(ctx context.Context, id string) (model.Player, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return model.Player{}, errors.Wrapf(store.ErrInvalidID, "player %q", id)
	}
	return findOne[model.Player](ctx, s.players, bson.M{"_id": oid})
}

func (s *Store) PlayerByPlayerID(ctx context.Context, playerID string) (model.Player, error) {
	return findOne[model.Player](ctx, s.players, bson.M{"playerId": playerID})
}

func (s *Store) SearchPlayers(ctx context.Context, q string) ([]model.Player, error) {
	return findAll[model.Player](ctx, s.players, nameFilter(q))
}

func (s *Store) GameLogsForPlayer(ctx context.Context, playerID string) ([]model.GameLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	return findAll[model.GameLog](ctx, s.gameLogs, bson.M{"playerId": playerID}, opts)
}

func (s *Store) ListGames(ctx context.Context, filter store.GameFilter) ([]model.Game, error) {
	q := bson.M{}
	if filter.Team != "" {
		q["$or"] = bson.A{bson.M{"homeTeam": filter.Team}, bson.M{"awayTeam": filter.Team}}
	}
	if filter.Status != "" {
		q["status"] = filter.Status
	}
	return findAll[model.Game](ctx, s.games, q)
}

// nameFilter is a case-insensitive substring match on name. The query is
// escaped so user input is never interpreted as a pattern.
func nameFilter(q string) bson.M {
	return bson.M{"name": primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}}
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "find %s", coll.Name())
	}
	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, errors.Wrapf(err, "decode %s", coll.Name())
	}
	return out, nil
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter any) (T, error) {
	var out T
	err := coll.FindOne(ctx, filter).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return out, errors.Wrapf(store.ErrNotFound, "%s %v", coll.Name(), filter)
	}
	if err != nil {
		return out, errors.Wrapf(err, "find one %s", coll.Name())
	}
	return out, nil
}
