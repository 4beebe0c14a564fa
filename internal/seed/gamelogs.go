package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/albapepper/courtside-data/internal/model"
	"github.com/albapepper/courtside-data/internal/parse"
	"github.com/albapepper/courtside-data/internal/store"
)

// gameLogBatch bounds how many game logs go to the store per call. Batches
// are sent in file order and the first failing batch ends the import.
const gameLogBatch = 1000

// ImportGameLogs loads a player game log CSV. Rows without a Player_ID are
// skipped with a warning; everything else is inserted in order. Exports
// without a PLAYER_NAME column get the name of the stored player with the
// same playerId, when there is one.
func ImportGameLogs(ctx context.Context, st store.Store, r io.Reader, logger *slog.Logger) (result Result, err error) {
	result.Job = "gamelogs"
	defer logFinal(logger, &result, &err)

	var (
		logs   []model.GameLog
		filled int
	)
	names := newNameLookup(st)
	err = parse.ReadCSV(r, parse.CSVOptions{}, func(line int, row parse.Row) error {
		result.Read++
		gl := parse.GameLogRow(row)
		if err := parse.Validate(gl); err != nil {
			result.Skipf("line %d: %v", line, err)
			return nil
		}
		if gl.PlayerName == "" {
			name, err := names.get(ctx, gl.PlayerID)
			if err != nil {
				return fmt.Errorf("line %d: %w", line, err)
			}
			if name != "" {
				gl.PlayerName = name
				filled++
			}
		}
		logs = append(logs, gl)
		return nil
	})
	if err != nil {
		return result, err
	}
	logger.Info("Game logs parsed", "rows", result.Read, "valid", len(logs), "names_filled", filled)

	for start := 0; start < len(logs); start += gameLogBatch {
		end := min(start+gameLogBatch, len(logs))
		n, err := st.InsertGameLogs(ctx, logs[start:end])
		result.Inserted += n
		if err != nil {
			return result, fmt.Errorf("insert game logs at record %d: %w", start+n, err)
		}
		if end < len(logs) {
			logger.Info("Game log progress", "inserted", result.Inserted)
		}
	}
	return result, nil
}

// nameLookup resolves playerId to a stored player's name, once per id.
type nameLookup struct {
	st    store.Store
	names map[string]string
}

func newNameLookup(st store.Store) *nameLookup {
	return &nameLookup{st: st, names: make(map[string]string)}
}

// get returns "" for ids with no stored player.
func (l *nameLookup) get(ctx context.Context, playerID string) (string, error) {
	if name, ok := l.names[playerID]; ok {
		return name, nil
	}
	p, err := l.st.PlayerByPlayerID(ctx, playerID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		l.names[playerID] = ""
		return "", nil
	case err != nil:
		return "", fmt.Errorf("look up player %s: %w", playerID, err)
	}
	l.names[playerID] = p.Name
	return p.Name, nil
}
