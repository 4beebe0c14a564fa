// Package backend opens the store driver named by config.
package backend

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"

	"github.com/albapepper/courtside-data/internal/config"
	"github.com/albapepper/courtside-data/internal/store"
	"github.com/albapepper/courtside-data/internal/store/memory"
	"github.com/albapepper/courtside-data/internal/store/mongo"
	"github.com/albapepper/courtside-data/internal/store/postgres"
)

// Open connects to the configured store and verifies it is reachable.
// Callers own the handle and must Close it.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.StoreDriver {
	case config.DriverMongo:
		st, err = mongo.New(ctx, cfg)
	case config.DriverPostgres:
		st, err = postgres.New(ctx, cfg)
	case config.DriverMemory:
		st = memory.New()
	default:
		return nil, errors.Wrapf(store.ErrUnsupportedDriver, "%q", cfg.StoreDriver)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "open %s store", cfg.StoreDriver)
	}

	logger.Info("Store connected", "driver", cfg.StoreDriver, "database", cfg.DatabaseName)
	return st, nil
}
