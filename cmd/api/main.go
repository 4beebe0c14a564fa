// Command api is the Courtside Data API server.
//
// Usage:
//
//	courtside-api
//	PORT=8080 courtside-api

// @title Courtside Data API
// @version 1.0.0
// @description Basketball stats API serving teams, players, game logs, schedules, search, news and point predictions.
// @host localhost:5000
// @BasePath /
// @schemes http https
// @contact.name Courtside
// @license.name MIT
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/albapepper/courtside-data/internal/api"
	"github.com/albapepper/courtside-data/internal/api/handler"
	"github.com/albapepper/courtside-data/internal/cache"
	"github.com/albapepper/courtside-data/internal/config"
	"github.com/albapepper/courtside-data/internal/logging"
	"github.com/albapepper/courtside-data/internal/maintenance"
	"github.com/albapepper/courtside-data/internal/predict"
	"github.com/albapepper/courtside-data/internal/store/backend"

	_ "github.com/albapepper/courtside-data/docs" // swagger docs
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load configuration:", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Environment, cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	st, err := backend.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to connect to store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		if err := st.Close(closeCtx); err != nil {
			logger.Warn("Store close failed", "error", err)
		}
	}()

	appCache := cache.New(cfg.CacheEnabled)
	defer appCache.Close()
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled)

	predictor := predict.New(cfg)

	go maintenance.Start(ctx, st, maintenance.Config{
		RebuildInterval: cfg.GameLogRebuildInterval,
		OnRebuild: func(res maintenance.RebuildResult) {
			n := appCache.InvalidatePrefix(handler.PlayersKeyPrefix)
			logger.Info("Player cache invalidated", "keys", n, "players_updated", res.Updated)
		},
	}, logger)

	router := api.NewRouter(st, appCache, cfg, predictor, logger)

	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.PredictTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting Courtside Data API",
			"addr", addr,
			"environment", cfg.Environment,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
