// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

// Command server runs the Gamenight daemon: the ingestion jobs, the
// canonical DuckDB store, the client-local registers, and the HTTP API
// serving the group dashboard.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/gamenighthq/gamenight/internal/api"
	"github.com/gamenighthq/gamenight/internal/config"
	"github.com/gamenighthq/gamenight/internal/database"
	"github.com/gamenighthq/gamenight/internal/engine"
	"github.com/gamenighthq/gamenight/internal/ingest"
	"github.com/gamenighthq/gamenight/internal/logging"
	"github.com/gamenighthq/gamenight/internal/models"
	"github.com/gamenighthq/gamenight/internal/notify"
	"github.com/gamenighthq/gamenight/internal/register"
	"github.com/gamenighthq/gamenight/internal/scheduler"
	"github.com/gamenighthq/gamenight/internal/supervisor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().Msg("Starting Gamenight")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := notify.NewHub()

	db, err := database.New(&cfg.Database, hub)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open database")
	}
	defer func() { _ = db.Close() }()

	registers, err := register.Open(cfg.Registers.Path)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open register store")
	}
	defer func() { _ = registers.Close() }()

	if err := seedPlayers(ctx, cfg, db); err != nil {
		logging.Fatal().Err(err).Msg("Failed to seed player roster")
	}

	runner := ingest.NewRunner(cfg, db)

	view := engine.NewView(db)
	if err := view.Refresh(ctx); err != nil {
		logging.Error().Err(err).Msg("Initial view refresh failed")
	}

	handlers := api.NewHandlers(cfg, db, runner, view, registers, hub)
	server := api.NewServer(cfg.Server, api.NewRouter(handlers))

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})

	tree.AddIngestionService(&viewWatcher{view: view, hub: hub})
	for _, svc := range scheduler.Services(cfg.Scheduler, runner) {
		tree.AddIngestionService(svc)
	}
	tree.AddAPIService(server)

	// Shut the tree down on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Shutting down")
		cancel()
	}()

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree exited with error")
		os.Exit(1)
	}

	logging.Info().Msg("Shutdown complete")
}

// seedPlayers upserts the configured roster. Seeding preserves enrichment
// (avatars) already stored for known players.
func seedPlayers(ctx context.Context, cfg *config.Config, db *database.DB) error {
	for _, seed := range cfg.Steam.Players {
		player := &models.Player{
			Name:      seed.Name,
			SteamID:   seed.SteamID,
			IsPrimary: seed.Primary,
		}
		if err := db.SeedPlayer(ctx, player); err != nil {
			return err
		}
	}
	return nil
}

// viewWatcher runs the in-memory view's change subscription as a supervised
// service.
type viewWatcher struct {
	view *engine.View
	hub  *notify.Hub
}

func (w *viewWatcher) Serve(ctx context.Context) error {
	w.view.Watch(ctx, w.hub)
	return ctx.Err()
}

func (w *viewWatcher) String() string {
	return "view-watcher"
}
