// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

/*
Package ingest implements the five server-side ingestion jobs that keep the
catalog fresh:

  - discover:      find new storefront titles and enrich them in batches
  - libraries:     mirror each configured player's Steam library
  - prices:        refresh best third-party prices from the deal aggregator
  - trending:      re-derive trending rank scores from SteamSpy's top list
  - player_counts: rotate live concurrent-player counts through the catalog

Every run is bounded by the configured run budget, audited in the sync_log
table, and tolerant of per-item failures: one bad app never fails a run.
Gateway outages surface as job-fatal errors; everything narrower is logged,
counted, and skipped.
*/
package ingest

import (
	"context"
	"time"

	"github.com/gamenighthq/gamenight/internal/config"
	"github.com/gamenighthq/gamenight/internal/database"
	"github.com/gamenighthq/gamenight/internal/logging"
	"github.com/gamenighthq/gamenight/internal/metrics"
	"github.com/gamenighthq/gamenight/internal/models"
	"github.com/gamenighthq/gamenight/internal/steamapi"
)

// Job names as recorded in sync_log and metrics.
const (
	JobDiscover     = "discover"
	JobLibraries    = "libraries"
	JobPrices       = "prices"
	JobTrending     = "trending"
	JobPlayerCounts = "player_counts"
)

// Runner owns the gateway clients and executes ingestion jobs. Jobs are safe
// to trigger concurrently with each other; the store serializes writes.
type Runner struct {
	db     *database.DB
	store  *steamapi.BreakerStoreClient
	web    *steamapi.WebClient
	spy    *steamapi.SpyClient
	proton *steamapi.ProtonClient
	deals  *steamapi.DealsClient
	cfg    *config.Config
}

// NewRunner wires a Runner from configuration.
func NewRunner(cfg *config.Config, db *database.DB) *Runner {
	return &Runner{
		db:     db,
		store:  steamapi.NewBreakerStoreClient(steamapi.NewStoreClient(&cfg.Steam, cfg.Sync.StoreDelay)),
		web:    steamapi.NewWebClient(&cfg.Steam),
		spy:    steamapi.NewSpyClient(&cfg.SteamSpy),
		proton: steamapi.NewProtonClient(&cfg.ProtonDB),
		deals:  steamapi.NewDealsClient(&cfg.Deals),
		cfg:    cfg,
	}
}

// run wraps one job invocation with the run budget, the audit row, and
// metrics. The audit close uses a detached context so a budget-expired run
// still records its outcome.
func (r *Runner) run(ctx context.Context, job string, fn func(ctx context.Context) (int, error)) (int, error) {
	runCtx, cancel := context.WithTimeout(ctx, r.cfg.Sync.RunBudget)
	defer cancel()

	auditCtx := context.WithoutCancel(ctx)
	logID, err := r.db.BeginSyncLog(auditCtx, job)
	if err != nil {
		return 0, err
	}

	start := time.Now()
	logging.Info().Str("job", job).Msg("Sync run started")

	touched, runErr := fn(runCtx)

	status := models.SyncStatusSuccess
	if runErr != nil {
		status = models.SyncStatusError
		logging.Error().Err(runErr).Str("job", job).Int("games_updated", touched).Msg("Sync run failed")
	} else {
		logging.Info().Str("job", job).Int("games_updated", touched).
			Dur("duration", time.Since(start)).Msg("Sync run finished")
	}

	if err := r.db.FinishSyncLog(auditCtx, logID, status, touched, runErr); err != nil {
		logging.Error().Err(err).Str("job", job).Msg("Failed to close sync_log entry")
	}
	metrics.ObserveSyncRun(job, time.Since(start), touched, runErr)

	return touched, runErr
}

// skipItem logs and counts one tolerated per-item failure.
func skipItem(job, reason string, appID int64, err error) {
	metrics.SyncItemsSkipped.WithLabelValues(job, reason).Inc()
	ev := logging.Warn().Str("job", job).Str("reason", reason).Int64("app_id", appID)
	if err != nil {
		ev = ev.Err(err)
	}
	ev.Msg("Sync item skipped")
}
