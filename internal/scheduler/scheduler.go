// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

// Package scheduler runs the ingestion jobs on fixed intervals. Each enabled
// job becomes one supervised service driven by a ticker; the HTTP trigger
// surface remains available regardless, so operators can force a run between
// ticks.
package scheduler

import (
	"context"
	"time"

	"github.com/gamenighthq/gamenight/internal/config"
	"github.com/gamenighthq/gamenight/internal/ingest"
	"github.com/gamenighthq/gamenight/internal/logging"
)

// JobService runs one ingestion job on a fixed interval. It implements
// suture.Service: Serve blocks until the context is canceled, and run
// failures are logged rather than returned so one bad tick never restarts
// the service.
type JobService struct {
	name     string
	interval time.Duration
	run      func(ctx context.Context) error
}

// NewJobService wraps a job function in a ticker-driven service.
func NewJobService(name string, interval time.Duration, run func(ctx context.Context) error) *JobService {
	return &JobService{name: name, interval: interval, run: run}
}

// Serve implements suture.Service. The first run happens one interval after
// startup, not immediately, so a crash-looping process does not hammer the
// external gateways.
func (j *JobService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := j.run(ctx); err != nil {
				logging.Warn().Err(err).Str("job", j.name).Msg("Scheduled run failed")
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// String implements fmt.Stringer for supervisor log messages.
func (j *JobService) String() string {
	return "scheduler-" + j.name
}

// Services builds the enabled job services for the configured intervals. A
// job with a non-positive interval is left unscheduled.
func Services(cfg config.SchedulerConfig, runner *ingest.Runner) []*JobService {
	if !cfg.Enabled {
		return nil
	}

	jobs := []struct {
		name     string
		interval time.Duration
		run      func(ctx context.Context) error
	}{
		{ingest.JobDiscover, cfg.DiscoverInterval, func(ctx context.Context) error {
			return runDiscover(ctx, runner)
		}},
		{ingest.JobLibraries, cfg.LibrariesInterval, func(ctx context.Context) error {
			_, err := runner.SyncLibraries(ctx)
			return err
		}},
		{ingest.JobPrices, cfg.PricesInterval, func(ctx context.Context) error {
			_, err := runner.SyncPrices(ctx)
			return err
		}},
		{ingest.JobTrending, cfg.TrendingInterval, func(ctx context.Context) error {
			_, err := runner.SyncTrending(ctx)
			return err
		}},
		{ingest.JobPlayerCounts, cfg.PlayerCountInterval, func(ctx context.Context) error {
			_, err := runner.SyncPlayerCounts(ctx)
			return err
		}},
	}

	services := make([]*JobService, 0, len(jobs))
	for _, job := range jobs {
		if job.interval <= 0 {
			continue
		}
		services = append(services, NewJobService(job.name, job.interval, job.run))
	}
	return services
}

// runDiscover drives the discover continuation to completion within one
// scheduled run: each call processes one batch and reports the remainder.
func runDiscover(ctx context.Context, runner *ingest.Runner) error {
	var pending []int64
	for {
		result, err := runner.Discover(ctx, pending)
		if err != nil {
			return err
		}
		if result.Done || len(result.PendingAppIDs) == 0 {
			return nil
		}
		pending = result.PendingAppIDs

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}
