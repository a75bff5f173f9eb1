// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

package ingest

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/gamenighthq/gamenight/internal/logging"
)

// errAllSourcesFailed marks a discovery phase where no source produced data.
var errAllSourcesFailed = errors.New("all discovery sources failed")

// Storefront named listings fanned out during the discovery phase, alongside
// the SteamSpy top lists and the storefront front page.
var discoverListings = []string{
	"globaltopsellers",
	"topsellers",
	"popularnew",
	"popularcomingsoon",
}

const discoverListingCount = 50

// DiscoverItem is the per-app outcome of one enrichment attempt.
type DiscoverItem struct {
	AppID  int64  `json:"app_id"`
	Name   string `json:"name,omitempty"`
	Status string `json:"status"` // added | skipped | error
	Reason string `json:"reason,omitempty"`
}

// DiscoverResult is the continuation envelope. When PendingAppIDs is
// non-empty the caller re-invokes the job with it verbatim; Done marks the
// final call of a chain.
type DiscoverResult struct {
	Discovered    int            `json:"discovered"`
	Processed     []DiscoverItem `json:"processed"`
	PendingAppIDs []int64        `json:"pending_app_ids"`
	Done          bool           `json:"done"`
}

// Discover runs one step of the discovery protocol. With no pending ids it
// fans out to all discovery sources, diffs against the catalog, and returns
// the full pending list without enriching anything. With pending ids it
// enriches one batch and returns the remainder.
//
// Each step is budgeted independently, so arbitrarily large catalogs are
// ingested across many short invocations.
func (r *Runner) Discover(ctx context.Context, pending []int64) (*DiscoverResult, error) {
	var result *DiscoverResult
	_, err := r.run(ctx, JobDiscover, func(ctx context.Context) (int, error) {
		var err error
		if len(pending) == 0 {
			result, err = r.discoverPhase(ctx)
		} else {
			result, err = r.enrichPhase(ctx, pending)
		}
		if result == nil {
			return 0, err
		}
		added := 0
		for _, item := range result.Processed {
			if item.Status == "added" {
				added++
			}
		}
		return added, err
	})
	return result, err
}

// discoverPhase fans out to every discovery source concurrently and returns
// the app ids not yet in the catalog. Individual source failures are
// tolerated; the phase fails only when every source fails.
func (r *Runner) discoverPhase(ctx context.Context) (*DiscoverResult, error) {
	type sourceResult struct {
		name string
		ids  []int64
		err  error
	}

	sources := []struct {
		name string
		fn   func(context.Context) ([]int64, error)
	}{
		{"spy_top_2weeks", r.spyTop2Weeks},
		{"spy_top_forever", r.spyTopForever},
		{"featured", r.store.FeaturedCategories},
	}
	for _, filter := range discoverListings {
		filter := filter
		sources = append(sources, struct {
			name string
			fn   func(context.Context) ([]int64, error)
		}{
			name: "listing:" + filter,
			fn: func(ctx context.Context) ([]int64, error) {
				return r.store.ListingAppIDs(ctx, filter, discoverListingCount)
			},
		})
	}

	results := make(chan sourceResult, len(sources))
	var wg sync.WaitGroup
	for _, src := range sources {
		wg.Add(1)
		go func(name string, fn func(context.Context) ([]int64, error)) {
			defer wg.Done()
			ids, err := fn(ctx)
			results <- sourceResult{name: name, ids: ids, err: err}
		}(src.name, src.fn)
	}
	wg.Wait()
	close(results)

	known, err := r.db.ListSteamAppIDs(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]struct{})
	var pending []int64
	failures := 0
	for res := range results {
		if res.err != nil {
			failures++
			logging.Warn().Err(res.err).Str("source", res.name).Msg("Discovery source failed")
			continue
		}
		for _, id := range res.ids {
			if _, exists := known[id]; exists {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			pending = append(pending, id)
		}
	}
	if failures == len(sources) {
		return nil, errAllSourcesFailed
	}

	// Deterministic continuation order.
	sort.Slice(pending, func(i, j int) bool { return pending[i] < pending[j] })

	logging.Info().Int("discovered", len(pending)).Int("known", len(known)).
		Msg("Discovery phase complete")

	return &DiscoverResult{
		Discovered:    len(pending),
		PendingAppIDs: pending,
		Done:          len(pending) == 0,
	}, nil
}

// enrichPhase processes the next batch of pending ids. Per-item failures are
// recorded in the item outcomes and never fail the step; a cancelled context
// returns the untouched remainder so no id is lost.
func (r *Runner) enrichPhase(ctx context.Context, pending []int64) (*DiscoverResult, error) {
	batch := r.cfg.Sync.DiscoverBatch
	if batch > len(pending) {
		batch = len(pending)
	}

	result := &DiscoverResult{Discovered: len(pending)}
	processed := 0
	for _, appID := range pending[:batch] {
		if ctx.Err() != nil {
			break
		}

		g, reason, err := r.enrichAndStore(ctx, appID)
		processed++
		switch {
		case err != nil:
			skipItem(JobDiscover, "gateway_error", appID, err)
			result.Processed = append(result.Processed, DiscoverItem{
				AppID: appID, Status: "error", Reason: err.Error(),
			})
		case reason != "":
			skipItem(JobDiscover, reason, appID, nil)
			result.Processed = append(result.Processed, DiscoverItem{
				AppID: appID, Status: "skipped", Reason: reason,
			})
		default:
			result.Processed = append(result.Processed, DiscoverItem{
				AppID: appID, Name: g.Name, Status: "added",
			})
		}
	}

	result.PendingAppIDs = pending[processed:]
	result.Done = len(result.PendingAppIDs) == 0
	return result, nil
}

func (r *Runner) spyTop2Weeks(ctx context.Context) ([]int64, error) {
	apps, err := r.spy.Top100In2Weeks(ctx)
	if err != nil {
		return nil, err
	}
	floor := r.cfg.Sync.SpyActiveFloor
	var ids []int64
	for _, app := range apps {
		if app.Average2Weeks >= floor {
			ids = append(ids, app.AppID)
		}
	}
	return ids, nil
}

func (r *Runner) spyTopForever(ctx context.Context) ([]int64, error) {
	apps, err := r.spy.Top100Forever(ctx)
	if err != nil {
		return nil, err
	}
	var ids []int64
	for _, app := range apps {
		ids = append(ids, app.AppID)
	}
	return ids, nil
}
