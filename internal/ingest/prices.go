// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

package ingest

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/gamenighthq/gamenight/internal/logging"
)

var errAllPlayersFailed = errors.New("library sync failed for every player")

// SyncPrices refreshes best third-party prices for the stalest slice of the
// priceable catalog. The exchange with the deal aggregator is two-phase: app
// ids resolve to aggregator ids in parallel, then one batched overview call
// fetches every current price.
//
// Without an aggregator API key the job is a successful no-op, so schedules
// can include it unconditionally.
func (r *Runner) SyncPrices(ctx context.Context) (int, error) {
	return r.run(ctx, JobPrices, func(ctx context.Context) (int, error) {
		if !r.deals.Configured() {
			logging.Debug().Msg("No deal aggregator key; price sync skipped")
			return 0, nil
		}

		worklist, err := r.db.StalePriceWorklist(ctx, r.cfg.Sync.PriceBatch)
		if err != nil {
			return 0, err
		}
		if len(worklist) == 0 {
			return 0, nil
		}

		// Phase 1: resolve app ids into the aggregator's namespace.
		type resolved struct {
			gameID uuid.UUID
			dealID string
		}
		var (
			mu       sync.Mutex
			byDealID = make(map[string]resolved, len(worklist))
			wg       sync.WaitGroup
		)
		for _, game := range worklist {
			wg.Add(1)
			go func(rowID uuid.UUID, appID int64) {
				defer wg.Done()
				dealGame, err := r.deals.Lookup(ctx, appID)
				if err != nil {
					skipItem(JobPrices, "lookup_error", appID, err)
					return
				}
				if dealGame == nil {
					skipItem(JobPrices, "not_tracked", appID, nil)
					return
				}
				mu.Lock()
				byDealID[dealGame.ID] = resolved{gameID: rowID, dealID: dealGame.ID}
				mu.Unlock()
			}(game.ID, game.SteamAppID)
		}
		wg.Wait()

		if len(byDealID) == 0 {
			return 0, nil
		}

		// Phase 2: one batched overview for every resolved id.
		dealIDs := make([]string, 0, len(byDealID))
		for id := range byDealID {
			dealIDs = append(dealIDs, id)
		}
		prices, err := r.deals.Overview(ctx, dealIDs)
		if err != nil {
			return 0, err
		}

		touched := 0
		for _, price := range prices {
			entry, ok := byDealID[price.ID]
			if !ok || price.Current == nil {
				continue
			}

			var store, dealURL *string
			if price.Current.Shop != nil {
				store = &price.Current.Shop.Name
			}
			if price.Current.URL != "" {
				u := price.Current.URL
				dealURL = &u
			}

			if err := r.db.UpdateBestPrice(ctx, entry.gameID, price.Current.Price.AmountInt, store, dealURL); err != nil {
				logging.Warn().Err(err).Str("deal_id", price.ID).Msg("Best price update failed")
				continue
			}
			touched++
		}
		return touched, nil
	})
}
