// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

package ingest

import (
	"context"
)

// SyncPlayerCounts rotates live concurrent-player counts through the catalog,
// stalest check first. A gateway miss or hard error advances the check
// timestamp without touching the stored count, so unavailable games fall to
// the back of the rotation instead of being retried every run.
func (r *Runner) SyncPlayerCounts(ctx context.Context) (int, error) {
	return r.run(ctx, JobPlayerCounts, func(ctx context.Context) (int, error) {
		worklist, err := r.db.StalePlayerCountWorklist(ctx, r.cfg.Sync.PlayerCountBatch)
		if err != nil {
			return 0, err
		}

		touched := 0
		for _, game := range worklist {
			if ctx.Err() != nil {
				return touched, ctx.Err()
			}

			count, err := r.web.GetCurrentPlayers(ctx, game.SteamAppID)
			if err != nil {
				if ctx.Err() != nil {
					return touched, ctx.Err()
				}
				// Hard errors rotate like misses: advance the check stamp
				// so a persistently failing app cannot pin the worklist.
				skipItem(JobPlayerCounts, "gateway_error", game.SteamAppID, err)
				count = nil
			}

			if err := r.db.UpdateCurrentPlayers(ctx, game.ID, count); err != nil {
				skipItem(JobPlayerCounts, "store_error", game.SteamAppID, err)
				continue
			}
			if count != nil {
				touched++
			}
		}
		return touched, nil
	})
}
