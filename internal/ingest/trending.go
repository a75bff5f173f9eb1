// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

package ingest

import (
	"context"
	"sort"

	"github.com/gamenighthq/gamenight/internal/logging"
	"github.com/gamenighthq/gamenight/internal/models/steam"
)

const (
	// trendingSecondaryFloor admits unranked games into the secondary band
	// when their live player count exceeds it.
	trendingSecondaryFloor = 1000

	// trendingSecondaryLimit caps the secondary band's size.
	trendingSecondaryLimit = 100
)

// SyncTrending re-derives trending rank scores from scratch. SteamSpy's
// two-week top list maps onto a 100-point scale by rank; catalog games absent
// from the list but demonstrably busy get a secondary band below it, so a
// popular title never disappears from the trending tab just because SteamSpy
// rotated it out.
//
// All previous scores are cleared first: trending is a derived ranking, not
// an accumulating one.
func (r *Runner) SyncTrending(ctx context.Context) (int, error) {
	return r.run(ctx, JobTrending, func(ctx context.Context) (int, error) {
		apps, err := r.spy.Top100In2Weeks(ctx)
		if err != nil {
			return 0, err
		}

		known, err := r.db.ListSteamAppIDs(ctx)
		if err != nil {
			return 0, err
		}

		if err := r.db.ResetTrendingScores(ctx); err != nil {
			return 0, err
		}

		// The top list arrives keyed by app id; order by two-week average to
		// recover the ranking.
		ranked := make([]steam.SpyApp, 0, len(apps))
		for _, app := range apps {
			ranked = append(ranked, app)
		}
		sort.Slice(ranked, func(i, j int) bool {
			if ranked[i].Average2Weeks != ranked[j].Average2Weeks {
				return ranked[i].Average2Weeks > ranked[j].Average2Weeks
			}
			return ranked[i].AppID < ranked[j].AppID
		})

		touched := 0
		for i, app := range ranked {
			gameID, exists := known[app.AppID]
			if !exists {
				continue
			}
			score := 100 - i
			if score < 1 {
				score = 1
			}
			if err := r.db.SetTrendingScore(ctx, gameID, score); err != nil {
				skipItem(JobTrending, "store_error", app.AppID, err)
				continue
			}
			touched++
		}

		// Secondary band: busy catalog games SteamSpy left unranked.
		active, err := r.db.ActiveUnrankedGames(ctx, trendingSecondaryFloor, trendingSecondaryLimit)
		if err != nil {
			return touched, err
		}
		for i, game := range active {
			score := 50 - i/2
			if score < 1 {
				score = 1
			}
			if err := r.db.SetTrendingScore(ctx, game.ID, score); err != nil {
				skipItem(JobTrending, "store_error", game.SteamAppID, err)
				continue
			}
			touched++
		}

		logging.Info().Int("ranked", touched).Int("secondary", len(active)).
			Msg("Trending scores re-derived")
		return touched, nil
	})
}
