// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

package ingest

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/gamenighthq/gamenight/internal/logging"
	"github.com/gamenighthq/gamenight/internal/models"
)

// SyncLibraries mirrors every configured player's Steam library into the
// ownership table. All owned games get an edge, multiplayer or not; catalog
// rows are created minimally where missing and enriched later by discovery.
//
// A failing player is logged and skipped; the run fails only when every
// player fails.
func (r *Runner) SyncLibraries(ctx context.Context) (int, error) {
	return r.run(ctx, JobLibraries, func(ctx context.Context) (int, error) {
		players, err := r.db.ListPlayers(ctx)
		if err != nil {
			return 0, err
		}
		if len(players) == 0 {
			logging.Warn().Msg("No players configured; library sync is a no-op")
			return 0, nil
		}

		touched := 0
		failed := 0
		for _, player := range players {
			n, err := r.syncPlayerLibrary(ctx, &player)
			touched += n
			if err != nil {
				failed++
				logging.Error().Err(err).Str("player", player.Name).Msg("Library sync failed for player")
			}
		}
		if failed == len(players) {
			return touched, errAllPlayersFailed
		}

		// Avatar refresh is best effort; profile data is cosmetic.
		r.refreshAvatars(ctx, players)

		return touched, nil
	})
}

func (r *Runner) syncPlayerLibrary(ctx context.Context, player *models.Player) (int, error) {
	owned, err := r.web.GetOwnedGames(ctx, player.SteamID)
	if err != nil {
		return 0, err
	}

	known, err := r.db.ListSteamAppIDs(ctx)
	if err != nil {
		return 0, err
	}
	unenriched, err := r.db.UnenrichedAppIDs(ctx)
	if err != nil {
		return 0, err
	}

	touched := 0
	for _, og := range owned {
		if ctx.Err() != nil {
			return touched, ctx.Err()
		}

		// Unknown games get full enrichment; if that skips or fails, a
		// minimal row still carries the ownership edge. Bare rows left by
		// earlier failures are retried here on every pass, so a transient
		// gateway outage never strands a stub permanently. Games a player
		// owns are cataloged whether or not they are multiplayer.
		gameID, isKnown := known[og.AppID]
		if !isKnown || unenriched[og.AppID] {
			if g, reason, err := r.enrichGame(ctx, og.AppID); err == nil && reason == "" {
				g.ID = gameID // uuid.Nil for new rows; UpsertGame assigns one
				if err := r.db.UpsertGame(ctx, g); err == nil {
					gameID = g.ID
					known[og.AppID] = g.ID
					delete(unenriched, og.AppID)
				}
			}
		}
		if gameID == (uuid.UUID{}) {
			gameID, err = r.db.EnsureGame(ctx, og.AppID, og.Name)
			if err != nil {
				skipItem(JobLibraries, "store_error", og.AppID, err)
				continue
			}
			known[og.AppID] = gameID
		}

		edge := &models.PlayerGame{
			PlayerID:      player.ID,
			GameID:        gameID,
			PlaytimeHours: playtimeHours(og.PlaytimeForever),
		}
		if og.RtimeLastPlayed > 0 {
			t := time.Unix(og.RtimeLastPlayed, 0).UTC()
			edge.LastPlayedAt = &t
		}

		if err := r.db.UpsertPlayerGame(ctx, edge); err != nil {
			skipItem(JobLibraries, "store_error", og.AppID, err)
			continue
		}
		touched++
	}

	logging.Info().Str("player", player.Name).Int("games", touched).Msg("Player library synced")
	return touched, nil
}

// refreshAvatars pulls current profile avatars for all players in one call.
func (r *Runner) refreshAvatars(ctx context.Context, players []models.Player) {
	steamIDs := make([]string, 0, len(players))
	byID := make(map[string]*models.Player, len(players))
	for i := range players {
		steamIDs = append(steamIDs, players[i].SteamID)
		byID[players[i].SteamID] = &players[i]
	}

	summaries, err := r.web.GetPlayerSummaries(ctx, steamIDs)
	if err != nil {
		logging.Warn().Err(err).Msg("Avatar refresh failed")
		return
	}

	for _, summary := range summaries {
		player, ok := byID[summary.SteamID]
		if !ok || summary.AvatarMedium == "" {
			continue
		}
		if err := r.db.UpdatePlayerAvatar(ctx, player.ID, summary.AvatarMedium); err != nil {
			logging.Warn().Err(err).Str("player", player.Name).Msg("Avatar update failed")
		}
	}
}

// playtimeHours converts Steam's minutes to hours with two decimal places.
func playtimeHours(minutes int) float64 {
	return math.Round(float64(minutes)/60*100) / 100
}
