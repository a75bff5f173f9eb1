// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

// Package engine derives what the dashboard shows from what the store holds:
// ownership aggregation over the selected players, recommendation scoring,
// the filter pipeline, and the sort stack. Everything here is pure and
// recomputed on demand; nothing is persisted.
package engine

import (
	"github.com/google/uuid"

	"github.com/gamenighthq/gamenight/internal/models"
)

// Aggregate joins every game with the ownership edges of the currently
// selected players. Inputs are never mutated; the result is rebuilt from
// scratch on every call.
//
// AllSelectedOwn is vacuously true for an empty selection. Free-to-play
// override lives on GameWithOwnership.EffectiveAllOwn, not here.
func Aggregate(games []models.Game, edges []models.PlayerGame, players []models.Player, selected []uuid.UUID) []models.GameWithOwnership {
	selectedSet := make(map[uuid.UUID]bool, len(selected))
	for _, id := range selected {
		selectedSet[id] = true
	}

	selectedPlayers := make([]models.Player, 0, len(selected))
	for _, p := range players {
		if selectedSet[p.ID] {
			selectedPlayers = append(selectedPlayers, p)
		}
	}

	// Edges restricted to the selection, grouped by game.
	edgesByGame := make(map[uuid.UUID][]models.PlayerGame)
	for _, e := range edges {
		if selectedSet[e.PlayerID] {
			edgesByGame[e.GameID] = append(edgesByGame[e.GameID], e)
		}
	}

	out := make([]models.GameWithOwnership, 0, len(games))
	for _, g := range games {
		owners := edgesByGame[g.ID]

		ownerSet := make(map[uuid.UUID]bool, len(owners))
		for _, o := range owners {
			ownerSet[o.PlayerID] = true
		}

		var missing []models.Player
		for _, p := range selectedPlayers {
			if !ownerSet[p.ID] {
				missing = append(missing, p)
			}
		}

		out = append(out, models.GameWithOwnership{
			Game:           g,
			Owners:         owners,
			OwnerCount:     len(owners),
			AllSelectedOwn: len(missing) == 0,
			MissingPlayers: missing,
		})
	}
	return out
}
