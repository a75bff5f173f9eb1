// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

package engine

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/gamenighthq/gamenight/internal/database"
	"github.com/gamenighthq/gamenight/internal/logging"
	"github.com/gamenighthq/gamenight/internal/models"
	"github.com/gamenighthq/gamenight/internal/notify"
)

// View holds the current raw rows the engine derives from, refreshed on
// demand and on store change notifications. Manual refresh and notification
// refresh share one path: fetch everything, then swap atomically.
//
// Overlapping refreshes are legal; a generation counter taken before the
// fetch ensures a slow stale response never overwrites a newer one
// (last-response-wins).
type View struct {
	db *database.DB

	gen atomic.Uint64

	mu       sync.RWMutex
	applied  uint64
	games    []models.Game
	edges    []models.PlayerGame
	players  []models.Player
	selected []uuid.UUID
}

// NewView creates a view over the store. Call Refresh before first use.
func NewView(db *database.DB) *View {
	return &View{db: db}
}

// Refresh re-fetches all raw rows and swaps them in if no newer refresh has
// landed meanwhile.
func (v *View) Refresh(ctx context.Context) error {
	gen := v.gen.Add(1)

	games, err := v.db.ListGames(ctx)
	if err != nil {
		return err
	}
	edges, err := v.db.ListPlayerGames(ctx)
	if err != nil {
		return err
	}
	players, err := v.db.ListPlayers(ctx)
	if err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen < v.applied {
		// A newer refresh finished first; drop this response.
		return nil
	}
	v.applied = gen
	v.games = games
	v.edges = edges
	v.players = players

	// Default selection: primary players, set once when empty.
	if v.selected == nil {
		for _, p := range players {
			if p.IsPrimary {
				v.selected = append(v.selected, p.ID)
			}
		}
	}
	return nil
}

// Watch refreshes the view whenever the store reports a change to any of the
// canonical tables, until ctx is done. Intended to run as a goroutine.
func (v *View) Watch(ctx context.Context, hub *notify.Hub) {
	sub := hub.Subscribe("games", "players", "player_games")
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-sub.C():
			if !ok {
				return
			}
			sub.Ack(change.Table)
			if err := v.Refresh(ctx); err != nil {
				logging.Warn().Err(err).Str("table", change.Table).Msg("View refresh failed")
			}
		}
	}
}

// SelectPlayers replaces the current player selection.
func (v *View) SelectPlayers(ids []uuid.UUID) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.selected = append([]uuid.UUID{}, ids...)
}

// Players returns the full roster.
func (v *View) Players() []models.Player {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.players
}

// Selected returns the current player selection.
func (v *View) Selected() []uuid.UUID {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]uuid.UUID{}, v.selected...)
}

// Enriched aggregates ownership for a player selection over the current
// snapshot. Passing nil uses the view's own selection.
func (v *View) Enriched(selected []uuid.UUID) []models.GameWithOwnership {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if selected == nil {
		selected = v.selected
	}
	return Aggregate(v.games, v.edges, v.players, selected)
}
