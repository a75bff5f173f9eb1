// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

// Package models defines the canonical row types owned by the store and the
// derived in-memory types the engine operates on.
package models

import (
	"time"

	"github.com/google/uuid"
)

// CompatTier is the community rating of how well a title runs on Linux,
// ordered native > platinum > gold > silver > bronze > borked > pending.
type CompatTier string

// Compatibility tiers, best first.
const (
	TierNative   CompatTier = "native"
	TierPlatinum CompatTier = "platinum"
	TierGold     CompatTier = "gold"
	TierSilver   CompatTier = "silver"
	TierBronze   CompatTier = "bronze"
	TierBorked   CompatTier = "borked"
	TierPending  CompatTier = "pending"
)

// tierRank maps tiers onto a descending scale so they can be compared.
// Unknown tiers rank below borked.
var tierRank = map[CompatTier]int{
	TierNative:   6,
	TierPlatinum: 5,
	TierGold:     4,
	TierSilver:   3,
	TierBronze:   2,
	TierBorked:   1,
	TierPending:  0,
}

// Rank returns the tier's position on the fixed ordering; higher is better.
func (t CompatTier) Rank() int {
	return tierRank[t]
}

// AtLeast reports whether t sits at or above floor on the tier ordering.
func (t CompatTier) AtLeast(floor CompatTier) bool {
	return tierRank[t] >= tierRank[floor]
}

// LinuxOK reports whether the tier is considered playable on Linux
// (native, platinum, gold or silver).
func (t CompatTier) LinuxOK() bool {
	return tierRank[t] >= tierRank[TierSilver]
}

// Game is the canonical catalog row, mutated only by ingestion jobs.
// SteamAppID is the upsert conflict key; ID is a surrogate.
//
// Pointer fields are nullable: nil means the enriching gateway had no data,
// which is distinct from zero.
type Game struct {
	ID         uuid.UUID `json:"id"`
	SteamAppID int64     `json:"steam_app_id"`
	Name       string    `json:"name"`

	// Catalog facts.
	HeaderImageURL string   `json:"header_image_url"`
	Description    string   `json:"description"`
	IsMultiplayer  bool     `json:"is_multiplayer"`
	IsFree         bool     `json:"is_free"`
	Categories     []string `json:"categories"`
	SteamTags      []string `json:"steam_tags"`
	MaxPlayers     *int     `json:"max_players"`

	// Compatibility.
	SupportsLinux bool        `json:"supports_linux"`
	CompatTier    *CompatTier `json:"compat_tier"`

	// Commercial, prices in integer minor-currency units.
	SteamPriceCents *int64  `json:"steam_price_cents"`
	BestPriceCents  *int64  `json:"best_price_cents"`
	BestPriceStore  *string `json:"best_price_store"`
	BestPriceURL    *string `json:"best_price_url"`
	IsOnSale        bool    `json:"is_on_sale"`
	SalePercent     *int    `json:"sale_percent"`

	// Community signal.
	ReviewScore    *int    `json:"review_score"` // positivity percentage 0-100
	ReviewLabel    *string `json:"review_label"`
	ReviewCount    *int    `json:"review_count"`
	CriticScore    *int    `json:"critic_score"`
	CriticTier     *string `json:"critic_tier"`
	TrendingScore  *int    `json:"trending_score"`
	CurrentPlayers *int    `json:"current_players"`

	// Lifecycle.
	ReleaseDate          *string    `json:"release_date"` // YYYY-MM-DD
	IsComingSoon         bool       `json:"is_coming_soon"`
	ServersDeprecated    bool       `json:"servers_deprecated"`
	PlayerCountCheckedAt *time.Time `json:"player_count_checked_at"`
	LastUpdatedAt        *time.Time `json:"last_updated_at"`
	CreatedAt            time.Time  `json:"created_at"`
}

// EffectivePriceCents returns the best known third-party price if present,
// else the catalog price. Free games return 0; nil means no price data.
func (g *Game) EffectivePriceCents() *int64 {
	if g.IsFree {
		zero := int64(0)
		return &zero
	}
	if g.BestPriceCents != nil {
		return g.BestPriceCents
	}
	return g.SteamPriceCents
}

// Player is a configured group member whose Steam library is synced.
type Player struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	SteamID      string     `json:"steam_id"`
	AvatarURL    *string    `json:"avatar_url"`
	IsPrimary    bool       `json:"is_primary"`
	LastSyncedAt *time.Time `json:"last_synced_at"`
	CreatedAt    time.Time  `json:"created_at"`
}

// PlayerGame is the ownership edge between a player and a game. At most one
// edge exists per (player, game) pair; syncs upsert on that composite key.
type PlayerGame struct {
	PlayerID      uuid.UUID  `json:"player_id"`
	GameID        uuid.UUID  `json:"game_id"`
	PlaytimeHours float64    `json:"playtime_hours"`
	LastPlayedAt  *time.Time `json:"last_played_at"` // nil = never played
	CreatedAt     time.Time  `json:"created_at"`
}

// Sync job status values recorded in the audit log.
const (
	SyncStatusRunning = "running"
	SyncStatusSuccess = "success"
	SyncStatusError   = "error"
)

// SyncLog is the audit record for one ingestion run.
type SyncLog struct {
	ID           uuid.UUID  `json:"id"`
	SyncType     string     `json:"sync_type"`
	Status       string     `json:"status"`
	Error        *string    `json:"error"`
	GamesUpdated int        `json:"games_updated"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at"`
}

// GameWithOwnership is a Game joined with the currently selected players'
// ownership edges. It is derived in memory on every relevant state change and
// never persisted.
type GameWithOwnership struct {
	Game

	// Owners holds the edges restricted to selected players.
	Owners []PlayerGame `json:"owners"`

	// OwnerCount is the number of selected players owning the game.
	OwnerCount int `json:"owner_count"`

	// AllSelectedOwn is true iff every selected player has an edge to the
	// game. Vacuously true for an empty selection.
	AllSelectedOwn bool `json:"all_selected_own"`

	// MissingPlayers lists selected players without an edge to the game.
	MissingPlayers []Player `json:"missing_players"`
}

// EffectiveAllOwn is ownership as interpreted by filters: free-to-play games
// count as owned by everyone regardless of recorded edges. Display code should
// use AllSelectedOwn; filter and scoring code uses this.
func (g *GameWithOwnership) EffectiveAllOwn() bool {
	return g.IsFree || g.AllSelectedOwn
}

// TotalPlaytimeHours sums playtime across the selected owners.
func (g *GameWithOwnership) TotalPlaytimeHours() float64 {
	var sum float64
	for _, o := range g.Owners {
		sum += o.PlaytimeHours
	}
	return sum
}
