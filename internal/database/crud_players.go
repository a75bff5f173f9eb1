// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gamenighthq/gamenight/internal/models"
)

// SeedPlayer inserts a configured player if absent, keyed by steam_id.
// Existing rows keep their avatar and sync timestamp; only the display name
// and primary flag follow the configuration.
func (db *DB) SeedPlayer(ctx context.Context, seed *models.Player) (err error) {
	start := time.Now()
	defer func() { observe("upsert", "players", start, err) }()

	if seed.ID == uuid.Nil {
		seed.ID = uuid.New()
	}
	if seed.CreatedAt.IsZero() {
		seed.CreatedAt = time.Now().UTC()
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO players (id, name, steam_id, is_primary, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (steam_id) DO UPDATE SET
			name = excluded.name,
			is_primary = excluded.is_primary`,
		seed.ID, seed.Name, seed.SteamID, seed.IsPrimary, seed.CreatedAt)
	if err != nil {
		return fmt.Errorf("seed player %s: %w", seed.SteamID, err)
	}

	db.notifyChange("players")
	return nil
}

// ListPlayers returns all players, primary members first, then by name.
func (db *DB) ListPlayers(ctx context.Context) (players []models.Player, err error) {
	start := time.Now()
	defer func() { observe("select", "players", start, err) }()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, steam_id, avatar_url, is_primary, last_synced_at, created_at
		FROM players ORDER BY is_primary DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			p          models.Player
			avatar     sql.NullString
			lastSynced sql.NullTime
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.SteamID, &avatar, &p.IsPrimary, &lastSynced, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.AvatarURL = strPtr(avatar)
		p.LastSyncedAt = timePtr(lastSynced)
		players = append(players, p)
	}
	return players, rows.Err()
}

// UpdatePlayerAvatar refreshes a player's avatar URL and stamps the sync time.
func (db *DB) UpdatePlayerAvatar(ctx context.Context, id uuid.UUID, avatarURL string) (err error) {
	start := time.Now()
	defer func() { observe("update", "players", start, err) }()

	_, err = db.conn.ExecContext(ctx,
		`UPDATE players SET avatar_url = ?, last_synced_at = ? WHERE id = ?`,
		avatarURL, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update player avatar: %w", err)
	}
	db.notifyChange("players")
	return nil
}
