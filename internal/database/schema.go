// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

package database

import (
	"context"
	"fmt"
)

// schemaStatements create the four canonical tables. Tag and category lists
// are stored as JSON text; DuckDB list columns would also work, but JSON keeps
// the scan path identical across driver versions.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS players (
		id UUID PRIMARY KEY,
		name VARCHAR NOT NULL,
		steam_id VARCHAR NOT NULL UNIQUE,
		avatar_url VARCHAR,
		is_primary BOOLEAN NOT NULL DEFAULT false,
		last_synced_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS games (
		id UUID PRIMARY KEY,
		steam_app_id BIGINT NOT NULL UNIQUE,
		name VARCHAR NOT NULL,
		header_image_url VARCHAR NOT NULL DEFAULT '',
		description VARCHAR NOT NULL DEFAULT '',
		is_multiplayer BOOLEAN NOT NULL DEFAULT false,
		is_free BOOLEAN NOT NULL DEFAULT false,
		categories VARCHAR NOT NULL DEFAULT '[]',
		steam_tags VARCHAR NOT NULL DEFAULT '[]',
		max_players INTEGER,
		supports_linux BOOLEAN NOT NULL DEFAULT false,
		compat_tier VARCHAR,
		steam_price_cents BIGINT,
		best_price_cents BIGINT,
		best_price_store VARCHAR,
		best_price_url VARCHAR,
		is_on_sale BOOLEAN NOT NULL DEFAULT false,
		sale_percent INTEGER,
		review_score INTEGER,
		review_label VARCHAR,
		review_count INTEGER,
		critic_score INTEGER,
		critic_tier VARCHAR,
		trending_score INTEGER,
		current_players INTEGER,
		release_date VARCHAR,
		is_coming_soon BOOLEAN NOT NULL DEFAULT false,
		servers_deprecated BOOLEAN NOT NULL DEFAULT false,
		player_count_checked_at TIMESTAMP,
		last_updated_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS player_games (
		player_id UUID NOT NULL,
		game_id UUID NOT NULL,
		playtime_hours DOUBLE NOT NULL DEFAULT 0,
		last_played_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL,
		PRIMARY KEY (player_id, game_id)
	)`,

	`CREATE TABLE IF NOT EXISTS sync_log (
		id UUID PRIMARY KEY,
		sync_type VARCHAR NOT NULL,
		status VARCHAR NOT NULL,
		error VARCHAR,
		games_updated INTEGER NOT NULL DEFAULT 0,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP
	)`,

	`CREATE INDEX IF NOT EXISTS idx_games_steam_app_id ON games (steam_app_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sync_log_started_at ON sync_log (started_at)`,
}

func (db *DB) initSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}
