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

	"github.com/gamenighthq/gamenight/internal/models"
)

// UpsertPlayerGame records ownership and playtime for one (player, game) pair.
func (db *DB) UpsertPlayerGame(ctx context.Context, pg *models.PlayerGame) (err error) {
	start := time.Now()
	defer func() { observe("upsert", "player_games", start, err) }()

	if pg.CreatedAt.IsZero() {
		pg.CreatedAt = time.Now().UTC()
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO player_games (player_id, game_id, playtime_hours, last_played_at, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (player_id, game_id) DO UPDATE SET
			playtime_hours = excluded.playtime_hours,
			last_played_at = excluded.last_played_at`,
		pg.PlayerID, pg.GameID, pg.PlaytimeHours, pg.LastPlayedAt, pg.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert player_game: %w", err)
	}

	db.notifyChange("player_games")
	return nil
}

// ListPlayerGames returns every ownership row. Pagination happens internally;
// callers always see the complete set.
func (db *DB) ListPlayerGames(ctx context.Context) (out []models.PlayerGame, err error) {
	start := time.Now()
	defer func() { observe("select", "player_games", start, err) }()

	offset := 0
	for {
		rows, err := db.conn.QueryContext(ctx,
			`SELECT player_id, game_id, playtime_hours, last_played_at, created_at
			FROM player_games ORDER BY player_id, game_id LIMIT ? OFFSET ?`,
			db.pageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("list player_games: %w", err)
		}

		n := 0
		for rows.Next() {
			var (
				pg         models.PlayerGame
				lastPlayed sql.NullTime
			)
			if err := rows.Scan(&pg.PlayerID, &pg.GameID, &pg.PlaytimeHours, &lastPlayed, &pg.CreatedAt); err != nil {
				rows.Close()
				return nil, err
			}
			pg.LastPlayedAt = timePtr(lastPlayed)
			out = append(out, pg)
			n++
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()

		if n < db.pageSize {
			return out, nil
		}
		offset += db.pageSize
	}
}
