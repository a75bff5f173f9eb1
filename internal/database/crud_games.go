// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gamenighthq/gamenight/internal/models"
)

// ErrNotFound is returned when a single-row lookup matches nothing.
var ErrNotFound = errors.New("not found")

// gameColumns is the canonical select list; scanGame must match its order.
const gameColumns = `id, steam_app_id, name, header_image_url, description,
	is_multiplayer, is_free, categories, steam_tags, max_players,
	supports_linux, compat_tier, steam_price_cents, best_price_cents,
	best_price_store, best_price_url, is_on_sale, sale_percent,
	review_score, review_label, review_count, critic_score, critic_tier,
	trending_score, current_players, release_date, is_coming_soon,
	servers_deprecated, player_count_checked_at, last_updated_at, created_at`

// UpsertGame inserts or replaces the enrichment fields of a game, keyed by
// steam_app_id. Columns the enricher does not produce (best price, trending
// score, current players, the deprecation flag) are left untouched on
// conflict, so a full re-ingestion never erases narrower jobs' data.
func (db *DB) UpsertGame(ctx context.Context, g *models.Game) (err error) {
	start := time.Now()
	defer func() { observe("upsert", "games", start, err) }()

	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}
	now := time.Now().UTC()
	g.LastUpdatedAt = &now

	var tier *string
	if g.CompatTier != nil {
		t := string(*g.CompatTier)
		tier = &t
	}

	query := `INSERT INTO games (
		id, steam_app_id, name, header_image_url, description,
		is_multiplayer, is_free, categories, steam_tags, max_players,
		supports_linux, compat_tier, steam_price_cents,
		is_on_sale, sale_percent,
		review_score, review_label, review_count,
		release_date, is_coming_soon, last_updated_at, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (steam_app_id) DO UPDATE SET
		name = excluded.name,
		header_image_url = excluded.header_image_url,
		description = excluded.description,
		is_multiplayer = excluded.is_multiplayer,
		is_free = excluded.is_free,
		categories = excluded.categories,
		steam_tags = excluded.steam_tags,
		max_players = excluded.max_players,
		supports_linux = excluded.supports_linux,
		compat_tier = excluded.compat_tier,
		steam_price_cents = excluded.steam_price_cents,
		is_on_sale = excluded.is_on_sale,
		sale_percent = excluded.sale_percent,
		review_score = excluded.review_score,
		review_label = excluded.review_label,
		review_count = excluded.review_count,
		release_date = excluded.release_date,
		is_coming_soon = excluded.is_coming_soon,
		last_updated_at = excluded.last_updated_at`

	_, err = db.conn.ExecContext(ctx, query,
		g.ID, g.SteamAppID, g.Name, g.HeaderImageURL, g.Description,
		g.IsMultiplayer, g.IsFree, marshalList(g.Categories), marshalList(g.SteamTags), g.MaxPlayers,
		g.SupportsLinux, tier, g.SteamPriceCents,
		g.IsOnSale, g.SalePercent,
		g.ReviewScore, g.ReviewLabel, g.ReviewCount,
		g.ReleaseDate, g.IsComingSoon, g.LastUpdatedAt, g.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert game %d: %w", g.SteamAppID, err)
	}

	db.notifyChange("games")
	return nil
}

// EnsureGame guarantees a catalog row exists for an external id and returns
// its surrogate id. Existing rows are left completely untouched; library sync
// uses this so that owning an unenriched game never erases enrichment data.
func (db *DB) EnsureGame(ctx context.Context, appID int64, name string) (id uuid.UUID, err error) {
	start := time.Now()
	defer func() { observe("upsert", "games", start, err) }()

	row := db.conn.QueryRowContext(ctx, `SELECT id FROM games WHERE steam_app_id = ?`, appID)
	if err = row.Scan(&id); err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, fmt.Errorf("ensure game %d: %w", appID, err)
	}

	id = uuid.New()
	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO games (id, steam_app_id, name, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (steam_app_id) DO NOTHING`,
		id, appID, name, time.Now().UTC())
	if err != nil {
		return uuid.Nil, fmt.Errorf("ensure game %d: %w", appID, err)
	}

	// A concurrent insert may have won the conflict; read back the winner.
	row = db.conn.QueryRowContext(ctx, `SELECT id FROM games WHERE steam_app_id = ?`, appID)
	if err = row.Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("ensure game %d: %w", appID, err)
	}

	db.notifyChange("games")
	return id, nil
}

// ListGames returns every game row, paginating transparently past the
// configured page cap.
func (db *DB) ListGames(ctx context.Context) (games []models.Game, err error) {
	start := time.Now()
	defer func() { observe("select", "games", start, err) }()

	query := fmt.Sprintf(`SELECT %s FROM games ORDER BY name, steam_app_id LIMIT ? OFFSET ?`, gameColumns)

	for offset := 0; ; offset += db.pageSize {
		rows, qerr := db.conn.QueryContext(ctx, query, db.pageSize, offset)
		if qerr != nil {
			return nil, fmt.Errorf("list games: %w", qerr)
		}

		n := 0
		for rows.Next() {
			g, serr := scanGame(rows)
			if serr != nil {
				_ = rows.Close()
				return nil, serr
			}
			games = append(games, *g)
			n++
		}
		if cerr := rows.Close(); cerr != nil {
			return nil, cerr
		}
		if rerr := rows.Err(); rerr != nil {
			return nil, rerr
		}
		if n < db.pageSize {
			return games, nil
		}
	}
}

// GetGameBySteamAppID fetches one game by its external id.
func (db *DB) GetGameBySteamAppID(ctx context.Context, appID int64) (*models.Game, error) {
	query := fmt.Sprintf(`SELECT %s FROM games WHERE steam_app_id = ?`, gameColumns)
	row := db.conn.QueryRowContext(ctx, query, appID)
	g, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return g, err
}

// ListSteamAppIDs returns the external ids already cataloged, mapped to their
// surrogate row ids. Discovery diffs its findings against this set.
func (db *DB) ListSteamAppIDs(ctx context.Context) (map[int64]uuid.UUID, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT steam_app_id, id FROM games`)
	if err != nil {
		return nil, fmt.Errorf("list app ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[int64]uuid.UUID)
	for rows.Next() {
		var appID int64
		var id uuid.UUID
		if err := rows.Scan(&appID, &id); err != nil {
			return nil, err
		}
		ids[appID] = id
	}
	return ids, rows.Err()
}

// UnenrichedAppIDs returns the external ids of rows created as bare
// ownership stubs and never enriched (no last_updated_at stamp). Library
// sync retries enrichment for these on every pass until one succeeds.
func (db *DB) UnenrichedAppIDs(ctx context.Context) (map[int64]bool, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT steam_app_id FROM games WHERE last_updated_at IS NULL`)
	if err != nil {
		return nil, fmt.Errorf("list unenriched app ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[int64]bool)
	for rows.Next() {
		var appID int64
		if err := rows.Scan(&appID); err != nil {
			return nil, err
		}
		ids[appID] = true
	}
	return ids, rows.Err()
}

// StalePriceWorklist selects the next price-sync rotation: Linux-capable,
// non-deprecated, non-free games, least recently refreshed first.
func (db *DB) StalePriceWorklist(ctx context.Context, limit int) ([]models.Game, error) {
	query := fmt.Sprintf(`SELECT %s FROM games
		WHERE supports_linux AND NOT servers_deprecated AND NOT is_free
		ORDER BY last_updated_at ASC NULLS FIRST
		LIMIT ?`, gameColumns)
	return db.queryGames(ctx, query, limit)
}

// StalePlayerCountWorklist selects the next player-count rotation across the
// whole catalog, stalest check first.
func (db *DB) StalePlayerCountWorklist(ctx context.Context, limit int) ([]models.Game, error) {
	query := fmt.Sprintf(`SELECT %s FROM games
		ORDER BY player_count_checked_at ASC NULLS FIRST
		LIMIT ?`, gameColumns)
	return db.queryGames(ctx, query, limit)
}

// ActiveUnrankedGames returns games with no trending score but a live player
// count above floor, busiest first. Feeds the trending job's secondary band.
func (db *DB) ActiveUnrankedGames(ctx context.Context, floor, limit int) ([]models.Game, error) {
	query := fmt.Sprintf(`SELECT %s FROM games
		WHERE trending_score IS NULL AND current_players IS NOT NULL AND current_players > ?
		ORDER BY current_players DESC
		LIMIT ?`, gameColumns)
	return db.queryGames(ctx, query, floor, limit)
}

func (db *DB) queryGames(ctx context.Context, query string, args ...any) (games []models.Game, err error) {
	start := time.Now()
	defer func() { observe("select", "games", start, err) }()

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		g, serr := scanGame(rows)
		if serr != nil {
			return nil, serr
		}
		games = append(games, *g)
	}
	return games, rows.Err()
}

// UpdateBestPrice writes the deal aggregator's result for one game and stamps
// the refresh time. Only the price columns are touched.
func (db *DB) UpdateBestPrice(ctx context.Context, id uuid.UUID, cents int64, store, url *string) (err error) {
	start := time.Now()
	defer func() { observe("update", "games", start, err) }()

	_, err = db.conn.ExecContext(ctx,
		`UPDATE games SET best_price_cents = ?, best_price_store = ?, best_price_url = ?, last_updated_at = ? WHERE id = ?`,
		cents, store, url, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update best price: %w", err)
	}
	db.notifyChange("games")
	return nil
}

// ResetTrendingScores clears every trending rank ahead of a re-derivation.
func (db *DB) ResetTrendingScores(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { observe("update", "games", start, err) }()

	_, err = db.conn.ExecContext(ctx,
		`UPDATE games SET trending_score = NULL WHERE trending_score IS NOT NULL`)
	if err != nil {
		return fmt.Errorf("reset trending scores: %w", err)
	}
	db.notifyChange("games")
	return nil
}

// SetTrendingScore assigns one game's trending rank score.
func (db *DB) SetTrendingScore(ctx context.Context, id uuid.UUID, score int) (err error) {
	start := time.Now()
	defer func() { observe("update", "games", start, err) }()

	_, err = db.conn.ExecContext(ctx, `UPDATE games SET trending_score = ? WHERE id = ?`, score, id)
	if err != nil {
		return fmt.Errorf("set trending score: %w", err)
	}
	db.notifyChange("games")
	return nil
}

// UpdateCurrentPlayers records a live player count. On a gateway miss (count
// nil) only the check timestamp advances, so the rotation moves past
// unavailable games instead of retrying them every run.
func (db *DB) UpdateCurrentPlayers(ctx context.Context, id uuid.UUID, count *int) (err error) {
	start := time.Now()
	defer func() { observe("update", "games", start, err) }()

	now := time.Now().UTC()
	if count != nil {
		_, err = db.conn.ExecContext(ctx,
			`UPDATE games SET current_players = ?, player_count_checked_at = ? WHERE id = ?`, *count, now, id)
	} else {
		_, err = db.conn.ExecContext(ctx,
			`UPDATE games SET player_count_checked_at = ? WHERE id = ?`, now, id)
	}
	if err != nil {
		return fmt.Errorf("update current players: %w", err)
	}
	db.notifyChange("games")
	return nil
}

// SetServersDeprecated flips the operator-settable force-hide flag.
func (db *DB) SetServersDeprecated(ctx context.Context, appID int64, deprecated bool) (err error) {
	start := time.Now()
	defer func() { observe("update", "games", start, err) }()

	res, err := db.conn.ExecContext(ctx,
		`UPDATE games SET servers_deprecated = ? WHERE steam_app_id = ?`, deprecated, appID)
	if err != nil {
		return fmt.Errorf("set servers deprecated: %w", err)
	}
	if n, raErr := res.RowsAffected(); raErr == nil && n == 0 {
		return ErrNotFound
	}
	db.notifyChange("games")
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (*models.Game, error) {
	var (
		g          models.Game
		categories string
		steamTags  string

		maxPlayers     sql.NullInt64
		tier           sql.NullString
		steamPrice     sql.NullInt64
		bestPrice      sql.NullInt64
		bestStore      sql.NullString
		bestURL        sql.NullString
		salePercent    sql.NullInt64
		reviewScore    sql.NullInt64
		reviewLabel    sql.NullString
		reviewCount    sql.NullInt64
		criticScore    sql.NullInt64
		criticTier     sql.NullString
		trendingScore  sql.NullInt64
		currentPlayers sql.NullInt64
		releaseDate    sql.NullString
		countCheckedAt sql.NullTime
		lastUpdatedAt  sql.NullTime
	)

	err := row.Scan(
		&g.ID, &g.SteamAppID, &g.Name, &g.HeaderImageURL, &g.Description,
		&g.IsMultiplayer, &g.IsFree, &categories, &steamTags, &maxPlayers,
		&g.SupportsLinux, &tier, &steamPrice, &bestPrice,
		&bestStore, &bestURL, &g.IsOnSale, &salePercent,
		&reviewScore, &reviewLabel, &reviewCount, &criticScore, &criticTier,
		&trendingScore, &currentPlayers, &releaseDate, &g.IsComingSoon,
		&g.ServersDeprecated, &countCheckedAt, &lastUpdatedAt, &g.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	g.Categories = unmarshalList(categories)
	g.SteamTags = unmarshalList(steamTags)
	g.MaxPlayers = intPtr(maxPlayers)
	if tier.Valid {
		t := models.CompatTier(tier.String)
		g.CompatTier = &t
	}
	g.SteamPriceCents = int64Ptr(steamPrice)
	g.BestPriceCents = int64Ptr(bestPrice)
	g.BestPriceStore = strPtr(bestStore)
	g.BestPriceURL = strPtr(bestURL)
	g.SalePercent = intPtr(salePercent)
	g.ReviewScore = intPtr(reviewScore)
	g.ReviewLabel = strPtr(reviewLabel)
	g.ReviewCount = intPtr(reviewCount)
	g.CriticScore = intPtr(criticScore)
	g.CriticTier = strPtr(criticTier)
	g.TrendingScore = intPtr(trendingScore)
	g.CurrentPlayers = intPtr(currentPlayers)
	g.ReleaseDate = strPtr(releaseDate)
	g.PlayerCountCheckedAt = timePtr(countCheckedAt)
	g.LastUpdatedAt = timePtr(lastUpdatedAt)

	return &g, nil
}
