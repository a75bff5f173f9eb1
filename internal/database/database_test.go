// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

package database

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/gamenighthq/gamenight/internal/config"
	"github.com/gamenighthq/gamenight/internal/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	cfg := &config.DatabaseConfig{
		Path:      ":memory:",
		MaxMemory: "256MB",
		Threads:   1,
		PageSize:  2,
	}
	db, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNewDefaultsMaxMemory(t *testing.T) {
	cfg := &config.DatabaseConfig{Path: ":memory:", PageSize: 100}
	db, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("open with unset max_memory: %v", err)
	}
	defer db.Close()

	if err := db.Ping(context.Background()); err != nil {
		t.Errorf("ping: %v", err)
	}
}

func testGameRow(appID int64, name string) *models.Game {
	score := 85
	label := "Very Positive"
	count := 1200
	return &models.Game{
		SteamAppID:    appID,
		Name:          name,
		IsMultiplayer: true,
		Categories:    []string{"Co-op", "Online Co-op"},
		SteamTags:     []string{"Roguelike"},
		ReviewScore:   &score,
		ReviewLabel:   &label,
		ReviewCount:   &count,
	}
}

func TestUpsertGameRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	want := testGameRow(730, "CS2")
	if err := db.UpsertGame(ctx, want); err != nil {
		t.Fatal(err)
	}

	got, err := db.GetGameBySteamAppID(ctx, 730)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "CS2" || !got.IsMultiplayer {
		t.Errorf("game = %+v", got)
	}
	if got.ReviewScore == nil || *got.ReviewScore != 85 {
		t.Errorf("review score = %v", got.ReviewScore)
	}
	if len(got.Categories) != 2 || got.Categories[0] != "Co-op" {
		t.Errorf("categories = %v", got.Categories)
	}
	if got.ID != want.ID {
		t.Errorf("surrogate id changed: %s vs %s", got.ID, want.ID)
	}
}

func TestGetGameUnknownAppID(t *testing.T) {
	db := openTestDB(t)

	_, err := db.GetGameBySteamAppID(context.Background(), 424242)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// A full re-enrichment must never erase columns owned by the narrower jobs
// (best price, trending score, current players, the deprecation flag), and the
// narrow updates must never touch enrichment columns.
func TestNarrowColumnsSurviveReenrichment(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	g := testGameRow(440, "TF2")
	if err := db.UpsertGame(ctx, g); err != nil {
		t.Fatal(err)
	}

	store := "Fanatical"
	url := "https://example.test/tf2"
	if err := db.UpdateBestPrice(ctx, g.ID, 299, &store, &url); err != nil {
		t.Fatal(err)
	}
	if err := db.SetTrendingScore(ctx, g.ID, 72); err != nil {
		t.Fatal(err)
	}
	players := 54321
	if err := db.UpdateCurrentPlayers(ctx, g.ID, &players); err != nil {
		t.Fatal(err)
	}
	if err := db.SetServersDeprecated(ctx, 440, true); err != nil {
		t.Fatal(err)
	}

	// Narrow updates leave enrichment columns alone.
	mid, err := db.GetGameBySteamAppID(ctx, 440)
	if err != nil {
		t.Fatal(err)
	}
	if mid.ReviewScore == nil || *mid.ReviewScore != 85 {
		t.Errorf("review score after narrow updates = %v", mid.ReviewScore)
	}

	// Re-enrichment leaves narrow columns alone.
	if err := db.UpsertGame(ctx, testGameRow(440, "Team Fortress 2")); err != nil {
		t.Fatal(err)
	}
	got, err := db.GetGameBySteamAppID(ctx, 440)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Team Fortress 2" {
		t.Errorf("name = %s, re-enrichment should update it", got.Name)
	}
	if got.BestPriceCents == nil || *got.BestPriceCents != 299 {
		t.Errorf("best price = %v, want 299 preserved", got.BestPriceCents)
	}
	if got.BestPriceStore == nil || *got.BestPriceStore != "Fanatical" {
		t.Errorf("best price store = %v", got.BestPriceStore)
	}
	if got.TrendingScore == nil || *got.TrendingScore != 72 {
		t.Errorf("trending score = %v, want 72 preserved", got.TrendingScore)
	}
	if got.CurrentPlayers == nil || *got.CurrentPlayers != 54321 {
		t.Errorf("current players = %v, want 54321 preserved", got.CurrentPlayers)
	}
	if !got.ServersDeprecated {
		t.Error("deprecation flag lost across re-enrichment")
	}
}

func TestEnsureGameLeavesExistingRowUntouched(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	g := testGameRow(620, "Portal 2")
	if err := db.UpsertGame(ctx, g); err != nil {
		t.Fatal(err)
	}

	id, err := db.EnsureGame(ctx, 620, "portal 2 (library name)")
	if err != nil {
		t.Fatal(err)
	}
	if id != g.ID {
		t.Errorf("EnsureGame id = %s, want existing %s", id, g.ID)
	}

	got, err := db.GetGameBySteamAppID(ctx, 620)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Portal 2" || got.ReviewScore == nil {
		t.Errorf("existing row mutated: %+v", got)
	}
}

func TestEnsureGameCreatesStub(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	id, err := db.EnsureGame(ctx, 1091500, "Cyberpunk 2077")
	if err != nil {
		t.Fatal(err)
	}
	if id == uuid.Nil {
		t.Fatal("nil id for new stub")
	}

	again, err := db.EnsureGame(ctx, 1091500, "different name")
	if err != nil {
		t.Fatal(err)
	}
	if again != id {
		t.Errorf("second EnsureGame id = %s, want %s", again, id)
	}
}

func TestSetServersDeprecatedUnknownApp(t *testing.T) {
	db := openTestDB(t)

	err := db.SetServersDeprecated(context.Background(), 999999, true)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListGamesPaginatesPastPageCap(t *testing.T) {
	db := openTestDB(t) // PageSize 2
	ctx := context.Background()

	for i := int64(1); i <= 5; i++ {
		if err := db.UpsertGame(ctx, testGameRow(i, fmt.Sprintf("game-%d", i))); err != nil {
			t.Fatal(err)
		}
	}

	games, err := db.ListGames(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(games) != 5 {
		t.Errorf("len(games) = %d, want 5 across pages", len(games))
	}
}

func TestSeedPlayerKeepsAvatarOnReseed(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	p := &models.Player{Name: "alice", SteamID: "7656119", IsPrimary: true}
	if err := db.SeedPlayer(ctx, p); err != nil {
		t.Fatal(err)
	}
	if err := db.UpdatePlayerAvatar(ctx, p.ID, "https://example.test/a.jpg"); err != nil {
		t.Fatal(err)
	}

	// Reseeding (config reload) must not wipe sync-owned columns.
	if err := db.SeedPlayer(ctx, &models.Player{Name: "Alice", SteamID: "7656119"}); err != nil {
		t.Fatal(err)
	}

	players, err := db.ListPlayers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(players) != 1 {
		t.Fatalf("len(players) = %d", len(players))
	}
	got := players[0]
	if got.Name != "Alice" || got.IsPrimary {
		t.Errorf("player = %+v, reseed should update name and primary flag", got)
	}
	if got.AvatarURL == nil || *got.AvatarURL != "https://example.test/a.jpg" {
		t.Errorf("avatar = %v, want preserved", got.AvatarURL)
	}
	if got.LastSyncedAt == nil {
		t.Error("last_synced_at lost on reseed")
	}
}

func TestPlayerGameUpsertOnCompositeKey(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	p := &models.Player{Name: "bob", SteamID: "7656120"}
	if err := db.SeedPlayer(ctx, p); err != nil {
		t.Fatal(err)
	}
	gameID, err := db.EnsureGame(ctx, 730, "CS2")
	if err != nil {
		t.Fatal(err)
	}

	for _, hours := range []float64{1.5, 20.25} {
		err := db.UpsertPlayerGame(ctx, &models.PlayerGame{
			PlayerID:      p.ID,
			GameID:        gameID,
			PlaytimeHours: hours,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	edges, err := db.ListPlayerGames(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(edges) != 1 {
		t.Fatalf("len(edges) = %d, want 1 (composite key upsert)", len(edges))
	}
	if edges[0].PlaytimeHours != 20.25 {
		t.Errorf("playtime = %v, want latest", edges[0].PlaytimeHours)
	}
}

func TestSyncLogLifecycle(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if _, err := db.LatestSyncLog(ctx, "libraries"); !errors.Is(err, ErrNotFound) {
		t.Errorf("latest before any run: err = %v, want ErrNotFound", err)
	}

	id, err := db.BeginSyncLog(ctx, "libraries")
	if err != nil {
		t.Fatal(err)
	}

	running, err := db.LatestSyncLog(ctx, "libraries")
	if err != nil {
		t.Fatal(err)
	}
	if running.Status != models.SyncStatusRunning || running.FinishedAt != nil {
		t.Errorf("running entry = %+v", running)
	}

	if err := db.FinishSyncLog(ctx, id, models.SyncStatusError, 3, errors.New("gateway down")); err != nil {
		t.Fatal(err)
	}

	done, err := db.LatestSyncLog(ctx, "libraries")
	if err != nil {
		t.Fatal(err)
	}
	if done.Status != models.SyncStatusError || done.GamesUpdated != 3 {
		t.Errorf("finished entry = %+v", done)
	}
	if done.Error == nil || *done.Error != "gateway down" {
		t.Errorf("error = %v", done.Error)
	}
	if done.FinishedAt == nil {
		t.Error("finished_at not stamped")
	}

	entries, err := db.ListSyncLogs(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].ID != id {
		t.Errorf("entries = %+v", entries)
	}
}
