// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/gamenighthq/gamenight/internal/config"
	"github.com/gamenighthq/gamenight/internal/database"
	"github.com/gamenighthq/gamenight/internal/engine"
	"github.com/gamenighthq/gamenight/internal/ingest"
	"github.com/gamenighthq/gamenight/internal/models"
	"github.com/gamenighthq/gamenight/internal/notify"
	"github.com/gamenighthq/gamenight/internal/register"
)

// TestTriggerSyncErrorCarriesProgress drives the libraries job into a gateway
// failure and checks the error envelope still reports how far the run got.
func TestTriggerSyncErrorCarriesProgress(t *testing.T) {
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusInternalServerError)
	}))
	defer gateway.Close()

	cfg := &config.Config{
		Database: config.DatabaseConfig{Path: ":memory:", MaxMemory: "256MB", Threads: 1, PageSize: 100},
		Steam:    config.SteamConfig{APIKey: "test-key", StoreURL: gateway.URL, WebURL: gateway.URL, Timeout: time.Second},
		SteamSpy: config.GatewayConfig{URL: gateway.URL, Timeout: time.Second},
		ProtonDB: config.GatewayConfig{URL: gateway.URL, Timeout: time.Second},
		Deals:    config.DealsConfig{URL: gateway.URL, Timeout: time.Second},
		Sync: config.SyncConfig{
			StoreDelay:       time.Millisecond,
			RunBudget:        10 * time.Second,
			DiscoverBatch:    2,
			PriceBatch:       10,
			PlayerCountBatch: 10,
		},
	}

	db, err := database.New(&cfg.Database, nil)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	defer db.Close()

	if err := db.SeedPlayer(context.Background(), &models.Player{Name: "Ana", SteamID: "7656"}); err != nil {
		t.Fatalf("seed player: %v", err)
	}

	regs, err := register.Open("")
	if err != nil {
		t.Fatalf("open registers: %v", err)
	}
	defer regs.Close()

	h := NewHandlers(cfg, db, ingest.NewRunner(cfg, db), engine.NewView(db), regs, notify.NewHub())

	router := chi.NewRouter()
	router.Post("/sync/{job}", h.TriggerSync)

	req := httptest.NewRequest(http.MethodPost, "/sync/libraries", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}

	var resp APIResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Success || resp.Error == nil {
		t.Fatalf("expected an error envelope, got %+v", resp)
	}
	if resp.Error.Code != ErrCodeExternalServiceFail {
		t.Errorf("code = %q, want %q", resp.Error.Code, ErrCodeExternalServiceFail)
	}

	details, ok := resp.Error.Details.(map[string]interface{})
	if !ok {
		t.Fatalf("details = %#v, want an object", resp.Error.Details)
	}
	if details["job"] != "libraries" {
		t.Errorf("details.job = %v, want libraries", details["job"])
	}
	if _, ok := details["games_updated"]; !ok {
		t.Error("details should carry the partial games_updated count")
	}
}
