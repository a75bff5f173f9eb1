// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

package steamapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/gamenighthq/gamenight/internal/config"
)

func newTestDealsClient(t *testing.T, handler http.HandlerFunc) *DealsClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := &config.DealsConfig{URL: srv.URL, APIKey: "itad-key", Country: "GB", Timeout: 5 * time.Second}
	return NewDealsClient(cfg)
}

func TestDealsConfigured(t *testing.T) {
	with := NewDealsClient(&config.DealsConfig{APIKey: "k"})
	if !with.Configured() {
		t.Error("client with key should be configured")
	}
	without := NewDealsClient(&config.DealsConfig{})
	if without.Configured() {
		t.Error("client without key should not be configured")
	}
}

func TestDealsLookup(t *testing.T) {
	client := newTestDealsClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/games/lookup/v1" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("key") != "itad-key" || q.Get("appid") != "730" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"found":true,"game":{"id":"018d-abc","slug":"counter-strike-2"}}`))
	})

	game, err := client.Lookup(context.Background(), 730)
	if err != nil {
		t.Fatal(err)
	}
	if game == nil || game.ID != "018d-abc" || game.Slug != "counter-strike-2" {
		t.Errorf("game = %+v", game)
	}
}

func TestDealsLookupNotTracked(t *testing.T) {
	client := newTestDealsClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"found":false}`))
	})

	game, err := client.Lookup(context.Background(), 123)
	if err != nil || game != nil {
		t.Errorf("untracked title should be (nil, nil), got %+v/%v", game, err)
	}
}

func TestDealsOverview(t *testing.T) {
	client := newTestDealsClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if got := r.URL.Query().Get("country"); got != "GB" {
			t.Errorf("country = %s", got)
		}
		var ids []string
		if err := json.NewDecoder(r.Body).Decode(&ids); err != nil {
			t.Error(err)
		}
		if len(ids) != 2 || ids[0] != "id-1" {
			t.Errorf("ids = %v", ids)
		}
		_, _ = w.Write([]byte(`{"prices":[
			{"id":"id-1","current":{"price":{"amountInt":499,"currency":"GBP"},"shop":{"id":61,"name":"Steam"},"url":"https://example.test/deal"}}
		]}`))
	})

	prices, err := client.Overview(context.Background(), []string{"id-1", "id-2"})
	if err != nil {
		t.Fatal(err)
	}
	if len(prices) != 1 {
		t.Fatalf("len(prices) = %d", len(prices))
	}
	p := prices[0]
	if p.ID != "id-1" || p.Current == nil || p.Current.Price.AmountInt != 499 || p.Current.Shop.Name != "Steam" {
		t.Errorf("price = %+v", p)
	}
}

func TestDealsCountryDefault(t *testing.T) {
	client := NewDealsClient(&config.DealsConfig{APIKey: "k"})
	if client.country != "GB" {
		t.Errorf("country = %s, want GB default", client.country)
	}
}
