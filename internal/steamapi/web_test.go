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

	"github.com/gamenighthq/gamenight/internal/config"
)

func newTestWebClient(t *testing.T, handler http.HandlerFunc) *WebClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := &config.SteamConfig{WebURL: srv.URL, APIKey: "test-key", Timeout: 5 * time.Second}
	return NewWebClient(cfg)
}

func TestGetOwnedGames(t *testing.T) {
	client := newTestWebClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/IPlayerService/GetOwnedGames/v1/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("key") != "test-key" || q.Get("steamid") != "765611" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		if q.Get("include_played_free_games") != "1" {
			t.Error("played free games must be requested")
		}
		_, _ = w.Write([]byte(`{"response":{"game_count":2,"games":[
			{"appid":730,"name":"CS2","playtime_forever":1200},
			{"appid":440,"name":"TF2","playtime_forever":90}
		]}}`))
	})

	games, err := client.GetOwnedGames(context.Background(), "765611")
	if err != nil {
		t.Fatal(err)
	}
	if len(games) != 2 || games[0].AppID != 730 || games[1].PlaytimeForever != 90 {
		t.Errorf("games = %+v", games)
	}
}

func TestGetOwnedGamesPrivateProfile(t *testing.T) {
	// Private profiles come back as an empty response object, not an error.
	client := newTestWebClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":{}}`))
	})

	games, err := client.GetOwnedGames(context.Background(), "765611")
	if err != nil {
		t.Fatal(err)
	}
	if len(games) != 0 {
		t.Errorf("games = %+v, want none", games)
	}
}

func TestGetCurrentPlayers(t *testing.T) {
	client := newTestWebClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("appid"); got != "730" {
			t.Errorf("appid = %s", got)
		}
		_, _ = w.Write([]byte(`{"response":{"player_count":91234,"result":1}}`))
	})

	count, err := client.GetCurrentPlayers(context.Background(), 730)
	if err != nil {
		t.Fatal(err)
	}
	if count == nil || *count != 91234 {
		t.Errorf("count = %v", count)
	}
}

func TestGetCurrentPlayersUnavailable(t *testing.T) {
	client := newTestWebClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":{"result":42}}`))
	})

	count, err := client.GetCurrentPlayers(context.Background(), 999999)
	if err != nil {
		t.Fatalf("result != 1 must not be an error: %v", err)
	}
	if count != nil {
		t.Errorf("count = %v, want nil", count)
	}
}

func TestGetPlayerSummaries(t *testing.T) {
	client := newTestWebClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("steamids"); got != "1,2" {
			t.Errorf("steamids = %s", got)
		}
		_, _ = w.Write([]byte(`{"response":{"players":[
			{"steamid":"1","personaname":"alice"},
			{"steamid":"2","personaname":"bob"}
		]}}`))
	})

	players, err := client.GetPlayerSummaries(context.Background(), []string{"1", "2"})
	if err != nil {
		t.Fatal(err)
	}
	if len(players) != 2 || players[0].PersonaName != "alice" {
		t.Errorf("players = %+v", players)
	}
}
