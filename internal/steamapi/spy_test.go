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

func newTestSpyClient(t *testing.T, handler http.HandlerFunc) *SpyClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := &config.GatewayConfig{URL: srv.URL, Timeout: 5 * time.Second}
	return NewSpyClient(cfg)
}

func TestTop100In2Weeks(t *testing.T) {
	client := newTestSpyClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api.php" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("request"); got != "top100in2weeks" {
			t.Errorf("request = %s", got)
		}
		_, _ = w.Write([]byte(`{
			"730":{"appid":730,"name":"CS2","average_2weeks":820,"ccu":912345},
			"570":{"appid":570,"name":"Dota 2","average_2weeks":540,"ccu":412345}
		}`))
	})

	apps, err := client.Top100In2Weeks(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(apps) != 2 {
		t.Fatalf("len(apps) = %d", len(apps))
	}
	if app := apps["730"]; app.Name != "CS2" || app.Average2Weeks != 820 {
		t.Errorf("apps[730] = %+v", app)
	}
}

func TestSpyAppDetails(t *testing.T) {
	client := newTestSpyClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("request") != "appdetails" || q.Get("appid") != "730" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"appid":730,"name":"CS2","tags":{"FPS":91172,"Shooter":65634}}`))
	})

	app, err := client.AppDetails(context.Background(), 730)
	if err != nil {
		t.Fatal(err)
	}
	if app == nil || app.Name != "CS2" || len(app.Tags) == 0 {
		t.Errorf("app = %+v", app)
	}
}

func TestSpyAppDetailsUnknownApp(t *testing.T) {
	// SteamSpy answers unknown ids with a zeroed record rather than a 404.
	client := newTestSpyClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"appid":0,"name":""}`))
	})

	app, err := client.AppDetails(context.Background(), 999999999)
	if err != nil {
		t.Fatalf("zeroed record must not be an error: %v", err)
	}
	if app != nil {
		t.Errorf("app = %+v, want nil", app)
	}
}
