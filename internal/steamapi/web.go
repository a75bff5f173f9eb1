// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

package steamapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gamenighthq/gamenight/internal/config"
	"github.com/gamenighthq/gamenight/internal/metrics"
	"github.com/gamenighthq/gamenight/internal/models/steam"
)

// WebClient talks to the Steam web API. Owned-games and profile lookups need
// the configured API key; the player-count endpoint is keyless.
type WebClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewWebClient creates a Steam web API client.
func NewWebClient(cfg *config.SteamConfig) *WebClient {
	return &WebClient{
		baseURL: cfg.WebURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *WebClient) get(ctx context.Context, endpoint, reqURL string, result interface{}) error {
	start := time.Now()
	err := getJSON(ctx, c.client, reqURL, result)
	metrics.ObserveGatewayRequest("steam_web", endpoint, time.Since(start), err)
	return err
}

// GetOwnedGames returns a player's full library with names and playtime.
// Free games the player has actually launched are included.
func (c *WebClient) GetOwnedGames(ctx context.Context, steamID string) ([]steam.OwnedGame, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("steamid", steamID)
	params.Set("include_appinfo", "1")
	params.Set("include_played_free_games", "1")
	reqURL := fmt.Sprintf("%s/IPlayerService/GetOwnedGames/v1/?%s", c.baseURL, params.Encode())

	var resp steam.OwnedGamesResponse
	if err := c.get(ctx, "owned_games", reqURL, &resp); err != nil {
		return nil, fmt.Errorf("owned games for %s: %w", steamID, err)
	}
	return resp.Response.Games, nil
}

// GetPlayerSummaries returns the public profiles for up to 100 account ids.
func (c *WebClient) GetPlayerSummaries(ctx context.Context, steamIDs []string) ([]steam.PlayerSummary, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("steamids", strings.Join(steamIDs, ","))
	reqURL := fmt.Sprintf("%s/ISteamUser/GetPlayerSummaries/v2/?%s", c.baseURL, params.Encode())

	var resp steam.PlayerSummariesResponse
	if err := c.get(ctx, "player_summaries", reqURL, &resp); err != nil {
		return nil, fmt.Errorf("player summaries: %w", err)
	}
	return resp.Response.Players, nil
}

// GetCurrentPlayers returns the live concurrent-player count for one app, or
// (nil, nil) when the gateway cannot produce a count for the id.
func (c *WebClient) GetCurrentPlayers(ctx context.Context, appID int64) (*int, error) {
	params := url.Values{}
	params.Set("appid", strconv.FormatInt(appID, 10))
	reqURL := fmt.Sprintf("%s/ISteamUserStats/GetNumberOfCurrentPlayers/v1/?%s", c.baseURL, params.Encode())

	var resp steam.CurrentPlayersResponse
	if err := c.get(ctx, "current_players", reqURL, &resp); err != nil {
		return nil, fmt.Errorf("current players for %d: %w", appID, err)
	}

	if resp.Response.Result != 1 {
		return nil, nil
	}
	count := resp.Response.PlayerCount
	return &count, nil
}
