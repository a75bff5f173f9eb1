// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

package steamapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gamenighthq/gamenight/internal/config"
	"github.com/gamenighthq/gamenight/internal/metrics"
	"github.com/gamenighthq/gamenight/internal/models/steam"
)

// SpyClient talks to SteamSpy's keyless aggregate API. The top lists feed
// discovery; per-app lookups contribute community tags to enrichment.
type SpyClient struct {
	baseURL string
	client  *http.Client
}

// NewSpyClient creates a SteamSpy client.
func NewSpyClient(cfg *config.GatewayConfig) *SpyClient {
	return &SpyClient{
		baseURL: cfg.URL,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *SpyClient) request(ctx context.Context, endpoint string, params url.Values, result interface{}) error {
	reqURL := fmt.Sprintf("%s/api.php?%s", c.baseURL, params.Encode())
	start := time.Now()
	err := getJSON(ctx, c.client, reqURL, result)
	metrics.ObserveGatewayRequest("steamspy", endpoint, time.Since(start), err)
	return err
}

// Top100In2Weeks returns SteamSpy's list of the most played apps over the
// last two weeks, keyed by app id.
func (c *SpyClient) Top100In2Weeks(ctx context.Context) (map[string]steam.SpyApp, error) {
	params := url.Values{}
	params.Set("request", "top100in2weeks")

	var apps map[string]steam.SpyApp
	if err := c.request(ctx, "top100in2weeks", params, &apps); err != nil {
		return nil, fmt.Errorf("top100in2weeks: %w", err)
	}
	return apps, nil
}

// Top100Forever returns SteamSpy's all-time most played apps, keyed by app id.
func (c *SpyClient) Top100Forever(ctx context.Context) (map[string]steam.SpyApp, error) {
	params := url.Values{}
	params.Set("request", "top100forever")

	var apps map[string]steam.SpyApp
	if err := c.request(ctx, "top100forever", params, &apps); err != nil {
		return nil, fmt.Errorf("top100forever: %w", err)
	}
	return apps, nil
}

// AppDetails returns SteamSpy's record for one app, mainly for its community
// tags. Returns (nil, nil) when SteamSpy has no record.
func (c *SpyClient) AppDetails(ctx context.Context, appID int64) (*steam.SpyApp, error) {
	params := url.Values{}
	params.Set("request", "appdetails")
	params.Set("appid", strconv.FormatInt(appID, 10))

	var app steam.SpyApp
	if err := c.request(ctx, "appdetails", params, &app); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("spy appdetails %d: %w", appID, err)
	}
	if app.AppID == 0 {
		return nil, nil
	}
	return &app, nil
}
