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

// DealsClient talks to the IsThereAnyDeal API. Price sync is a two-phase
// exchange: Lookup resolves Steam app ids into the aggregator's namespace one
// at a time, then Overview fetches current best prices for a whole batch in a
// single call.
type DealsClient struct {
	baseURL string
	apiKey  string
	country string
	client  *http.Client
}

// NewDealsClient creates a deal-aggregator client. Configured returns false
// when no API key is present, which disables price sync entirely.
func NewDealsClient(cfg *config.DealsConfig) *DealsClient {
	country := cfg.Country
	if country == "" {
		country = "GB"
	}
	return &DealsClient{
		baseURL: cfg.URL,
		apiKey:  cfg.APIKey,
		country: country,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

// Configured reports whether an API key is available.
func (c *DealsClient) Configured() bool {
	return c.apiKey != ""
}

// Lookup resolves a Steam app id to the aggregator's internal game id.
// Returns (nil, nil) when the aggregator does not track the title.
func (c *DealsClient) Lookup(ctx context.Context, appID int64) (*steam.DealGame, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("appid", strconv.FormatInt(appID, 10))
	reqURL := fmt.Sprintf("%s/games/lookup/v1?%s", c.baseURL, params.Encode())

	var lookup steam.DealLookup
	start := time.Now()
	err := getJSON(ctx, c.client, reqURL, &lookup)
	metrics.ObserveGatewayRequest("itad", "lookup", time.Since(start), err)
	if err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("deal lookup %d: %w", appID, err)
	}

	if !lookup.Found || lookup.Game == nil {
		return nil, nil
	}
	return lookup.Game, nil
}

// Overview fetches the current best price for each aggregator game id in one
// batched call.
func (c *DealsClient) Overview(ctx context.Context, gameIDs []string) ([]steam.DealPrice, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("country", c.country)
	reqURL := fmt.Sprintf("%s/games/overview/v2?%s", c.baseURL, params.Encode())

	var overview steam.DealOverview
	start := time.Now()
	err := postJSON(ctx, c.client, reqURL, gameIDs, &overview)
	metrics.ObserveGatewayRequest("itad", "overview", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("deal overview: %w", err)
	}
	return overview.Prices, nil
}
