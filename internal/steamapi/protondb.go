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
	"strconv"
	"time"

	"github.com/gamenighthq/gamenight/internal/cache"
	"github.com/gamenighthq/gamenight/internal/config"
	"github.com/gamenighthq/gamenight/internal/metrics"
	"github.com/gamenighthq/gamenight/internal/models/steam"
)

// protonCacheTTL bounds how stale a memoized tier can get. Tiers move on the
// scale of weeks, so re-enrichment within a day can skip the gateway.
const protonCacheTTL = 24 * time.Hour

const protonCacheSize = 4096

// ProtonClient talks to ProtonDB's report-summary API, the source of Linux
// compatibility tiers for non-native titles. Summaries are memoized
// in-process; a nil summary (not enough reports) is cached too.
type ProtonClient struct {
	baseURL string
	client  *http.Client
	cache   *cache.LRU[*steam.ProtonSummary]
}

// NewProtonClient creates a ProtonDB client.
func NewProtonClient(cfg *config.GatewayConfig) *ProtonClient {
	return &ProtonClient{
		baseURL: cfg.URL,
		client:  &http.Client{Timeout: cfg.Timeout},
		cache:   cache.NewLRU[*steam.ProtonSummary](protonCacheSize, protonCacheTTL),
	}
}

// Summary returns the report summary for one app. Apps without enough reports
// have no summary; that is returned as (nil, nil), not an error.
func (c *ProtonClient) Summary(ctx context.Context, appID int64) (*steam.ProtonSummary, error) {
	key := strconv.FormatInt(appID, 10)
	if cached, ok := c.cache.Get(key); ok {
		return cached, nil
	}

	reqURL := fmt.Sprintf("%s/api/v1/reports/summaries/%d.json", c.baseURL, appID)

	var summary steam.ProtonSummary
	start := time.Now()
	err := getJSON(ctx, c.client, reqURL, &summary)
	metrics.ObserveGatewayRequest("protondb", "summaries", time.Since(start), err)
	if err != nil {
		if errors.Is(err, errNotFound) {
			c.cache.Set(key, nil)
			return nil, nil
		}
		return nil, fmt.Errorf("protondb summary %d: %w", appID, err)
	}

	c.cache.Set(key, &summary)
	return &summary, nil
}
