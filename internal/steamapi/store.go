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
	"regexp"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/gamenighthq/gamenight/internal/config"
	"github.com/gamenighthq/gamenight/internal/metrics"
	"github.com/gamenighthq/gamenight/internal/models/steam"
)

// searchAppIDPattern extracts app ids from the storefront search listing,
// whose payload is an HTML fragment rather than structured data.
var searchAppIDPattern = regexp.MustCompile(`data-ds-appid="(\d+)"`)

// StoreClient talks to the Steam storefront API. The storefront is keyless
// but aggressively rate limited, so every request passes through a shared
// pacing limiter derived from sync.store_delay.
//
// Thread safety: safe for concurrent use; the limiter serializes the pace.
type StoreClient struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewStoreClient creates a storefront client paced at one request per
// storeDelay.
func NewStoreClient(cfg *config.SteamConfig, storeDelay time.Duration) *StoreClient {
	if storeDelay <= 0 {
		storeDelay = 200 * time.Millisecond
	}
	return &StoreClient{
		baseURL: cfg.StoreURL,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Every(storeDelay), 1),
	}
}

func (c *StoreClient) get(ctx context.Context, endpoint, reqURL string, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	start := time.Now()
	err := getJSON(ctx, c.client, reqURL, result)
	metrics.ObserveGatewayRequest("steam_store", endpoint, time.Since(start), err)
	return err
}

// AppDetails fetches the storefront catalog record for one app.
// Returns (nil, nil) when the storefront reports no data for the id, which
// covers delisted apps and region-locked titles.
func (c *StoreClient) AppDetails(ctx context.Context, appID int64) (*steam.AppDetails, error) {
	params := url.Values{}
	params.Set("appids", strconv.FormatInt(appID, 10))
	params.Set("cc", "us")
	params.Set("l", "en")
	reqURL := fmt.Sprintf("%s/api/appdetails?%s", c.baseURL, params.Encode())

	var envelope map[string]steam.AppDetailsEnvelope
	if err := c.get(ctx, "appdetails", reqURL, &envelope); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("appdetails %d: %w", appID, err)
	}

	entry, ok := envelope[strconv.FormatInt(appID, 10)]
	if !ok || !entry.Success || entry.Data == nil {
		return nil, nil
	}
	return entry.Data, nil
}

// AppReviews fetches the aggregate review summary for one app.
// Returns (nil, nil) when the storefront has no review data.
func (c *StoreClient) AppReviews(ctx context.Context, appID int64) (*steam.QuerySummary, error) {
	params := url.Values{}
	params.Set("json", "1")
	params.Set("language", "all")
	params.Set("purchase_type", "all")
	reqURL := fmt.Sprintf("%s/appreviews/%d?%s", c.baseURL, appID, params.Encode())

	var reviews steam.AppReviews
	if err := c.get(ctx, "appreviews", reqURL, &reviews); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("appreviews %d: %w", appID, err)
	}

	if reviews.Success != 1 || reviews.QuerySummary == nil {
		return nil, nil
	}
	return reviews.QuerySummary, nil
}

// ListingAppIDs fetches one of the storefront's named search listings
// (globaltopsellers, topsellers, popularnew, popularcomingsoon) and returns
// the app ids found in it, in listing order with duplicates removed.
func (c *StoreClient) ListingAppIDs(ctx context.Context, filter string, count int) ([]int64, error) {
	params := url.Values{}
	params.Set("filter", filter)
	params.Set("sort_by", "_ASC")
	params.Set("ignore_preferences", "1")
	params.Set("count", strconv.Itoa(count))
	params.Set("infinite", "1")
	reqURL := fmt.Sprintf("%s/search/results/?%s", c.baseURL, params.Encode())

	var results steam.SearchResults
	if err := c.get(ctx, "search", reqURL, &results); err != nil {
		return nil, fmt.Errorf("listing %q: %w", filter, err)
	}
	if results.Success != 1 {
		return nil, nil
	}

	matches := searchAppIDPattern.FindAllStringSubmatch(results.ResultsHTML, -1)
	seen := make(map[int64]struct{}, len(matches))
	var ids []int64
	for _, m := range matches {
		id, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

// FeaturedCategories fetches the storefront front-page blocks and returns
// every app id found in blocks that carry an items array. The response mixes
// item blocks with scalar metadata under the same object, so each value is
// decoded opportunistically.
func (c *StoreClient) FeaturedCategories(ctx context.Context) ([]int64, error) {
	reqURL := fmt.Sprintf("%s/api/featuredcategories", c.baseURL)

	var blocks map[string]json.RawMessage
	if err := c.get(ctx, "featuredcategories", reqURL, &blocks); err != nil {
		return nil, fmt.Errorf("featuredcategories: %w", err)
	}

	seen := make(map[int64]struct{})
	var ids []int64
	for _, raw := range blocks {
		var cat steam.FeaturedCategory
		if err := json.Unmarshal(raw, &cat); err != nil {
			continue
		}
		for _, item := range cat.Items {
			if item.ID == 0 {
				continue
			}
			if _, dup := seen[item.ID]; dup {
				continue
			}
			seen[item.ID] = struct{}{}
			ids = append(ids, item.ID)
		}
	}
	return ids, nil
}
