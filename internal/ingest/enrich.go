// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

package ingest

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/gamenighthq/gamenight/internal/logging"
	"github.com/gamenighthq/gamenight/internal/models"
)

// Skip reasons shared by discovery outcomes and metrics labels.
const (
	skipNoStoreData = "no_store_data"
	skipNotAGame    = "not_a_game"
)

// maxEnrichTags caps how many community tags are stored per game.
const maxEnrichTags = 10

// enrichGame assembles a full catalog row for one app from the storefront,
// ProtonDB, and SteamSpy. A nil game with a non-empty reason is a tolerated
// skip; an error means the storefront itself failed, which leaves nothing to
// store. Secondary gateways (ProtonDB, reviews, SteamSpy) never fail the
// item: their fields degrade to nil and the row is stored anyway.
//
// The returned row deliberately omits best price, trending score, and live
// player count: those columns belong to the narrower jobs and the upsert
// leaves them untouched.
func (r *Runner) enrichGame(ctx context.Context, appID int64) (*models.Game, string, error) {
	details, err := r.store.AppDetails(ctx, appID)
	if err != nil {
		return nil, "", fmt.Errorf("store details: %w", err)
	}
	if details == nil {
		return nil, skipNoStoreData, nil
	}
	if details.Type != "game" {
		return nil, skipNotAGame, nil
	}

	categories := make([]string, 0, len(details.Categories))
	for _, c := range details.Categories {
		categories = append(categories, c.Description)
	}

	g := &models.Game{
		SteamAppID:     appID,
		Name:           details.Name,
		HeaderImageURL: details.HeaderImage,
		Description:    details.ShortDescription,
		IsMultiplayer:  models.IsMultiplayerCategories(categories),
		IsFree:         details.IsFree,
		Categories:     categories,
	}

	// Compatibility: native Linux builds short-circuit ProtonDB. A ProtonDB
	// failure leaves the tier nil; the next enrichment pass fills it in.
	if details.Platforms.Linux {
		tier := models.TierNative
		g.CompatTier = &tier
		g.SupportsLinux = true
	} else if summary, err := r.proton.Summary(ctx, appID); err != nil {
		logging.Warn().Err(err).Int64("app_id", appID).Msg("ProtonDB lookup failed; storing without tier")
	} else {
		tier := models.TierPending
		if summary != nil && summary.Tier != "" {
			tier = models.CompatTier(strings.ToLower(summary.Tier))
		}
		g.CompatTier = &tier
		g.SupportsLinux = tier.LinuxOK()
	}

	// Review aggregate. Zero total reviews means no score, not a zero score;
	// a gateway failure likewise degrades to no score.
	reviews, err := r.store.AppReviews(ctx, appID)
	if err != nil {
		logging.Warn().Err(err).Int64("app_id", appID).Msg("Review lookup failed; storing without score")
	}
	if reviews != nil && reviews.TotalReviews > 0 {
		score := int(math.Round(float64(reviews.TotalPositive) / float64(reviews.TotalReviews) * 100))
		label := models.ReviewLabelFor(score)
		g.ReviewScore = &score
		g.ReviewLabel = &label
		g.ReviewCount = &reviews.TotalReviews
	}

	// Community tags from SteamSpy, falling back to storefront genres.
	// SteamSpy failures degrade to the fallback rather than failing the item.
	if spyApp, err := r.spy.AppDetails(ctx, appID); err == nil && spyApp != nil {
		tags := spyApp.DecodeTags()
		if len(tags) > maxEnrichTags {
			tags = tags[:maxEnrichTags]
		}
		g.SteamTags = tags
	}
	if len(g.SteamTags) == 0 {
		for _, genre := range details.Genres {
			g.SteamTags = append(g.SteamTags, genre.Description)
		}
	}

	g.MaxPlayers = models.InferMaxPlayers(g.Categories, g.SteamTags)

	if details.PriceOverview != nil {
		price := details.PriceOverview.Final
		g.SteamPriceCents = &price
		if details.PriceOverview.DiscountPercent > 0 {
			g.IsOnSale = true
			pct := details.PriceOverview.DiscountPercent
			g.SalePercent = &pct
		}
	}

	if details.ReleaseDate != nil {
		g.IsComingSoon = details.ReleaseDate.ComingSoon
		g.ReleaseDate = parseReleaseDate(details.ReleaseDate.Date)
	}

	return g, "", nil
}

// enrichAndStore runs enrichGame and upserts the result. Every title the
// storefront calls a game is stored, single-player included; the filter
// pipeline's mode masks decide visibility downstream.
func (r *Runner) enrichAndStore(ctx context.Context, appID int64) (*models.Game, string, error) {
	g, reason, err := r.enrichGame(ctx, appID)
	if err != nil || reason != "" {
		return nil, reason, err
	}
	if err := r.db.UpsertGame(ctx, g); err != nil {
		return nil, "", err
	}
	return g, "", nil
}

// releaseDateLayouts covers the storefront's free-text date formats, most
// specific first. Month-only and year-only dates resolve to their first day.
var releaseDateLayouts = []string{
	"2 Jan, 2006",
	"Jan 2, 2006",
	"2 January, 2006",
	"January 2, 2006",
	"Jan 2006",
	"January 2006",
	"2006",
}

func parseReleaseDate(raw string) *string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range releaseDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			s := t.Format("2006-01-02")
			return &s
		}
	}
	return nil
}
