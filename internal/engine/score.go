// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

package engine

import (
	"math"

	"github.com/gamenighthq/gamenight/internal/models"
)

// Scoring weights. Factors are independent, so the total is a relative
// ranking signal rather than a calibrated percentage; the practical ceiling
// is 100.
const (
	weightOwnership = 40.0
	weightReviews   = 25.0
	weightPrice     = 15.0
	weightTrending  = 10.0
	bonusOnSale     = 5.0
	bonusNative     = 5.0
)

// Score rates a game for the current selection. Deterministic, pure, and
// additive across clamped factors:
//
//	ownership:  up to 40, linear in selected owners / selected count
//	reviews:    up to 25, linear in positivity% / 100
//	price:      up to 15; free gets all 15, else max(0, 15 - price in major units)
//	trending:   up to 10, rank score / 10
//	on sale:    flat 5
//	native:     flat 5
func Score(g *models.GameWithOwnership, selectedCount int) int {
	var total float64

	if selectedCount > 0 {
		total += weightOwnership * float64(g.OwnerCount) / float64(selectedCount)
	}

	if g.ReviewScore != nil {
		total += weightReviews * float64(*g.ReviewScore) / 100
	}

	if price := g.EffectivePriceCents(); price != nil {
		major := float64(*price) / 100
		total += math.Max(0, weightPrice-major)
	}

	if g.TrendingScore != nil {
		trend := float64(*g.TrendingScore) / 10
		if trend > weightTrending {
			trend = weightTrending
		}
		total += trend
	}

	if g.IsOnSale {
		total += bonusOnSale
	}

	if g.CompatTier != nil && *g.CompatTier == models.TierNative {
		total += bonusNative
	}

	return int(math.Round(total))
}
