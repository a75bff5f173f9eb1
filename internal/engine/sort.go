// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

package engine

import (
	"sort"
	"strings"

	"github.com/gamenighthq/gamenight/internal/models"
)

// SortKey names one comparator in the user's priority stack.
type SortKey string

// Sort keys. All sort descending except price ascending and name.
const (
	SortRecommended    SortKey = "recommended"
	SortPriceAsc       SortKey = "price_asc"
	SortPriceDesc      SortKey = "price_desc"
	SortReviews        SortKey = "reviews"
	SortPlaytime       SortKey = "playtime"
	SortName           SortKey = "name"
	SortRecentlyAdded  SortKey = "recently_added"
	SortTrending       SortKey = "trending"
	SortReleaseDate    SortKey = "release_date"
	SortCurrentPlayers SortKey = "current_players"
)

// missingPriceSentinel pushes games without price data behind every priced
// game when sorting by price.
const missingPriceSentinel = int64(99_999_00)

// DefaultSortKey returns the key a tab falls back to when the user's stack
// would otherwise be empty, and the key implicitly appended to guarantee the
// tab's character.
func DefaultSortKey(tab Tab) SortKey {
	switch tab {
	case TabTrending:
		return SortTrending
	case TabNew:
		return SortReleaseDate
	case TabExcluded:
		return SortName
	default:
		return SortRecommended
	}
}

// ToggleSortKey applies one click on a sort chip. An inactive key appends to
// the end of the stack. An active key is removed (canonical behavior), or
// promoted to the front when promote is set. The stack never empties:
// removing the last key resets to the tab default.
func ToggleSortKey(stack []SortKey, key SortKey, promote bool, fallback SortKey) []SortKey {
	idx := -1
	for i, k := range stack {
		if k == key {
			idx = i
			break
		}
	}

	if idx < 0 {
		return append(append([]SortKey{}, stack...), key)
	}

	if promote {
		out := make([]SortKey, 0, len(stack))
		out = append(out, key)
		for _, k := range stack {
			if k != key {
				out = append(out, k)
			}
		}
		return out
	}

	out := make([]SortKey, 0, len(stack))
	for _, k := range stack {
		if k != key {
			out = append(out, k)
		}
	}
	if len(out) == 0 {
		out = append(out, fallback)
	}
	return out
}

// Sort orders games by the stack: the first key that distinguishes two games
// decides; full ties keep input order. A tab's default key is implicitly
// appended when absent, so the trending tab stays trending-ordered under any
// user stack. The input slice is not modified.
func Sort(games []models.GameWithOwnership, stack []SortKey, tab Tab, selectedCount int) []models.GameWithOwnership {
	keys := stack
	def := DefaultSortKey(tab)
	hasDefault := false
	for _, k := range keys {
		if k == def {
			hasDefault = true
			break
		}
	}
	if !hasDefault {
		keys = append(append([]SortKey{}, keys...), def)
	}

	out := append([]models.GameWithOwnership{}, games...)
	sort.SliceStable(out, func(i, j int) bool {
		for _, key := range keys {
			if c := compareKey(&out[i], &out[j], key, selectedCount); c != 0 {
				return c < 0
			}
		}
		return false
	})
	return out
}

// compareKey returns negative when a sorts before b under key.
func compareKey(a, b *models.GameWithOwnership, key SortKey, selectedCount int) int {
	switch key {
	case SortRecommended:
		return descInt(Score(a, selectedCount), Score(b, selectedCount))
	case SortPriceAsc:
		return ascInt64(sortPrice(a), sortPrice(b))
	case SortPriceDesc:
		// Missing prices stay last even in descending order.
		pa, pb := sortPrice(a), sortPrice(b)
		if pa == missingPriceSentinel || pb == missingPriceSentinel {
			return ascInt64(pa, pb)
		}
		return descInt64(pa, pb)
	case SortReviews:
		return descInt(derefInt(a.ReviewScore), derefInt(b.ReviewScore))
	case SortPlaytime:
		switch {
		case a.TotalPlaytimeHours() > b.TotalPlaytimeHours():
			return -1
		case a.TotalPlaytimeHours() < b.TotalPlaytimeHours():
			return 1
		}
		return 0
	case SortName:
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	case SortRecentlyAdded:
		switch {
		case a.CreatedAt.After(b.CreatedAt):
			return -1
		case a.CreatedAt.Before(b.CreatedAt):
			return 1
		}
		return 0
	case SortTrending:
		return descInt(derefInt(a.TrendingScore), derefInt(b.TrendingScore))
	case SortReleaseDate:
		return descString(derefString(a.ReleaseDate), derefString(b.ReleaseDate))
	case SortCurrentPlayers:
		return descInt(derefInt(a.CurrentPlayers), derefInt(b.CurrentPlayers))
	}
	return 0
}

func sortPrice(g *models.GameWithOwnership) int64 {
	if price := g.EffectivePriceCents(); price != nil {
		return *price
	}
	return missingPriceSentinel
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func ascInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func descInt64(a, b int64) int { return ascInt64(b, a) }

func descInt(a, b int) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	}
	return 0
}

// descString orders ISO dates newest first; empty strings sort last.
func descString(a, b string) int {
	if a == b {
		return 0
	}
	if a == "" {
		return 1
	}
	if b == "" {
		return -1
	}
	if a > b {
		return -1
	}
	return 1
}
