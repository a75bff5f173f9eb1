// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

package engine

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gamenighthq/gamenight/internal/models"
)

// Tab identifies a dashboard view.
type Tab string

// Dashboard tabs.
const (
	TabAll         Tab = "all"
	TabTrending    Tab = "trending"
	TabNew         Tab = "new"
	TabShortlisted Tab = "shortlisted"
	TabExcluded    Tab = "excluded"
)

// Mode is a game-mode capability bit.
type Mode uint8

// Game-mode toggles. Enabled modes combine with OR semantics; no enabled
// modes passes everything.
const (
	ModeCoop Mode = 1 << iota
	ModeVersus
	ModeLocal
	ModeOnline
)

// Capability categories backing each mode bit.
var modeCategories = map[Mode][]string{
	ModeCoop:   {"Co-op", "Online Co-op", "LAN Co-op", "Shared/Split Screen Co-op"},
	ModeVersus: {"Multi-player", "Online Multi-Player", "PvP", "Online PvP", "LAN PvP", "Shared/Split Screen PvP"},
	ModeLocal:  {"Shared/Split Screen", "Shared/Split Screen Co-op", "Shared/Split Screen PvP", "LAN Co-op", "LAN PvP"},
	ModeOnline: {"Multi-player", "Online Multi-Player", "Online Co-op", "Online PvP"},
}

// TierFloor is the compatibility floor setting: "all" passes everything,
// "native" requires exactly native, other tiers require at-or-above.
type TierFloor string

// Compatibility floor settings.
const (
	FloorAll      TierFloor = "all"
	FloorNative   TierFloor = "native"
	FloorPlatinum TierFloor = "platinum"
	FloorGold     TierFloor = "gold"
)

// Registers exposes the client-local shortlist and exclusion membership the
// pipeline consults. Satisfied by the register store.
type Registers interface {
	Shortlisted(gameID uuid.UUID) bool
	Excluded(gameID uuid.UUID) bool
}

// FilterState is the session-scoped filter configuration. The zero value
// passes every game (all toggles off, no tags, no search) except that
// SortKeys should be seeded via DefaultSortKey.
type FilterState struct {
	SelectedPlayerIDs []uuid.UUID `json:"selected_player_ids"`

	OwnedByAll      bool `json:"owned_by_all"`
	OwnedByNone     bool `json:"owned_by_none"`
	FreeOnly        bool `json:"free_only"`
	OnSaleOnly      bool `json:"on_sale_only"`
	ShortlistedOnly bool `json:"shortlisted_only"`
	LinuxOnly       bool `json:"linux_only"`

	Modes        Mode      `json:"modes"`
	Floor        TierFloor `json:"floor"`
	ReleasedDays int       `json:"released_days"` // 0 = all

	IncludeTags []string `json:"include_tags"`
	ExcludeTags []string `json:"exclude_tags"`

	SortKeys []SortKey `json:"sort_keys"`
	Search   string    `json:"search"`
}

// ToggleIncludeTag flips a tag's include membership, evicting it from the
// exclude set; a tag is never in both sets.
func (s *FilterState) ToggleIncludeTag(tag string) {
	s.ExcludeTags = removeTag(s.ExcludeTags, tag)
	if containsTag(s.IncludeTags, tag) {
		s.IncludeTags = removeTag(s.IncludeTags, tag)
	} else {
		s.IncludeTags = append(s.IncludeTags, tag)
	}
}

// ToggleExcludeTag flips a tag's exclude membership, evicting it from the
// include set.
func (s *FilterState) ToggleExcludeTag(tag string) {
	s.IncludeTags = removeTag(s.IncludeTags, tag)
	if containsTag(s.ExcludeTags, tag) {
		s.ExcludeTags = removeTag(s.ExcludeTags, tag)
	} else {
		s.ExcludeTags = append(s.ExcludeTags, tag)
	}
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func removeTag(tags []string, tag string) []string {
	out := tags[:0]
	for _, t := range tags {
		if !strings.EqualFold(t, tag) {
			out = append(out, t)
		}
	}
	return out
}

// Visible runs the filter pipeline over every game and returns those passing
// all predicates, in input order. The pipeline never mutates its inputs.
func Visible(games []models.GameWithOwnership, state *FilterState, tab Tab, regs Registers, now time.Time) []models.GameWithOwnership {
	var out []models.GameWithOwnership
	for i := range games {
		if passes(&games[i], state, tab, regs, now, true) {
			out = append(out, games[i])
		}
	}
	return out
}

// TagFacet counts tag frequency across games passing the pre-tag pipeline
// (every predicate except tag sets and text search) and returns the top
// limit tag names by frequency, ties broken alphabetically. This is what
// populates the clickable tag chips, so it reflects the current context
// rather than the global catalog.
func TagFacet(games []models.GameWithOwnership, state *FilterState, tab Tab, regs Registers, now time.Time, limit int) []string {
	counts := make(map[string]int)
	for i := range games {
		if !passes(&games[i], state, tab, regs, now, false) {
			continue
		}
		for _, tag := range games[i].SteamTags {
			counts[tag]++
		}
	}

	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		if counts[tags[i]] != counts[tags[j]] {
			return counts[tags[i]] > counts[tags[j]]
		}
		return tags[i] < tags[j]
	})

	if len(tags) > limit {
		tags = tags[:limit]
	}
	return tags
}

// TabCounts reports how many games each dashboard tab would show under the
// same filter state, so tab badges stay in step with the active filters.
func TabCounts(games []models.GameWithOwnership, state *FilterState, regs Registers, now time.Time) map[Tab]int {
	tabs := []Tab{TabAll, TabTrending, TabNew, TabShortlisted, TabExcluded}
	counts := make(map[Tab]int, len(tabs))
	for _, tab := range tabs {
		n := 0
		for i := range games {
			if passes(&games[i], state, tab, regs, now, true) {
				n++
			}
		}
		counts[tab] = n
	}
	return counts
}

// passes is the sequential AND-chain. Predicates are pure booleans, so the
// order matters only for short-circuit performance. withTagSearch disables
// the final tag and search steps for facet generation.
func passes(g *models.GameWithOwnership, state *FilterState, tab Tab, regs Registers, now time.Time, withTagSearch bool) bool {
	// 1. Deprecated servers hide the game everywhere.
	if g.ServersDeprecated {
		return false
	}

	// 2. Linux-only toggle.
	if state.LinuxOnly && !g.SupportsLinux {
		return false
	}

	// 3. The excluded tab shows only excluded games; every other tab hides
	// them.
	excluded := regs != nil && regs.Excluded(g.ID)
	if tab == TabExcluded {
		if !excluded {
			return false
		}
	} else if excluded {
		return false
	}

	// 4. Group-size fit: a known cap below the selection size can't seat
	// everyone. Unknown caps pass.
	if n := len(state.SelectedPlayerIDs); n > 0 && g.MaxPlayers != nil && *g.MaxPlayers < n {
		return false
	}

	// 5. Game-mode mask, OR across enabled modes, fail-open when none are
	// enabled.
	if state.Modes != 0 && !matchesModes(g, state.Modes) {
		return false
	}

	// 6. Compatibility-tier floor.
	if !passesFloor(g, state.Floor) {
		return false
	}

	// 7. Release-recency ceiling. Missing dates fail every bucket but "all".
	if state.ReleasedDays > 0 {
		released, ok := parseDay(g.ReleaseDate)
		if !ok || now.Sub(released) > time.Duration(state.ReleasedDays)*24*time.Hour {
			return false
		}
	}

	// 8. The trending tab requires a positive trending score.
	if tab == TabTrending && (g.TrendingScore == nil || *g.TrendingScore <= 0) {
		return false
	}

	// 9. Shortlist membership, via toggle or tab.
	if state.ShortlistedOnly || tab == TabShortlisted {
		if regs == nil || !regs.Shortlisted(g.ID) {
			return false
		}
	}

	// 10. Ownership toggles. OwnedByAll uses the effective boolean so free
	// games always pass it.
	if state.OwnedByAll && !g.EffectiveAllOwn() {
		return false
	}
	if state.OwnedByNone && g.OwnerCount > 0 {
		return false
	}
	if state.FreeOnly && !g.IsFree {
		return false
	}
	if state.OnSaleOnly && !g.IsOnSale && !g.IsFree {
		return false
	}

	if !withTagSearch {
		return true
	}

	// 11-12. Tag sets match against the combined tags and categories,
	// case-insensitively.
	if len(state.IncludeTags) > 0 && !anyTagMatch(g, state.IncludeTags) {
		return false
	}
	if len(state.ExcludeTags) > 0 && anyTagMatch(g, state.ExcludeTags) {
		return false
	}

	// 13. Free-text search against the name only.
	if state.Search != "" && !strings.Contains(strings.ToLower(g.Name), strings.ToLower(state.Search)) {
		return false
	}

	return true
}

func matchesModes(g *models.GameWithOwnership, enabled Mode) bool {
	for mode, categories := range modeCategories {
		if enabled&mode == 0 {
			continue
		}
		for _, want := range categories {
			for _, have := range g.Categories {
				if have == want {
					return true
				}
			}
		}
	}
	return false
}

func passesFloor(g *models.GameWithOwnership, floor TierFloor) bool {
	switch floor {
	case "", FloorAll:
		return true
	case FloorNative:
		return g.CompatTier != nil && *g.CompatTier == models.TierNative
	default:
		return g.CompatTier != nil && g.CompatTier.AtLeast(models.CompatTier(floor))
	}
}

func anyTagMatch(g *models.GameWithOwnership, tags []string) bool {
	for _, want := range tags {
		for _, have := range g.SteamTags {
			if strings.EqualFold(have, want) {
				return true
			}
		}
		for _, have := range g.Categories {
			if strings.EqualFold(have, want) {
				return true
			}
		}
	}
	return false
}

func parseDay(date *string) (time.Time, bool) {
	if date == nil {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", *date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
