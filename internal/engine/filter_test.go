// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

package engine

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/gamenighthq/gamenight/internal/models"
)

// fakeRegisters is an in-memory Registers implementation for pipeline tests.
type fakeRegisters struct {
	shortlisted map[uuid.UUID]bool
	excluded    map[uuid.UUID]bool
}

func (f *fakeRegisters) Shortlisted(id uuid.UUID) bool { return f.shortlisted[id] }
func (f *fakeRegisters) Excluded(id uuid.UUID) bool    { return f.excluded[id] }

func newFakeRegisters() *fakeRegisters {
	return &fakeRegisters{
		shortlisted: make(map[uuid.UUID]bool),
		excluded:    make(map[uuid.UUID]bool),
	}
}

func testGame(name string) models.GameWithOwnership {
	return models.GameWithOwnership{
		Game: models.Game{
			ID:   uuid.New(),
			Name: name,
		},
	}
}

func visibleNames(games []models.GameWithOwnership) []string {
	names := make([]string, 0, len(games))
	for _, g := range games {
		names = append(names, g.Name)
	}
	return names
}

func TestVisibleDeprecatedServersHiddenEverywhere(t *testing.T) {
	g := testGame("Dead Game")
	g.ServersDeprecated = true
	games := []models.GameWithOwnership{g}
	regs := newFakeRegisters()
	regs.excluded[g.ID] = true

	for _, tab := range []Tab{TabAll, TabTrending, TabNew, TabShortlisted, TabExcluded} {
		if got := Visible(games, &FilterState{}, tab, regs, time.Now()); len(got) != 0 {
			t.Errorf("tab %s: deprecated game should be hidden, got %v", tab, visibleNames(got))
		}
	}
}

func TestVisibleExclusionTabInversion(t *testing.T) {
	kept := testGame("Kept")
	vetoed := testGame("Vetoed")
	games := []models.GameWithOwnership{kept, vetoed}

	regs := newFakeRegisters()
	regs.excluded[vetoed.ID] = true

	all := Visible(games, &FilterState{}, TabAll, regs, time.Now())
	if len(all) != 1 || all[0].Name != "Kept" {
		t.Errorf("all tab should hide excluded games, got %v", visibleNames(all))
	}

	exc := Visible(games, &FilterState{}, TabExcluded, regs, time.Now())
	if len(exc) != 1 || exc[0].Name != "Vetoed" {
		t.Errorf("excluded tab should show only excluded games, got %v", visibleNames(exc))
	}
}

func TestVisibleGroupSizeFit(t *testing.T) {
	duo := testGame("Duo Only")
	duo.MaxPlayers = intPtr(2)
	unknown := testGame("Unknown Cap")
	games := []models.GameWithOwnership{duo, unknown}

	state := &FilterState{
		SelectedPlayerIDs: []uuid.UUID{uuid.New(), uuid.New(), uuid.New()},
	}
	got := Visible(games, state, TabAll, newFakeRegisters(), time.Now())
	if len(got) != 1 || got[0].Name != "Unknown Cap" {
		t.Errorf("a 2-player cap cannot seat 3; unknown caps pass. got %v", visibleNames(got))
	}
}

func TestVisibleModeMask(t *testing.T) {
	coop := testGame("Coop Game")
	coop.Categories = []string{"Online Co-op"}
	versus := testGame("Versus Game")
	versus.Categories = []string{"PvP"}
	games := []models.GameWithOwnership{coop, versus}
	regs := newFakeRegisters()

	// No modes enabled: fail-open.
	if got := Visible(games, &FilterState{}, TabAll, regs, time.Now()); len(got) != 2 {
		t.Errorf("no modes should pass everything, got %v", visibleNames(got))
	}

	// Co-op only.
	state := &FilterState{Modes: ModeCoop}
	got := Visible(games, state, TabAll, regs, time.Now())
	if len(got) != 1 || got[0].Name != "Coop Game" {
		t.Errorf("coop mode should match only the coop game, got %v", visibleNames(got))
	}

	// OR semantics across enabled modes.
	state = &FilterState{Modes: ModeCoop | ModeVersus}
	if got := Visible(games, state, TabAll, regs, time.Now()); len(got) != 2 {
		t.Errorf("coop|versus should match both, got %v", visibleNames(got))
	}
}

func TestVisibleTierFloor(t *testing.T) {
	native := testGame("Native")
	native.CompatTier = tierPtr(models.TierNative)
	gold := testGame("Gold")
	gold.CompatTier = tierPtr(models.TierGold)
	unrated := testGame("Unrated")
	games := []models.GameWithOwnership{native, gold, unrated}
	regs := newFakeRegisters()

	tests := []struct {
		floor TierFloor
		want  []string
	}{
		{FloorAll, []string{"Native", "Gold", "Unrated"}},
		{FloorGold, []string{"Native", "Gold"}},
		{FloorPlatinum, []string{"Native"}},
		{FloorNative, []string{"Native"}},
	}

	for _, tt := range tests {
		got := Visible(games, &FilterState{Floor: tt.floor}, TabAll, regs, time.Now())
		names := visibleNames(got)
		if len(names) != len(tt.want) {
			t.Errorf("floor %s: got %v, want %v", tt.floor, names, tt.want)
			continue
		}
		for i := range names {
			if names[i] != tt.want[i] {
				t.Errorf("floor %s: got %v, want %v", tt.floor, names, tt.want)
				break
			}
		}
	}
}

func TestVisibleReleaseRecency(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	recent := testGame("Recent")
	recent.ReleaseDate = strPtr("2026-07-20")
	old := testGame("Old")
	old.ReleaseDate = strPtr("2020-01-01")
	undated := testGame("Undated")
	games := []models.GameWithOwnership{recent, old, undated}
	regs := newFakeRegisters()

	// All-time: everything passes, dated or not.
	if got := Visible(games, &FilterState{}, TabAll, regs, now); len(got) != 3 {
		t.Errorf("released_days=0 should pass everything, got %v", visibleNames(got))
	}

	// 30-day window: only the recent release; missing dates fail.
	got := Visible(games, &FilterState{ReleasedDays: 30}, TabAll, regs, now)
	if len(got) != 1 || got[0].Name != "Recent" {
		t.Errorf("30-day window should pass only the recent release, got %v", visibleNames(got))
	}
}

func TestVisibleTrendingTabRequiresScore(t *testing.T) {
	ranked := testGame("Ranked")
	ranked.TrendingScore = intPtr(80)
	unranked := testGame("Unranked")
	zero := testGame("Zeroed")
	zero.TrendingScore = intPtr(0)
	games := []models.GameWithOwnership{ranked, unranked, zero}

	got := Visible(games, &FilterState{}, TabTrending, newFakeRegisters(), time.Now())
	if len(got) != 1 || got[0].Name != "Ranked" {
		t.Errorf("trending tab should require a positive score, got %v", visibleNames(got))
	}
}

func TestVisibleOwnershipToggles(t *testing.T) {
	owned := testGame("Owned By All")
	owned.AllSelectedOwn = true
	owned.OwnerCount = 2
	free := testGame("Free Game")
	free.IsFree = true
	unowned := testGame("Unowned")
	games := []models.GameWithOwnership{owned, free, unowned}
	regs := newFakeRegisters()

	// Free games count as owned by everyone.
	got := Visible(games, &FilterState{OwnedByAll: true}, TabAll, regs, time.Now())
	if len(got) != 2 {
		t.Errorf("owned-by-all should pass owned and free games, got %v", visibleNames(got))
	}

	got = Visible(games, &FilterState{OwnedByNone: true}, TabAll, regs, time.Now())
	if len(got) != 2 {
		t.Errorf("owned-by-none should pass games without owners, got %v", visibleNames(got))
	}

	got = Visible(games, &FilterState{FreeOnly: true}, TabAll, regs, time.Now())
	if len(got) != 1 || got[0].Name != "Free Game" {
		t.Errorf("free-only should pass only free games, got %v", visibleNames(got))
	}
}

func TestVisibleOnSaleIncludesFree(t *testing.T) {
	sale := testGame("On Sale")
	sale.IsOnSale = true
	free := testGame("Free")
	free.IsFree = true
	full := testGame("Full Price")
	games := []models.GameWithOwnership{sale, free, full}

	got := Visible(games, &FilterState{OnSaleOnly: true}, TabAll, newFakeRegisters(), time.Now())
	if len(got) != 2 {
		t.Errorf("on-sale filter should also pass free games, got %v", visibleNames(got))
	}
}

func TestVisibleTagsAndSearch(t *testing.T) {
	rogue := testGame("Rogue Night")
	rogue.SteamTags = []string{"Roguelike", "Co-op"}
	party := testGame("Party Pack")
	party.Categories = []string{"Shared/Split Screen"}
	games := []models.GameWithOwnership{rogue, party}
	regs := newFakeRegisters()

	// Include tags match tags and categories, case-insensitively.
	state := &FilterState{IncludeTags: []string{"roguelike"}}
	got := Visible(games, state, TabAll, regs, time.Now())
	if len(got) != 1 || got[0].Name != "Rogue Night" {
		t.Errorf("include tag should match case-insensitively, got %v", visibleNames(got))
	}

	state = &FilterState{IncludeTags: []string{"shared/split screen"}}
	got = Visible(games, state, TabAll, regs, time.Now())
	if len(got) != 1 || got[0].Name != "Party Pack" {
		t.Errorf("include tag should match categories too, got %v", visibleNames(got))
	}

	state = &FilterState{ExcludeTags: []string{"Co-op"}}
	got = Visible(games, state, TabAll, regs, time.Now())
	if len(got) != 1 || got[0].Name != "Party Pack" {
		t.Errorf("exclude tag should drop matching games, got %v", visibleNames(got))
	}

	state = &FilterState{Search: "pack"}
	got = Visible(games, state, TabAll, regs, time.Now())
	if len(got) != 1 || got[0].Name != "Party Pack" {
		t.Errorf("search should substring-match the name, got %v", visibleNames(got))
	}
}

func TestToggleTagMutualExclusion(t *testing.T) {
	state := &FilterState{}

	state.ToggleIncludeTag("Co-op")
	if len(state.IncludeTags) != 1 {
		t.Fatalf("include set = %v, want one entry", state.IncludeTags)
	}

	// Moving to the exclude set evicts the include entry.
	state.ToggleExcludeTag("co-op")
	if len(state.IncludeTags) != 0 || len(state.ExcludeTags) != 1 {
		t.Errorf("tag should move sets: include=%v exclude=%v", state.IncludeTags, state.ExcludeTags)
	}

	// Toggling again removes it entirely.
	state.ToggleExcludeTag("CO-OP")
	if len(state.ExcludeTags) != 0 {
		t.Errorf("second toggle should clear the tag, got %v", state.ExcludeTags)
	}
}

func TestTagFacetIgnoresTagFilters(t *testing.T) {
	a := testGame("A")
	a.SteamTags = []string{"Roguelike", "Co-op"}
	b := testGame("B")
	b.SteamTags = []string{"Co-op"}
	c := testGame("C")
	c.SteamTags = []string{"Strategy"}
	c.ServersDeprecated = true
	games := []models.GameWithOwnership{a, b, c}

	// Tag filters must not feed back into the facet, or chips would vanish
	// as soon as they are clicked. Deprecated games stay out of the counts.
	state := &FilterState{IncludeTags: []string{"Roguelike"}}
	tags := TagFacet(games, state, TabAll, newFakeRegisters(), time.Now(), 20)

	want := []string{"Co-op", "Roguelike"}
	if len(tags) != len(want) {
		t.Fatalf("facet = %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("facet = %v, want %v (frequency desc, alpha tiebreak)", tags, want)
			break
		}
	}
}

func TestTagFacetLimit(t *testing.T) {
	g := testGame("Many Tags")
	g.SteamTags = []string{"A", "B", "C", "D", "E"}
	games := []models.GameWithOwnership{g}

	tags := TagFacet(games, &FilterState{}, TabAll, newFakeRegisters(), time.Now(), 3)
	if len(tags) != 3 {
		t.Errorf("facet should honor the limit, got %v", tags)
	}
}

func TestTabCountsPerTab(t *testing.T) {
	plain := testGame("Plain")
	hot := testGame("Hot")
	hot.TrendingScore = intPtr(80)
	starred := testGame("Starred")
	vetoed := testGame("Vetoed")
	games := []models.GameWithOwnership{plain, hot, starred, vetoed}

	regs := newFakeRegisters()
	regs.shortlisted[starred.ID] = true
	regs.excluded[vetoed.ID] = true

	counts := TabCounts(games, &FilterState{}, regs, time.Now())
	want := map[Tab]int{
		TabAll:         3,
		TabTrending:    1,
		TabNew:         3,
		TabShortlisted: 1,
		TabExcluded:    1,
	}
	for tab, n := range want {
		if counts[tab] != n {
			t.Errorf("tab %s: want %d, got %d", tab, n, counts[tab])
		}
	}

	// Counts reflect the active filter state, not the global catalog.
	counts = TabCounts(games, &FilterState{Search: "hot"}, regs, time.Now())
	if counts[TabAll] != 1 || counts[TabTrending] != 1 || counts[TabShortlisted] != 0 {
		t.Errorf("search should narrow every tab count, got %v", counts)
	}
}
