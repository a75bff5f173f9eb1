// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

package engine

import (
	"testing"
	"time"

	"github.com/gamenighthq/gamenight/internal/models"
)

func TestDefaultSortKey(t *testing.T) {
	tests := []struct {
		tab  Tab
		want SortKey
	}{
		{TabAll, SortRecommended},
		{TabTrending, SortTrending},
		{TabNew, SortReleaseDate},
		{TabShortlisted, SortRecommended},
		{TabExcluded, SortName},
	}
	for _, tt := range tests {
		if got := DefaultSortKey(tt.tab); got != tt.want {
			t.Errorf("DefaultSortKey(%s) = %s, want %s", tt.tab, got, tt.want)
		}
	}
}

func TestToggleSortKey(t *testing.T) {
	stack := []SortKey{SortRecommended}

	// Inactive key appends.
	stack = ToggleSortKey(stack, SortPriceAsc, false, SortRecommended)
	if len(stack) != 2 || stack[1] != SortPriceAsc {
		t.Fatalf("append: got %v", stack)
	}

	// Active key with promote moves to the front.
	stack = ToggleSortKey(stack, SortPriceAsc, true, SortRecommended)
	if len(stack) != 2 || stack[0] != SortPriceAsc {
		t.Fatalf("promote: got %v", stack)
	}

	// Active key without promote is removed.
	stack = ToggleSortKey(stack, SortPriceAsc, false, SortRecommended)
	if len(stack) != 1 || stack[0] != SortRecommended {
		t.Fatalf("remove: got %v", stack)
	}

	// Removing the last key falls back rather than emptying the stack.
	stack = ToggleSortKey(stack, SortRecommended, false, SortTrending)
	if len(stack) != 1 || stack[0] != SortTrending {
		t.Fatalf("fallback: got %v", stack)
	}
}

func TestToggleSortKeyDoesNotMutateInput(t *testing.T) {
	stack := []SortKey{SortRecommended, SortName}
	_ = ToggleSortKey(stack, SortName, true, SortRecommended)
	if stack[0] != SortRecommended || stack[1] != SortName {
		t.Errorf("input stack mutated: %v", stack)
	}
}

func TestSortStackFirstDistinguishingKeyWins(t *testing.T) {
	cheapOld := testGame("Cheap Old")
	cheapOld.SteamPriceCents = int64Ptr(500)
	cheapOld.ReviewScore = intPtr(50)
	cheapNew := testGame("Cheap New")
	cheapNew.SteamPriceCents = int64Ptr(500)
	cheapNew.ReviewScore = intPtr(90)
	pricey := testGame("Pricey")
	pricey.SteamPriceCents = int64Ptr(3000)
	pricey.ReviewScore = intPtr(99)

	games := []models.GameWithOwnership{pricey, cheapOld, cheapNew}
	sorted := Sort(games, []SortKey{SortPriceAsc, SortReviews}, TabAll, 0)

	want := []string{"Cheap New", "Cheap Old", "Pricey"}
	for i, name := range want {
		if sorted[i].Name != name {
			t.Fatalf("sorted = %v, want %v", visibleNames(sorted), want)
		}
	}
}

func TestSortMissingPricesLast(t *testing.T) {
	priced := testGame("Priced")
	priced.SteamPriceCents = int64Ptr(9999)
	unpriced := testGame("Unpriced")

	games := []models.GameWithOwnership{unpriced, priced}

	asc := Sort(games, []SortKey{SortPriceAsc}, TabAll, 0)
	if asc[0].Name != "Priced" {
		t.Errorf("ascending: missing price should sort last, got %v", visibleNames(asc))
	}

	desc := Sort(games, []SortKey{SortPriceDesc}, TabAll, 0)
	if desc[0].Name != "Priced" {
		t.Errorf("descending: missing price should still sort last, got %v", visibleNames(desc))
	}
}

func TestSortImplicitTabDefault(t *testing.T) {
	hot := testGame("Hot")
	hot.TrendingScore = intPtr(95)
	hot.SteamPriceCents = int64Ptr(1000)
	cool := testGame("Cool")
	cool.TrendingScore = intPtr(40)
	cool.SteamPriceCents = int64Ptr(1000)

	// The user stack ties on price, so the implicit trending default breaks
	// the tie on the trending tab.
	games := []models.GameWithOwnership{cool, hot}
	sorted := Sort(games, []SortKey{SortPriceAsc}, TabTrending, 0)
	if sorted[0].Name != "Hot" {
		t.Errorf("trending default should break the tie, got %v", visibleNames(sorted))
	}
}

func TestSortStableOnFullTie(t *testing.T) {
	a := testGame("Same")
	b := testGame("Same")
	games := []models.GameWithOwnership{a, b}

	sorted := Sort(games, []SortKey{SortName}, TabAll, 0)
	if sorted[0].ID != a.ID || sorted[1].ID != b.ID {
		t.Error("full ties should keep input order")
	}
}

func TestSortReleaseDateNewestFirst(t *testing.T) {
	old := testGame("Old")
	old.ReleaseDate = strPtr("2019-03-01")
	recent := testGame("Recent")
	recent.ReleaseDate = strPtr("2026-07-01")
	undated := testGame("Undated")

	games := []models.GameWithOwnership{old, undated, recent}
	sorted := Sort(games, []SortKey{SortReleaseDate}, TabAll, 0)

	want := []string{"Recent", "Old", "Undated"}
	for i, name := range want {
		if sorted[i].Name != name {
			t.Fatalf("sorted = %v, want %v", visibleNames(sorted), want)
		}
	}
}

func TestSortRecentlyAdded(t *testing.T) {
	older := testGame("Older")
	older.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := testGame("Newer")
	newer.CreatedAt = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	games := []models.GameWithOwnership{older, newer}
	sorted := Sort(games, []SortKey{SortRecentlyAdded}, TabAll, 0)
	if sorted[0].Name != "Newer" {
		t.Errorf("recently added should sort newest first, got %v", visibleNames(sorted))
	}
}

func TestSortDoesNotMutateInput(t *testing.T) {
	a := testGame("B Game")
	b := testGame("A Game")
	games := []models.GameWithOwnership{a, b}

	_ = Sort(games, []SortKey{SortName}, TabAll, 0)
	if games[0].Name != "B Game" {
		t.Error("Sort must not reorder its input slice")
	}
}
