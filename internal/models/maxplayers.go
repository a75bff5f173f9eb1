// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

package models

import "strings"

// Storefront capability categories that mark a title as multiplayer.
var multiplayerCategories = map[string]bool{
	"Multi-player":              true,
	"Online Multi-Player":       true,
	"Co-op":                     true,
	"Online Co-op":              true,
	"LAN Co-op":                 true,
	"Shared/Split Screen Co-op": true,
	"Shared/Split Screen":       true,
}

// IsMultiplayerCategories reports whether any storefront category marks the
// title as multiplayer.
func IsMultiplayerCategories(categories []string) bool {
	for _, c := range categories {
		if multiplayerCategories[c] {
			return true
		}
	}
	return false
}

// InferMaxPlayers estimates a session player cap from storefront categories
// and community tags. Steam has no structured player-count field, so this is
// a heuristic ladder from the most specific signal down to genre defaults:
//
//	MMO label              -> 999
//	Battle Royale label    -> 100
//	single-player only     -> 1
//	local-only multiplayer -> 4
//	co-op without versus   -> 4
//	versus plus co-op      -> 8
//	versus only            -> 16
//
// The MMO and Battle Royale checks are case-insensitive substring matches
// across categories and tags combined, so "MMORPG" and "battle royale" both
// count. Returns nil when no signal applies; filters treat unknown as
// passing.
func InferMaxPlayers(categories, tags []string) *int {
	labels := make([]string, 0, len(categories)+len(tags))
	for _, c := range categories {
		labels = append(labels, strings.ToLower(c))
	}
	for _, t := range tags {
		labels = append(labels, strings.ToLower(t))
	}

	anyContains := func(substrs ...string) bool {
		for _, l := range labels {
			for _, s := range substrs {
				if strings.Contains(l, s) {
					return true
				}
			}
		}
		return false
	}

	if anyContains("massively multiplayer", "mmo") {
		return intp(999)
	}
	if anyContains("battle royale") {
		return intp(100)
	}

	hasCat := func(wants ...string) bool {
		for _, c := range categories {
			for _, w := range wants {
				if c == w {
					return true
				}
			}
		}
		return false
	}

	hasVersus := hasCat("Multi-player", "Online Multi-Player")
	hasCoop := hasCat("Co-op", "Online Co-op")
	hasSingle := hasCat("Single-player")
	hasLocal := hasCat("Shared/Split Screen", "Shared/Split Screen Co-op", "Shared/Split Screen PvP")

	switch {
	case hasSingle && !hasVersus && !hasCoop && !hasLocal:
		return intp(1)
	case hasLocal && !hasVersus && !hasCoop:
		return intp(4)
	case hasCoop && !hasVersus:
		return intp(4)
	case hasVersus && hasCoop:
		return intp(8)
	case hasVersus:
		return intp(16)
	}
	return nil
}

func intp(v int) *int { return &v }
