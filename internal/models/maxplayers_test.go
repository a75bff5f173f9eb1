// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

package models

import "testing"

func TestIsMultiplayerCategories(t *testing.T) {
	if !IsMultiplayerCategories([]string{"Single-player", "Online Co-op"}) {
		t.Error("any multiplayer category should qualify the title")
	}
	if IsMultiplayerCategories([]string{"Single-player", "Steam Achievements"}) {
		t.Error("non-multiplayer categories should not qualify")
	}
	if IsMultiplayerCategories(nil) {
		t.Error("no categories should not qualify")
	}
}

func TestInferMaxPlayers(t *testing.T) {
	tests := []struct {
		name       string
		categories []string
		tags       []string
		want       *int
	}{
		{"mmo tag wins", []string{"Multi-player"}, []string{"Massively Multiplayer"}, intp(999)},
		{"mmo substring matches", []string{"Multi-player"}, []string{"MMORPG"}, intp(999)},
		{"mmo is case-insensitive", []string{"Multi-player"}, []string{"mmo"}, intp(999)},
		{"battle royale", []string{"Multi-player"}, []string{"Battle Royale"}, intp(100)},
		{"battle royale lowercased tag", []string{"Multi-player"}, []string{"battle royale shooter"}, intp(100)},
		{"single-player only", []string{"Single-player"}, nil, intp(1)},
		{"single-player with couch play is local", []string{"Single-player", "Shared/Split Screen"}, nil, intp(4)},
		{"local-only couch", []string{"Shared/Split Screen"}, nil, intp(4)},
		{"split screen pvp is local", []string{"Shared/Split Screen PvP"}, nil, intp(4)},
		{"coop without versus", []string{"Online Co-op"}, nil, intp(4)},
		{"versus plus coop", []string{"Multi-player", "Co-op"}, nil, intp(8)},
		{"versus only", []string{"Online Multi-Player"}, nil, intp(16)},
		{"lan coop carries no signal", []string{"LAN Co-op"}, nil, nil},
		{"no signal at all", []string{"Steam Cloud"}, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InferMaxPlayers(tt.categories, tt.tags)
			switch {
			case got == nil && tt.want == nil:
			case got == nil || tt.want == nil:
				t.Errorf("InferMaxPlayers() = %v, want %v", fmtPtr(got), fmtPtr(tt.want))
			case *got != *tt.want:
				t.Errorf("InferMaxPlayers() = %d, want %d", *got, *tt.want)
			}
		})
	}
}

func fmtPtr(p *int) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
