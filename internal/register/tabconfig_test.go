// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

package register

import (
	"testing"

	"github.com/goccy/go-json"

	"github.com/gamenighthq/gamenight/internal/engine"
)

func TestTabConfigDefaultsWhenUnset(t *testing.T) {
	s := openTestStore(t)

	cfg := s.TabConfig(engine.TabTrending)
	if cfg.Version != tabConfigVersion {
		t.Errorf("version = %d, want %d", cfg.Version, tabConfigVersion)
	}
	if len(cfg.SortKeys) != 1 || cfg.SortKeys[0] != engine.SortTrending {
		t.Errorf("sort keys = %v, want [trending]", cfg.SortKeys)
	}
	if cfg.Floor != engine.FloorAll {
		t.Errorf("floor = %s, want all", cfg.Floor)
	}
}

func TestTabConfigRoundTrip(t *testing.T) {
	s := openTestStore(t)

	in := TabConfig{
		SortKeys:     []engine.SortKey{engine.SortPriceAsc, engine.SortName},
		Floor:        engine.FloorGold,
		Modes:        engine.ModeCoop,
		ReleasedDays: 90,
		LinuxOnly:    true,
	}
	if err := s.SetTabConfig(engine.TabAll, in); err != nil {
		t.Fatal(err)
	}

	out := s.TabConfig(engine.TabAll)
	if out.Version != tabConfigVersion {
		t.Errorf("version forced to current, got %d", out.Version)
	}
	if len(out.SortKeys) != 2 || out.SortKeys[0] != engine.SortPriceAsc {
		t.Errorf("sort keys = %v", out.SortKeys)
	}
	if out.Floor != engine.FloorGold || out.Modes != engine.ModeCoop || out.ReleasedDays != 90 || !out.LinuxOnly {
		t.Errorf("round trip lost fields: %+v", out)
	}
}

func TestResolveTabConfigLegacySortBy(t *testing.T) {
	def := DefaultTabConfig(engine.TabAll)
	raw := json.RawMessage(`{"version":1,"sort_by":"price_asc","floor":"gold"}`)

	out := resolveTabConfig(raw, def)
	if len(out.SortKeys) != 1 || out.SortKeys[0] != engine.SortPriceAsc {
		t.Errorf("legacy sort_by should become a one-key stack, got %v", out.SortKeys)
	}
	if out.Floor != engine.FloorGold {
		t.Errorf("floor = %s, want gold", out.Floor)
	}
	if out.Version != tabConfigVersion {
		t.Errorf("version should migrate to %d, got %d", tabConfigVersion, out.Version)
	}
}

func TestResolveTabConfigSortKeysWinOverLegacy(t *testing.T) {
	def := DefaultTabConfig(engine.TabAll)
	raw := json.RawMessage(`{"sort_by":"name","sort_keys":["reviews","name"]}`)

	out := resolveTabConfig(raw, def)
	if len(out.SortKeys) != 2 || out.SortKeys[0] != engine.SortReviews {
		t.Errorf("sort_keys should take precedence, got %v", out.SortKeys)
	}
}

func TestResolveTabConfigPartialBlobKeepsDefaults(t *testing.T) {
	def := DefaultTabConfig(engine.TabNew)
	raw := json.RawMessage(`{"linux_only":true}`)

	out := resolveTabConfig(raw, def)
	if !out.LinuxOnly {
		t.Error("stored field should apply")
	}
	if len(out.SortKeys) != 1 || out.SortKeys[0] != engine.SortReleaseDate {
		t.Errorf("missing fields keep defaults, got %v", out.SortKeys)
	}
	if out.Floor != engine.FloorAll {
		t.Errorf("floor = %s, want default all", out.Floor)
	}
}

func TestResolveTabConfigMalformed(t *testing.T) {
	def := DefaultTabConfig(engine.TabAll)

	for _, raw := range []string{`not json at all`, `[1,2,3]`, `{"released_days":-5,"floor":""}`} {
		out := resolveTabConfig(json.RawMessage(raw), def)
		if out.ReleasedDays != def.ReleasedDays || out.Floor != def.Floor {
			t.Errorf("blob %q should degrade to defaults, got %+v", raw, out)
		}
	}
}
