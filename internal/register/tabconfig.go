// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

package register

import (
	"github.com/goccy/go-json"

	"github.com/gamenighthq/gamenight/internal/engine"
)

// tabConfigVersion is the current persisted shape. Version 1 carried a
// single "sort_by" string; version 2 carries the ordered sort-key stack.
const tabConfigVersion = 2

// TabConfig is the persisted filter configuration for one dashboard tab.
type TabConfig struct {
	Version      int              `json:"version"`
	SortKeys     []engine.SortKey `json:"sort_keys"`
	Floor        engine.TierFloor `json:"floor" validate:"omitempty,oneof=all native platinum gold"`
	Modes        engine.Mode      `json:"modes" validate:"lte=15"`
	ReleasedDays int              `json:"released_days" validate:"gte=0"`
	LinuxOnly    bool             `json:"linux_only"`
	OwnedByAll   bool             `json:"owned_by_all"`
	FreeOnly     bool             `json:"free_only"`
	OnSaleOnly   bool             `json:"on_sale_only"`
}

// DefaultTabConfig returns a tab's built-in configuration.
func DefaultTabConfig(tab engine.Tab) TabConfig {
	return TabConfig{
		Version:  tabConfigVersion,
		SortKeys: []engine.SortKey{engine.DefaultSortKey(tab)},
		Floor:    engine.FloorAll,
	}
}

// TabConfig resolves one tab's effective configuration: the persisted blob,
// migrated from legacy shapes and merged field-by-field over fresh defaults.
// Fields introduced after the blob was written always get their default, and
// a malformed blob degrades to pure defaults.
func (s *Store) TabConfig(tab engine.Tab) TabConfig {
	s.mu.RLock()
	raw, ok := s.tabConfig[string(tab)]
	s.mu.RUnlock()

	def := DefaultTabConfig(tab)
	if !ok {
		return def
	}
	return resolveTabConfig(raw, def)
}

// SetTabConfig persists one tab's configuration at the current version.
func (s *Store) SetTabConfig(tab engine.Tab, cfg TabConfig) error {
	cfg.Version = tabConfigVersion
	if len(cfg.SortKeys) == 0 {
		cfg.SortKeys = []engine.SortKey{engine.DefaultSortKey(tab)}
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tabConfig[string(tab)] = data
	return s.saveBlob(keyTabConfig, s.tabConfig)
}

// resolveTabConfig merges a persisted blob over defaults one field at a
// time, so partial and legacy blobs resolve completely.
func resolveTabConfig(raw json.RawMessage, def TabConfig) TabConfig {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return def
	}

	out := def

	// Version 1 migration: a single sort_by string becomes a one-key stack.
	if legacy, ok := fields["sort_by"]; ok {
		var key string
		if err := json.Unmarshal(legacy, &key); err == nil && key != "" {
			out.SortKeys = []engine.SortKey{engine.SortKey(key)}
		}
	}

	if v, ok := fields["sort_keys"]; ok {
		var keys []engine.SortKey
		if err := json.Unmarshal(v, &keys); err == nil && len(keys) > 0 {
			out.SortKeys = keys
		}
	}
	if v, ok := fields["floor"]; ok {
		var floor engine.TierFloor
		if err := json.Unmarshal(v, &floor); err == nil && floor != "" {
			out.Floor = floor
		}
	}
	if v, ok := fields["modes"]; ok {
		var modes engine.Mode
		if err := json.Unmarshal(v, &modes); err == nil {
			out.Modes = modes
		}
	}
	if v, ok := fields["released_days"]; ok {
		var days int
		if err := json.Unmarshal(v, &days); err == nil && days >= 0 {
			out.ReleasedDays = days
		}
	}
	mergeBool(fields, "linux_only", &out.LinuxOnly)
	mergeBool(fields, "owned_by_all", &out.OwnedByAll)
	mergeBool(fields, "free_only", &out.FreeOnly)
	mergeBool(fields, "on_sale_only", &out.OnSaleOnly)

	out.Version = tabConfigVersion
	return out
}

func mergeBool(fields map[string]json.RawMessage, key string, dst *bool) {
	if v, ok := fields[key]; ok {
		var b bool
		if err := json.Unmarshal(v, &b); err == nil {
			*dst = b
		}
	}
}
