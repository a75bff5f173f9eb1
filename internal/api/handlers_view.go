// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gamenighthq/gamenight/internal/engine"
	"github.com/gamenighthq/gamenight/internal/models"
)

// tagFacetLimit caps the tag facet to the most frequent tags.
const tagFacetLimit = 20

// viewRequest carries per-request overrides on top of the tab's persisted
// configuration. Absent fields fall back to the stored tab config.
type viewRequest struct {
	SelectedPlayerIDs []string `json:"selected_player_ids,omitempty"`

	OwnedByAll      *bool `json:"owned_by_all,omitempty"`
	OwnedByNone     *bool `json:"owned_by_none,omitempty"`
	FreeOnly        *bool `json:"free_only,omitempty"`
	OnSaleOnly      *bool `json:"on_sale_only,omitempty"`
	ShortlistedOnly *bool `json:"shortlisted_only,omitempty"`
	LinuxOnly       *bool `json:"linux_only,omitempty"`

	Modes        *engine.Mode      `json:"modes,omitempty"`
	Floor        *engine.TierFloor `json:"floor,omitempty"`
	ReleasedDays *int              `json:"released_days,omitempty"`

	IncludeTags []string `json:"include_tags,omitempty"`
	ExcludeTags []string `json:"exclude_tags,omitempty"`

	SortKeys []engine.SortKey `json:"sort_keys,omitempty"`
	Search   string           `json:"search,omitempty"`
}

// scoredGame is one dashboard row: the enriched game plus the derived
// recommendation score and register membership.
type scoredGame struct {
	models.GameWithOwnership

	Score       int  `json:"score"`
	Shortlisted bool `json:"shortlisted"`
	Excluded    bool `json:"excluded"`
}

// viewResponse is the composed dashboard payload for one tab.
type viewResponse struct {
	Tab       engine.Tab         `json:"tab"`
	Total     int                `json:"total"`
	Visible   int                `json:"visible"`
	TabCounts map[engine.Tab]int `json:"tab_counts"`
	Games     []scoredGame       `json:"games"`
	Tags      []string           `json:"tags"`
	SortKeys  []engine.SortKey   `json:"sort_keys"`
}

// View composes one dashboard tab: ownership aggregation over the current
// selection, the filter pipeline, the tag facet, the sort stack, and
// per-game recommendation scores.
func (h *Handlers) View(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	tab, ok := parseTab(r.URL.Query().Get("tab"))
	if !ok {
		rw.BadRequest("Invalid tab parameter")
		return
	}

	var req viewRequest
	if r.Body != nil {
		if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
			rw.BadRequest("Invalid JSON body")
			return
		}
	}

	state, err := h.buildFilterState(tab, &req)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	games := h.view.Enriched(state.SelectedPlayerIDs)
	now := time.Now().UTC()

	visible := engine.Visible(games, state, tab, h.registers, now)
	tags := engine.TagFacet(games, state, tab, h.registers, now, tagFacetLimit)

	selectedCount := len(state.SelectedPlayerIDs)
	if selectedCount == 0 {
		selectedCount = len(h.view.Selected())
	}
	sorted := engine.Sort(visible, state.SortKeys, tab, selectedCount)

	rows := make([]scoredGame, 0, len(sorted))
	for i := range sorted {
		g := sorted[i]
		rows = append(rows, scoredGame{
			GameWithOwnership: g,
			Score:             engine.Score(&g, selectedCount),
			Shortlisted:       h.registers.Shortlisted(g.ID),
			Excluded:          h.registers.Excluded(g.ID),
		})
	}

	rw.Success(viewResponse{
		Tab:       tab,
		Total:     len(games),
		Visible:   len(sorted),
		TabCounts: engine.TabCounts(games, state, h.registers, now),
		Games:     rows,
		Tags:      tags,
		SortKeys:  state.SortKeys,
	})
}

// buildFilterState resolves the tab's persisted configuration and layers the
// request's explicit overrides on top.
func (h *Handlers) buildFilterState(tab engine.Tab, req *viewRequest) (*engine.FilterState, error) {
	cfg := h.registers.TabConfig(tab)

	state := &engine.FilterState{
		OwnedByAll:   cfg.OwnedByAll,
		FreeOnly:     cfg.FreeOnly,
		OnSaleOnly:   cfg.OnSaleOnly,
		LinuxOnly:    cfg.LinuxOnly,
		Modes:        cfg.Modes,
		Floor:        cfg.Floor,
		ReleasedDays: cfg.ReleasedDays,
		SortKeys:     cfg.SortKeys,
	}

	ids, err := parsePlayerIDs(req.SelectedPlayerIDs)
	if err != nil {
		return nil, err
	}
	state.SelectedPlayerIDs = ids

	if req.OwnedByAll != nil {
		state.OwnedByAll = *req.OwnedByAll
	}
	if req.OwnedByNone != nil {
		state.OwnedByNone = *req.OwnedByNone
	}
	if req.FreeOnly != nil {
		state.FreeOnly = *req.FreeOnly
	}
	if req.OnSaleOnly != nil {
		state.OnSaleOnly = *req.OnSaleOnly
	}
	if req.ShortlistedOnly != nil {
		state.ShortlistedOnly = *req.ShortlistedOnly
	}
	if req.LinuxOnly != nil {
		state.LinuxOnly = *req.LinuxOnly
	}
	if req.Modes != nil {
		state.Modes = *req.Modes
	}
	if req.Floor != nil {
		state.Floor = *req.Floor
	}
	if req.ReleasedDays != nil && *req.ReleasedDays >= 0 {
		state.ReleasedDays = *req.ReleasedDays
	}
	if len(req.IncludeTags) > 0 {
		state.IncludeTags = req.IncludeTags
	}
	if len(req.ExcludeTags) > 0 {
		state.ExcludeTags = req.ExcludeTags
	}
	if len(req.SortKeys) > 0 {
		state.SortKeys = req.SortKeys
	}
	state.Search = req.Search

	return state, nil
}

// parseTab maps the query parameter to a dashboard tab, defaulting to "all".
func parseTab(raw string) (engine.Tab, bool) {
	switch engine.Tab(raw) {
	case "":
		return engine.TabAll, true
	case engine.TabAll, engine.TabTrending, engine.TabNew, engine.TabShortlisted, engine.TabExcluded:
		return engine.Tab(raw), true
	default:
		return "", false
	}
}
