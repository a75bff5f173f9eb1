// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gamenighthq/gamenight/internal/logging"
	"github.com/gamenighthq/gamenight/internal/register"
	"github.com/gamenighthq/gamenight/internal/validation"
)

// ToggleShortlist flips a game's shortlist membership.
func (h *Handlers) ToggleShortlist(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	gameID, ok := parseGameID(rw, r)
	if !ok {
		return
	}

	on, err := h.registers.ToggleShortlist(gameID)
	if err != nil {
		logging.Error().Err(err).Str("game_id", gameID.String()).Msg("Failed to toggle shortlist")
		rw.InternalError("Failed to persist shortlist")
		return
	}

	rw.Success(map[string]interface{}{
		"game_id":     gameID,
		"shortlisted": on,
	})
}

// shortlistPlayerRequest names a player to toggle on a shortlist entry.
type shortlistPlayerRequest struct {
	Player string `json:"player"`
}

// ToggleShortlistPlayer toggles an interested-player marker on an existing
// shortlist entry. A no-op when the game is not shortlisted.
func (h *Handlers) ToggleShortlistPlayer(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	gameID, ok := parseGameID(rw, r)
	if !ok {
		return
	}

	var req shortlistPlayerRequest
	if err := decodeJSON(r, &req); err != nil || req.Player == "" {
		rw.BadRequest("Missing player name")
		return
	}

	if err := h.registers.ToggleShortlistPlayer(gameID, req.Player); err != nil {
		logging.Error().Err(err).Str("game_id", gameID.String()).Msg("Failed to toggle shortlist player")
		rw.InternalError("Failed to persist shortlist")
		return
	}

	entry, _ := h.registers.ShortlistEntry(gameID)
	rw.Success(entry)
}

// shortlistReasonRequest carries a free-text shortlist note.
type shortlistReasonRequest struct {
	Reason string `json:"reason"`
}

// SetShortlistReason attaches a note to an existing shortlist entry.
func (h *Handlers) SetShortlistReason(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	gameID, ok := parseGameID(rw, r)
	if !ok {
		return
	}

	var req shortlistReasonRequest
	if err := decodeJSON(r, &req); err != nil {
		rw.BadRequest("Invalid JSON body")
		return
	}

	if err := h.registers.SetShortlistReason(gameID, req.Reason); err != nil {
		logging.Error().Err(err).Str("game_id", gameID.String()).Msg("Failed to set shortlist reason")
		rw.InternalError("Failed to persist shortlist")
		return
	}

	entry, _ := h.registers.ShortlistEntry(gameID)
	rw.Success(entry)
}

// GetShortlist returns all shortlist entries keyed by game id.
func (h *Handlers) GetShortlist(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	entries := h.registers.Shortlist()
	rw.Success(map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	})
}

// excludeRequest records who vetoed a game and why.
type excludeRequest struct {
	Reason     string `json:"reason"`
	ExcludedBy string `json:"excluded_by"`
}

// ExcludeGame adds a game to the exclusion register, hiding it from every
// tab except the excluded tab.
func (h *Handlers) ExcludeGame(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	gameID, ok := parseGameID(rw, r)
	if !ok {
		return
	}

	var req excludeRequest
	if err := decodeJSON(r, &req); err != nil {
		rw.BadRequest("Invalid JSON body")
		return
	}

	if err := h.registers.Exclude(gameID, req.Reason, req.ExcludedBy); err != nil {
		logging.Error().Err(err).Str("game_id", gameID.String()).Msg("Failed to exclude game")
		rw.InternalError("Failed to persist exclusion")
		return
	}

	entry, _ := h.registers.ExclusionEntry(gameID)
	rw.Success(entry)
}

// RestoreGame removes a game from the exclusion register.
func (h *Handlers) RestoreGame(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	gameID, ok := parseGameID(rw, r)
	if !ok {
		return
	}

	if err := h.registers.Restore(gameID); err != nil {
		logging.Error().Err(err).Str("game_id", gameID.String()).Msg("Failed to restore game")
		rw.InternalError("Failed to persist exclusion")
		return
	}

	rw.NoContent()
}

// GetExclusions returns all exclusion entries keyed by game id.
func (h *Handlers) GetExclusions(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	entries := h.registers.Exclusions()
	rw.Success(map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	})
}

// GetTheme returns the persisted UI theme.
func (h *Handlers) GetTheme(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	rw.Success(map[string]interface{}{"theme": h.registers.Theme()})
}

// themeRequest carries the UI theme name.
type themeRequest struct {
	Theme string `json:"theme"`
}

// SetTheme persists the UI theme.
func (h *Handlers) SetTheme(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req themeRequest
	if err := decodeJSON(r, &req); err != nil || req.Theme == "" {
		rw.BadRequest("Missing theme")
		return
	}

	if err := h.registers.SetTheme(req.Theme); err != nil {
		logging.Error().Err(err).Msg("Failed to persist theme")
		rw.InternalError("Failed to persist theme")
		return
	}

	rw.Success(map[string]interface{}{"theme": req.Theme})
}

// GetTabConfig returns the resolved configuration for one tab, merged over
// defaults and migrated from older stored versions.
func (h *Handlers) GetTabConfig(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	tab, ok := parseTab(chi.URLParam(r, "tab"))
	if !ok {
		rw.BadRequest("Invalid tab")
		return
	}

	rw.Success(h.registers.TabConfig(tab))
}

// SetTabConfig persists one tab's configuration.
func (h *Handlers) SetTabConfig(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	tab, ok := parseTab(chi.URLParam(r, "tab"))
	if !ok {
		rw.BadRequest("Invalid tab")
		return
	}

	var cfg register.TabConfig
	if err := decodeJSON(r, &cfg); err != nil {
		rw.BadRequest("Invalid JSON body")
		return
	}

	if err := validation.ValidateStruct(&cfg); err != nil {
		var verrs *validation.Errors
		if errors.As(err, &verrs) {
			rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeValidationFailed, "Invalid tab config", verrs.Fields)
			return
		}
		rw.BadRequest("Invalid tab config")
		return
	}

	if err := h.registers.SetTabConfig(tab, cfg); err != nil {
		logging.Error().Err(err).Str("tab", string(tab)).Msg("Failed to persist tab config")
		rw.InternalError("Failed to persist tab config")
		return
	}

	rw.Success(h.registers.TabConfig(tab))
}

// parseGameID reads the gameID route parameter, writing a 400 on failure.
func parseGameID(rw *ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "gameID"))
	if err != nil {
		rw.BadRequest("Invalid game id")
		return uuid.Nil, false
	}
	return id, true
}
