// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gamenighthq/gamenight/internal/config"
	"github.com/gamenighthq/gamenight/internal/database"
	"github.com/gamenighthq/gamenight/internal/engine"
	"github.com/gamenighthq/gamenight/internal/ingest"
	"github.com/gamenighthq/gamenight/internal/logging"
	"github.com/gamenighthq/gamenight/internal/notify"
	"github.com/gamenighthq/gamenight/internal/register"
)

// Handlers carries the dependencies shared by all API endpoints.
type Handlers struct {
	cfg       *config.Config
	db        *database.DB
	runner    *ingest.Runner
	view      *engine.View
	registers *register.Store
	hub       *notify.Hub
	startedAt time.Time
}

// NewHandlers creates the handler set backing the router.
func NewHandlers(cfg *config.Config, db *database.DB, runner *ingest.Runner, view *engine.View, registers *register.Store, hub *notify.Hub) *Handlers {
	return &Handlers{
		cfg:       cfg,
		db:        db,
		runner:    runner,
		view:      view,
		registers: registers,
		hub:       hub,
		startedAt: time.Now(),
	}
}

// HealthStatus is the health endpoint payload.
type HealthStatus struct {
	Status        string `json:"status"`
	Database      string `json:"database"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// Health reports process liveness and database reachability.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	status := HealthStatus{
		Status:        "ok",
		Database:      "ok",
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
	}

	if err := h.db.Ping(r.Context()); err != nil {
		logging.Error().Err(err).Msg("Health check: database ping failed")
		status.Status = "degraded"
		status.Database = "unreachable"
	}

	rw.Success(status)
}

// ListGames returns the full catalog, unfiltered.
func (h *Handlers) ListGames(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	games, err := h.db.ListGames(r.Context())
	if err != nil {
		logging.Error().Err(err).Msg("Failed to list games")
		rw.Error(http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to list games")
		return
	}

	rw.Success(map[string]interface{}{
		"games": games,
		"count": len(games),
	})
}

// GetGame returns one game by Steam app id.
func (h *Handlers) GetGame(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	appID, ok := parseAppID(chi.URLParam(r, "appID"))
	if !ok {
		rw.BadRequest("Invalid Steam app id")
		return
	}

	game, err := h.db.GetGameBySteamAppID(r.Context(), appID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			rw.NotFound("Game not found")
			return
		}
		logging.Error().Err(err).Int64("app_id", appID).Msg("Failed to load game")
		rw.Error(http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to load game")
		return
	}

	rw.Success(game)
}

// ListPlayers returns the group roster with the current selection.
func (h *Handlers) ListPlayers(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	players, err := h.db.ListPlayers(r.Context())
	if err != nil {
		logging.Error().Err(err).Msg("Failed to list players")
		rw.Error(http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to list players")
		return
	}

	rw.Success(map[string]interface{}{
		"players":  players,
		"selected": h.view.Selected(),
	})
}

// selectPlayersRequest is the body of the player-selection endpoint.
type selectPlayersRequest struct {
	PlayerIDs []string `json:"player_ids"`
}

// SelectPlayers replaces the active player selection. An empty list resets
// to the default selection (primary players).
func (h *Handlers) SelectPlayers(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req selectPlayersRequest
	if err := decodeJSON(r, &req); err != nil {
		rw.BadRequest("Invalid JSON body")
		return
	}

	ids, err := parsePlayerIDs(req.PlayerIDs)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	h.view.SelectPlayers(ids)
	rw.Success(map[string]interface{}{"selected": h.view.Selected()})
}

// parsePlayerIDs parses a list of player uuids; nil in, nil out.
func parsePlayerIDs(raw []string) ([]uuid.UUID, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid player id: %s", s)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// parseAppID parses a positive decimal Steam app id.
func parseAppID(raw string) (int64, bool) {
	appID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || appID <= 0 {
		return 0, false
	}
	return appID, true
}
