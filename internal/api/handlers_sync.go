// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gamenighthq/gamenight/internal/database"
	"github.com/gamenighthq/gamenight/internal/ingest"
	"github.com/gamenighthq/gamenight/internal/logging"
)

// discoverRequest is the continuation body for the discover trigger. An
// empty or absent pending list starts a fresh discovery pass.
type discoverRequest struct {
	PendingAppIDs []int64 `json:"pending_app_ids"`
}

// TriggerDiscover runs one discover invocation. The response carries the
// remaining pending ids; the caller re-posts them until done is true.
func (h *Handlers) TriggerDiscover(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req discoverRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		rw.BadRequest("Invalid JSON body")
		return
	}

	result, err := h.runner.Discover(r.Context(), req.PendingAppIDs)
	if err != nil {
		logging.Error().Err(err).Msg("Discover run failed")
		// A failed step may still have partial outcomes worth surfacing.
		var details interface{}
		if result != nil {
			details = result
		}
		rw.ErrorWithDetails(http.StatusBadGateway, ErrCodeExternalServiceFail, "Discover run failed", details)
		return
	}

	rw.Success(result)
}

// TriggerSync runs one invocation of the named ingestion job and reports how
// many games it touched. Jobs are bounded by the run budget, so the caller
// never waits long; partially processed worklists resume on the next call.
func (h *Handlers) TriggerSync(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	job := chi.URLParam(r, "job")

	var (
		touched int
		err     error
	)
	switch job {
	case ingest.JobLibraries:
		touched, err = h.runner.SyncLibraries(r.Context())
	case ingest.JobPrices:
		touched, err = h.runner.SyncPrices(r.Context())
	case ingest.JobTrending:
		touched, err = h.runner.SyncTrending(r.Context())
	case ingest.JobPlayerCounts:
		touched, err = h.runner.SyncPlayerCounts(r.Context())
	default:
		rw.NotFound("Unknown sync job: " + job)
		return
	}

	if err != nil {
		logging.Error().Err(err).Str("job", job).Int("games_updated", touched).Msg("Sync run failed")
		// Partial progress made before the failure still counts; surface it
		// so the caller can see how far the run got.
		rw.ErrorWithDetails(http.StatusBadGateway, ErrCodeExternalServiceFail, "Sync run failed",
			map[string]interface{}{"job": job, "games_updated": touched})
		return
	}

	rw.Success(map[string]interface{}{
		"job":           job,
		"games_updated": touched,
	})
}

// LatestSync returns the most recent audit entry for one sync type.
func (h *Handlers) LatestSync(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	syncType := r.URL.Query().Get("type")
	if syncType == "" {
		rw.BadRequest("Missing type parameter")
		return
	}

	entry, err := h.db.LatestSyncLog(r.Context(), syncType)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			rw.NotFound("No runs recorded for type: " + syncType)
			return
		}
		logging.Error().Err(err).Str("type", syncType).Msg("Failed to load latest sync entry")
		rw.Error(http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to load latest sync entry")
		return
	}

	rw.Success(entry)
}

// SyncLog returns recent audit entries across all sync types.
func (h *Handlers) SyncLog(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 500 {
			rw.BadRequest("Invalid limit parameter")
			return
		}
		limit = parsed
	}

	entries, err := h.db.ListSyncLogs(r.Context(), limit)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to list sync log")
		rw.Error(http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to list sync log")
		return
	}

	rw.Success(map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	})
}

// deprecateServersRequest is the body of the server-shutdown override.
type deprecateServersRequest struct {
	Deprecated bool `json:"deprecated"`
}

// DeprecateServers flags a game whose multiplayer servers have been shut
// down. Flagged games are hidden from every tab until the flag is cleared.
func (h *Handlers) DeprecateServers(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	appID, ok := parseAppID(chi.URLParam(r, "appID"))
	if !ok {
		rw.BadRequest("Invalid Steam app id")
		return
	}

	var req deprecateServersRequest
	if err := decodeJSON(r, &req); err != nil {
		rw.BadRequest("Invalid JSON body")
		return
	}

	if err := h.db.SetServersDeprecated(r.Context(), appID, req.Deprecated); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			rw.NotFound("Game not found")
			return
		}
		logging.Error().Err(err).Int64("app_id", appID).Msg("Failed to update server-deprecated flag")
		rw.Error(http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to update server-deprecated flag")
		return
	}

	rw.Success(map[string]interface{}{
		"steam_app_id": appID,
		"deprecated":   req.Deprecated,
	})
}
