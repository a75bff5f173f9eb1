// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gamenighthq/gamenight/internal/middleware"
)

// NewRouter builds the chi router. The read surface is open; the trigger and
// admin surfaces sit behind the shared trigger secret.
func NewRouter(h *Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Prometheus)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(httprate.LimitByIP(300, time.Minute))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health)

		// Catalog reads.
		r.Get("/games", h.ListGames)
		r.Get("/games/{appID}", h.GetGame)
		r.Get("/players", h.ListPlayers)
		r.Post("/players/select", h.SelectPlayers)

		// Composed dashboard view. POST carries filter overrides; GET
		// serves the persisted tab configuration unmodified.
		r.Get("/view", h.View)
		r.Post("/view", h.View)

		// Sync audit reads.
		r.Get("/sync/latest", h.LatestSync)
		r.Get("/sync/log", h.SyncLog)

		// Client-local registers.
		r.Route("/shortlist", func(r chi.Router) {
			r.Get("/", h.GetShortlist)
			r.Post("/{gameID}/toggle", h.ToggleShortlist)
			r.Post("/{gameID}/players", h.ToggleShortlistPlayer)
			r.Put("/{gameID}/reason", h.SetShortlistReason)
		})
		r.Route("/exclusions", func(r chi.Router) {
			r.Get("/", h.GetExclusions)
			r.Post("/{gameID}", h.ExcludeGame)
			r.Delete("/{gameID}", h.RestoreGame)
		})
		r.Get("/theme", h.GetTheme)
		r.Put("/theme", h.SetTheme)
		r.Route("/tabs/{tab}/config", func(r chi.Router) {
			r.Get("/", h.GetTabConfig)
			r.Put("/", h.SetTabConfig)
		})

		// Trigger surface: every ingestion job is externally invocable.
		r.Group(func(r chi.Router) {
			r.Use(RequireTriggerSecret(h.cfg.Security.TriggerSecret))
			r.Use(httprate.LimitByIP(30, time.Minute))

			r.Post("/sync/discover", h.TriggerDiscover)
			r.Post("/sync/{job}", h.TriggerSync)
			r.Post("/admin/games/{appID}/deprecate-servers", h.DeprecateServers)
		})
	})

	r.Get("/ws", h.Websocket)

	return r
}
