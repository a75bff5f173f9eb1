// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

// Package metrics exposes Prometheus collectors for production observability:
// gateway request outcomes, ingestion job runs, store query performance, and
// HTTP API throughput.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Gateway metrics. The gateway label is one of: steam_store, steam_web,
	// steamspy, protondb, itad.
	GatewayRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamenight_gateway_requests_total",
			Help: "Total requests issued to external gateways",
		},
		[]string{"gateway", "endpoint"},
	)

	GatewayErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamenight_gateway_errors_total",
			Help: "Total failed gateway requests, including non-2xx and decode failures",
		},
		[]string{"gateway", "endpoint"},
	)

	GatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gamenight_gateway_request_duration_seconds",
			Help:    "Duration of external gateway requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"gateway"},
	)

	// Circuit breaker state: 0 = closed, 1 = half-open, 2 = open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gamenight_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"breaker"},
	)

	// Ingestion job metrics. The job label is one of: discover, libraries,
	// prices, trending, player_counts.
	SyncRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamenight_sync_runs_total",
			Help: "Total ingestion job runs by outcome",
		},
		[]string{"job", "status"}, // status: success | error
	)

	SyncDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gamenight_sync_duration_seconds",
			Help:    "Wall-clock duration of ingestion job runs in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"job"},
	)

	SyncGamesTouched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamenight_sync_games_touched_total",
			Help: "Games inserted or updated per ingestion job",
		},
		[]string{"job"},
	)

	SyncItemsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamenight_sync_items_skipped_total",
			Help: "Worklist items skipped (not a game, no data, gateway miss)",
		},
		[]string{"job", "reason"},
	)

	// Store metrics.
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gamenight_db_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamenight_db_query_errors_total",
			Help: "Total DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	// HTTP API metrics.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamenight_api_requests_total",
			Help: "Total HTTP API requests",
		},
		[]string{"method", "path", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gamenight_api_request_duration_seconds",
			Help:    "HTTP API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Change-notification fan-out.
	NotifySubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gamenight_notify_subscribers",
			Help: "Current number of change-notification subscribers (in-process and websocket)",
		},
	)

	// Client-local registers.
	RegisterEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gamenight_register_entries",
			Help: "Current number of entries per client-local register",
		},
		[]string{"register"}, // shortlist | excluded
	)
)

// ObserveGatewayRequest records one gateway call with its outcome.
func ObserveGatewayRequest(gateway, endpoint string, d time.Duration, err error) {
	GatewayRequests.WithLabelValues(gateway, endpoint).Inc()
	GatewayRequestDuration.WithLabelValues(gateway).Observe(d.Seconds())
	if err != nil {
		GatewayErrors.WithLabelValues(gateway, endpoint).Inc()
	}
}

// ObserveSyncRun records the outcome of one ingestion job run.
func ObserveSyncRun(job string, d time.Duration, touched int, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	SyncRuns.WithLabelValues(job, status).Inc()
	SyncDuration.WithLabelValues(job).Observe(d.Seconds())
	if touched > 0 {
		SyncGamesTouched.WithLabelValues(job).Add(float64(touched))
	}
}
