// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

// Package database implements the canonical store on DuckDB. It owns the
// players, games, player_games and sync_log tables and exposes the four
// operations the rest of the system depends on: select with transparent
// pagination, upsert on a conflict key, targeted update, and change
// notification (published through the notify hub after every mutation).
//
// Consistency model: one upsert call is one atomic row replace; there are no
// cross-row transactions. Overlapping job invocations self-heal through
// idempotent upserts.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/gamenighthq/gamenight/internal/config"
	"github.com/gamenighthq/gamenight/internal/logging"
	"github.com/gamenighthq/gamenight/internal/metrics"
	"github.com/gamenighthq/gamenight/internal/notify"
)

// DB wraps the DuckDB connection and provides data access methods.
type DB struct {
	conn     *sql.DB
	cfg      *config.DatabaseConfig
	hub      *notify.Hub
	pageSize int
}

// New opens (or creates) the store, initializes the schema, and wires change
// notifications to hub. hub may be nil, in which case notifications are
// dropped.
func New(cfg *config.DatabaseConfig, hub *notify.Hub) (*DB, error) {
	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	maxMemory := cfg.MaxMemory
	if maxMemory == "" {
		maxMemory = "1GB"
	}

	if cfg.Path != ":memory:" {
		dbDir := filepath.Dir(cfg.Path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
			}
		}
	}

	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s",
		cfg.Path, threads, maxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{
		conn:     conn,
		cfg:      cfg,
		hub:      hub,
		pageSize: cfg.PageSize,
	}
	if db.pageSize <= 0 {
		db.pageSize = 1000
	}

	if err := db.initSchema(context.Background()); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logging.Info().Str("path", cfg.Path).Int("threads", threads).Msg("Store opened")
	return db, nil
}

// Close releases the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping verifies the connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// notifyChange publishes a table-change notification, if a hub is wired.
func (db *DB) notifyChange(table string) {
	if db.hub != nil {
		db.hub.Publish(table)
	}
}

// observe records query metrics for one store operation.
func observe(operation, table string, start time.Time, err error) {
	metrics.DBQueryDuration.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}
