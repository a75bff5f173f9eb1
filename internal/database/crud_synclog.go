// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gamenighthq/gamenight/internal/models"
)

// BeginSyncLog opens an audit row for a sync run in the running state and
// returns its id. The row is finalized by FinishSyncLog.
func (db *DB) BeginSyncLog(ctx context.Context, syncType string) (id uuid.UUID, err error) {
	start := time.Now()
	defer func() { observe("insert", "sync_log", start, err) }()

	id = uuid.New()
	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO sync_log (id, sync_type, status, games_updated, started_at)
		VALUES (?, ?, ?, 0, ?)`,
		id, syncType, models.SyncStatusRunning, time.Now().UTC())
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin sync_log: %w", err)
	}

	db.notifyChange("sync_log")
	return id, nil
}

// FinishSyncLog closes an audit row with the final status, the number of
// games the run touched, and the error message when the run failed.
func (db *DB) FinishSyncLog(ctx context.Context, id uuid.UUID, status string, gamesUpdated int, runErr error) (err error) {
	start := time.Now()
	defer func() { observe("update", "sync_log", start, err) }()

	var errMsg *string
	if runErr != nil {
		s := runErr.Error()
		errMsg = &s
	}

	_, err = db.conn.ExecContext(ctx,
		`UPDATE sync_log SET status = ?, games_updated = ?, error = ?, finished_at = ? WHERE id = ?`,
		status, gamesUpdated, errMsg, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("finish sync_log: %w", err)
	}

	db.notifyChange("sync_log")
	return nil
}

// LatestSyncLog returns the most recent audit row for a sync type, or
// ErrNotFound when that type has never run.
func (db *DB) LatestSyncLog(ctx context.Context, syncType string) (entry *models.SyncLog, err error) {
	start := time.Now()
	defer func() { observe("select", "sync_log", start, err) }()

	row := db.conn.QueryRowContext(ctx,
		`SELECT id, sync_type, status, games_updated, error, started_at, finished_at
		FROM sync_log WHERE sync_type = ? ORDER BY started_at DESC LIMIT 1`,
		syncType)

	entry, err = scanSyncLog(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("latest sync_log: %w", err)
	}
	return entry, nil
}

// ListSyncLogs returns the most recent audit rows across all sync types,
// newest first.
func (db *DB) ListSyncLogs(ctx context.Context, limit int) (entries []models.SyncLog, err error) {
	start := time.Now()
	defer func() { observe("select", "sync_log", start, err) }()

	if limit <= 0 {
		limit = 50
	}
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, sync_type, status, games_updated, error, started_at, finished_at
		FROM sync_log ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list sync_log: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		entry, err := scanSyncLog(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

func scanSyncLog(row rowScanner) (*models.SyncLog, error) {
	var (
		entry    models.SyncLog
		errMsg   sql.NullString
		finished sql.NullTime
	)
	if err := row.Scan(&entry.ID, &entry.SyncType, &entry.Status, &entry.GamesUpdated,
		&errMsg, &entry.StartedAt, &finished); err != nil {
		return nil, err
	}
	entry.Error = strPtr(errMsg)
	entry.FinishedAt = timePtr(finished)
	return &entry, nil
}
