// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

/*
Package register holds the client-local annotation state: the shortlist, the
exclusion list, the UI theme, and the per-tab filter configuration. These are
pure annotations over game ids — they never touch the canonical store and are
not shared between clients.

Persistence model: each register is one JSON blob under a fixed namespace key
in BadgerDB, loaded eagerly at startup and re-persisted synchronously on
every mutation. A missing or malformed blob degrades to empty defaults and is
never surfaced as an error.
*/
package register

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/gamenighthq/gamenight/internal/logging"
)

// Fixed namespace keys for the persisted blobs.
const (
	keyShortlist = "gamenight:shortlist"
	keyExcluded  = "gamenight:excluded"
	keyTheme     = "gamenight:theme"
	keyTabConfig = "gamenight:tabconfig"
)

// Store is the durable backend for all registers. Open with a directory path
// for production, or an empty path for an in-memory store in tests.
type Store struct {
	db *badger.DB

	mu        sync.RWMutex
	shortlist map[string]ShortlistEntry
	excluded  map[string]ExclusionEntry
	theme     string
	tabConfig map[string]json.RawMessage
}

// Open opens the backing BadgerDB and eagerly loads every register blob.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open register store: %w", err)
	}

	s := &Store{
		db:        db,
		shortlist: make(map[string]ShortlistEntry),
		excluded:  make(map[string]ExclusionEntry),
		tabConfig: make(map[string]json.RawMessage),
	}
	s.loadBlob(keyShortlist, &s.shortlist)
	s.loadBlob(keyExcluded, &s.excluded)
	s.loadBlob(keyTheme, &s.theme)
	s.loadBlob(keyTabConfig, &s.tabConfig)
	s.updateGauges()

	return s, nil
}

// Close releases the backing store.
func (s *Store) Close() error {
	return s.db.Close()
}

// loadBlob reads one namespace blob into out. Absence and malformed JSON are
// both treated as "empty", never as errors.
func (s *Store) loadBlob(key string, out interface{}) {
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, out)
		})
	})
	if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		logging.Warn().Err(err).Str("key", key).Msg("Register blob unreadable; starting empty")
	}
}

// saveBlob write-through-persists one namespace blob. Callers hold the
// mutation lock; persistence is synchronous so a crash never loses an
// acknowledged mutation.
func (s *Store) saveBlob(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal register %s: %w", key, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("persist register %s: %w", key, err)
	}
	return nil
}

// Theme returns the persisted UI theme, empty when never set.
func (s *Store) Theme() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// SetTheme persists the UI theme.
func (s *Store) SetTheme(theme string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = theme
	return s.saveBlob(keyTheme, theme)
}
