// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

package register

import (
	"github.com/google/uuid"

	"github.com/gamenighthq/gamenight/internal/metrics"
)

// ShortlistEntry annotates a game picked for the next game night: the
// players championing it and a free-text reason.
type ShortlistEntry struct {
	Players []string `json:"players"`
	Reason  string   `json:"reason"`
}

// ExclusionEntry records why a game was removed from consideration. Entries
// exist only through explicit exclude actions and go away only through
// explicit restores.
type ExclusionEntry struct {
	Reason     string `json:"reason"`
	ExcludedBy string `json:"excluded_by"`
}

// Shortlisted reports shortlist membership. Implements engine.Registers.
func (s *Store) Shortlisted(gameID uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.shortlist[gameID.String()]
	return ok
}

// Excluded reports exclusion membership. Implements engine.Registers.
func (s *Store) Excluded(gameID uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.excluded[gameID.String()]
	return ok
}

// ToggleShortlist flips a game's shortlist membership and returns the new
// state. Toggling off discards the entry's players and reason.
func (s *Store) ToggleShortlist(gameID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := gameID.String()
	on := false
	if _, exists := s.shortlist[key]; exists {
		delete(s.shortlist, key)
	} else {
		s.shortlist[key] = ShortlistEntry{}
		on = true
	}

	err := s.saveBlob(keyShortlist, s.shortlist)
	s.updateGauges()
	return on, err
}

// ToggleShortlistPlayer flips one player's championing of a shortlisted
// game. A no-op when the game is not shortlisted.
func (s *Store) ToggleShortlistPlayer(gameID uuid.UUID, player string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := gameID.String()
	entry, exists := s.shortlist[key]
	if !exists {
		return nil
	}

	found := false
	players := entry.Players[:0]
	for _, p := range entry.Players {
		if p == player {
			found = true
			continue
		}
		players = append(players, p)
	}
	if !found {
		players = append(players, player)
	}
	entry.Players = players
	s.shortlist[key] = entry

	return s.saveBlob(keyShortlist, s.shortlist)
}

// SetShortlistReason updates a shortlisted game's free-text reason. A no-op
// when the game is not shortlisted.
func (s *Store) SetShortlistReason(gameID uuid.UUID, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := gameID.String()
	entry, exists := s.shortlist[key]
	if !exists {
		return nil
	}
	entry.Reason = reason
	s.shortlist[key] = entry

	return s.saveBlob(keyShortlist, s.shortlist)
}

// ShortlistEntry returns one game's shortlist annotation.
func (s *Store) ShortlistEntry(gameID uuid.UUID) (ShortlistEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.shortlist[gameID.String()]
	return entry, ok
}

// Shortlist returns a copy of the whole shortlist register.
func (s *Store) Shortlist() map[string]ShortlistEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]ShortlistEntry, len(s.shortlist))
	for k, v := range s.shortlist {
		out[k] = v
	}
	return out
}

// Exclude adds a game to the exclusion register with its reason and the name
// of whoever excluded it.
func (s *Store) Exclude(gameID uuid.UUID, reason, excludedBy string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.excluded[gameID.String()] = ExclusionEntry{Reason: reason, ExcludedBy: excludedBy}

	err := s.saveBlob(keyExcluded, s.excluded)
	s.updateGauges()
	return err
}

// Restore removes a game from the exclusion register.
func (s *Store) Restore(gameID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.excluded, gameID.String())

	err := s.saveBlob(keyExcluded, s.excluded)
	s.updateGauges()
	return err
}

// ExclusionEntry returns one game's exclusion annotation.
func (s *Store) ExclusionEntry(gameID uuid.UUID) (ExclusionEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.excluded[gameID.String()]
	return entry, ok
}

// Exclusions returns a copy of the whole exclusion register.
func (s *Store) Exclusions() map[string]ExclusionEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]ExclusionEntry, len(s.excluded))
	for k, v := range s.excluded {
		out[k] = v
	}
	return out
}

func (s *Store) updateGauges() {
	metrics.RegisterEntries.WithLabelValues("shortlist").Set(float64(len(s.shortlist)))
	metrics.RegisterEntries.WithLabelValues("excluded").Set(float64(len(s.excluded)))
}
