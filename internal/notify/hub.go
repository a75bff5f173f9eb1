// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

// Package notify implements the store change-notification channel. The store
// publishes a table name after every mutating call; subscribers (the engine's
// view rebuilder, the websocket bridge) re-fetch on receipt. Notifications are
// coalescing hints, not a durable event log.
package notify

import (
	"sync"

	"github.com/gamenighthq/gamenight/internal/metrics"
)

// Change identifies a mutated table.
type Change struct {
	Table string `json:"table"`
}

// Hub fans table-change notifications out to subscribers. Slow subscribers
// never block publishers: each subscription holds a buffer of one pending
// change per table and drops duplicates.
type Hub struct {
	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[*Subscription]struct{})}
}

// Subscription receives change notifications for the subscribed tables.
type Subscription struct {
	hub    *Hub
	tables map[string]struct{} // empty = all tables
	ch     chan Change

	mu      sync.Mutex
	pending map[string]struct{}
	closed  bool
}

// Subscribe registers interest in the given tables; with no tables, every
// change is delivered. The returned subscription must be Closed when done.
func (h *Hub) Subscribe(tables ...string) *Subscription {
	sub := &Subscription{
		hub:     h,
		tables:  make(map[string]struct{}, len(tables)),
		ch:      make(chan Change, 16),
		pending: make(map[string]struct{}),
	}
	for _, t := range tables {
		sub.tables[t] = struct{}{}
	}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	n := len(h.subs)
	h.mu.Unlock()

	metrics.NotifySubscribers.Set(float64(n))
	return sub
}

// Publish notifies all matching subscribers that table changed.
func (h *Hub) Publish(table string) {
	h.mu.Lock()
	subs := make([]*Subscription, 0, len(h.subs))
	for sub := range h.subs {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		sub.deliver(table)
	}
}

func (s *Subscription) deliver(table string) {
	if len(s.tables) > 0 {
		if _, ok := s.tables[table]; !ok {
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if _, dup := s.pending[table]; dup {
		// A notification for this table is already queued; the re-fetch it
		// triggers will observe this change too.
		return
	}

	select {
	case s.ch <- Change{Table: table}:
		s.pending[table] = struct{}{}
	default:
		// Buffer full; the subscriber is mid-rebuild and will re-fetch.
	}
}

// C returns the notification channel.
func (s *Subscription) C() <-chan Change {
	return s.ch
}

// Ack clears the pending marker for table, re-arming delivery. Call after
// starting the re-fetch the notification triggered.
func (s *Subscription) Ack(table string) {
	s.mu.Lock()
	delete(s.pending, table)
	s.mu.Unlock()
}

// Close removes the subscription from the hub.
func (s *Subscription) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.hub.mu.Lock()
	delete(s.hub.subs, s)
	n := len(s.hub.subs)
	s.hub.mu.Unlock()

	metrics.NotifySubscribers.Set(float64(n))
	close(s.ch)
}
