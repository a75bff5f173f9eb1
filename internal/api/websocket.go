// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gamenighthq/gamenight/internal/logging"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin enforcement happens in the CORS middleware; the dashboard is
	// same-origin in production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// changeEvent is the push message sent when canonical data changes. Clients
// refetch the view rather than patching state from the event.
type changeEvent struct {
	Type  string `json:"type"`
	Table string `json:"table"`
}

// Websocket upgrades the connection and streams change notifications for
// the tables backing the dashboard until the client disconnects.
func (h *Handlers) Websocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error().Err(err).Msg("Websocket upgrade failed")
		return
	}

	sub := h.hub.Subscribe("games", "players", "player_games")

	// Read pump: drains client frames so pong handlers run; any read error
	// (including a normal close) tears the connection down.
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		sub.Close()
		_ = conn.Close()
	}()

	for {
		select {
		case change, ok := <-sub.C():
			if !ok {
				return
			}
			sub.Ack(change.Table)
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(changeEvent{Type: "change", Table: change.Table}); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}
