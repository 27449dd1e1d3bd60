// Copyright (C) 2020 The floof Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package httpdev

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	cage_zap "github.com/codeactual/floof/internal/cage/log/zap"
	sync3p "github.com/codeactual/floof/internal/third_party/github.com/sync"
)

// Reloader is the frame-scoped handle a Reload operation uses to signal a reload. It
// only enqueues the request; the actual upstream-readiness wait and session drop
// happen asynchronously inside the owning Http operation's worker (spec.md §4.9).
type Reloader interface {
	// Reload enqueues a reload request. It never blocks.
	Reload()
}

// reloadHub accepts WebSocket control connections and, on request, drops every live
// connection -- the ensuing close is the signal the browser-side client reacts to.
type reloadHub struct {
	upgrader websocket.Upgrader
	conns    *sync3p.Slice
	logger   *zap.Logger
	requests chan struct{}
}

func newReloadHub(logger *zap.Logger) *reloadHub {
	return &reloadHub{
		upgrader: websocket.Upgrader{
			// Dev server: the request's Origin rarely matches the proxied host, and
			// there's no session/credential boundary to protect here.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		conns:    sync3p.NewSlice(),
		logger:   logger,
		requests: make(chan struct{}, 1),
	}
}

// ServeHTTP upgrades the request to a WebSocket and holds the connection open, pruning
// it from the fan-out list once the client (or a server-initiated drop) closes it.
func (h *reloadHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("control endpoint upgrade failed", cage_zap.Tag("httpdev", "control"), zap.Error(err))
		return
	}

	h.conns.Append(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.removeConn(conn)
}

func (h *reloadHub) removeConn(target *websocket.Conn) {
	for item := range h.conns.Iter() {
		if item.Value == target {
			h.conns.Delete(item.Index)
			return
		}
	}
}

// Reload implements Reloader: it enqueues a reload request, coalescing with any request
// still pending.
func (h *reloadHub) Reload() {
	select {
	case h.requests <- struct{}{}:
	default:
	}
}

// requestCh is read by the owning Http operation's worker.
func (h *reloadHub) requestCh() <-chan struct{} {
	return h.requests
}

// closeAll drops every live control connection. The close is what triggers the
// browser-side reconnect-then-reload behavior.
func (h *reloadHub) closeAll() {
	var conns []*websocket.Conn
	for item := range h.conns.Iter() {
		if conn, ok := item.Value.(*websocket.Conn); ok {
			conns = append(conns, conn)
		}
	}

	for _, conn := range conns {
		_ = conn.Close()
	}
}

var _ Reloader = (*reloadHub)(nil)
