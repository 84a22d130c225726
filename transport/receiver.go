// This file is part of gossipd, a gossip-overlay daemon in Golang.
// Copyright (C) 2026 The gossipd authors.
//
// gossipd is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// gossipd is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL3.0-or-later

package transport

import (
	"github.com/bfix/gospel/logger"

	"github.com/bfix/gossipd/message"
	"github.com/bfix/gossipd/pool"
	"github.com/bfix/gossipd/queue"
)

// Receiver is the per-connection task: one per accepted socket and one
// per outbound connect. It owns no goroutine lifecycle beyond Run;
// cancellation happens by closing the socket out from under the
// blocking read (via pool eviction or daemon shutdown).
type Receiver struct {
	label      string // "api" or "p2p", for log lines
	identifier string
	socket     Socket
	pool       *pool.Pool
	out        chan<- queue.Event
}

// NewReceiver constructs a receiver for an already-registered pool
// entry.
func NewReceiver(label, identifier string, socket Socket, p *pool.Pool, out chan<- queue.Event) *Receiver {
	return &Receiver{label: label, identifier: identifier, socket: socket, pool: p, out: out}
}

// Run emits NEW_CONNECTION, then decodes frames until a decode failure
// or socket error, at which point it emits CONNECTION_LOST, removes
// itself from the pool, closes the socket, and returns. A malformed
// frame is treated as disconnection; Run never blocks its controller on
// the error.
func (r *Receiver) Run() {
	r.out <- queue.Event{Kind: queue.NewConnection, Identifier: r.identifier}
	for {
		msg, err := message.ReadFrame(r.socket)
		if err != nil {
			logger.Printf(logger.INFO, "[%s] connection %s lost: %s\n", r.label, r.identifier, err)
			r.pool.Remove(r.identifier)
			_ = r.socket.Close()
			r.out <- queue.Event{Kind: queue.ConnectionLost, Identifier: r.identifier}
			return
		}
		r.out <- queue.Event{Kind: queue.ReceivedMessage, Identifier: r.identifier, Msg: msg}
	}
}
