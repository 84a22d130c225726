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
	"context"

	"github.com/bfix/gospel/logger"

	"github.com/bfix/gossipd/message"
	"github.com/bfix/gossipd/pool"
	"github.com/bfix/gossipd/queue"
)

// Sender is the single per-endpoint task draining the controller's
// outbound command queue.
type Sender struct {
	label string
	pool  *pool.Pool
	in    <-chan queue.Command

	// spawnReceiver starts a Receiver goroutine for a freshly dialed
	// connection. Supplied by the daemon wiring so Sender doesn't need
	// to know about the controller's event channel directly.
	spawnReceiver func(identifier string, socket Socket)
}

// NewSender constructs a sender for one endpoint.
func NewSender(label string, p *pool.Pool, in <-chan queue.Command, spawnReceiver func(string, Socket)) *Sender {
	return &Sender{label: label, pool: p, in: in, spawnReceiver: spawnReceiver}
}

// Run processes commands until ctx is cancelled.
func (s *Sender) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-s.in:
			switch cmd.Kind {
			case queue.SendCommand:
				s.send(cmd.Identifier, cmd.Msg)
			case queue.EstablishCommand:
				s.establish(cmd.Identifier)
			default:
				logger.Printf(logger.ERROR, "[%s] sender: unknown command kind %v\n", s.label, cmd.Kind)
			}
		}
	}
}

// send looks up the socket and writes the encoded frame. A missing
// identifier (evicted between enqueue and dequeue) is a non-error drop.
// A write error removes the identifier from the pool; the corresponding
// receiver will observe the closed socket and emit CONNECTION_LOST on
// its own.
func (s *Sender) send(identifier string, msg message.Message) {
	sock, err := s.pool.Get(identifier)
	if err != nil {
		logger.Printf(logger.DBG, "[%s] sender: dropping message for vanished connection %s\n", s.label, identifier)
		return
	}
	if err := message.WriteFrame(sock, msg); err != nil {
		logger.Printf(logger.WARN, "[%s] sender: write to %s failed: %s\n", s.label, identifier, err)
		s.pool.Remove(identifier)
	}
}

// establish dials identifier, registers it in the pool with its own
// server identifier (we dialed its advertised listening address), and
// spawns a receiver for it. A refused connection is dropped and logged;
// no event is emitted.
func (s *Sender) establish(identifier string) {
	sock, err := Dial(identifier)
	if err != nil {
		logger.Printf(logger.WARN, "[%s] sender: connect to %s failed: %s\n", s.label, identifier, err)
		return
	}
	s.pool.Add(identifier, sock, identifier)
	s.spawnReceiver(identifier, sock)
}
