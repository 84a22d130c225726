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

// Package stats holds the small set of atomic counters the daemon
// exposes through its heartbeat log line, following a main.go heartbeat
// ticker rather than a standalone metrics subsystem: this daemon has no
// HTTP admin surface to publish counters through.
package stats

import "sync/atomic"

// Counters tracks a handful of lifetime totals. All fields are safe for
// concurrent use from any controller or sender goroutine.
type Counters struct {
	framesProcessed uint64
	announcesCached uint64
	floodsEmitted   uint64
	connectionsLost uint64
}

// IncFramesProcessed counts one decoded frame, regardless of code.
func (c *Counters) IncFramesProcessed() { atomic.AddUint64(&c.framesProcessed, 1) }

// IncAnnouncesCached counts one new (not-already-known) announce cache
// insertion.
func (c *Counters) IncAnnouncesCached() { atomic.AddUint64(&c.announcesCached, 1) }

// IncFloodsEmitted counts one ANNOUNCE or PEER_UPDATE re-flood sent to a
// peer.
func (c *Counters) IncFloodsEmitted() { atomic.AddUint64(&c.floodsEmitted, 1) }

// IncConnectionsLost counts one CONNECTION_LOST event, on either
// endpoint.
func (c *Counters) IncConnectionsLost() { atomic.AddUint64(&c.connectionsLost, 1) }

// Snapshot is a point-in-time copy of every counter, safe to log or
// compare.
type Snapshot struct {
	FramesProcessed uint64
	AnnouncesCached uint64
	FloodsEmitted   uint64
	ConnectionsLost uint64
}

// Snapshot reads every counter atomically (though not as a single
// consistent transaction across fields, which the heartbeat log line
// doesn't need).
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		FramesProcessed: atomic.LoadUint64(&c.framesProcessed),
		AnnouncesCached: atomic.LoadUint64(&c.announcesCached),
		FloodsEmitted:   atomic.LoadUint64(&c.floodsEmitted),
		ConnectionsLost: atomic.LoadUint64(&c.connectionsLost),
	}
}
