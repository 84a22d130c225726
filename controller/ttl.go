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

// Package controller implements the API and P2P controllers: two
// finite-state reactors, each consuming a queue.Event stream and
// producing queue.Command output onto the two sender queues (own
// endpoint and the other). Each follows a single-goroutine
// message-pump pattern, selecting on one input channel and dispatching
// by message type, generalized from a listener-fanout model down to
// this daemon's direct API/P2P sender wiring.
package controller

// decrementSaturating applies the ttl rule every hop-bounded forward
// shares (ANNOUNCE re-flood gating and PEER_UPDATE forwarding):
//
//   - ttl == 0 means unlimited: stays 0, always forwardable.
//   - ttl == 1 is the last hop: this implementation does NOT forward it
//     (a deliberate departure from a naive `ttl>1 ? ttl-1 : 0` rule,
//     which would otherwise turn a last-hop message unbounded).
//   - ttl > 1: decrement by one, forwardable.
func decrementSaturating(ttl uint8) (newTTL uint8, forward bool) {
	switch {
	case ttl == 0:
		return 0, true
	case ttl == 1:
		return 0, false
	default:
		return ttl - 1, true
	}
}
