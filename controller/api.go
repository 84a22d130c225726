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

package controller

import (
	"github.com/bfix/gospel/logger"

	"github.com/bfix/gossipd/cache"
	"github.com/bfix/gossipd/message"
	"github.com/bfix/gossipd/pool"
	"github.com/bfix/gossipd/queue"
	"github.com/bfix/gossipd/stats"
	"github.com/bfix/gossipd/subscription"
)

// APIController is the reactor behind the local application endpoint. It
// turns ANNOUNCE/NOTIFY/VALIDATION requests from applications into
// subscriber fan-out and peer dissemination, and reacts to a lost
// application connection by dropping its subscriptions.
type APIController struct {
	label     string
	announces *cache.AnnounceCache
	subs      *subscription.Registry
	peers     *pool.Pool
	apiOut    chan<- queue.Command
	p2pOut    chan<- queue.Command
	stats     *stats.Counters
}

// SetStats attaches the counters this controller should update. Nil
// (the default) disables counting.
func (c *APIController) SetStats(s *stats.Counters) { c.stats = s }

// NewAPIController wires an API controller. peers is the P2P endpoint's
// pool (used only to enumerate current peer identifiers for fan-out);
// apiOut and p2pOut are the two endpoints' sender queues.
func NewAPIController(label string, announces *cache.AnnounceCache, subs *subscription.Registry, peers *pool.Pool, apiOut, p2pOut chan<- queue.Command) *APIController {
	return &APIController{
		label:     label,
		announces: announces,
		subs:      subs,
		peers:     peers,
		apiOut:    apiOut,
		p2pOut:    p2pOut,
	}
}

// Run consumes events from the API endpoint's receivers until in is
// closed.
func (c *APIController) Run(in <-chan queue.Event) {
	for ev := range in {
		switch ev.Kind {
		case queue.NewConnection:
			// Nothing to do until the application sends a message.
		case queue.ConnectionLost:
			c.subs.Unregister(ev.Identifier)
			if c.stats != nil {
				c.stats.IncConnectionsLost()
			}
		case queue.ReceivedMessage:
			if c.stats != nil {
				c.stats.IncFramesProcessed()
			}
			c.handleMessage(ev.Identifier, ev.Msg)
		}
	}
}

func (c *APIController) handleMessage(identifier string, msg message.Message) {
	switch m := msg.(type) {
	case *message.AnnounceMsg:
		c.handleAnnounce(identifier, m)
	case *message.NotifyMsg:
		c.handleNotify(identifier, m)
	case *message.ValidationMsg:
		c.handleValidation(identifier, m)
	default:
		logger.Printf(logger.WARN, "[%s] unexpected message %T from %s\n", c.label, m, identifier)
	}
}

// handleAnnounce inserts the announcement as already-valid (a local
// application is an implicitly trusted source), drops already-known
// content, and otherwise delivers it to every subscriber of DataType
// (except the announcing identifier itself) as a NOTIFICATION, then
// floods the original ANNOUNCE unchanged to every current P2P peer.
func (c *APIController) handleAnnounce(identifier string, m *message.AnnounceMsg) {
	id, known, evicted, didEvict := c.announces.Add(m.DataType, m.Data, true, m.Ttl, true)
	if didEvict {
		logger.Printf(logger.DBG, "[%s] announce cache evicted id %d\n", c.label, evicted)
	}
	if known {
		return
	}
	if c.stats != nil {
		c.stats.IncAnnouncesCached()
	}
	notification := message.NewNotificationMsg(id, m.DataType, m.Data)
	for _, subID := range c.subs.GetRegistrations(m.DataType) {
		if subID == identifier {
			continue
		}
		c.apiOut <- queue.Send(subID, notification)
	}
	for _, peerID := range c.peers.Identifiers() {
		c.p2pOut <- queue.Send(peerID, m)
		if c.stats != nil {
			c.stats.IncFloodsEmitted()
		}
	}
}

// handleNotify registers identifier as a subscriber of DataType, then
// replays every cached announcement of that DataType to it as a
// NOTIFICATION so a late subscriber still sees what's already known.
func (c *APIController) handleNotify(identifier string, m *message.NotifyMsg) {
	c.subs.Register(m.DataType, identifier)
	for _, item := range c.announces.Iterator(0, false) {
		if item.Value.DataType != m.DataType {
			continue
		}
		notification := message.NewNotificationMsg(item.Key, item.Value.DataType, item.Value.Payload)
		c.apiOut <- queue.Send(identifier, notification)
	}
}

// handleValidation applies an application's verdict on a previously
// delivered NOTIFICATION. An unknown or already-valid id is an idempotent
// no-op (the entry vanished by eviction, or a duplicate verdict arrived).
// A negative verdict evicts the entry; a positive one marks it valid and,
// unless the cached entry is a last hop (Forwardable == false), floods
// the reconstructed ANNOUNCE to every current P2P peer.
func (c *APIController) handleValidation(identifier string, m *message.ValidationMsg) {
	valid, found := c.announces.IsValid(m.MsgId)
	if !found || valid {
		return
	}
	if !m.Valid {
		c.announces.Remove(m.MsgId)
		return
	}
	c.announces.SetValid(m.MsgId, true)
	entry, ok := c.announces.Get(m.MsgId)
	if !ok || !entry.Forwardable {
		return
	}
	announce := message.NewAnnounceMsg(entry.Ttl, entry.DataType, entry.Payload)
	for _, peerID := range c.peers.Identifiers() {
		c.p2pOut <- queue.Send(peerID, announce)
		if c.stats != nil {
			c.stats.IncFloodsEmitted()
		}
	}
}
