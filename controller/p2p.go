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

// P2PController is the reactor behind the remote peer endpoint. It
// maintains membership (bootstrap, PEER_REQUEST/RESPONSE/INIT/UPDATE) and
// caches announcements received from peers, delivering them to local
// subscribers. Their re-flood to peers is done by the APIController once
// a local application validates them.
type P2PController struct {
	label        string
	self         message.PeerAddr
	maxTTL       uint8
	bootstrapper string
	peers        *pool.Pool
	announces    *cache.AnnounceCache
	updates      *cache.UpdateCache
	subs         *subscription.Registry
	apiOut       chan<- queue.Command
	p2pOut       chan<- queue.Command
	stats        *stats.Counters
}

// SetStats attaches the counters this controller should update. Nil
// (the default) disables counting.
func (c *P2PController) SetStats(s *stats.Counters) { c.stats = s }

// NewP2PController wires a P2P controller. self is this node's own
// advertised listening address; bootstrapper, if non-empty, is contacted
// once at startup. maxTTL bounds PEER_UPDATE floods (the connect-in gate
// fires only below half the configured maximum).
func NewP2PController(label string, self message.PeerAddr, maxTTL uint8, bootstrapper string, peers *pool.Pool, announces *cache.AnnounceCache, updates *cache.UpdateCache, subs *subscription.Registry, apiOut, p2pOut chan<- queue.Command) *P2PController {
	return &P2PController{
		label:        label,
		self:         self,
		maxTTL:       maxTTL,
		bootstrapper: bootstrapper,
		peers:        peers,
		announces:    announces,
		updates:      updates,
		subs:         subs,
		apiOut:       apiOut,
		p2pOut:       p2pOut,
	}
}

// Start issues the one-time bootstrap handshake, if a bootstrapper is
// configured: dial it and ask for its peer list.
func (c *P2PController) Start() {
	if c.bootstrapper == "" {
		return
	}
	c.p2pOut <- queue.Establish(c.bootstrapper)
	c.p2pOut <- queue.Send(c.bootstrapper, message.NewPeerRequestMsg(c.self))
}

// Run consumes events from the P2P endpoint's receivers until in is
// closed.
func (c *P2PController) Run(in <-chan queue.Event) {
	for ev := range in {
		switch ev.Kind {
		case queue.NewConnection:
			c.handleNewConnection(ev.Identifier)
		case queue.ConnectionLost:
			c.handleConnectionLost(ev.Identifier)
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

func (c *P2PController) handleMessage(identifier string, msg message.Message) {
	switch m := msg.(type) {
	case *message.AnnounceMsg:
		c.handleAnnounce(identifier, m)
	case *message.PeerRequestMsg:
		c.handlePeerRequest(identifier, m)
	case *message.PeerInitMsg:
		c.handlePeerInit(identifier, m)
	case *message.PeerResponseMsg:
		c.handlePeerResponse(identifier, m)
	case *message.PeerUpdateMsg:
		c.handlePeerUpdate(identifier, m)
	default:
		logger.Printf(logger.WARN, "[%s] unexpected message %T from %s\n", c.label, m, identifier)
	}
}

// handleNewConnection replays the announce cache to a freshly accepted or
// dialed peer, then — once its server identifier is already known,
// meaning it was reached via ESTABLISH_CONNECTION after a PEER_RESPONSE —
// floods its arrival as a PEER_UPDATE(found). Replay happens before the
// flood: both are enqueued on the same outbound queue, and replay-first
// is this implementation's chosen ordering where the two could race.
func (c *P2PController) handleNewConnection(identifier string) {
	for _, item := range c.announces.Iterator(0, false) {
		announce := message.NewAnnounceMsg(item.Value.Ttl, item.Value.DataType, item.Value.Payload)
		c.p2pOut <- queue.Send(identifier, announce)
	}
	serverID, known, err := c.peers.ServerIdentifier(identifier)
	if err != nil || !known {
		return
	}
	addr, err := message.ParsePeerAddr(serverID)
	if err != nil {
		return
	}
	c.originateUpdate(identifier, addr, message.UpdateFound)
}

// handleConnectionLost picks a random surviving peer and asks it for its
// peer list, backfilling the membership this connection's loss cost us.
// No PEER_UPDATE(lost) flood is emitted.
func (c *P2PController) handleConnectionLost(identifier string) {
	other, ok := c.peers.RandomOther(identifier)
	if !ok {
		return
	}
	c.p2pOut <- queue.Send(other, message.NewPeerRequestMsg(c.self))
}

// handleAnnounce inserts a peer-originated announcement as not-yet-valid,
// decrementing its ttl under the saturating rule and recording whether it
// may be forwarded onward once validated. Already-known content is
// dropped; otherwise it's delivered to every local subscriber of
// DataType as a NOTIFICATION. P2P fan-out waits for VALIDATION.
func (c *P2PController) handleAnnounce(identifier string, m *message.AnnounceMsg) {
	newTTL, forwardable := decrementSaturating(m.Ttl)
	id, known, evicted, didEvict := c.announces.Add(m.DataType, m.Data, false, newTTL, forwardable)
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
}

// handlePeerRequest records the sender's advertised server identifier,
// replies with every other known server identifier (excluding the
// sender's and this node's own), and
// floods the sender's arrival as PEER_UPDATE(found).
func (c *P2PController) handlePeerRequest(identifier string, m *message.PeerRequestMsg) {
	senderID := m.Server.String()
	c.peers.Update(identifier, senderID)

	known := c.peers.ServerIdentifiers(senderID, c.self.String())
	peers := make([]message.PeerAddr, 0, len(known))
	for _, id := range known {
		addr, err := message.ParsePeerAddr(id)
		if err != nil {
			continue
		}
		peers = append(peers, addr)
	}
	c.p2pOut <- queue.Send(identifier, message.NewPeerResponseMsg(peers))
	c.originateUpdate(identifier, m.Server, message.UpdateFound)
}

// handlePeerInit records the sender's advertised server identifier and
// floods its arrival as PEER_UPDATE(found), without replying.
func (c *P2PController) handlePeerInit(identifier string, m *message.PeerInitMsg) {
	c.peers.Update(identifier, m.Server.String())
	c.originateUpdate(identifier, m.Server, message.UpdateFound)
}

// handlePeerResponse dials and initializes a connection to every offered
// address not already known, stopping once the pool is at capacity.
func (c *P2PController) handlePeerResponse(identifier string, m *message.PeerResponseMsg) {
	candidates := make([]string, len(m.Peers))
	for i, p := range m.Peers {
		candidates[i] = p.String()
	}
	free := c.peers.Capacity()
	for _, addr := range c.peers.FilterNew(candidates, c.self.String()) {
		if free <= 0 {
			break
		}
		c.p2pOut <- queue.Establish(addr)
		c.p2pOut <- queue.Send(addr, message.NewPeerInitMsg(c.self))
		free--
	}
}

// handlePeerUpdate de-dups the flood by (address, update_type); a repeat
// is silently dropped. A fresh "found" sighting that's still young
// enough (ttl below half the configured maximum) and names an address we
// don't already hold, with spare pool capacity, is connected to. A
// "lost" sighting carries no side effect beyond de-dup and forwarding,
// per this protocol's design. The flood is then forwarded under the
// shared saturating ttl rule.
func (c *P2PController) handlePeerUpdate(identifier string, m *message.PeerUpdateMsg) {
	subjectID := m.Address.String()
	if !c.updates.Add(subjectID, m.UpdateType) {
		return
	}
	if m.UpdateType == message.UpdateFound && m.Ttl < c.maxTTL/2 && c.peers.Capacity() > 0 {
		if len(c.peers.FilterNew([]string{subjectID}, c.self.String())) > 0 {
			c.p2pOut <- queue.Establish(subjectID)
			c.p2pOut <- queue.Send(subjectID, message.NewPeerInitMsg(c.self))
		}
	}
	newTTL, forward := decrementSaturating(m.Ttl)
	if !forward {
		return
	}
	flood := message.NewPeerUpdateMsg(m.Address, newTTL, m.UpdateType)
	c.distributeExcept(identifier, subjectID, flood)
}

// originateUpdate records a freshly learned subject (de-duping against
// repeat sightings the same way handlePeerUpdate does) and floods it at
// the full configured ttl to every peer but originSender and the
// subject's own connection.
func (c *P2PController) originateUpdate(originSender string, subject message.PeerAddr, ut message.UpdateType) {
	subjectID := subject.String()
	if !c.updates.Add(subjectID, ut) {
		return
	}
	msg := message.NewPeerUpdateMsg(subject, c.maxTTL, ut)
	c.distributeExcept(originSender, subjectID, msg)
}

// distributeExcept sends msg to every current peer identifier except
// originSender and whichever identifier (if any) advertises subjectID as
// its own server identifier.
func (c *P2PController) distributeExcept(originSender, subjectID string, msg message.Message) {
	for _, id := range c.peers.Identifiers() {
		if id == originSender {
			continue
		}
		if sid, known, _ := c.peers.ServerIdentifier(id); known && sid == subjectID {
			continue
		}
		c.p2pOut <- queue.Send(id, msg)
		if c.stats != nil {
			c.stats.IncFloodsEmitted()
		}
	}
}
