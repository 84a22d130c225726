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
	"testing"

	"github.com/bfix/gossipd/cache"
	"github.com/bfix/gossipd/message"
	"github.com/bfix/gossipd/pool"
	"github.com/bfix/gossipd/queue"
	"github.com/bfix/gossipd/rnd"
	"github.com/bfix/gossipd/subscription"
)

func newTestP2PController(self string, maxTTL uint8, bootstrapper string, capacity int) (*P2PController, chan queue.Command, chan queue.Command) {
	apiOut := make(chan queue.Command, 64)
	p2pOut := make(chan queue.Command, 64)
	selfAddr, err := message.ParsePeerAddr(self)
	if err != nil {
		panic(err)
	}
	announces := cache.NewAnnounceCache(16, rnd.NewMath(1))
	updates := cache.NewUpdateCache(16)
	subs := subscription.New()
	peers := pool.New(capacity, rnd.NewMath(1))
	c := NewP2PController("p2p", selfAddr, maxTTL, bootstrapper, peers, announces, updates, subs, apiOut, p2pOut)
	return c, apiOut, p2pOut
}

func TestP2PControllerBootstrapDialsAndRequests(t *testing.T) {
	c, _, p2pOut := newTestP2PController("10.0.0.1:6000", 8, "1.2.3.4:5000", 10)
	c.Start()

	if len(p2pOut) != 2 {
		t.Fatalf("got %d outbound commands, want 2", len(p2pOut))
	}
	establish := <-p2pOut
	if establish.Kind != queue.EstablishCommand || establish.Identifier != "1.2.3.4:5000" {
		t.Fatalf("got %+v", establish)
	}
	request := <-p2pOut
	if request.Kind != queue.SendCommand || request.Identifier != "1.2.3.4:5000" {
		t.Fatalf("got %+v", request)
	}
	if _, ok := request.Msg.(*message.PeerRequestMsg); !ok {
		t.Fatalf("got %T, want *message.PeerRequestMsg", request.Msg)
	}
}

func TestP2PControllerNoBootstrapperIsNoop(t *testing.T) {
	c, _, p2pOut := newTestP2PController("10.0.0.1:6000", 8, "", 10)
	c.Start()
	if len(p2pOut) != 0 {
		t.Fatal("no bootstrapper configured: Start must be a no-op")
	}
}

func TestP2PControllerAnnounceDedupAndNotify(t *testing.T) {
	c, apiOut, _ := newTestP2PController("10.0.0.1:6000", 8, "", 10)
	c.subs.Register(4, "app1")

	c.handleAnnounce("peer1", message.NewAnnounceMsg(0, 4, []byte("a")))
	if len(apiOut) != 1 {
		t.Fatalf("got %d notifications, want 1", len(apiOut))
	}
	<-apiOut

	c.handleAnnounce("peer1", message.NewAnnounceMsg(0, 4, []byte("a")))
	if len(apiOut) != 0 {
		t.Fatal("duplicate content must not notify again")
	}
}

func TestP2PControllerAnnounceTTLSaturationBlocksForward(t *testing.T) {
	c, _, _ := newTestP2PController("10.0.0.1:6000", 8, "", 10)
	id, _, _, _ := c.announces.Add(4, []byte("last-hop"), false, 0, true)
	c.announces.Remove(id)

	// ttl=1 incoming means this is the last hop: stored ttl becomes 0 and
	// forwardable is false.
	newTTL, forwardable := decrementSaturating(1)
	gotID, known, _, _ := c.announces.Add(4, []byte("last-hop"), false, newTTL, forwardable)
	if known {
		t.Fatal("fresh content must not be already-known")
	}
	entry, ok := c.announces.Get(gotID)
	if !ok || entry.Forwardable {
		t.Fatalf("got %+v, want Forwardable=false", entry)
	}
}

func TestP2PControllerValidationRefloodsUnlessLastHop(t *testing.T) {
	c, _, p2pOut := newTestP2PController("10.0.0.1:6000", 8, "", 10)
	c.peers.Add("peer1", fakeSocket{}, "")
	c.peers.Add("peer2", fakeSocket{}, "")

	// ttl=2 decrements to 1 and stays forwardable.
	c.handleAnnounce("peer1", message.NewAnnounceMsg(2, 4, []byte("x")))
	var id uint16
	for _, item := range c.announces.Iterator(0, false) {
		id = item.Key
	}

	apiC := NewAPIController("api", c.announces, c.subs, c.peers, make(chan queue.Command, 8), p2pOut)
	apiC.handleValidation("app1", message.NewValidationMsg(id, true))

	if len(p2pOut) != 2 {
		t.Fatalf("got %d floods, want 2 (one per peer)", len(p2pOut))
	}
}

func TestP2PControllerValidationDoesNotFloodLastHop(t *testing.T) {
	c, _, p2pOut := newTestP2PController("10.0.0.1:6000", 8, "", 10)
	c.peers.Add("peer1", fakeSocket{}, "")

	// ttl=1 is the last hop: Forwardable is stored false.
	c.handleAnnounce("peer1", message.NewAnnounceMsg(1, 4, []byte("x")))
	var id uint16
	for _, item := range c.announces.Iterator(0, false) {
		id = item.Key
	}

	apiC := NewAPIController("api", c.announces, c.subs, c.peers, make(chan queue.Command, 8), p2pOut)
	apiC.handleValidation("app1", message.NewValidationMsg(id, true))

	if len(p2pOut) != 0 {
		t.Fatal("last-hop announce must not be re-flooded even once validated")
	}
}

func TestP2PControllerPeerRequestRepliesAndFloods(t *testing.T) {
	c, _, p2pOut := newTestP2PController("10.0.0.1:6000", 8, "", 10)
	c.peers.Add("existing", fakeSocket{}, "9.9.9.9:7000")
	c.peers.Add("requester", fakeSocket{}, "")

	requesterAddr, _ := message.ParsePeerAddr("1.2.3.4:5000")
	c.handlePeerRequest("requester", message.NewPeerRequestMsg(requesterAddr))

	if len(p2pOut) != 2 {
		t.Fatalf("got %d outbound commands, want 2 (response + flood)", len(p2pOut))
	}
	response := <-p2pOut
	resp, ok := response.Msg.(*message.PeerResponseMsg)
	if !ok || response.Identifier != "requester" {
		t.Fatalf("got %+v", response)
	}
	if len(resp.Peers) != 1 || resp.Peers[0].String() != "9.9.9.9:7000" {
		t.Fatalf("got %+v", resp.Peers)
	}

	flood := <-p2pOut
	if flood.Identifier != "existing" {
		t.Fatalf("got flood recipient %q, want existing (requester itself excluded)", flood.Identifier)
	}
	update, ok := flood.Msg.(*message.PeerUpdateMsg)
	if !ok || update.Address.String() != "1.2.3.4:5000" || update.UpdateType != message.UpdateFound {
		t.Fatalf("got %+v", flood)
	}
}

func TestP2PControllerPeerResponseEstablishesUpToCapacity(t *testing.T) {
	c, _, p2pOut := newTestP2PController("10.0.0.1:6000", 8, "", 1)
	addr1, _ := message.ParsePeerAddr("1.1.1.1:1000")
	addr2, _ := message.ParsePeerAddr("2.2.2.2:2000")

	c.handlePeerResponse("bootstrapper", message.NewPeerResponseMsg([]message.PeerAddr{addr1, addr2}))

	// capacity 1 means only the first offered new peer is dialed.
	if len(p2pOut) != 2 {
		t.Fatalf("got %d commands, want 2 (establish + init for exactly one peer)", len(p2pOut))
	}
	establish := <-p2pOut
	if establish.Kind != queue.EstablishCommand || establish.Identifier != "1.1.1.1:1000" {
		t.Fatalf("got %+v", establish)
	}
}

func TestP2PControllerPeerUpdateConnectInGate(t *testing.T) {
	c, _, p2pOut := newTestP2PController("10.0.0.1:6000", 8, "", 10)
	addr, _ := message.ParsePeerAddr("3.3.3.3:3000")

	// ttl well below max_ttl/2 (=4): connect-in should fire.
	c.handlePeerUpdate("peer1", message.NewPeerUpdateMsg(addr, 1, message.UpdateFound))

	if len(p2pOut) != 2 {
		t.Fatalf("got %d commands, want establish+init", len(p2pOut))
	}
	establish := <-p2pOut
	if establish.Kind != queue.EstablishCommand || establish.Identifier != "3.3.3.3:3000" {
		t.Fatalf("got %+v", establish)
	}
}

func TestP2PControllerPeerUpdateHighTTLSkipsConnect(t *testing.T) {
	c, _, p2pOut := newTestP2PController("10.0.0.1:6000", 8, "", 10)
	addr, _ := message.ParsePeerAddr("3.3.3.3:3000")

	// ttl=6 is not below max_ttl/2 (=4): no connect-in, but the forward
	// (decremented to 5) still fires to every peer -- none exist here, so
	// the command queue is empty either way.
	c.handlePeerUpdate("peer1", message.NewPeerUpdateMsg(addr, 6, message.UpdateFound))
	if len(p2pOut) != 0 {
		t.Fatalf("got %d commands, want 0 (no peers to forward to, connect-in gate closed)", len(p2pOut))
	}
}

func TestP2PControllerPeerUpdateDedup(t *testing.T) {
	c, _, p2pOut := newTestP2PController("10.0.0.1:6000", 8, "", 10)
	c.peers.Add("peer2", fakeSocket{}, "")
	addr, _ := message.ParsePeerAddr("3.3.3.3:3000")

	c.handlePeerUpdate("peer1", message.NewPeerUpdateMsg(addr, 6, message.UpdateFound))
	first := len(p2pOut)
	for i := 0; i < first; i++ {
		<-p2pOut
	}

	c.handlePeerUpdate("peer1", message.NewPeerUpdateMsg(addr, 6, message.UpdateFound))
	if len(p2pOut) != 0 {
		t.Fatal("repeat (address, update_type) sighting must be dropped")
	}
}

func TestP2PControllerPeerUpdateLastHopNotForwarded(t *testing.T) {
	c, _, p2pOut := newTestP2PController("10.0.0.1:6000", 8, "", 10)
	c.peers.Add("peer2", fakeSocket{}, "")
	addr, _ := message.ParsePeerAddr("3.3.3.3:3000")

	// ttl=1: connect-in gate is open (1 < 4) but forwarding must stop.
	c.handlePeerUpdate("peer1", message.NewPeerUpdateMsg(addr, 1, message.UpdateFound))

	sawForward := false
	for len(p2pOut) > 0 {
		cmd := <-p2pOut
		if _, ok := cmd.Msg.(*message.PeerUpdateMsg); ok {
			sawForward = true
		}
	}
	if sawForward {
		t.Fatal("ttl==1 PEER_UPDATE must not be forwarded")
	}
}

func TestP2PControllerConnectionLostBackfills(t *testing.T) {
	c, _, p2pOut := newTestP2PController("10.0.0.1:6000", 8, "", 10)
	c.peers.Add("survivor", fakeSocket{}, "")

	c.handleConnectionLost("gone")

	if len(p2pOut) != 1 {
		t.Fatalf("got %d commands, want 1", len(p2pOut))
	}
	cmd := <-p2pOut
	if cmd.Identifier != "survivor" {
		t.Fatalf("got %q, want survivor", cmd.Identifier)
	}
	if _, ok := cmd.Msg.(*message.PeerRequestMsg); !ok {
		t.Fatalf("got %T, want *message.PeerRequestMsg", cmd.Msg)
	}
}

func TestP2PControllerConnectionLostNoSurvivorsIsNoop(t *testing.T) {
	c, _, p2pOut := newTestP2PController("10.0.0.1:6000", 8, "", 10)
	c.handleConnectionLost("gone")
	if len(p2pOut) != 0 {
		t.Fatal("no surviving peers: backfill must be a no-op")
	}
}

func TestP2PControllerNewConnectionReplaysThenFloods(t *testing.T) {
	c, _, p2pOut := newTestP2PController("10.0.0.1:6000", 8, "", 10)
	c.announces.Add(4, []byte("cached"), true, 0, true)
	c.peers.Add("fresh", fakeSocket{}, "5.5.5.5:9000")
	c.peers.Add("other", fakeSocket{}, "6.6.6.6:9000")

	c.handleNewConnection("fresh")

	if len(p2pOut) != 2 {
		t.Fatalf("got %d commands, want 2 (replay + flood)", len(p2pOut))
	}
	replay := <-p2pOut
	if _, ok := replay.Msg.(*message.AnnounceMsg); !ok || replay.Identifier != "fresh" {
		t.Fatalf("got %+v, want an ANNOUNCE replay to fresh first", replay)
	}
	flood := <-p2pOut
	if _, ok := flood.Msg.(*message.PeerUpdateMsg); !ok {
		t.Fatalf("got %+v, want the PEER_UPDATE flood second", flood)
	}
}

func TestP2PControllerNewConnectionSkipsFloodIfServerIdentifierUnknown(t *testing.T) {
	c, _, p2pOut := newTestP2PController("10.0.0.1:6000", 8, "", 10)
	c.peers.Add("incoming", fakeSocket{}, "")

	c.handleNewConnection("incoming")
	if len(p2pOut) != 0 {
		t.Fatal("server identifier not yet known: must not flood or replay anything to report")
	}
}
