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

type fakeSocket struct{}

func (fakeSocket) Close() error { return nil }

func newTestAPIController(peerCapacity int) (*APIController, chan queue.Command, chan queue.Command) {
	apiOut := make(chan queue.Command, 64)
	p2pOut := make(chan queue.Command, 64)
	announces := cache.NewAnnounceCache(16, rnd.NewMath(1))
	subs := subscription.New()
	peers := pool.New(peerCapacity, rnd.NewMath(1))
	c := NewAPIController("api", announces, subs, peers, apiOut, p2pOut)
	return c, apiOut, p2pOut
}

func TestAPIControllerAnnounceDedup(t *testing.T) {
	c, _, p2pOut := newTestAPIController(5)
	c.peers.Add("peer1", fakeSocket{}, "")

	c.handleAnnounce("app1", message.NewAnnounceMsg(0, 1, []byte("hello")))
	if len(p2pOut) != 1 {
		t.Fatalf("first announce: got %d p2p sends, want 1", len(p2pOut))
	}
	<-p2pOut

	c.handleAnnounce("app1", message.NewAnnounceMsg(0, 1, []byte("hello")))
	if len(p2pOut) != 0 {
		t.Fatalf("duplicate announce must not re-flood, got %d sends", len(p2pOut))
	}
}

func TestAPIControllerAnnounceFansOutToSubscribersExceptSender(t *testing.T) {
	c, apiOut, _ := newTestAPIController(0)
	c.subs.Register(7, "sub1")
	c.subs.Register(7, "app1")

	c.handleAnnounce("app1", message.NewAnnounceMsg(0, 7, []byte("x")))

	if len(apiOut) != 1 {
		t.Fatalf("got %d api sends, want 1 (only sub1, not the originating app1)", len(apiOut))
	}
	cmd := <-apiOut
	if cmd.Identifier != "sub1" {
		t.Fatalf("got recipient %q, want sub1", cmd.Identifier)
	}
}

func TestAPIControllerNotifyReplaysCache(t *testing.T) {
	c, apiOut, _ := newTestAPIController(0)
	c.handleAnnounce("app1", message.NewAnnounceMsg(0, 9, []byte("a")))
	for len(apiOut) > 0 {
		<-apiOut // drain any fan-out from handleAnnounce (none registered yet, so nothing)
	}

	c.handleNotify("late-sub", message.NewNotifyMsg(9))
	if len(apiOut) != 1 {
		t.Fatalf("got %d replayed notifications, want 1", len(apiOut))
	}
	cmd := <-apiOut
	notification, ok := cmd.Msg.(*message.NotificationMsg)
	if !ok || notification.DataType != 9 {
		t.Fatalf("got %+v", cmd)
	}
}

func TestAPIControllerValidationRejectionEvicts(t *testing.T) {
	c, _, p2pOut := newTestAPIController(0)
	// Force an invalid entry directly so we can exercise the rejection path
	// (API announces are normally inserted already-valid).
	id, _, _, _ := c.announces.Add(1, []byte("x"), false, 0, true)

	c.handleValidation("app1", message.NewValidationMsg(id, false))

	if _, found := c.announces.IsValid(id); found {
		t.Fatal("rejected entry must be evicted")
	}
	if len(p2pOut) != 0 {
		t.Fatal("rejection must not flood")
	}
}

func TestAPIControllerValidationIdempotentOnAlreadyValid(t *testing.T) {
	c, _, p2pOut := newTestAPIController(5)
	c.peers.Add("peer1", fakeSocket{}, "")
	c.handleAnnounce("app1", message.NewAnnounceMsg(0, 1, []byte("x")))
	<-p2pOut // drain the immediate flood from handleAnnounce

	// API-originated entries are inserted already-valid, so a VALIDATION
	// for that id is an idempotent no-op.
	var id uint16
	for _, item := range c.announces.Iterator(0, false) {
		id = item.Key
	}
	c.handleValidation("app1", message.NewValidationMsg(id, true))
	if len(p2pOut) != 0 {
		t.Fatal("validation on an already-valid entry must not re-flood")
	}
}

func TestAPIControllerValidationUnknownIDIsNoop(t *testing.T) {
	c, _, p2pOut := newTestAPIController(5)
	c.handleValidation("app1", message.NewValidationMsg(12345, true))
	if len(p2pOut) != 0 {
		t.Fatal("validation on an unknown id must be a silent no-op")
	}
}

func TestAPIControllerConnectionLostUnregisters(t *testing.T) {
	apiOut := make(chan queue.Command, 8)
	p2pOut := make(chan queue.Command, 8)
	announces := cache.NewAnnounceCache(16, rnd.NewMath(1))
	subs := subscription.New()
	peers := pool.New(5, rnd.NewMath(1))
	c := NewAPIController("api", announces, subs, peers, apiOut, p2pOut)

	subs.Register(1, "app1")
	in := make(chan queue.Event, 1)
	in <- queue.Event{Kind: queue.ConnectionLost, Identifier: "app1"}
	close(in)
	c.Run(in)
	if got := subs.GetRegistrations(1); len(got) != 0 {
		t.Fatalf("got %v, want empty", got)
	}
}
