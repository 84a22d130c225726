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

// Package daemon wires the API and P2P endpoints into one running
// process: two pools, two queues of commands and events, one controller
// and one sender per endpoint, and the two TCP acceptors, all sharing a
// randomness source, an announce cache, an update cache, a subscription
// registry, and a counters instance. The wiring generalizes a
// "one service behind one core" main-package pattern to "two endpoints,
// two controllers, one shared cache layer".
package daemon

import (
	"context"
	"fmt"

	"github.com/bfix/gossipd/cache"
	"github.com/bfix/gossipd/config"
	"github.com/bfix/gossipd/controller"
	"github.com/bfix/gossipd/message"
	"github.com/bfix/gossipd/pool"
	"github.com/bfix/gossipd/queue"
	"github.com/bfix/gossipd/rnd"
	"github.com/bfix/gossipd/stats"
	"github.com/bfix/gossipd/subscription"
	"github.com/bfix/gossipd/transport"
)

// queueDepth bounds each in-memory command/event queue. A gossip node's
// fan-out is bounded by pool capacity, so a depth a few times the
// largest configured pool comfortably absorbs a burst without the
// sender/controller pair ever blocking the other's goroutine.
const queueDepth = 1024

// Daemon owns every long-lived task of one gossip node.
type Daemon struct {
	cfg *config.Config

	apiPool *pool.Pool
	p2pPool *pool.Pool

	announces *cache.AnnounceCache
	updates   *cache.UpdateCache
	subs      *subscription.Registry
	counters  *stats.Counters

	apiEvents chan queue.Event
	p2pEvents chan queue.Event
	apiCmds   chan queue.Command
	p2pCmds   chan queue.Command

	apiController *controller.APIController
	p2pController *controller.P2PController

	apiServer *transport.Server
	p2pServer *transport.Server
	apiSender *transport.Sender
	p2pSender *transport.Sender
}

// New builds a Daemon from a validated configuration. It does not bind
// any socket or start any goroutine yet; call Run for that.
func New(cfg *config.Config) (*Daemon, error) {
	self, err := message.ParsePeerAddr(cfg.ListenAddress)
	if err != nil {
		return nil, fmt.Errorf("daemon: listen_address: %w", err)
	}

	source := rnd.NewCrypto()
	d := &Daemon{
		cfg:       cfg,
		apiPool:   pool.New(cfg.MaxConnections, source),
		p2pPool:   pool.New(cfg.MaxConnections, source),
		announces: cache.NewAnnounceCache(cfg.CacheSize, source),
		updates:   cache.NewUpdateCache(cfg.CacheSize),
		subs:      subscription.New(),
		counters:  &stats.Counters{},
		apiEvents: make(chan queue.Event, queueDepth),
		p2pEvents: make(chan queue.Event, queueDepth),
		apiCmds:   make(chan queue.Command, queueDepth),
		p2pCmds:   make(chan queue.Command, queueDepth),
	}

	d.apiController = controller.NewAPIController("api", d.announces, d.subs, d.p2pPool, d.apiCmds, d.p2pCmds)
	d.apiController.SetStats(d.counters)
	d.p2pController = controller.NewP2PController("p2p", self, uint8(cfg.MaxTTL), cfg.Bootstrapper,
		d.p2pPool, d.announces, d.updates, d.subs, d.apiCmds, d.p2pCmds)
	d.p2pController.SetStats(d.counters)

	spawnAPIReceiver := func(identifier string, sock transport.Socket) {
		go transport.NewReceiver("api", identifier, sock, d.apiPool, d.apiEvents).Run()
	}
	spawnP2PReceiver := func(identifier string, sock transport.Socket) {
		go transport.NewReceiver("p2p", identifier, sock, d.p2pPool, d.p2pEvents).Run()
	}

	d.apiServer = transport.NewServer("api", cfg.APIAddress, d.apiPool, spawnAPIReceiver)
	d.p2pServer = transport.NewServer("p2p", cfg.ListenAddress, d.p2pPool, spawnP2PReceiver)
	d.apiSender = transport.NewSender("api", d.apiPool, d.apiCmds, spawnAPIReceiver)
	d.p2pSender = transport.NewSender("p2p", d.p2pPool, d.p2pCmds, spawnP2PReceiver)

	return d, nil
}

// Run starts every task and blocks until ctx is cancelled or either
// acceptor fails to bind. Startup order: controllers and senders first
// (so nothing can be dropped for want of a consumer), then the two
// acceptors, then — once configured — the one-time bootstrap handshake.
// Cancelling ctx stops both acceptors and both senders. Controllers and
// receivers are not stopped by it (their event channels are never
// closed); a receiver ends only when its socket fails or is closed.
func (d *Daemon) Run(ctx context.Context) error {
	go d.apiController.Run(d.apiEvents)
	go d.p2pController.Run(d.p2pEvents)
	go d.apiSender.Run(ctx)
	go d.p2pSender.Run(ctx)

	errCh := make(chan error, 2)
	go func() { errCh <- d.apiServer.Run(ctx) }()
	go func() { errCh <- d.p2pServer.Run(ctx) }()

	d.p2pController.Start()

	for i := 0; i < 2; i++ {
		if err := <-errCh; err != nil {
			return err
		}
	}
	return nil
}

// Stats returns a point-in-time snapshot of the daemon's counters, for
// the CLI's heartbeat log line.
func (d *Daemon) Stats() stats.Snapshot {
	return d.counters.Snapshot()
}
