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
	"net"
	"syscall"

	"github.com/bfix/gospel/logger"
	"golang.org/x/sys/unix"

	"github.com/bfix/gossipd/pool"
)

// Server is the acceptor: binds one TCP listener with address reuse,
// accepts clients, inserts each new socket into the pool keyed by its
// ephemeral remote endpoint, and spawns a receiver.
type Server struct {
	label         string
	listenAddr    string
	pool          *pool.Pool
	spawnReceiver func(identifier string, socket Socket)
}

// NewServer constructs an acceptor for one endpoint.
func NewServer(label, listenAddr string, p *pool.Pool, spawnReceiver func(string, Socket)) *Server {
	return &Server{label: label, listenAddr: listenAddr, pool: p, spawnReceiver: spawnReceiver}
}

// listenConfig enables SO_REUSEADDR so a restarted daemon can rebind
// immediately, following the endpoint binding discipline of a generic
// TCP listener, minus any NAT/port-forwarding concerns this daemon has
// no use for.
var listenConfig = net.ListenConfig{
	Control: func(_, _ string, c syscall.RawConn) error {
		var ctrlErr error
		err := c.Control(func(fd uintptr) {
			ctrlErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
		})
		if err != nil {
			return err
		}
		return ctrlErr
	},
}

// Run binds the listener and accepts connections until ctx is
// cancelled or the listener is closed.
func (s *Server) Run(ctx context.Context) error {
	ln, err := listenConfig.Listen(ctx, "tcp4", s.listenAddr)
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()
	logger.Printf(logger.INFO, "[%s] listening on %s\n", s.label, s.listenAddr)
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				logger.Printf(logger.WARN, "[%s] accept failed: %s\n", s.label, err)
				return err
			}
		}
		tcpConn, ok := conn.(*net.TCPConn)
		if !ok {
			_ = conn.Close()
			continue
		}
		sock := newTCPSocket(tcpConn)
		identifier := sock.RemoteIdentifier()
		s.pool.Add(identifier, sock, "")
		s.spawnReceiver(identifier, sock)
	}
}
