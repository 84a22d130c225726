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

// Package transport implements the per-connection receiver, the
// per-endpoint sender, and the server acceptor. It treats raw TCP as a
// thin facade: the dial/accept/close discipline follows a
// NetworkChannel idiom, adapted from a pluggable multi-protocol channel
// abstraction down to a direct net.TCPConn wrapper since this daemon
// speaks only plain TCP.
package transport

import (
	"fmt"
	"net"
)

// Socket is the facade the pool, receiver, and sender share for a live
// connection.
type Socket interface {
	Read(b []byte) (int, error)
	Write(b []byte) (int, error)
	Close() error
	// RemoteIdentifier is the "host:port" of the remote endpoint of
	// this socket, as seen locally (ephemeral for an accepted
	// connection, the dialed address for an outbound one).
	RemoteIdentifier() string
}

// tcpSocket wraps a *net.TCPConn.
type tcpSocket struct {
	conn *net.TCPConn
	id   string
}

func newTCPSocket(conn *net.TCPConn) *tcpSocket {
	return &tcpSocket{conn: conn, id: conn.RemoteAddr().String()}
}

func (s *tcpSocket) Read(b []byte) (int, error)  { return s.conn.Read(b) }
func (s *tcpSocket) Write(b []byte) (int, error) { return s.conn.Write(b) }

// Close performs an orderly shutdown: half-close the write side so the
// peer observes EOF, then close the file descriptor.
func (s *tcpSocket) Close() error {
	_ = s.conn.CloseWrite()
	return s.conn.Close()
}

func (s *tcpSocket) RemoteIdentifier() string { return s.id }

// Dial opens an outbound TCP connection to identifier ("host:port").
func Dial(identifier string) (Socket, error) {
	addr, err := net.ResolveTCPAddr("tcp4", identifier)
	if err != nil {
		return nil, fmt.Errorf("transport: resolve %q: %w", identifier, err)
	}
	conn, err := net.DialTCP("tcp4", nil, addr)
	if err != nil {
		return nil, err
	}
	return newTCPSocket(conn), nil
}
