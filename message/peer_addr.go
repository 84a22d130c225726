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

package message

import (
	"fmt"
	"net"
	"strconv"
)

// PeerAddr is the wire form of a peer endpoint: a dotted-quad IPv4
// address and a port, exactly as carried by PEER_REQUEST, PEER_RESPONSE,
// PEER_UPDATE, and PEER_INIT. It is the on-the-wire counterpart of the
// "identifier" string (host:port) used throughout the pool and the
// controllers.
type PeerAddr struct {
	IP   [4]byte
	Port uint16
}

// String renders the peer address as a "host:port" identifier.
func (a PeerAddr) String() string {
	ip := net.IPv4(a.IP[0], a.IP[1], a.IP[2], a.IP[3])
	return fmt.Sprintf("%s:%d", ip.String(), a.Port)
}

// ParsePeerAddr parses a "host:port" identifier into its wire form.
// Returns an error if host isn't a dotted-quad IPv4 address or port is
// outside 1..65535.
func ParsePeerAddr(identifier string) (PeerAddr, error) {
	var a PeerAddr
	host, portStr, err := net.SplitHostPort(identifier)
	if err != nil {
		return a, fmt.Errorf("peer address %q: %w", identifier, err)
	}
	ip4 := net.ParseIP(host).To4()
	if ip4 == nil {
		return a, fmt.Errorf("peer address %q: host is not a dotted-quad IPv4 address", identifier)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return a, fmt.Errorf("peer address %q: port out of range 1..65535", identifier)
	}
	copy(a.IP[:], ip4)
	a.Port = uint16(port)
	return a, nil
}

// peerAddrWire is the gospel/data-tagged twin of PeerAddr. IP is a
// []byte slice rather than PeerAddr's [4]byte array: the marshaller
// only knows how to (de)serialize []uint8 slices, not fixed-size
// arrays, so the array form exists only at the PeerAddr API boundary.
type peerAddrWire struct {
	IP   []byte `size:"4"`
	Port uint16 `order:"big"`
}

func toWire(a PeerAddr) peerAddrWire {
	return peerAddrWire{IP: append([]byte(nil), a.IP[:]...), Port: a.Port}
}

func fromWire(w peerAddrWire) PeerAddr {
	var a PeerAddr
	copy(a.IP[:], w.IP)
	a.Port = w.Port
	return a
}
