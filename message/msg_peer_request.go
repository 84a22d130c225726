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

import "github.com/bfix/gospel/data"

// PeerRequestMsg advertises the sender's own listening address and asks
// the receiving peer to reply with PEER_RESPONSE.
//
// Layout: ipv4(4) | port(2) | reserved(2)
type PeerRequestMsg struct {
	Server PeerAddr
}

type wirePeerRequest struct {
	WireHeader
	Address  peerAddrWire
	Reserved uint16 `order:"big"`
}

func NewPeerRequestMsg(server PeerAddr) *PeerRequestMsg {
	return &PeerRequestMsg{Server: server}
}

func (m *PeerRequestMsg) Code() Code { return PEER_REQUEST }

func (m *PeerRequestMsg) Encode() []byte {
	w := wirePeerRequest{
		WireHeader: WireHeader{Size: uint16(HeaderLen + 8), Code: uint16(PEER_REQUEST)},
		Address:    toWire(m.Server),
	}
	buf, _ := data.Marshal(&w)
	return buf
}

func decodePeerRequest(frame []byte) (Message, error) {
	if len(frame) < HeaderLen+8 {
		return nil, errShort(PEER_REQUEST, HeaderLen+8, len(frame))
	}
	var w wirePeerRequest
	if err := data.Unmarshal(&w, frame); err != nil {
		return nil, err
	}
	return &PeerRequestMsg{Server: fromWire(w.Address)}, nil
}
