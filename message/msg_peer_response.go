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

// PeerResponseMsg carries zero or more peer addresses in reply to a
// PEER_REQUEST.
//
// Layout: {ipv4(4) | port(2)}*
type PeerResponseMsg struct {
	Peers []PeerAddr
}

// wirePeerResponse holds Peers as a greedy slice of pointers, the same
// []*struct{} convention gnunet-go uses for repeated records (e.g. its
// DNS Records field): a slice of struct values, rather than pointers,
// is not safe to grow element-by-element under Unmarshal's in-place
// append/fill ordering.
type wirePeerResponse struct {
	WireHeader
	Peers []*peerAddrWire `size:"*"`
}

func NewPeerResponseMsg(peers []PeerAddr) *PeerResponseMsg {
	return &PeerResponseMsg{Peers: peers}
}

func (m *PeerResponseMsg) Code() Code { return PEER_RESPONSE }

func (m *PeerResponseMsg) Encode() []byte {
	peers := make([]*peerAddrWire, len(m.Peers))
	for i, p := range m.Peers {
		w := toWire(p)
		peers[i] = &w
	}
	w := wirePeerResponse{
		WireHeader: WireHeader{Size: uint16(HeaderLen + 6*len(m.Peers)), Code: uint16(PEER_RESPONSE)},
		Peers:      peers,
	}
	buf, _ := data.Marshal(&w)
	return buf
}

func decodePeerResponse(frame []byte) (Message, error) {
	if (len(frame)-HeaderLen)%6 != 0 {
		return nil, errShort(PEER_RESPONSE, HeaderLen, len(frame))
	}
	var w wirePeerResponse
	if err := data.Unmarshal(&w, frame); err != nil {
		return nil, err
	}
	peers := make([]PeerAddr, len(w.Peers))
	for i, p := range w.Peers {
		peers[i] = fromWire(*p)
	}
	return &PeerResponseMsg{Peers: peers}, nil
}
