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

// PeerUpdateMsg floods news of a membership change: a peer was found
// (appeared, learned its server identifier) or lost (disconnected). Ttl
// bounds how many more hops the flood travels.
//
// Layout: ipv4(4) | port(2) | ttl(1) | update_type(1)
type PeerUpdateMsg struct {
	Address    PeerAddr
	Ttl        uint8
	UpdateType UpdateType
}

// wirePeerUpdate stores UpdateType as a plain uint8: UpdateType is a
// named type over uint8, and the marshaller's integer type switch only
// matches the exact builtin type, never a named one.
type wirePeerUpdate struct {
	WireHeader
	Address    peerAddrWire
	Ttl        uint8
	UpdateType uint8
}

func NewPeerUpdateMsg(addr PeerAddr, ttl uint8, ut UpdateType) *PeerUpdateMsg {
	return &PeerUpdateMsg{Address: addr, Ttl: ttl, UpdateType: ut}
}

func (m *PeerUpdateMsg) Code() Code { return PEER_UPDATE }

func (m *PeerUpdateMsg) Encode() []byte {
	w := wirePeerUpdate{
		WireHeader: WireHeader{Size: uint16(HeaderLen + 8), Code: uint16(PEER_UPDATE)},
		Address:    toWire(m.Address),
		Ttl:        m.Ttl,
		UpdateType: uint8(m.UpdateType),
	}
	buf, _ := data.Marshal(&w)
	return buf
}

func decodePeerUpdate(frame []byte) (Message, error) {
	if len(frame) < HeaderLen+8 {
		return nil, errShort(PEER_UPDATE, HeaderLen+8, len(frame))
	}
	var w wirePeerUpdate
	if err := data.Unmarshal(&w, frame); err != nil {
		return nil, err
	}
	return &PeerUpdateMsg{
		Address:    fromWire(w.Address),
		Ttl:        w.Ttl,
		UpdateType: UpdateType(w.UpdateType),
	}, nil
}
