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

// PeerInitMsg unsolicitedly advertises the sender's own listening
// address, without asking for a PEER_RESPONSE in return.
//
// Layout: ipv4(4) | port(2)
type PeerInitMsg struct {
	Server PeerAddr
}

type wirePeerInit struct {
	WireHeader
	Address peerAddrWire
}

func NewPeerInitMsg(server PeerAddr) *PeerInitMsg {
	return &PeerInitMsg{Server: server}
}

func (m *PeerInitMsg) Code() Code { return PEER_INIT }

func (m *PeerInitMsg) Encode() []byte {
	w := wirePeerInit{
		WireHeader: WireHeader{Size: uint16(HeaderLen + 6), Code: uint16(PEER_INIT)},
		Address:    toWire(m.Server),
	}
	buf, _ := data.Marshal(&w)
	return buf
}

func decodePeerInit(frame []byte) (Message, error) {
	if len(frame) < HeaderLen+6 {
		return nil, errShort(PEER_INIT, HeaderLen+6, len(frame))
	}
	var w wirePeerInit
	if err := data.Unmarshal(&w, frame); err != nil {
		return nil, err
	}
	return &PeerInitMsg{Server: fromWire(w.Address)}, nil
}
