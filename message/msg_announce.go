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

// AnnounceMsg carries an application-originated payload to be
// disseminated through the gossip fabric. A Ttl of 0 means unlimited
// hops; otherwise Ttl is the remaining hop budget.
//
// Layout: ttl(1) | reserved(1) | data_type(2) | data(...)
type AnnounceMsg struct {
	Ttl      uint8
	DataType uint16
	Data     []byte
}

// wireAnnounce is the gospel/data-tagged wire form of AnnounceMsg, with
// the header embedded so a single Marshal/Unmarshal call handles the
// whole frame, matching gnunet-go's ReadMessage/WriteMessage idiom.
type wireAnnounce struct {
	WireHeader
	Ttl      uint8
	Reserved uint8
	DataType uint16 `order:"big"`
	Data     []byte `size:"*"`
}

// NewAnnounceMsg builds an ANNOUNCE message.
func NewAnnounceMsg(ttl uint8, dataType uint16, data []byte) *AnnounceMsg {
	return &AnnounceMsg{Ttl: ttl, DataType: dataType, Data: data}
}

func (m *AnnounceMsg) Code() Code { return ANNOUNCE }

func (m *AnnounceMsg) Encode() []byte {
	w := wireAnnounce{
		WireHeader: WireHeader{Size: uint16(HeaderLen + 4 + len(m.Data)), Code: uint16(ANNOUNCE)},
		Ttl:        m.Ttl,
		DataType:   m.DataType,
		Data:       m.Data,
	}
	buf, _ := data.Marshal(&w)
	return buf
}

func decodeAnnounce(frame []byte) (Message, error) {
	if len(frame) < HeaderLen+4 {
		return nil, errShort(ANNOUNCE, HeaderLen+4, len(frame))
	}
	var w wireAnnounce
	if err := data.Unmarshal(&w, frame); err != nil {
		return nil, err
	}
	return &AnnounceMsg{Ttl: w.Ttl, DataType: w.DataType, Data: w.Data}, nil
}
