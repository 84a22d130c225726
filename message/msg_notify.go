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

// NotifyMsg is a local subscription request: the sending application
// wants to receive NOTIFICATIONs for DataType.
//
// Layout: reserved(2) | data_type(2)
type NotifyMsg struct {
	DataType uint16
}

type wireNotify struct {
	WireHeader
	Reserved uint16 `order:"big"`
	DataType uint16 `order:"big"`
}

func NewNotifyMsg(dataType uint16) *NotifyMsg {
	return &NotifyMsg{DataType: dataType}
}

func (m *NotifyMsg) Code() Code { return NOTIFY }

func (m *NotifyMsg) Encode() []byte {
	w := wireNotify{
		WireHeader: WireHeader{Size: uint16(HeaderLen + 4), Code: uint16(NOTIFY)},
		DataType:   m.DataType,
	}
	buf, _ := data.Marshal(&w)
	return buf
}

func decodeNotify(frame []byte) (Message, error) {
	if len(frame) < HeaderLen+4 {
		return nil, errShort(NOTIFY, HeaderLen+4, len(frame))
	}
	var w wireNotify
	if err := data.Unmarshal(&w, frame); err != nil {
		return nil, err
	}
	return &NotifyMsg{DataType: w.DataType}, nil
}
