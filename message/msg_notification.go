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

// NotificationMsg is the form in which a gossiped announce is delivered
// to a subscribed local application. MsgId is the locally assigned
// cache id the application must reference when replying with
// VALIDATION.
//
// Layout: msg_id(2) | data_type(2) | data(...)
type NotificationMsg struct {
	MsgId    uint16
	DataType uint16
	Data     []byte
}

type wireNotification struct {
	WireHeader
	MsgId    uint16 `order:"big"`
	DataType uint16 `order:"big"`
	Data     []byte `size:"*"`
}

func NewNotificationMsg(msgID uint16, dataType uint16, data []byte) *NotificationMsg {
	return &NotificationMsg{MsgId: msgID, DataType: dataType, Data: data}
}

func (m *NotificationMsg) Code() Code { return NOTIFICATION }

func (m *NotificationMsg) Encode() []byte {
	w := wireNotification{
		WireHeader: WireHeader{Size: uint16(HeaderLen + 4 + len(m.Data)), Code: uint16(NOTIFICATION)},
		MsgId:      m.MsgId,
		DataType:   m.DataType,
		Data:       m.Data,
	}
	buf, _ := data.Marshal(&w)
	return buf
}

func decodeNotification(frame []byte) (Message, error) {
	if len(frame) < HeaderLen+4 {
		return nil, errShort(NOTIFICATION, HeaderLen+4, len(frame))
	}
	var w wireNotification
	if err := data.Unmarshal(&w, frame); err != nil {
		return nil, err
	}
	return &NotificationMsg{MsgId: w.MsgId, DataType: w.DataType, Data: w.Data}, nil
}
