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

// ValidationMsg is a local application's verdict on a previously
// delivered NOTIFICATION. Valid=false means the announcement is
// rejected and should be evicted from the cache; Valid=true gates
// further peer fan-out.
//
// Layout: msg_id(2) | reserved(1) | valid(1)
type ValidationMsg struct {
	MsgId uint16
	Valid bool
}

// wireValidation stores Valid as a plain uint8 (invalid(0), valid(1)),
// the same revoked/valid-as-integer convention gnunet-go's
// RevocationQueryResponseMsg uses for its Valid field: the marshaller
// has no support for bool at all.
type wireValidation struct {
	WireHeader
	MsgId    uint16 `order:"big"`
	Reserved uint8
	Valid    uint8
}

func NewValidationMsg(msgID uint16, valid bool) *ValidationMsg {
	return &ValidationMsg{MsgId: msgID, Valid: valid}
}

func (m *ValidationMsg) Code() Code { return VALIDATION }

func (m *ValidationMsg) Encode() []byte {
	var valid uint8
	if m.Valid {
		valid = 1
	}
	w := wireValidation{
		WireHeader: WireHeader{Size: uint16(HeaderLen + 4), Code: uint16(VALIDATION)},
		MsgId:      m.MsgId,
		Valid:      valid,
	}
	buf, _ := data.Marshal(&w)
	return buf
}

func decodeValidation(frame []byte) (Message, error) {
	if len(frame) < HeaderLen+4 {
		return nil, errShort(VALIDATION, HeaderLen+4, len(frame))
	}
	var w wireValidation
	if err := data.Unmarshal(&w, frame); err != nil {
		return nil, err
	}
	return &ValidationMsg{MsgId: w.MsgId, Valid: w.Valid != 0}, nil
}
