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

// parsers maps a recognized code to its frame decoder. A code inside
// [CodeLo,CodeHi) that isn't in this table (or whose parser fails)
// decodes to Other. A table of frame decoders generalizes the
// type-switch-returning-empty-messages dispatch idiom (gnunet-go's
// NewEmptyMessage) to one that parses each code's frame via
// data.Unmarshal against the whole buffer, header included.
var parsers = map[Code]func(frame []byte) (Message, error){
	ANNOUNCE:      decodeAnnounce,
	NOTIFY:        decodeNotify,
	NOTIFICATION:  decodeNotification,
	VALIDATION:    decodeValidation,
	PEER_REQUEST:  decodePeerRequest,
	PEER_RESPONSE: decodePeerResponse,
	PEER_UPDATE:   decodePeerUpdate,
	PEER_INIT:     decodePeerInit,
}

// Decode parses a complete frame (header included) into its
// code-specific typed Message. Returns ErrUnknownCode if code falls
// outside the recognized gossip range. A recognized code whose frame
// the dedicated parser rejects falls back to Other rather than failing
// the whole decode.
func Decode(code Code, frame []byte) (Message, error) {
	if !InRange(code) {
		return nil, ErrUnknownCode
	}
	if parse, ok := parsers[code]; ok {
		if m, err := parse(frame); err == nil {
			return m, nil
		}
	}
	var payload []byte
	if len(frame) > HeaderLen {
		payload = frame[HeaderLen:]
	}
	raw := make([]byte, len(payload))
	copy(raw, payload)
	return &Other{code: code, Payload: raw}, nil
}

// DecodeFrame decodes a complete frame (header included).
func DecodeFrame(buf []byte) (Message, error) {
	h, err := ParseHeader(buf)
	if err != nil {
		return nil, err
	}
	if int(h.Size) > len(buf) {
		return nil, ErrInvalidSize
	}
	return Decode(h.Code, buf[:h.Size])
}
