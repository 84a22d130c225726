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

// Package message implements the wire codec shared by the API and P2P
// endpoints: a 4-byte header (size, code, both big-endian) followed by
// a code-specific payload. Every frame is (de)serialized by reflecting
// over a struct tagged with "order"/"size", the same struct-tag
// marshalling gospel/data provides and the teacher's own message
// package builds its GetMsgHeader/ReadMessage/WriteMessage on.
package message

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/bfix/gospel/data"
)

// Decode error taxonomy.
var (
	ErrMalformedHeader = errors.New("message: header shorter than 4 bytes")
	ErrInvalidSize     = errors.New("message: size field smaller than header length")
	ErrUnknownCode     = errors.New("message: code outside the recognized gossip range")
	ErrDisconnected    = errors.New("message: peer closed the connection")
)

// HeaderLen is the fixed length of every frame's header.
const HeaderLen = 4

// Header is the common prefix of every frame.
type Header struct {
	Size uint16 // total frame length, including the header
	Code Code
}

// WireHeader is the gospel/data-tagged twin of Header. Code is kept as
// a plain uint16 here: data.Unmarshal type-switches on a field's exact
// dynamic type, and a named type such as Code never matches those
// cases.
type WireHeader struct {
	Size uint16 `order:"big"`
	Code uint16 `order:"big"`
}

// ParseHeader decodes the 4-byte header. Returns ErrMalformedHeader if
// fewer than 4 bytes are given, ErrInvalidSize if the declared size is
// smaller than the header itself.
func ParseHeader(b []byte) (*Header, error) {
	if len(b) < HeaderLen {
		return nil, ErrMalformedHeader
	}
	var wh WireHeader
	if err := data.Unmarshal(&wh, b[:HeaderLen]); err != nil {
		return nil, err
	}
	if wh.Size < HeaderLen {
		return nil, ErrInvalidSize
	}
	return &Header{Size: wh.Size, Code: Code(wh.Code)}, nil
}

// PutHeader writes a header for the given total frame size and code.
func PutHeader(b []byte, size uint16, code Code) {
	wh := WireHeader{Size: size, Code: uint16(code)}
	buf, _ := data.Marshal(&wh) // fixed-width uint16 fields never fail
	copy(b, buf)
}

// Message is implemented by every gossip frame, recognized or not.
type Message interface {
	// Code returns the wire type of the message.
	Code() Code

	// Encode serializes the message into a complete frame, header
	// included.
	Encode() []byte
}

// Frame assembles a complete frame (header + payload) for a code and a
// pre-encoded payload. Used directly by Other, whose payload has no
// fixed layout to decorate with wire tags; typed messages build their
// frame by embedding WireHeader in a tagged struct and calling
// data.Marshal on the whole thing instead.
func Frame(code Code, payload []byte) []byte {
	buf := make([]byte, HeaderLen+len(payload))
	PutHeader(buf, uint16(HeaderLen+len(payload)), code)
	copy(buf[HeaderLen:], payload)
	return buf
}

// ShortToBytes encodes a 16-bit value big-endian. data.Marshal only
// operates on structs; a bare uint16 has no struct to tag, so this
// helper stays on encoding/binary.
func ShortToBytes(v uint16) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, v)
	return b
}

// BytesToShort decodes a big-endian 16-bit value. Mutual inverse of
// ShortToBytes on [0, 65535].
func BytesToShort(b []byte) uint16 {
	return binary.BigEndian.Uint16(b)
}

// errShort is returned by per-message decoders when the frame is
// shorter than the fixed wire layout requires.
func errShort(code Code, want, got int) error {
	return fmt.Errorf("message: code %d frame too short: want >= %d bytes, got %d", code, want, got)
}
