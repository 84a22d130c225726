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

import (
	"fmt"
	"io"
)

// ReadFrame reads one complete frame from r: the 4-byte header first,
// then the remaining size-4 payload bytes, and decodes it. Header
// first, then the rest of the declared size, mirrors the stream-framing
// idiom used throughout this codebase.
//
// A clean EOF while reading the header is reported as ErrDisconnected;
// any other read error (including a short read mid-header or
// mid-payload) is returned as-is so the caller can distinguish a
// deliberate close from a reset.
func ReadFrame(r io.Reader) (Message, error) {
	var hdr [HeaderLen]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		if err == io.EOF {
			return nil, ErrDisconnected
		}
		return nil, err
	}
	h, err := ParseHeader(hdr[:])
	if err != nil {
		return nil, err
	}
	buf := make([]byte, h.Size)
	copy(buf, hdr[:])
	if rest := buf[HeaderLen:]; len(rest) > 0 {
		if _, err := io.ReadFull(r, rest); err != nil {
			return nil, err
		}
	}
	return Decode(h.Code, buf)
}

// WriteFrame writes a fully encoded message to w.
func WriteFrame(w io.Writer, msg Message) error {
	buf := msg.Encode()
	n, err := w.Write(buf)
	if err != nil {
		return err
	}
	if n != len(buf) {
		return fmt.Errorf("message: incomplete frame write (%d of %d bytes)", n, len(buf))
	}
	return nil
}
