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

// Code identifies the wire-level type of a gossip frame. The gossip
// protocol occupies the range [500,520); anything else is rejected by
// the decoder as ErrUnknownCode.
type Code uint16

// Recognized message codes.
const (
	ANNOUNCE     Code = 500
	NOTIFY       Code = 501
	NOTIFICATION Code = 502
	VALIDATION   Code = 503

	PEER_REQUEST  Code = 510
	PEER_RESPONSE Code = 511
	PEER_UPDATE   Code = 512
	PEER_INIT     Code = 513
)

// CodeLo and CodeHi bound the recognized gossip range: [CodeLo, CodeHi).
const (
	CodeLo = 500
	CodeHi = 520
)

// InRange reports whether c falls inside the gossip code range. A code
// inside the range without a dedicated parser still decodes to Other;
// a code outside the range is UnknownCode and is fatal for the
// connection that sent it.
func InRange(c Code) bool {
	return c >= CodeLo && c < CodeHi
}

// UpdateType distinguishes the two PEER_UPDATE variants.
type UpdateType uint8

const (
	UpdateLost  UpdateType = 0
	UpdateFound UpdateType = 1
)
