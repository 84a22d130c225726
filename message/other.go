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

// Other is the fallback for a code inside the recognized gossip range
// whose payload the dedicated parser could not interpret, or that has
// no dedicated parser at all. It preserves the code and raw bytes for
// diagnostics and echoing.
type Other struct {
	code    Code
	Payload []byte
}

func (m *Other) Code() Code { return m.code }

func (m *Other) Encode() []byte {
	return Frame(m.code, m.Payload)
}
