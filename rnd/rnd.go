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

// Package rnd provides the randomness source shared by the connection
// pool and the message cache. Both consumers need a uniform pick from a
// bounded range; tests need that pick to be deterministic.
package rnd

import (
	"crypto/rand"
	"encoding/binary"
	"math/big"
	mrand "math/rand"
)

// Source is the randomness primitive consumed by pool eviction and
// cache id assignment.
type Source interface {
	// Intn returns a uniform value in [0, n). Panics if n <= 0.
	Intn(n int) int

	// Uint16 returns a uniform 16-bit value.
	Uint16() uint16
}

// cryptoSource draws from crypto/rand, used in production.
type cryptoSource struct{}

// NewCrypto returns a Source backed by crypto/rand.
func NewCrypto() Source {
	return cryptoSource{}
}

func (cryptoSource) Intn(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand failing is not something callers can recover
		// from meaningfully; fall back to a fresh math/rand draw
		// rather than propagating an error through every pool/cache
		// call site.
		return mrand.Intn(n)
	}
	return int(v.Int64())
}

func (cryptoSource) Uint16() uint16 {
	var b [2]byte
	if _, err := rand.Read(b[:]); err != nil {
		return uint16(mrand.Intn(1 << 16))
	}
	return binary.BigEndian.Uint16(b[:])
}

// mathSource draws from a seeded math/rand generator, used in tests that
// need reproducible eviction/id-assignment decisions.
type mathSource struct {
	r *mrand.Rand
}

// NewMath returns a deterministic Source seeded with the given value.
func NewMath(seed int64) Source {
	return &mathSource{r: mrand.New(mrand.NewSource(seed))}
}

func (s *mathSource) Intn(n int) int {
	return s.r.Intn(n)
}

func (s *mathSource) Uint16() uint16 {
	return uint16(s.r.Intn(1 << 16))
}
