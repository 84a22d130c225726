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

package cache

import (
	"bytes"

	"github.com/bfix/gossipd/rnd"
)

// Entry is the announce cache's stored shape. Ttl and the assigned id
// are intentionally excluded from equality: the "already known" check
// compares only (DataType, Payload).
type Entry struct {
	DataType uint16
	Payload  []byte

	// Ttl and Forwardable are P2P-controller bookkeeping, not part of
	// the persisted cache identity: they remember, between an
	// announce's arrival and the VALIDATION that gates its further
	// fan-out, the ttl to re-emit with and whether this hop is allowed
	// to forward at all (an announce received with ttl==1 is the last
	// hop and is not re-forwarded).
	Ttl         uint8
	Forwardable bool
}

func sameContent(a, b Entry) bool {
	return a.DataType == b.DataType && bytes.Equal(a.Payload, b.Payload)
}

// AnnounceCache is a 16-bit-id-keyed message cache: content-addressed
// dedup on add, a fresh random id per distinct payload, and
// FIFO-by-insertion eviction once over capacity.
type AnnounceCache struct {
	cache *Cache[uint16, Entry]
	rnd   rnd.Source
}

// NewAnnounceCache creates an empty announce cache.
func NewAnnounceCache(capacity int, source rnd.Source) *AnnounceCache {
	return &AnnounceCache{
		cache: New[uint16, Entry](capacity),
		rnd:   source,
	}
}

// Add inserts a new announce. If an entry with byte-identical
// (DataType, Payload) already exists, it reports "already known" (no
// insertion, no new id). Otherwise it draws a fresh unused 16-bit id,
// inserts with the given initial validity, ttl and forwardability, and
// evicts the oldest entry if now over capacity.
//
// The dedup scan, id draw and insertion happen as a single critical
// section on the underlying cache (AddUnlessPresent): the announce
// cache is shared between the API and P2P controllers on independent
// goroutines, and a Has-then-Add pair would let two concurrent Add
// calls for byte-identical content both pass the scan before either
// inserts, producing two entries with the same (DataType, Payload).
func (a *AnnounceCache) Add(dataType uint16, payload []byte, valid bool, ttl uint8, forwardable bool) (id uint16, alreadyKnown bool, evicted uint16, didEvict bool) {
	entry := Entry{DataType: dataType, Payload: payload, Ttl: ttl, Forwardable: forwardable}
	match := func(v Entry) bool { return sameContent(v, entry) }
	genID := func() uint16 { return a.rnd.Uint16() }
	id, alreadyKnown, evicted, didEvict = a.cache.AddUnlessPresent(match, genID, entry, valid)
	return id, alreadyKnown, evicted, didEvict
}

// Get returns the entry stored under id.
func (a *AnnounceCache) Get(id uint16) (Entry, bool) {
	return a.cache.Get(id)
}

// Remove deletes id from the cache.
func (a *AnnounceCache) Remove(id uint16) bool {
	return a.cache.Remove(id)
}

// SetValid updates the validity flag for id.
func (a *AnnounceCache) SetValid(id uint16, valid bool) bool {
	return a.cache.SetValid(id, valid)
}

// IsValid reports the validity flag for id.
func (a *AnnounceCache) IsValid(id uint16) (valid bool, found bool) {
	return a.cache.IsValid(id)
}

// Iterator returns every cached announce in ascending insertion order,
// optionally excluding one id.
func (a *AnnounceCache) Iterator(excludeID uint16, hasExclude bool) []Item[uint16, Entry] {
	return a.cache.Iterator(excludeID, hasExclude)
}

// Len returns the number of cached announces.
func (a *AnnounceCache) Len() int {
	return a.cache.Len()
}
