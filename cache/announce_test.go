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
	"testing"

	"github.com/bfix/gossipd/rnd"
)

func TestAnnounceCacheDedup(t *testing.T) {
	c := NewAnnounceCache(10, rnd.NewMath(1))
	id1, known1, _, _ := c.Add(540, []byte("hello"), false, 0, true)
	if known1 {
		t.Fatal("first add must not be already-known")
	}
	id2, known2, _, _ := c.Add(540, []byte("hello"), false, 0, true)
	if !known2 {
		t.Fatal("second identical add must be already-known")
	}
	if id2 != id1 {
		t.Fatalf("already-known add must return the original id: got %d, want %d", id2, id1)
	}
}

func TestAnnounceCacheDistinctPayloadsGetDistinctIDs(t *testing.T) {
	c := NewAnnounceCache(10, rnd.NewMath(1))
	id1, _, _, _ := c.Add(540, []byte("a"), false, 0, true)
	id2, _, _, _ := c.Add(540, []byte("b"), false, 0, true)
	if id1 == id2 {
		t.Fatal("distinct payloads must get distinct ids")
	}
}

func TestAnnounceCacheTTLExcludedFromEquality(t *testing.T) {
	// Two announces differing only by ttl/validity are still deduped
	// purely on (DataType, Payload).
	c := NewAnnounceCache(10, rnd.NewMath(1))
	id1, _, _, _ := c.Add(540, []byte("x"), false, 5, true)
	id2, known, _, _ := c.Add(540, []byte("x"), true, 1, false)
	if !known || id1 != id2 {
		t.Fatal("equality must ignore validity/ttl and match on (data_type, payload) alone")
	}
}

func TestAnnounceCacheCapacityPlusOneEvictsOldest(t *testing.T) {
	c := NewAnnounceCache(2, rnd.NewMath(1))
	id1, _, _, _ := c.Add(1, []byte("a"), false, 0, true)
	c.Add(2, []byte("b"), false, 0, true)
	_, _, evicted, didEvict := c.Add(3, []byte("c"), false, 0, true)
	if !didEvict || evicted != id1 {
		t.Fatalf("expected oldest id %d evicted, got %d (didEvict=%v)", id1, evicted, didEvict)
	}
	if c.Len() != 2 {
		t.Fatalf("got len %d, want 2", c.Len())
	}
}

func TestAnnounceCacheValidity(t *testing.T) {
	c := NewAnnounceCache(10, rnd.NewMath(1))
	id, _, _, _ := c.Add(1, []byte("a"), false, 0, true)
	if valid, found := c.IsValid(id); !found || valid {
		t.Fatal("new entries default to invalid")
	}
	c.SetValid(id, true)
	if valid, found := c.IsValid(id); !found || !valid {
		t.Fatal("SetValid(true) did not take effect")
	}
}

func TestAnnounceCacheIteratorOrder(t *testing.T) {
	c := NewAnnounceCache(10, rnd.NewMath(1))
	id1, _, _, _ := c.Add(1, []byte("a"), false, 0, true)
	id2, _, _, _ := c.Add(2, []byte("b"), false, 0, true)
	id3, _, _, _ := c.Add(3, []byte("c"), false, 0, true)
	items := c.Iterator(0, false)
	if len(items) != 3 || items[0].Key != id1 || items[1].Key != id2 || items[2].Key != id3 {
		t.Fatalf("iterator order mismatch: %+v", items)
	}
}

func TestAnnounceCacheIteratorExclude(t *testing.T) {
	c := NewAnnounceCache(10, rnd.NewMath(1))
	id1, _, _, _ := c.Add(1, []byte("a"), false, 0, true)
	c.Add(2, []byte("b"), false, 0, true)
	items := c.Iterator(id1, true)
	for _, it := range items {
		if it.Key == id1 {
			t.Fatal("excluded key present in iterator output")
		}
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
}

func TestAnnounceCacheForwardabilityStored(t *testing.T) {
	c := NewAnnounceCache(10, rnd.NewMath(1))
	id, _, _, _ := c.Add(1, []byte("a"), false, 4, true)
	entry, ok := c.Get(id)
	if !ok || entry.Ttl != 4 || !entry.Forwardable {
		t.Fatalf("got %+v", entry)
	}
}
