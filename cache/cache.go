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

// Package cache implements the mutex-guarded, FIFO-eviction caches used
// by the gossip pipeline: the announce message cache and the
// peer-update flood cache. Both share the same eviction discipline
// (oldest by insertion time) and mutex protection. The generic map
// follows a generic mutex-guarded Map idiom, adapted here to track
// insertion order and validity per entry rather than a bare key/value
// pair.
package cache

import (
	"sync"
	"time"
)

// entry wraps a cached value with its validity flag and insertion time.
type entry[V any] struct {
	value     V
	valid     bool
	dateAdded time.Time
}

// Item is a snapshot of one cache entry, returned by Iterator.
type Item[K comparable, V any] struct {
	Key       K
	Value     V
	Valid     bool
	DateAdded time.Time
}

// Cache is a generic FIFO-eviction, mutex-guarded map. K is the cache
// key (a random uint16 for the announce cache, an (address,update_type)
// tuple for the update cache); V is the cached payload shape.
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	entries  map[K]*entry[V]
	order    []K // insertion order == date_added order
	capacity int
}

// New creates an empty cache with the given capacity.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	return &Cache[K, V]{
		entries:  make(map[K]*entry[V]),
		capacity: capacity,
	}
}

// Add inserts value under key with the given initial validity, then
// evicts the oldest entry if the cache is now over capacity. No-op if
// key is already present (mirrors pool.Add's idempotence). Returns the
// evicted key, if any.
func (c *Cache[K, V]) Add(key K, value V, valid bool) (evicted K, didEvict bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; exists {
		return evicted, false
	}
	return c.insertLocked(key, value, valid)
}

// insertLocked inserts value under key and evicts the oldest entry if
// now over capacity. Caller must hold c.mu.
func (c *Cache[K, V]) insertLocked(key K, value V, valid bool) (evicted K, didEvict bool) {
	c.entries[key] = &entry[V]{value: value, valid: valid, dateAdded: time.Now()}
	c.order = append(c.order, key)
	if len(c.entries) > c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
		return oldest, true
	}
	return evicted, false
}

// AddIfAbsent atomically checks for key and inserts value under it if
// not already present, all under one lock acquisition. Unlike a
// Has-then-Add pair, this is safe against two goroutines racing to
// insert the same key.
func (c *Cache[K, V]) AddIfAbsent(key K, value V, valid bool) (inserted bool, evicted K, didEvict bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; exists {
		return false, evicted, false
	}
	evicted, didEvict = c.insertLocked(key, value, valid)
	return true, evicted, didEvict
}

// AddUnlessPresent atomically scans for an existing entry whose value
// satisfies match; if one exists, its key is returned without
// modifying the cache. Otherwise genKey is called (and retried, all
// still under the same lock) until it yields a key not already
// present, and value is inserted under that key. Scanning for existing
// content, drawing a fresh key and inserting are one critical section:
// two goroutines racing to add byte-identical content can never both
// pass the scan before either has inserted.
func (c *Cache[K, V]) AddUnlessPresent(match func(V) bool, genKey func() K, value V, valid bool) (key K, found bool, evicted K, didEvict bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range c.order {
		if match(c.entries[k].value) {
			return k, true, evicted, false
		}
	}
	for {
		key = genKey()
		if _, exists := c.entries[key]; !exists {
			break
		}
	}
	evicted, didEvict = c.insertLocked(key, value, valid)
	return key, false, evicted, didEvict
}

// Has reports whether key is present.
func (c *Cache[K, V]) Has(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

// Get returns the value stored under key.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Remove deletes key from the cache, reporting whether it was present.
func (c *Cache[K, V]) Remove(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok {
		return false
	}
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// SetValid updates the validity flag for key, reporting whether it was
// present.
func (c *Cache[K, V]) SetValid(key K, valid bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return false
	}
	e.valid = valid
	return true
}

// IsValid reports the validity flag for key, and whether key is
// present.
func (c *Cache[K, V]) IsValid(key K) (valid bool, found bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return false, false
	}
	return e.valid, true
}

// Len returns the number of entries currently cached.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Iterator returns every entry in ascending insertion (date_added)
// order, optionally skipping one key. Safe to range over without
// holding the cache lock.
func (c *Cache[K, V]) Iterator(exclude K, hasExclude bool) []Item[K, V] {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Item[K, V], 0, len(c.order))
	for _, k := range c.order {
		if hasExclude && k == exclude {
			continue
		}
		e := c.entries[k]
		out = append(out, Item[K, V]{Key: k, Value: e.value, Valid: e.valid, DateAdded: e.dateAdded})
	}
	return out
}
