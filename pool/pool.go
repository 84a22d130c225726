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

// Package pool implements the bounded connection pool shared by the API
// and P2P endpoints. The locking discipline follows a mutex-guarded
// generic Map idiom, adapted to the record shape and random-eviction
// maintainer this daemon requires.
package pool

import (
	"errors"
	"sync"

	"github.com/bfix/gossipd/rnd"
)

// ErrNotFound is returned by Get and ServerIdentifier when identifier
// isn't present.
var ErrNotFound = errors.New("pool: identifier not found")

// Socket is the minimal surface the pool needs from a live connection.
// transport.Socket satisfies it; tests can use a fake.
type Socket interface {
	Close() error
}

// record is a single live connection: its socket and, once learned, the
// server identifier the remote peer advertises as its listening
// endpoint.
type record struct {
	socket           Socket
	serverIdentifier string // empty until given to Add or set via Update
	hasServerID      bool
}

// Pool is a bounded, mutex-guarded map from identifier to connection
// record. One Pool instance is created per endpoint (API, P2P), each
// with its own capacity.
type Pool struct {
	mu       sync.Mutex
	records  map[string]*record
	order    []string // insertion order, for deterministic iteration
	capacity int
	rnd      rnd.Source
}

// New creates an empty pool with the given capacity and randomness
// source. Capacity enforcement happens only in the maintainer run after
// every Add — callers must not assume the pool is below capacity when
// calling Add.
func New(capacity int, source rnd.Source) *Pool {
	return &Pool{
		records:  make(map[string]*record),
		capacity: capacity,
		rnd:      source,
	}
}

// Add inserts a new record if identifier isn't already present, then
// runs the random-eviction maintainer. No-op if identifier is present.
// Returns the identifier evicted by the maintainer, if any (for
// logging).
func (p *Pool) Add(identifier string, socket Socket, serverIdentifier string) (evicted string, didEvict bool) {
	p.mu.Lock()
	if _, exists := p.records[identifier]; exists {
		p.mu.Unlock()
		return "", false
	}
	r := &record{socket: socket}
	if serverIdentifier != "" {
		r.serverIdentifier = serverIdentifier
		r.hasServerID = true
	}
	p.records[identifier] = r
	p.order = append(p.order, identifier)
	evicted, didEvict = p.maintainLocked()
	p.mu.Unlock()
	return evicted, didEvict
}

// maintainLocked evicts a single, uniformly random identifier if the
// pool is over capacity. Must be called with mu held. Random eviction
// (rather than LRU) keeps the topology mixing and avoids pinning early
// connections; it is the only cap enforcement point.
func (p *Pool) maintainLocked() (evicted string, didEvict bool) {
	if len(p.records) <= p.capacity {
		return "", false
	}
	idx := p.rnd.Intn(len(p.order))
	identifier := p.order[idx]
	r := p.records[identifier]
	delete(p.records, identifier)
	p.order = append(p.order[:idx], p.order[idx+1:]...)
	if r.socket != nil {
		_ = r.socket.Close()
	}
	return identifier, true
}

// Update sets the server identifier for an existing record. No-op if
// identifier is absent.
func (p *Pool) Update(identifier, serverIdentifier string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if r, ok := p.records[identifier]; ok {
		r.serverIdentifier = serverIdentifier
		r.hasServerID = true
	}
}

// Remove pops and returns the socket for identifier, if present.
func (p *Pool) Remove(identifier string) (Socket, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	r, ok := p.records[identifier]
	if !ok {
		return nil, false
	}
	delete(p.records, identifier)
	for i, id := range p.order {
		if id == identifier {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	return r.socket, true
}

// Get returns the socket for identifier.
func (p *Pool) Get(identifier string) (Socket, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	r, ok := p.records[identifier]
	if !ok {
		return nil, ErrNotFound
	}
	return r.socket, nil
}

// ServerIdentifier returns the server identifier for identifier, and
// whether one has been learned yet. Returns ErrNotFound if identifier
// itself is absent from the pool.
func (p *Pool) ServerIdentifier(identifier string) (string, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	r, ok := p.records[identifier]
	if !ok {
		return "", false, ErrNotFound
	}
	return r.serverIdentifier, r.hasServerID, nil
}

// Identifiers returns a snapshot of every identifier in the pool, safe
// to iterate without holding the lock.
func (p *Pool) Identifiers() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// ServerIdentifiers returns a snapshot of every known server identifier
// in the pool, excluding any listed in exclude (and skipping records
// whose server identifier is not yet known).
func (p *Pool) ServerIdentifiers(exclude ...string) []string {
	excl := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		excl[e] = true
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.records))
	for _, id := range p.order {
		r := p.records[id]
		if !r.hasServerID || excl[r.serverIdentifier] {
			continue
		}
		out = append(out, r.serverIdentifier)
	}
	return out
}

// Capacity returns the remaining free slots (capacity - size). Add runs
// the maintainer under the same lock, so an over-capacity pool is never
// observed here.
func (p *Pool) Capacity() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.capacity - len(p.records)
}

// FilterNew returns the subset of candidates not already present as a
// server identifier in the pool, excluding any listed in exclude too.
func (p *Pool) FilterNew(candidates []string, exclude ...string) []string {
	excl := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		excl[e] = true
	}
	p.mu.Lock()
	known := make(map[string]bool, len(p.records))
	for _, r := range p.records {
		if r.hasServerID {
			known[r.serverIdentifier] = true
		}
	}
	p.mu.Unlock()

	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if !known[c] && !excl[c] {
			out = append(out, c)
		}
	}
	return out
}

// RandomOther returns a uniformly random identifier other than exclude,
// or ("", false) if none exists.
func (p *Pool) RandomOther(exclude string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	candidates := make([]string, 0, len(p.order))
	for _, id := range p.order {
		if id != exclude {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		return "", false
	}
	return candidates[p.rnd.Intn(len(candidates))], true
}

// Len returns the current number of live records. Used by tests and by
// invariant checks (pool.size <= pool.capacity).
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.records)
}
