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

// Package subscription implements the mapping from announce data_type
// to the ordered set of locally subscribed API identifiers, following
// the same mutex-guarded map idiom used throughout this codebase.
package subscription

import "sync"

// Registry is a thread-safe code -> ordered identifier list mapping.
type Registry struct {
	mu   sync.Mutex
	byID map[uint16][]string
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{byID: make(map[uint16][]string)}
}

// Register adds identifier as a subscriber of dataType. Idempotent
// (repeated NOTIFY(dataType) from the same identifier is a no-op) and
// preserves insertion order.
func (r *Registry) Register(dataType uint16, identifier string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.byID[dataType] {
		if id == identifier {
			return
		}
	}
	r.byID[dataType] = append(r.byID[dataType], identifier)
}

// Unregister removes identifier from every data_type's subscriber list.
// Called by the API controller on CONNECTION_LOST.
func (r *Registry) Unregister(identifier string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for dataType, ids := range r.byID {
		out := ids[:0]
		for _, id := range ids {
			if id != identifier {
				out = append(out, id)
			}
		}
		if len(out) == 0 {
			delete(r.byID, dataType)
		} else {
			r.byID[dataType] = out
		}
	}
}

// GetRegistrations returns the subscriber list for dataType, in
// registration order. Returns an empty slice (never nil) if absent.
func (r *Registry) GetRegistrations(dataType uint16) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := r.byID[dataType]
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}
