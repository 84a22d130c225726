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

import "github.com/bfix/gossipd/message"

// UpdateKey de-dups PEER_UPDATE floods by (address, update_type).
type UpdateKey struct {
	Address    string
	UpdateType message.UpdateType
}

// UpdateCache tracks which PEER_UPDATE floods this node has already
// seen and forwarded, so each is forwarded at most once per flooding
// node.
type UpdateCache struct {
	cache *Cache[UpdateKey, struct{}]
}

// NewUpdateCache creates an empty update cache.
func NewUpdateCache(capacity int) *UpdateCache {
	return &UpdateCache{cache: New[UpdateKey, struct{}](capacity)}
}

// Add records the flood keyed by (address, updateType). Returns true if
// this is the first sighting (caller should forward); false if already
// known (caller should drop). The presence check and insertion happen
// under one lock acquisition (AddIfAbsent), not a separate Has then
// Add, since this cache is read and written from both controllers'
// goroutines.
func (u *UpdateCache) Add(address string, updateType message.UpdateType) (isNew bool) {
	key := UpdateKey{Address: address, UpdateType: updateType}
	inserted, _, _ := u.cache.AddIfAbsent(key, struct{}{}, true)
	return inserted
}
