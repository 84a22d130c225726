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

package pool

import (
	"testing"

	"github.com/bfix/gossipd/rnd"
)

type fakeSocket struct {
	closed bool
}

func (s *fakeSocket) Close() error {
	s.closed = true
	return nil
}

func TestAddGet(t *testing.T) {
	p := New(3, rnd.NewMath(1))
	sock := &fakeSocket{}
	p.Add("1.2.3.4:1000", sock, "")
	got, err := p.Get("1.2.3.4:1000")
	if err != nil {
		t.Fatal(err)
	}
	if got != sock {
		t.Fatal("got wrong socket")
	}
}

func TestGetMissing(t *testing.T) {
	p := New(3, rnd.NewMath(1))
	if _, err := p.Get("nope"); err != ErrNotFound {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestAddIdempotent(t *testing.T) {
	p := New(3, rnd.NewMath(1))
	s1, s2 := &fakeSocket{}, &fakeSocket{}
	p.Add("a", s1, "")
	p.Add("a", s2, "")
	got, _ := p.Get("a")
	if got != s1 {
		t.Fatal("second Add must be a no-op")
	}
}

func TestCapacityEviction(t *testing.T) {
	// Invariant: pool.size never exceeds capacity, even at
	// capacity+1 insertions.
	p := New(2, rnd.NewMath(42))
	var socks []*fakeSocket
	for i, id := range []string{"a", "b", "c"} {
		s := &fakeSocket{}
		socks = append(socks, s)
		p.Add(id, s, "")
		if i < 1 {
			continue
		}
		if p.Len() > 2 {
			t.Fatalf("pool size %d exceeds capacity 2", p.Len())
		}
	}
	if p.Len() != 2 {
		t.Fatalf("got size %d, want 2", p.Len())
	}
	closedCount := 0
	for _, s := range socks {
		if s.closed {
			closedCount++
		}
	}
	if closedCount != 1 {
		t.Fatalf("expected exactly one evicted socket closed, got %d", closedCount)
	}
}

func TestUpdateAndServerIdentifier(t *testing.T) {
	p := New(3, rnd.NewMath(1))
	p.Add("a", &fakeSocket{}, "")
	if _, known, _ := p.ServerIdentifier("a"); known {
		t.Fatal("server identifier should be unknown initially")
	}
	p.Update("a", "1.2.3.4:9000")
	id, known, err := p.ServerIdentifier("a")
	if err != nil || !known || id != "1.2.3.4:9000" {
		t.Fatalf("got %q %v %v", id, known, err)
	}
}

func TestUpdateMissingIsNoop(t *testing.T) {
	p := New(3, rnd.NewMath(1))
	p.Update("nope", "1.2.3.4:9000")
	if _, _, err := p.ServerIdentifier("nope"); err != ErrNotFound {
		t.Fatalf("got %v", err)
	}
}

func TestRemove(t *testing.T) {
	p := New(3, rnd.NewMath(1))
	sock := &fakeSocket{}
	p.Add("a", sock, "")
	got, ok := p.Remove("a")
	if !ok || got != sock {
		t.Fatal("remove failed")
	}
	if _, ok := p.Remove("a"); ok {
		t.Fatal("second remove should report absent")
	}
}

func TestServerIdentifiersExclusion(t *testing.T) {
	p := New(5, rnd.NewMath(1))
	p.Add("a", &fakeSocket{}, "srv-a")
	p.Add("b", &fakeSocket{}, "srv-b")
	p.Add("c", &fakeSocket{}, "") // unknown server id, must be skipped

	got := p.ServerIdentifiers("srv-a")
	if len(got) != 1 || got[0] != "srv-b" {
		t.Fatalf("got %v", got)
	}
}

func TestFilterNew(t *testing.T) {
	p := New(5, rnd.NewMath(1))
	p.Add("a", &fakeSocket{}, "srv-a")

	got := p.FilterNew([]string{"srv-a", "srv-b", "srv-c"}, "srv-c")
	if len(got) != 1 || got[0] != "srv-b" {
		t.Fatalf("got %v", got)
	}
}

func TestRandomOtherExcludesSelf(t *testing.T) {
	p := New(5, rnd.NewMath(7))
	p.Add("a", &fakeSocket{}, "")
	if _, ok := p.RandomOther("a"); ok {
		t.Fatal("no other identifier should exist")
	}
	p.Add("b", &fakeSocket{}, "")
	other, ok := p.RandomOther("a")
	if !ok || other != "b" {
		t.Fatalf("got %q %v", other, ok)
	}
}

func TestCapacityReportsFreeSlots(t *testing.T) {
	p := New(3, rnd.NewMath(1))
	p.Add("a", &fakeSocket{}, "")
	if got := p.Capacity(); got != 2 {
		t.Fatalf("got %d, want 2", got)
	}
}
