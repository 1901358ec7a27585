// Copyright 2018 The klaytn Authors
// This file is part of the klaytn library.
//
// The klaytn library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The klaytn library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the klaytn library. If not, see <http://www.gnu.org/licenses/>.

package p2p

import (
	"math/rand"
	"sync"
	"time"
)

// MaxPeers is the default bound on a peer table's size, used when NewTable
// is given a non-positive maxPeers.
const MaxPeers = 20

// QuarantineThreshold is the consecutive-failure count at which a peer is
// excluded from broadcast but kept in the table.
const QuarantineThreshold = 3

// PeerEntry is the bookkeeping kept per known address. Its state machine
// is: Unknown -> Active on success, Active -> Quarantined at
// QuarantineThreshold consecutive failures, Quarantined -> Active on any
// later success.
type PeerEntry struct {
	Address  string
	LastSeen time.Time
	Failures int
}

// Quarantined reports whether this entry should be skipped by broadcast.
func (p *PeerEntry) Quarantined() bool {
	return p.Failures >= QuarantineThreshold
}

// Table is the peer table: address -> PeerEntry, bounded at maxPeers, and
// never containing the local node's own address. Failure counts and
// quarantine are tracked per entry in a single bounded map rather than
// Kademlia-style buckets, since discovery here is flood-gossip, not DHT
// lookup.
type Table struct {
	mu       sync.Mutex
	self     string
	maxPeers int
	rng      *rand.Rand
	byAddr   map[string]*PeerEntry
}

// NewTable returns an empty table that will never admit self, bounded at
// maxPeers entries. A non-positive maxPeers falls back to MaxPeers.
func NewTable(self string, maxPeers int) *Table {
	if maxPeers <= 0 {
		maxPeers = MaxPeers
	}
	return &Table{
		self:     self,
		maxPeers: maxPeers,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		byAddr:   make(map[string]*PeerEntry),
	}
}

// Learn admits addr if there is room (or an eviction candidate) and it is
// not the local node's own address. Returns false if refused.
func (t *Table) Learn(addr string) bool {
	if addr == "" || addr == t.self {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.admitLocked(addr)
}

func (t *Table) admitLocked(addr string) bool {
	if entry, ok := t.byAddr[addr]; ok {
		entry.LastSeen = time.Now()
		return true
	}

	if len(t.byAddr) >= t.maxPeers {
		if !t.evictWorstLocked() {
			return false
		}
	}

	t.byAddr[addr] = &PeerEntry{Address: addr, LastSeen: time.Now()}
	return true
}

// evictWorstLocked drops the quarantined peer with the most failures to
// make room for a new one; returns false if no quarantined peer exists to
// evict (table stays full, new peer refused).
func (t *Table) evictWorstLocked() bool {
	var worst *PeerEntry
	for _, entry := range t.byAddr {
		if !entry.Quarantined() {
			continue
		}
		if worst == nil || entry.Failures > worst.Failures {
			worst = entry
		}
	}
	if worst == nil {
		return false
	}
	delete(t.byAddr, worst.Address)
	return true
}

// RecordSuccess resets addr's failure count to 0 (Quarantined -> Active).
func (t *Table) RecordSuccess(addr string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if entry, ok := t.byAddr[addr]; ok {
		entry.Failures = 0
		entry.LastSeen = time.Now()
	}
}

// RecordFailure increments addr's failure count (Active -> Quarantined at
// QuarantineThreshold).
func (t *Table) RecordFailure(addr string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if entry, ok := t.byAddr[addr]; ok {
		entry.Failures++
	}
}

// Contains reports whether addr is already known.
func (t *Table) Contains(addr string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.byAddr[addr]
	return ok
}

// Len returns the number of known peers.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.byAddr)
}

// Addresses returns every known address (quarantined or not), excluding
// the given address (typically the requester of DISCOVER_PEERS).
func (t *Table) Addresses(excluding string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]string, 0, len(t.byAddr))
	for addr := range t.byAddr {
		if addr == excluding {
			continue
		}
		out = append(out, addr)
	}
	return out
}

// BroadcastTargets returns a shuffled snapshot of every non-quarantined
// peer, excluding sender, taken under the lock and released before any
// network I/O. Keeping the *rand.Rand on the table rather than calling
// math/rand's global functions lets a test inject a seeded instance for
// deterministic ordering.
func (t *Table) BroadcastTargets(excluding string) []string {
	t.mu.Lock()
	out := make([]string, 0, len(t.byAddr))
	for addr, entry := range t.byAddr {
		if addr == excluding || entry.Quarantined() {
			continue
		}
		out = append(out, addr)
	}
	rng := t.rng
	t.mu.Unlock()

	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
