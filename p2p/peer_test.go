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
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLearnRefusesSelf(t *testing.T) {
	table := NewTable("self:1", MaxPeers)
	assert.False(t, table.Learn("self:1"))
	assert.False(t, table.Learn(""))
}

func TestQuarantineAfterThresholdFailuresThenRecovery(t *testing.T) {
	table := NewTable("self:1", MaxPeers)
	require.True(t, table.Learn("peer:1"))

	for i := 0; i < QuarantineThreshold; i++ {
		table.RecordFailure("peer:1")
	}

	targets := table.BroadcastTargets("")
	assert.NotContains(t, targets, "peer:1", "a peer at the quarantine threshold must be excluded from broadcast")

	table.RecordSuccess("peer:1")
	targets = table.BroadcastTargets("")
	assert.Contains(t, targets, "peer:1", "a single success must clear quarantine")
}

func TestTableEvictsWorstQuarantinedPeerWhenFull(t *testing.T) {
	table := NewTable("self:1", MaxPeers)

	for i := 0; i < MaxPeers; i++ {
		require.True(t, table.Learn(fmt.Sprintf("peer:%d", i)))
	}
	assert.Equal(t, MaxPeers, table.Len())

	// Quarantine peer:0 hardest so it is the eviction candidate.
	for i := 0; i < QuarantineThreshold+2; i++ {
		table.RecordFailure("peer:0")
	}
	for i := 0; i < QuarantineThreshold; i++ {
		table.RecordFailure("peer:1")
	}

	assert.True(t, table.Learn("peer:new"))
	assert.Equal(t, MaxPeers, table.Len())
	assert.False(t, table.Contains("peer:0"), "the most-failed quarantined peer must be evicted")
	assert.True(t, table.Contains("peer:new"))
}

func TestTableRefusesNewPeerWhenFullWithNoQuarantineCandidate(t *testing.T) {
	table := NewTable("self:1", MaxPeers)
	for i := 0; i < MaxPeers; i++ {
		require.True(t, table.Learn(fmt.Sprintf("peer:%d", i)))
	}

	assert.False(t, table.Learn("peer:overflow"), "a full table with nothing to evict must refuse new peers")
}

func TestNewTableHonorsCustomMaxPeers(t *testing.T) {
	table := NewTable("self:1", 2)
	require.True(t, table.Learn("peer:0"))
	require.True(t, table.Learn("peer:1"))
	assert.False(t, table.Learn("peer:2"), "a table bounded below the default MaxPeers must still refuse once full")
}

func TestBroadcastTargetsExcludesSenderAndQuarantined(t *testing.T) {
	table := NewTable("self:1", MaxPeers)
	require.True(t, table.Learn("peer:a"))
	require.True(t, table.Learn("peer:b"))

	targets := table.BroadcastTargets("peer:a")
	assert.NotContains(t, targets, "peer:a")
	assert.Contains(t, targets, "peer:b")
}
