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

package miner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ground-x/gokoin/blockchain"
)

func TestMineFindsAValidProof(t *testing.T) {
	skeleton := Skeleton{
		Index:        1,
		PreviousHash: blockchain.ZeroHash,
		Transactions: nil,
		Timestamp:    1000,
	}
	flag := &StopFlag{}

	result := Mine(skeleton, blockchain.Difficulty, flag)

	require.False(t, result.IsCancelled())
	assert.True(t, result.Block.IsValidProof(blockchain.Difficulty))
	assert.Equal(t, skeleton.Index, result.Block.Index)
	assert.Equal(t, skeleton.PreviousHash, result.Block.PreviousHash)
}

func TestMineStopsWhenFlagIsAlreadySet(t *testing.T) {
	skeleton := Skeleton{Index: 1, PreviousHash: blockchain.ZeroHash, Timestamp: 1000}
	flag := &StopFlag{}
	flag.Stop()

	done := make(chan *Result, 1)
	go func() { done <- Mine(skeleton, blockchain.Difficulty, flag) }()

	select {
	case result := <-done:
		assert.True(t, result.IsCancelled())
	case <-time.After(2 * time.Second):
		t.Fatal("Mine did not return promptly after the flag was pre-set")
	}
}

func TestIsCancelledHandlesNilResult(t *testing.T) {
	var r *Result
	assert.True(t, r.IsCancelled())
}

func TestStopFlagIsIdempotent(t *testing.T) {
	flag := &StopFlag{}
	assert.False(t, flag.Stopped())
	flag.Stop()
	flag.Stop()
	assert.True(t, flag.Stopped())
}
