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

package blockchain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeHashIsDeterministicAndOrderIndependent(t *testing.T) {
	txs := []*Transaction{
		NewTransactionWithID("a", "alice", "bob", 10, 1),
		NewTransactionWithID("b", "bob", "carol", 5, 2),
	}
	b1 := NewBlock(1, ZeroHash, txs, 0, 100)
	b2 := NewBlock(1, ZeroHash, txs, 0, 100)

	assert.Equal(t, b1.Hash, b2.Hash, "identical inputs must hash identically")
	assert.Equal(t, b1.ComputeHash(), b2.ComputeHash())
}

func TestComputeHashChangesWithNonce(t *testing.T) {
	txs := []*Transaction{NewTransactionWithID("a", "alice", "bob", 10, 1)}
	b1 := NewBlock(1, ZeroHash, txs, 0, 100)
	b2 := NewBlock(1, ZeroHash, txs, 1, 100)

	assert.NotEqual(t, b1.Hash, b2.Hash)
}

func TestIsValidProofRejectsTamperedHash(t *testing.T) {
	b := NewBlock(1, ZeroHash, nil, 0, 100)
	b.Hash = "0000000000000000000000000000000000000000000000000000000000000000"

	assert.False(t, b.IsValidProof(Difficulty), "a hash that doesn't recompute must fail proof validation")
}

func TestIsValidProofRequiresDifficultyPrefix(t *testing.T) {
	b := NewBlock(1, ZeroHash, nil, 0, 100)
	// b.Hash is whatever ComputeHash produced for nonce 0; a fixed input meets
	// the "000" prefix with a 1-in-4096 chance, so IsValidProof should be
	// false unless the prefix happens to match.
	if b.Hash[:len(Difficulty)] == Difficulty {
		t.Skip("nonce 0 happened to satisfy difficulty; not a meaningful case")
	}
	assert.False(t, b.IsValidProof(Difficulty))
}
