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
	"github.com/stretchr/testify/require"
)

// mineOnto finds a nonce that satisfies Difficulty atop tip and returns the
// resulting block, mirroring what miner.Mine would hand back.
func mineOnto(t *testing.T, bc *Blockchain, txs []*Transaction) *Block {
	t.Helper()
	tip := bc.LastBlock()
	for nonce := uint64(0); ; nonce++ {
		candidate := NewBlock(tip.Index+1, tip.Hash, txs, nonce, 1000)
		if candidate.IsValidProof(Difficulty) {
			return candidate
		}
		if nonce > 5_000_000 {
			t.Fatal("failed to mine a block within the nonce budget")
		}
	}
}

func TestAddTransactionRejectsDuplicateIDAndNonPositiveValue(t *testing.T) {
	bc := NewBlockchain()
	tx := NewTransactionWithID("dup", "alice", "bob", 10, 1)

	assert.True(t, bc.AddTransaction(tx))
	assert.False(t, bc.AddTransaction(tx), "duplicate id must be rejected")
	assert.False(t, bc.AddTransaction(NewTransactionWithID("zero", "alice", "bob", 0, 1)))
	assert.False(t, bc.AddTransaction(NewTransactionWithID("neg", "alice", "bob", -5, 1)))

	assert.Len(t, bc.Snapshot().PendingTransactions, 1)
}

func TestAddBlockRequiresLinkAndProof(t *testing.T) {
	bc := NewBlockchain()
	block := mineOnto(t, bc, nil)

	bad := *block
	bad.PreviousHash = "not-the-tip"
	assert.False(t, bc.AddBlock(&bad), "must reject a block that doesn't link onto the tip")

	assert.True(t, bc.AddBlock(block))
	assert.Equal(t, 2, bc.Height())

	assert.False(t, bc.AddBlock(block), "re-adding the same block must fail the index check")
}

func TestAddBlockRemovesMinedTransactionsFromMempool(t *testing.T) {
	bc := NewBlockchain()
	tx := NewTransactionWithID("m1", "alice", "bob", 10, 1)
	require.True(t, bc.AddTransaction(tx))

	block := mineOnto(t, bc, []*Transaction{tx})
	require.True(t, bc.AddBlock(block))

	assert.Empty(t, bc.Snapshot().PendingTransactions)
	// the id leaves the duplicate-check set together with its mempool entry.
	assert.False(t, bc.ids.Has("m1"))
}

func TestGetBalanceSumsIncomingMinusOutgoingExcludingCoinbase(t *testing.T) {
	bc := NewBlockchain()
	coinbase := NewCoinbaseTransaction("alice", 1)
	pay := NewTransactionWithID("p1", "alice", "bob", 20, 2)
	require.True(t, bc.AddTransaction(pay))

	block := mineOnto(t, bc, []*Transaction{coinbase, pay})
	require.True(t, bc.AddBlock(block))

	assert.Equal(t, CoinbaseReward-20, bc.GetBalance("alice"))
	assert.Equal(t, 20.0, bc.GetBalance("bob"))
	assert.Equal(t, 0.0, bc.GetBalance("coinbase"), "coinbase is synthetic and never debited")
}

func TestPendingTransactionsByValueOrdersDescending(t *testing.T) {
	bc := NewBlockchain()
	low := NewTransactionWithID("low", "a", "b", 1, 1)
	high := NewTransactionWithID("high", "a", "b", 100, 2)
	mid := NewTransactionWithID("mid", "a", "b", 50, 3)

	require.True(t, bc.AddTransaction(low))
	require.True(t, bc.AddTransaction(high))
	require.True(t, bc.AddTransaction(mid))

	ordered := bc.PendingTransactionsByValue()
	require.Len(t, ordered, 3)
	assert.Equal(t, "high", ordered[0].ID)
	assert.Equal(t, "mid", ordered[1].ID)
	assert.Equal(t, "low", ordered[2].ID)
}

func TestIsChainValidRejectsForeignGenesis(t *testing.T) {
	bc := NewBlockchain()
	foreignGenesis := NewBlock(0, ZeroHash, nil, 0, 0)
	assert.False(t, bc.IsChainValid([]*Block{foreignGenesis}))
	assert.True(t, bc.IsChainValid([]*Block{NewGenesisBlock()}))
}

func TestReplaceChainOnlyAdoptsStrictlyLongerValidChains(t *testing.T) {
	bc := NewBlockchain()
	block := mineOnto(t, bc, nil)
	require.True(t, bc.AddBlock(block))

	// Same length: must be rejected.
	assert.False(t, bc.ReplaceChain([]*Block{NewGenesisBlock(), block}))

	// Shorter: must be rejected.
	assert.False(t, bc.ReplaceChain([]*Block{NewGenesisBlock()}))

	// Longer but invalid (tampered hash): must be rejected.
	tampered := *block
	tampered.Hash = "deadbeef"
	longerInvalid := []*Block{NewGenesisBlock(), &tampered, block}
	assert.False(t, bc.ReplaceChain(longerInvalid))
}

func TestReplaceChainDropsAdoptedMempoolEntries(t *testing.T) {
	bcA := NewBlockchain()
	bcB := NewBlockchain()

	tx := NewTransactionWithID("shared", "alice", "bob", 10, 1)
	require.True(t, bcA.AddTransaction(tx))
	require.True(t, bcB.AddTransaction(tx))

	block := mineOnto(t, bcB, []*Transaction{tx})
	require.True(t, bcB.AddBlock(block))

	longer := bcB.Snapshot().Chain
	require.True(t, bcA.ReplaceChain(longer))
	assert.Empty(t, bcA.Snapshot().PendingTransactions, "tx already mined into the adopted chain must leave the mempool")
}
