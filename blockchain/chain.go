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
	"sort"
	"sync"

	set "gopkg.in/fatih/set.v0"

	"github.com/ground-x/gokoin/internal/log"
)

var logger = log.NewModuleLogger(log.Blockchain)

// Blockchain owns the adopted chain and the pending-transaction mempool.
// Every mutating operation, and every reader that returns a snapshot,
// takes mu: critical sections are short, and no network I/O ever runs
// while it is held.
type Blockchain struct {
	mu      sync.Mutex
	chain   []*Block
	mempool []*Transaction
	ids     *set.Set // mirrors {t.id for t in mempool}, for O(1) duplicate checks
}

// NewBlockchain returns a chain seeded with only the genesis block.
func NewBlockchain() *Blockchain {
	return &Blockchain{
		chain: []*Block{NewGenesisBlock()},
		ids:   set.New(),
	}
}

// Snapshot is an immutable view used to answer REQUEST_CHAIN and to feed
// sync aggregation; callers must not mutate the slices it returns.
type Snapshot struct {
	Chain               []*Block
	PendingTransactions []*Transaction
}

// Snapshot takes a copy of the current chain and mempool under the lock.
func (bc *Blockchain) Snapshot() Snapshot {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return Snapshot{
		Chain:               append([]*Block(nil), bc.chain...),
		PendingTransactions: append([]*Transaction(nil), bc.mempool...),
	}
}

// Height returns len(chain).
func (bc *Blockchain) Height() int {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return len(bc.chain)
}

// LastBlock returns the current chain tip.
func (bc *Blockchain) LastBlock() *Block {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return bc.chain[len(bc.chain)-1]
}

// AddTransaction rejects and returns false if tx.id is already pending or
// valor <= 0; otherwise it enters the mempool. Idempotent w.r.t. duplicate
// ids.
func (bc *Blockchain) AddTransaction(tx *Transaction) bool {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	if tx.Valor <= 0 {
		logger.Debug("rejected transaction: non-positive value", "id", tx.ID, "valor", tx.Valor)
		return false
	}
	if bc.ids.Has(tx.ID) {
		logger.Debug("rejected transaction: duplicate id", "id", tx.ID)
		return false
	}

	bc.mempool = append(bc.mempool, tx)
	bc.ids.Add(tx.ID)
	return true
}

// AddBlock accepts block only if it links onto the current tip with a
// valid proof and a matching recomputed hash. Never panics on malformed
// input.
func (bc *Blockchain) AddBlock(block *Block) bool {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return bc.addBlockLocked(block)
}

func (bc *Blockchain) addBlockLocked(block *Block) bool {
	tip := bc.chain[len(bc.chain)-1]

	if block.Index != uint64(len(bc.chain)) {
		return false
	}
	if block.PreviousHash != tip.Hash {
		return false
	}
	for _, tx := range block.Transactions {
		if tx == nil {
			return false
		}
	}
	if !block.IsValidProof(Difficulty) {
		return false
	}

	bc.chain = append(bc.chain, block)
	bc.removeFromMempool(block.Transactions)
	return true
}

func (bc *Blockchain) removeFromMempool(included []*Transaction) {
	if len(bc.mempool) == 0 || len(included) == 0 {
		return
	}
	mined := set.New()
	for _, tx := range included {
		mined.Add(tx.ID)
	}
	kept := bc.mempool[:0]
	for _, tx := range bc.mempool {
		if mined.Has(tx.ID) {
			bc.ids.Remove(tx.ID)
			continue
		}
		kept = append(kept, tx)
	}
	bc.mempool = kept
}

// IsChainValid validates a foreign chain: its genesis must be byte-identical
// to the local constant, and every subsequent block must satisfy the link
// and proof invariants.
func (bc *Blockchain) IsChainValid(chain []*Block) bool {
	if len(chain) == 0 {
		return false
	}
	if !genesisEqual(chain[0]) {
		return false
	}
	for i := 1; i < len(chain); i++ {
		cur, prev := chain[i], chain[i-1]
		if cur.Index != prev.Index+1 {
			return false
		}
		if cur.PreviousHash != prev.Hash {
			return false
		}
		if !cur.IsValidProof(Difficulty) {
			return false
		}
	}
	return true
}

func genesisEqual(b *Block) bool {
	g := NewGenesisBlock()
	if b.Index != g.Index || b.PreviousHash != g.PreviousHash || b.Nonce != g.Nonce ||
		b.Timestamp != g.Timestamp || b.Hash != g.Hash || len(b.Transactions) != 0 {
		return false
	}
	return true
}

// ReplaceChain adopts newChain if it is strictly longer than the current
// chain and valid. Mempool transactions already present in newChain are
// dropped; the rest are retained for future mining.
func (bc *Blockchain) ReplaceChain(newChain []*Block) bool {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	if len(newChain) <= len(bc.chain) {
		return false
	}
	if !bc.IsChainValid(newChain) {
		return false
	}

	included := set.New()
	for _, block := range newChain {
		for _, tx := range block.Transactions {
			included.Add(tx.ID)
		}
	}

	kept := bc.mempool[:0]
	for _, tx := range bc.mempool {
		if included.Has(tx.ID) {
			bc.ids.Remove(tx.ID)
			continue
		}
		kept = append(kept, tx)
	}
	bc.mempool = kept
	bc.chain = append([]*Block(nil), newChain...)
	return true
}

// GetBalance computes sum(incoming) - sum(outgoing) across all accepted
// blocks. "coinbase" is a synthetic source and is never debited.
func (bc *Blockchain) GetBalance(address string) float64 {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	var balance float64
	for _, block := range bc.chain {
		for _, tx := range block.Transactions {
			if tx.Destino == address {
				balance += tx.Valor
			}
			if tx.Origem == address && tx.Origem != CoinbaseAddress {
				balance -= tx.Valor
			}
		}
	}
	return balance
}

// PendingTransactionsByValue returns a copy of the mempool ordered by
// descending valor, breaking ties by submission order — the priority
// ordering the miner packs blocks with.
func (bc *Blockchain) PendingTransactionsByValue() []*Transaction {
	bc.mu.Lock()
	txs := append([]*Transaction(nil), bc.mempool...)
	bc.mu.Unlock()

	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Valor > txs[j].Valor
	})
	return txs
}
