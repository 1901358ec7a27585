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
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// Difficulty is the fixed required hex prefix of a valid block hash.
const Difficulty = "000"

// ZeroHash is the 64 lowercase hex zero characters used as genesis's
// previous_hash.
var ZeroHash = strings.Repeat("0", 64)

// Block is header+body: immutable once appended to a Blockchain.
type Block struct {
	Index        uint64         `json:"index"`
	PreviousHash string         `json:"previous_hash"`
	Transactions []*Transaction `json:"transactions"`
	Nonce        uint64         `json:"nonce"`
	Timestamp    float64        `json:"timestamp"`
	Hash         string         `json:"hash"`
}

// NewBlock constructs a block and computes its hash. Used by the miner for
// every candidate nonce it tests. Genesis construction does not go through
// here: NewGenesisBlock stores the fixed genesis hash as a literal.
func NewBlock(index uint64, previousHash string, txs []*Transaction, nonce uint64, timestamp float64) *Block {
	b := &Block{
		Index:        index,
		PreviousHash: previousHash,
		Transactions: txs,
		Nonce:        nonce,
		Timestamp:    timestamp,
	}
	b.Hash = b.ComputeHash()
	return b
}

// body returns the canonical pre-hash representation: every field except
// hash, serialized with recursively sorted keys (see Transaction.canonical).
func (b *Block) body() map[string]interface{} {
	txs := make([]interface{}, len(b.Transactions))
	for i, tx := range b.Transactions {
		txs[i] = tx.canonical()
	}
	return map[string]interface{}{
		"index":         b.Index,
		"previous_hash": b.PreviousHash,
		"transactions":  txs,
		"nonce":         b.Nonce,
		"timestamp":     b.Timestamp,
	}
}

// ComputeHash returns the hex digest of SHA-256 over the canonical JSON
// encoding of the block body. encoding/json sorts map keys at every level
// it encounters a map, which is what makes this canonical.
func (b *Block) ComputeHash() string {
	encoded, err := json.Marshal(b.body())
	if err != nil {
		// body() only contains maps, slices, strings and numbers: this
		// cannot fail short of an out-of-memory condition.
		panic(err)
	}
	sum := sha256.Sum256(encoded)
	return hex.EncodeToString(sum[:])
}

// IsValidProof reports whether the stored hash satisfies difficulty and
// matches a fresh recomputation over the rest of the block.
func (b *Block) IsValidProof(difficulty string) bool {
	return strings.HasPrefix(b.Hash, difficulty) && b.Hash == b.ComputeHash()
}
