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

// GenesisHash is the mandatory, byte-for-byte genesis digest every
// implementation of this protocol must agree on. It is a hard-coded
// literal, not a recomputation: genesis construction never calls
// ComputeHash.
const GenesisHash = "816534932c2b7154836da6afc367695e6337db8a921823784c14378abed4f7d7"

// NewGenesisBlock returns the fixed constant block every chain starts from.
func NewGenesisBlock() *Block {
	return &Block{
		Index:        0,
		PreviousHash: ZeroHash,
		Transactions: []*Transaction{},
		Nonce:        0,
		Timestamp:    0,
		Hash:         GenesisHash,
	}
}
