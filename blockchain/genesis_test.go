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

import "testing"

func TestGenesisBlockIsTheMandatoryConstant(t *testing.T) {
	g := NewGenesisBlock()

	if g.Hash != GenesisHash {
		t.Fatalf("genesis hash = %s, want %s", g.Hash, GenesisHash)
	}
	if g.Index != 0 {
		t.Fatalf("genesis index = %d, want 0", g.Index)
	}
	if g.PreviousHash != ZeroHash {
		t.Fatalf("genesis previous_hash = %s, want %s", g.PreviousHash, ZeroHash)
	}
	if len(g.Transactions) != 0 {
		t.Fatalf("genesis transactions = %d, want 0", len(g.Transactions))
	}
	if g.Nonce != 0 {
		t.Fatalf("genesis nonce = %d, want 0", g.Nonce)
	}
}

func TestNewGenesisBlockIsDeterministic(t *testing.T) {
	a := NewGenesisBlock()
	b := NewGenesisBlock()
	if a.Hash != b.Hash {
		t.Fatalf("two genesis blocks disagree: %s vs %s", a.Hash, b.Hash)
	}
}
