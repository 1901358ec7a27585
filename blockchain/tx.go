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
	uuid "github.com/satori/go.uuid"
)

// CoinbaseAddress is the synthetic source address of mining-reward
// transactions. It is never tracked for debits in GetBalance.
const CoinbaseAddress = "coinbase"

// CoinbaseReward is the fixed value paid to the miner of an accepted block.
const CoinbaseReward = 50.0

// Transaction is the value object moved between peers and folded into
// blocks. It carries no signature: origem/destino are opaque address
// strings and id alone disambiguates duplicates across the network.
type Transaction struct {
	ID        string  `json:"id"`
	Origem    string  `json:"origem"`
	Destino   string  `json:"destino"`
	Valor     float64 `json:"valor"`
	Timestamp float64 `json:"timestamp"`
}

// NewTransaction builds a Transaction with a fresh id.
func NewTransaction(origem, destino string, valor, timestamp float64) *Transaction {
	return &Transaction{
		ID:        uuid.NewV4().String(),
		Origem:    origem,
		Destino:   destino,
		Valor:     valor,
		Timestamp: timestamp,
	}
}

// NewTransactionWithID reconstructs a Transaction with an explicit id, used
// when decoding a Transaction that arrived over the wire or was read back
// from a block.
func NewTransactionWithID(id, origem, destino string, valor, timestamp float64) *Transaction {
	return &Transaction{ID: id, Origem: origem, Destino: destino, Valor: valor, Timestamp: timestamp}
}

// NewCoinbaseTransaction builds the reward transaction every non-genesis
// block is mined with: always the first transaction in the block, with
// origem set to CoinbaseAddress.
func NewCoinbaseTransaction(minerAddress string, timestamp float64) *Transaction {
	return &Transaction{
		ID:        uuid.NewV4().String(),
		Origem:    CoinbaseAddress,
		Destino:   minerAddress,
		Valor:     CoinbaseReward,
		Timestamp: timestamp,
	}
}

// canonical returns the transaction as the sorted-key map the canonical
// JSON encoder expects. encoding/json sorts map[string]interface{} keys
// lexicographically at every nesting level, so this map doubles as both the
// wire representation and the hash-input representation.
func (tx *Transaction) canonical() map[string]interface{} {
	return map[string]interface{}{
		"id":        tx.ID,
		"origem":    tx.Origem,
		"destino":   tx.Destino,
		"valor":     tx.Valor,
		"timestamp": tx.Timestamp,
	}
}
