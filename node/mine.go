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

package node

import (
	"time"

	"github.com/ground-x/gokoin/blockchain"
	"github.com/ground-x/gokoin/miner"
	"github.com/ground-x/gokoin/p2p"
)

// MineBlock spawns the parallel PoW search over a skeleton built
// from the current mempool, packed value-descending after the coinbase
// reward. It blocks until the search finds a block or is cancelled by a
// competing NEW_BLOCK arriving through handleNewBlock. Returns nil on
// cancellation or if the mined block loses a race to AddBlock.
func (n *Node) MineBlock() *blockchain.Block {
	flag := &miner.StopFlag{}
	n.miningMu.Lock()
	n.miningFlag = flag
	n.miningMu.Unlock()
	defer n.clearMiningFlag(flag)

	tip := n.chain.LastBlock()
	now := float64(time.Now().Unix())

	pending := n.chain.PendingTransactionsByValue()
	txs := make([]*blockchain.Transaction, 0, 1+len(pending))
	txs = append(txs, blockchain.NewCoinbaseTransaction(n.cfg.Wallet, now))
	txs = append(txs, pending...)

	skeleton := miner.Skeleton{
		Index:        uint64(n.chain.Height()),
		PreviousHash: tip.Hash,
		Transactions: txs,
		Timestamp:    now,
	}

	result := miner.Mine(skeleton, blockchain.Difficulty, flag)
	if result.IsCancelled() {
		return nil
	}

	if !n.chain.AddBlock(result.Block) {
		// Lost the race to a block that arrived over the network while
		// this search was still running.
		return nil
	}

	n.seenBlocks.Add(result.Block.Hash, struct{}{})
	n.metrics.incBlocksMined()
	n.broadcast(p2p.NewBlock, p2p.BlockPayload{Block: result.Block}, "")
	return result.Block
}

func (n *Node) clearMiningFlag(flag *miner.StopFlag) {
	n.miningMu.Lock()
	defer n.miningMu.Unlock()
	if n.miningFlag == flag {
		n.miningFlag = nil
	}
}
