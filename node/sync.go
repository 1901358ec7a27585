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
	"context"
	"net"
	"time"

	"github.com/ground-x/gokoin/blockchain"
	"github.com/ground-x/gokoin/internal/log"
	"github.com/ground-x/gokoin/p2p"
)

// syncHeartbeat periodically runs SyncBlockchain so a node that missed a
// NEW_BLOCK broadcast still converges on the network's longest chain.
func (n *Node) syncHeartbeat(ctx context.Context) {
	ticker := time.NewTicker(n.cfg.SyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if gained := n.SyncBlockchain(); gained > 0 {
				logger.Info("sync heartbeat adopted a longer chain", "gained", gained)
			}
		case <-ctx.Done():
			return
		}
	}
}

// SyncBlockchain sends REQUEST_CHAIN to every current peer (fan-out, not
// first-hit), collects every response that is both strictly longer than
// the local chain and valid, adopts the longest (ties broken by arrival
// order), and returns the number of blocks gained — 0 if nothing was
// adopted, including on timeout: a sync that finds nothing better is a
// no-op, never an error.
func (n *Node) SyncBlockchain() int {
	heightBefore := n.chain.Height()

	targets := n.peers.Addresses("")
	if len(targets) == 0 {
		return 0
	}

	best := n.collectCandidates(targets, heightBefore)
	if best == nil {
		return 0
	}
	if !n.chain.ReplaceChain(best) {
		return 0
	}
	return len(best) - heightBefore
}

// collectCandidates fans out REQUEST_CHAIN to targets in parallel and
// aggregates the replies within n.cfg.SyncTimeout, keeping the longest
// valid candidate seen (first-seen wins ties, since a later equal-length
// reply never beats len(candidate) > len(best)).
func (n *Node) collectCandidates(targets []string, heightBefore int) []*blockchain.Block {
	resultsCh := make(chan []*blockchain.Block, len(targets))

	for _, addr := range targets {
		addr := addr
		go func() {
			defer log.Recover(logger, "sync fetch")
			candidate, err := n.requestChain(addr)
			if err != nil {
				n.peers.RecordFailure(addr)
				resultsCh <- nil
				return
			}
			n.peers.RecordSuccess(addr)
			resultsCh <- candidate
		}()
	}

	deadline := time.NewTimer(n.cfg.SyncTimeout)
	defer deadline.Stop()

	var best []*blockchain.Block
	for i := 0; i < len(targets); i++ {
		select {
		case candidate := <-resultsCh:
			if candidate == nil || len(candidate) <= heightBefore {
				continue
			}
			if !n.chain.IsChainValid(candidate) {
				continue
			}
			if best == nil || len(candidate) > len(best) {
				best = candidate
			}
		case <-deadline.C:
			return best
		}
	}
	return best
}

func (n *Node) requestChain(addr string) ([]*blockchain.Block, error) {
	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	env, err := p2p.NewEnvelope(p2p.RequestChain, n.cfg.ListenAddr, p2p.EmptyPayload{})
	if err != nil {
		return nil, err
	}
	if err := p2p.WriteFrame(conn, env); err != nil {
		return nil, err
	}

	reply, err := p2p.ReadFrame(conn)
	if err != nil {
		return nil, err
	}
	if reply.Type != p2p.ResponseChain {
		return nil, errUnexpectedReply(reply.Type)
	}

	var payload p2p.ResponseChainPayload
	if err := reply.Decode(&payload); err != nil {
		return nil, err
	}
	return payload.Blockchain.Chain, nil
}
