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
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/ground-x/gokoin/blockchain"
	"github.com/ground-x/gokoin/internal/log"
	"github.com/ground-x/gokoin/miner"
	"github.com/ground-x/gokoin/p2p"
)

var logger = log.NewModuleLogger(log.Node)

// dialTimeout bounds every short-lived outbound connection this node opens,
// whether for a broadcast send, a PING, or a chain fetch.
const dialTimeout = 5 * time.Second

// seenCacheSize bounds the recently-relayed-id caches that sit above the
// mempool's own duplicate detection, so a gossiped id looping back through
// a second peer doesn't retake the Blockchain lock just to be told no.
const seenCacheSize = 4096

// Node owns the listening socket, the peer table, and the Blockchain; it
// mediates every inbound and outbound I/O path.
type Node struct {
	cfg   Config
	chain *blockchain.Blockchain
	peers *p2p.Table

	seenTx     *lru.Cache
	seenBlocks *lru.Cache

	metrics *Metrics

	listener net.Listener
	quit     chan struct{}
	quitOnce sync.Once

	miningMu   sync.Mutex
	miningFlag *miner.StopFlag
}

// New constructs a Node ready to Run. The Blockchain starts out holding
// only the genesis block.
func New(cfg Config) *Node {
	cfg.normalize()

	seenTx, err := lru.New(seenCacheSize)
	if err != nil {
		panic(err) // only fails for a non-positive size; seenCacheSize is a positive constant
	}
	seenBlocks, err := lru.New(seenCacheSize)
	if err != nil {
		panic(err)
	}

	return &Node{
		cfg:        cfg,
		chain:      blockchain.NewBlockchain(),
		peers:      p2p.NewTable(cfg.ListenAddr, cfg.MaxPeers),
		seenTx:     seenTx,
		seenBlocks: seenBlocks,
		metrics:    newMetrics(),
		quit:       make(chan struct{}),
	}
}

// Chain exposes the owned Blockchain for direct reads (balance queries,
// height checks) by collaborators such as the status HTTP surface.
func (n *Node) Chain() *blockchain.Blockchain { return n.chain }

// Peers exposes the peer table for read-only inspection.
func (n *Node) Peers() *p2p.Table { return n.peers }

// Run binds the listener, starts the accept loop and the sync heartbeat,
// dials every bootstrap address, and blocks until ctx is cancelled.
func (n *Node) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", n.cfg.ListenAddr)
	if err != nil {
		return err
	}
	n.listener = ln
	logger.Info("node listening", "addr", n.cfg.ListenAddr, "wallet", n.cfg.Wallet)

	go n.acceptLoop()
	go n.syncHeartbeat(ctx)

	for _, addr := range n.cfg.Bootstrap {
		addr := addr
		go func() {
			if err := n.ConnectToPeer(addr); err != nil {
				logger.Warn("bootstrap dial failed", "addr", addr, "err", err)
			}
		}()
	}

	if n.cfg.StatusAddr != "" {
		go n.serveStatus(n.cfg.StatusAddr)
	}

	<-ctx.Done()
	n.quitOnce.Do(func() { close(n.quit) })
	return n.listener.Close()
}

func (n *Node) acceptLoop() {
	for {
		conn, err := n.listener.Accept()
		if err != nil {
			select {
			case <-n.quit:
				return
			default:
				logger.Debug("accept error", "err", err)
				return
			}
		}
		go n.serveConn(conn)
	}
}

// serveConn decodes exactly one framed envelope, dispatches it, and closes
// the connection — there is no long-lived session multiplexing.
func (n *Node) serveConn(conn net.Conn) {
	defer conn.Close()
	defer log.Recover(logger, "inbound connection")

	env, err := p2p.ReadFrame(conn)
	if err != nil {
		logger.Debug("closing connection on codec error", "err", err)
		return
	}

	if env.Sender != "" && env.Sender != n.cfg.ListenAddr {
		n.peers.Learn(env.Sender)
	}

	switch env.Type {
	case p2p.NewTransaction:
		n.handleNewTransaction(env)
	case p2p.NewBlock:
		n.handleNewBlock(env)
	case p2p.RequestChain:
		n.handleRequestChain(conn, env)
	case p2p.Ping:
		n.handlePing(conn, env)
	case p2p.DiscoverPeers:
		n.handleDiscoverPeers(conn, env)
	case p2p.Pong:
		n.peers.RecordSuccess(env.Sender)
	case p2p.ResponseChain:
		// Reached only if a peer pushes a response on an unsolicited
		// connection; the sync path reads its reply directly off the
		// connection it dialed, so there is nothing to deliver here.
		logger.Debug("unsolicited RESPONSE_CHAIN ignored", "sender", env.Sender)
	case p2p.PeersList:
		logger.Debug("unsolicited PEERS_LIST ignored", "sender", env.Sender)
	}
}

func (n *Node) handleNewTransaction(env *p2p.Envelope) {
	var payload p2p.TransactionPayload
	if err := env.Decode(&payload); err != nil || payload.Transaction == nil {
		logger.Debug("invalid NEW_TRANSACTION payload", "sender", env.Sender, "err", err)
		return
	}
	tx := payload.Transaction

	if n.seenTx.Contains(tx.ID) {
		return
	}
	if !n.chain.AddTransaction(tx) {
		return
	}
	n.seenTx.Add(tx.ID, struct{}{})
	n.metrics.incTxAccepted()
	n.broadcast(p2p.NewTransaction, p2p.TransactionPayload{Transaction: tx}, env.Sender)
}

func (n *Node) handleNewBlock(env *p2p.Envelope) {
	var payload p2p.BlockPayload
	if err := env.Decode(&payload); err != nil || payload.Block == nil {
		logger.Debug("invalid NEW_BLOCK payload", "sender", env.Sender, "err", err)
		return
	}
	block := payload.Block
	heightBefore := n.chain.Height()

	if n.seenBlocks.Contains(block.Hash) {
		return
	}

	if n.chain.AddBlock(block) {
		n.seenBlocks.Add(block.Hash, struct{}{})
		n.cancelMining()
		n.metrics.incBlocksAccepted()
		n.broadcast(p2p.NewBlock, p2p.BlockPayload{Block: block}, env.Sender)
		return
	}

	n.metrics.incBlocksRejected()
	if block.Index > uint64(heightBefore) {
		go n.SyncBlockchain()
	}
}

func (n *Node) handleRequestChain(conn net.Conn, env *p2p.Envelope) {
	snap := n.chain.Snapshot()
	payload := p2p.ResponseChainPayload{
		Blockchain: p2p.ChainSnapshot{Chain: snap.Chain, PendingTransactions: snap.PendingTransactions},
	}
	reply, err := p2p.NewEnvelope(p2p.ResponseChain, n.cfg.ListenAddr, payload)
	if err != nil {
		logger.Error("failed to encode RESPONSE_CHAIN", "err", err)
		return
	}
	if err := p2p.WriteFrame(conn, reply); err != nil {
		logger.Debug("failed to reply RESPONSE_CHAIN", "sender", env.Sender, "err", err)
	}
}

func (n *Node) handlePing(conn net.Conn, env *p2p.Envelope) {
	reply, err := p2p.NewEnvelope(p2p.Pong, n.cfg.ListenAddr, p2p.EmptyPayload{})
	if err != nil {
		return
	}
	if err := p2p.WriteFrame(conn, reply); err != nil {
		logger.Debug("failed to reply PONG", "sender", env.Sender, "err", err)
	}
}

func (n *Node) handleDiscoverPeers(conn net.Conn, env *p2p.Envelope) {
	addrs := n.peers.Addresses(env.Sender)
	reply, err := p2p.NewEnvelope(p2p.PeersList, n.cfg.ListenAddr, p2p.PeersListPayload{Peers: addrs})
	if err != nil {
		return
	}
	if err := p2p.WriteFrame(conn, reply); err != nil {
		logger.Debug("failed to reply PEERS_LIST", "sender", env.Sender, "err", err)
	}
}

// SubmitTransaction adds a locally-originated transaction to the mempool
// and, if new, broadcasts it to every peer (there is no sender to exclude).
func (n *Node) SubmitTransaction(tx *blockchain.Transaction) bool {
	if n.seenTx.Contains(tx.ID) {
		return false
	}
	if !n.chain.AddTransaction(tx) {
		return false
	}
	n.seenTx.Add(tx.ID, struct{}{})
	n.metrics.incTxAccepted()
	n.broadcast(p2p.NewTransaction, p2p.TransactionPayload{Transaction: tx}, "")
	return true
}

// GetBalance delegates to the owned Blockchain.
func (n *Node) GetBalance(address string) float64 {
	return n.chain.GetBalance(address)
}

// broadcast snapshots the non-quarantined peer list (already shuffled by
// Table.BroadcastTargets), opens one short-lived connection per target in
// parallel, and updates each target's failure counter on the outcome.
func (n *Node) broadcast(t p2p.Type, payload interface{}, excluding string) {
	targets := n.peers.BroadcastTargets(excluding)
	if len(targets) == 0 {
		return
	}

	var wg sync.WaitGroup
	for _, addr := range targets {
		addr := addr
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer log.Recover(logger, "broadcast send")
			if err := n.sendOneShot(addr, t, payload); err != nil {
				n.peers.RecordFailure(addr)
				n.metrics.incBroadcastFailures()
				logger.Debug("broadcast send failed", "addr", addr, "err", err)
				return
			}
			n.peers.RecordSuccess(addr)
		}()
	}
	wg.Wait()
}

func (n *Node) sendOneShot(addr string, t p2p.Type, payload interface{}) error {
	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return err
	}
	defer conn.Close()

	env, err := p2p.NewEnvelope(t, n.cfg.ListenAddr, payload)
	if err != nil {
		return err
	}
	return p2p.WriteFrame(conn, env)
}

// ConnectToPeer sends PING; on PONG it admits addr to the peer table and
// follows up with DISCOVER_PEERS.
func (n *Node) ConnectToPeer(addr string) error {
	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		n.peers.RecordFailure(addr)
		return err
	}

	env, err := p2p.NewEnvelope(p2p.Ping, n.cfg.ListenAddr, p2p.EmptyPayload{})
	if err != nil {
		conn.Close()
		return err
	}
	if err := p2p.WriteFrame(conn, env); err != nil {
		conn.Close()
		n.peers.RecordFailure(addr)
		return err
	}

	reply, err := p2p.ReadFrame(conn)
	conn.Close()
	if err != nil || reply.Type != p2p.Pong {
		n.peers.RecordFailure(addr)
		if err == nil {
			err = errUnexpectedReply(reply.Type)
		}
		return err
	}

	n.peers.Learn(addr)
	n.peers.RecordSuccess(addr)

	return n.discoverPeers(addr)
}

func (n *Node) discoverPeers(addr string) error {
	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return err
	}

	env, err := p2p.NewEnvelope(p2p.DiscoverPeers, n.cfg.ListenAddr, p2p.EmptyPayload{})
	if err != nil {
		conn.Close()
		return err
	}
	if err := p2p.WriteFrame(conn, env); err != nil {
		conn.Close()
		return err
	}

	reply, err := p2p.ReadFrame(conn)
	conn.Close()
	if err != nil || reply.Type != p2p.PeersList {
		return err
	}

	var payload p2p.PeersListPayload
	if err := reply.Decode(&payload); err != nil {
		return err
	}

	for _, peerAddr := range payload.Peers {
		if peerAddr == n.cfg.ListenAddr || n.peers.Contains(peerAddr) {
			continue
		}
		if n.peers.Len() >= n.cfg.MaxPeers {
			break
		}
		peerAddr := peerAddr
		go func() {
			if err := n.ConnectToPeer(peerAddr); err != nil {
				logger.Debug("discovered peer unreachable", "addr", peerAddr, "err", err)
			}
		}()
	}
	return nil
}

func (n *Node) cancelMining() {
	n.miningMu.Lock()
	defer n.miningMu.Unlock()
	if n.miningFlag != nil {
		n.miningFlag.Stop()
	}
}

type unexpectedReplyError p2p.Type

func (e unexpectedReplyError) Error() string {
	return "unexpected reply type: " + string(e)
}

func errUnexpectedReply(t p2p.Type) error {
	return unexpectedReplyError(t)
}
