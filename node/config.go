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

// Package node is the composition root: it owns the listening socket, the
// peer table, and the Blockchain, and mediates every I/O path between them.
package node

import "time"

// DefaultSyncInterval is the sync-heartbeat period.
const DefaultSyncInterval = 30 * time.Second

// DefaultSyncTimeout is the bounded wall-clock window SyncBlockchain gives
// its fan-out aggregation before adopting whatever valid candidate arrived.
const DefaultSyncTimeout = 5 * time.Second

// DefaultStatusAddr is where the debug/status HTTP surface listens if the
// caller doesn't override it; empty disables it.
const DefaultStatusAddr = ""

// Config is supplied by the external driver: listen host/port, the wallet
// address coinbase rewards are paid to, and zero or more bootstrap peers to
// dial at startup.
type Config struct {
	ListenAddr   string
	Wallet       string
	Bootstrap    []string
	MaxPeers     int
	SyncInterval time.Duration
	SyncTimeout  time.Duration
	StatusAddr   string
}

// normalize fills in defaults and derives Wallet from ListenAddr when the
// caller left it blank, so a node with no separate wallet configured is
// still addressable by its own listen address.
func (c *Config) normalize() {
	if c.Wallet == "" {
		c.Wallet = c.ListenAddr
	}
	if c.MaxPeers <= 0 {
		c.MaxPeers = 20
	}
	if c.SyncInterval <= 0 {
		c.SyncInterval = DefaultSyncInterval
	}
	if c.SyncTimeout <= 0 {
		c.SyncTimeout = DefaultSyncTimeout
	}
}
