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

// Package p2p implements the wire protocol: the length-prefixed JSON frame
// codec, the envelope/message taxonomy, and the peer table.
package p2p

import (
	"encoding/json"

	"github.com/ground-x/gokoin/blockchain"
)

// Type is the message taxonomy discriminator carried in every envelope.
type Type string

const (
	NewTransaction Type = "NEW_TRANSACTION"
	NewBlock       Type = "NEW_BLOCK"
	RequestChain   Type = "REQUEST_CHAIN"
	ResponseChain  Type = "RESPONSE_CHAIN"
	Ping           Type = "PING"
	Pong           Type = "PONG"
	DiscoverPeers  Type = "DISCOVER_PEERS"
	PeersList      Type = "PEERS_LIST"
)

// Envelope is the outer wire object: {"type", "payload", "sender"}.
type Envelope struct {
	Type    Type            `json:"type"`
	Payload json.RawMessage `json:"payload"`
	Sender  string          `json:"sender"`
}

// Payload shapes, one per Type.

type TransactionPayload struct {
	Transaction *blockchain.Transaction `json:"transaction"`
}

type BlockPayload struct {
	Block *blockchain.Block `json:"block"`
}

type EmptyPayload struct{}

type ChainSnapshot struct {
	Chain               []*blockchain.Block       `json:"chain"`
	PendingTransactions []*blockchain.Transaction `json:"pending_transactions"`
}

type ResponseChainPayload struct {
	Blockchain ChainSnapshot `json:"blockchain"`
}

type PeersListPayload struct {
	Peers []string `json:"peers"`
}

// NewEnvelope marshals payload and wraps it with type/sender.
func NewEnvelope(t Type, sender string, payload interface{}) (*Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Envelope{Type: t, Payload: raw, Sender: sender}, nil
}

// Decode unmarshals the envelope's payload into out.
func (e *Envelope) Decode(out interface{}) error {
	return json.Unmarshal(e.Payload, out)
}
