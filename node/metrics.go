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
	"github.com/prometheus/client_golang/prometheus"
	rmetrics "github.com/rcrowley/go-metrics"
)

// Metrics registers one rcrowley/go-metrics counter per interesting event,
// the same call shape work/worker.go uses for timeLimitReachedCounter and
// tooLongTxCounter, and mirrors each counter into a Prometheus counter on a
// registry private to this Metrics instance. A private registry (rather
// than the global prometheus.DefaultRegisterer) lets more than one Node run
// in the same process — each gets its own counters instead of colliding on
// the package-level default registry's fixed metric names.
type Metrics struct {
	registry *prometheus.Registry

	txAccepted        rmetrics.Counter
	blocksAccepted    rmetrics.Counter
	blocksRejected    rmetrics.Counter
	blocksMined       rmetrics.Counter
	broadcastFailures rmetrics.Counter

	promTxAccepted        prometheus.Counter
	promBlocksAccepted    prometheus.Counter
	promBlocksRejected    prometheus.Counter
	promBlocksMined       prometheus.Counter
	promBroadcastFailures prometheus.Counter
}

func newMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		txAccepted:        rmetrics.NewRegisteredCounter("node/tx/accepted", nil),
		blocksAccepted:    rmetrics.NewRegisteredCounter("node/blocks/accepted", nil),
		blocksRejected:    rmetrics.NewRegisteredCounter("node/blocks/rejected", nil),
		blocksMined:       rmetrics.NewRegisteredCounter("node/blocks/mined", nil),
		broadcastFailures: rmetrics.NewRegisteredCounter("node/broadcast/failures", nil),

		promTxAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gokoin_transactions_accepted_total",
			Help: "Transactions accepted into the mempool.",
		}),
		promBlocksAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gokoin_blocks_accepted_total",
			Help: "Blocks accepted onto the chain, mined locally or received from peers.",
		}),
		promBlocksRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gokoin_blocks_rejected_total",
			Help: "Blocks rejected by validation.",
		}),
		promBlocksMined: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gokoin_blocks_mined_total",
			Help: "Blocks this node mined itself.",
		}),
		promBroadcastFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gokoin_broadcast_failures_total",
			Help: "Failed broadcast sends to peers.",
		}),
	}

	m.registry.MustRegister(
		m.promTxAccepted,
		m.promBlocksAccepted,
		m.promBlocksRejected,
		m.promBlocksMined,
		m.promBroadcastFailures,
	)
	return m
}

func (m *Metrics) incTxAccepted()        { m.txAccepted.Inc(1); m.promTxAccepted.Inc() }
func (m *Metrics) incBlocksAccepted()    { m.blocksAccepted.Inc(1); m.promBlocksAccepted.Inc() }
func (m *Metrics) incBlocksRejected()    { m.blocksRejected.Inc(1); m.promBlocksRejected.Inc() }
func (m *Metrics) incBlocksMined()       { m.blocksMined.Inc(1); m.promBlocksMined.Inc() }
func (m *Metrics) incBroadcastFailures() { m.broadcastFailures.Inc(1); m.promBroadcastFailures.Inc() }
