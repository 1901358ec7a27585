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
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// serveStatus runs a minimal read-only debug HTTP surface: chain height,
// peer count, and balance lookups, plus a Prometheus /metrics endpoint
// scoped to this Node's own metrics registry. It only ever reads through
// the Node's public operations.
func (n *Node) serveStatus(addr string) {
	router := httprouter.New()
	router.GET("/status", n.handleStatus)
	router.GET("/balance/:addr", n.handleBalance)
	router.Handler(http.MethodGet, "/metrics", promhttp.HandlerFor(n.metrics.registry, promhttp.HandlerOpts{}))

	logger.Info("status endpoint listening", "addr", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		logger.Error("status endpoint stopped", "err", err)
	}
}

type statusResponse struct {
	Height  int `json:"height"`
	Mempool int `json:"mempool_size"`
	Peers   int `json:"peer_count"`
}

func (n *Node) handleStatus(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	snap := n.chain.Snapshot()
	resp := statusResponse{
		Height:  len(snap.Chain),
		Mempool: len(snap.PendingTransactions),
		Peers:   n.peers.Len(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (n *Node) handleBalance(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	addr := ps.ByName("addr")
	balance := n.GetBalance(addr)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"address": addr, "balance": balance})
}
