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

// Package miner performs the parallel proof-of-work search: one goroutine
// per worker, a cooperative stop flag, a single-slot result channel,
// scaled out to N interleaved workers.
package miner

import (
	"sync/atomic"
	"time"

	"github.com/ground-x/gokoin/blockchain"
	"github.com/ground-x/gokoin/internal/log"
)

var logger = log.NewModuleLogger(log.Miner)

// Workers is the fixed number of goroutines Mine splits the nonce space
// across.
const Workers = 4

// Cancelled is returned by Mine when the search was aborted before any
// worker found a valid nonce (e.g. a competing block arrived).
var Cancelled = &Result{cancelled: true}

// Result is either a finalized Block or the Cancelled sentinel.
type Result struct {
	Block     *blockchain.Block
	cancelled bool
}

// IsCancelled reports whether this Result represents a cancelled search.
func (r *Result) IsCancelled() bool {
	return r == nil || r.cancelled
}

// StopFlag is a shared, monotone cancellation flag: the miner's own
// workers set it on success, and the Node can set it from outside (an
// inbound NEW_BLOCK) to cancel an in-flight search. Once set it is never
// cleared; callers build a fresh StopFlag per mining attempt.
type StopFlag struct {
	stopped int32
}

// Stop sets the flag. Safe to call multiple times and from any goroutine.
func (f *StopFlag) Stop() {
	atomic.StoreInt32(&f.stopped, 1)
}

// Stopped reports whether Stop has been called.
func (f *StopFlag) Stopped() bool {
	return atomic.LoadInt32(&f.stopped) == 1
}

// Skeleton is the candidate block's fixed fields: everything the proof
// search needs except the winning nonce.
type Skeleton struct {
	Index        uint64
	PreviousHash string
	Transactions []*blockchain.Transaction
	Timestamp    float64
}

// Mine searches for a nonce such that the resulting block hash begins with
// difficulty's prefix, using Workers goroutines each testing an interleaved
// slice of nonce space: worker i tests i, i+N, i+2N, .... The first worker
// to find a match writes to the single-slot result channel; every other
// worker observes stop and exits on its next nonce check. flag may already
// be shared with the caller so an external cancellation (e.g. the Node
// accepting a competing block) stops the search too.
func Mine(skeleton Skeleton, difficulty string, flag *StopFlag) *Result {
	started := time.Now()
	resultCh := make(chan *Result, 1)

	for worker := 0; worker < Workers; worker++ {
		go searchWorker(worker, Workers, skeleton, difficulty, flag, resultCh)
	}

	result := <-resultCh
	flag.Stop() // make sure every other worker exits promptly

	if result.IsCancelled() {
		logger.Info("mining cancelled", "index", skeleton.Index, "elapsed", elapsedSince(started))
	} else {
		logger.Info("mined block", "index", skeleton.Index, "nonce", result.Block.Nonce, "elapsed", elapsedSince(started))
	}
	return result
}

func searchWorker(start, stride int, skeleton Skeleton, difficulty string, flag *StopFlag, resultCh chan<- *Result) {
	defer log.Recover(logger, "mining worker")

	for nonce := uint64(start); ; nonce += uint64(stride) {
		if flag.Stopped() {
			trySend(resultCh, Cancelled)
			return
		}

		candidate := blockchain.NewBlock(skeleton.Index, skeleton.PreviousHash, skeleton.Transactions, nonce, skeleton.Timestamp)
		if candidate.IsValidProof(difficulty) {
			trySend(resultCh, &Result{Block: candidate})
			flag.Stop()
			return
		}
	}
}

// trySend is a non-blocking single-slot write: only the first worker (or
// the cancellation path) actually delivers a result, everyone else's send
// is dropped instead of blocking forever on a channel nobody still reads.
func trySend(ch chan<- *Result, r *Result) {
	select {
	case ch <- r:
	default:
	}
}

// elapsedSince is a small helper kept for the miner's own logging of search
// duration.
func elapsedSince(start time.Time) time.Duration {
	return time.Since(start)
}
