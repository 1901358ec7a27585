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

// Package xerrors names the behavioral error kinds a peer can trigger and
// the sentinels call sites wrap with github.com/pkg/errors so that
// errors.Cause still recovers the original kind after it has picked up
// connection/peer context.
package xerrors

import "github.com/pkg/errors"

// Sentinel kinds. Close to spec's error taxonomy table: InvalidFrame,
// InvalidPayload, RejectedTransaction, RejectedBlock, PeerUnreachable,
// SyncTimeout.
var (
	ErrInvalidFrame       = errors.New("invalid frame")
	ErrInvalidPayload     = errors.New("invalid payload")
	ErrRejectedTx         = errors.New("transaction rejected")
	ErrRejectedBlock      = errors.New("block rejected")
	ErrPeerUnreachable    = errors.New("peer unreachable")
	ErrSyncTimeout        = errors.New("sync timed out")
	ErrUnknownMessageType = errors.New("unknown message type")
	ErrPeerTableFull      = errors.New("peer table full")
)

// Wrap attaches context to a sentinel without losing its identity; callers
// recover the sentinel with errors.Cause(err) == xerrors.ErrInvalidFrame etc.
func Wrap(kind error, context string) error {
	return errors.Wrap(kind, context)
}

// Is reports whether err (or any error it wraps) is kind.
func Is(err, kind error) bool {
	return errors.Cause(err) == kind
}
