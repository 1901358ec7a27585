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

package p2p

import (
	"encoding/binary"
	"encoding/json"
	"io"
	"unicode/utf8"

	"github.com/ground-x/gokoin/internal/xerrors"
)

// MaxFrameSize bounds a single frame to prevent resource exhaustion from a
// misbehaving or hostile peer.
const MaxFrameSize = 16 * 1024 * 1024

// WriteFrame writes env as [4-byte big-endian length][UTF-8 JSON].
func WriteFrame(w io.Writer, env *Envelope) error {
	encoded, err := json.Marshal(env)
	if err != nil {
		return xerrors.Wrap(xerrors.ErrInvalidPayload, "encode envelope")
	}

	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(encoded)))
	if _, err := w.Write(length[:]); err != nil {
		return err
	}
	_, err = w.Write(encoded)
	return err
}

// ReadFrame reads one framed envelope: a short length prefix, invalid
// UTF-8, malformed JSON, or an unknown type all surface as a wrapped
// xerrors.ErrInvalidFrame/ErrInvalidPayload/ErrUnknownMessageType so the
// caller can close the connection without replying.
func ReadFrame(r io.Reader) (*Envelope, error) {
	var lengthBuf [4]byte
	if _, err := io.ReadFull(r, lengthBuf[:]); err != nil {
		return nil, xerrors.Wrap(xerrors.ErrInvalidFrame, "short length prefix")
	}

	length := binary.BigEndian.Uint32(lengthBuf[:])
	if length == 0 || length > MaxFrameSize {
		return nil, xerrors.Wrap(xerrors.ErrInvalidFrame, "frame size out of bounds")
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, xerrors.Wrap(xerrors.ErrInvalidFrame, "short frame body")
	}

	if !utf8.Valid(body) {
		return nil, xerrors.Wrap(xerrors.ErrInvalidFrame, "invalid utf-8")
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, xerrors.Wrap(xerrors.ErrInvalidPayload, err.Error())
	}

	if !validType(env.Type) {
		return nil, xerrors.Wrap(xerrors.ErrUnknownMessageType, string(env.Type))
	}

	return &env, nil
}

func validType(t Type) bool {
	switch t {
	case NewTransaction, NewBlock, RequestChain, ResponseChain, Ping, Pong, DiscoverPeers, PeersList:
		return true
	default:
		return false
	}
}
