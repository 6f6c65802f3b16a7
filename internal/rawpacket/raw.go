// SPDX-License-Identifier: AGPL-3.0-or-later
// pulsewired - a wire-compatible PulseAudio native protocol server
// Copyright (C) 2026 pulsewired contributors

// Package rawpacket defines the small record the trace proxy writes to
// its capture stream for each frame it observes, grounded on the teacher's //go:generate msgp-tagged
// models.RawDMRPacket (internal/db/models/raw_dmr_packet.go), which
// round-trips the same shape over its redis pubsub transport. The
// MarshalMsg/UnmarshalMsg pair below is hand-written in msgp's
// generated style, since no toolchain invocation is available here to
// run `go generate`.
package rawpacket

import "github.com/tinylib/msgp/msgp"

// Direction names which way a Raw record travelled through the trace
// proxy.
type Direction uint8

const (
	// ClientToServer was read from the traced client and forwarded to
	// the real server.
	ClientToServer Direction = iota
	// ServerToClient was read from the real server and forwarded to
	// the traced client.
	ServerToClient
)

// Raw is one frame observed by the trace proxy: which direction it
// travelled, the peer's address, and its raw bytes (descriptor plus
// payload, exactly as read off the wire).
type Raw struct {
	Direction  Direction `msg:"direction"`
	RemoteAddr string    `msg:"remote_addr"`
	Data       []byte    `msg:"data"`
}

// MarshalMsg appends the msgpack encoding of r to b.
func (r *Raw) MarshalMsg(b []byte) ([]byte, error) {
	o := msgp.AppendArrayHeader(b, 3)
	o = msgp.AppendUint8(o, uint8(r.Direction))
	o = msgp.AppendString(o, r.RemoteAddr)
	o = msgp.AppendBytes(o, r.Data)
	return o, nil
}

// UnmarshalMsg decodes r from the front of bts, returning the
// remaining unconsumed bytes.
func (r *Raw) UnmarshalMsg(bts []byte) ([]byte, error) {
	arrSize, bts, err := msgp.ReadArrayHeaderBytes(bts)
	if err != nil {
		return bts, err
	}
	if arrSize != 3 {
		return bts, msgp.ArrayError{Wanted: 3, Got: arrSize}
	}

	dir, bts, err := msgp.ReadUint8Bytes(bts)
	if err != nil {
		return bts, err
	}
	r.Direction = Direction(dir)

	r.RemoteAddr, bts, err = msgp.ReadStringBytes(bts)
	if err != nil {
		return bts, err
	}

	r.Data, bts, err = msgp.ReadBytesBytes(bts, r.Data[:0])
	if err != nil {
		return bts, err
	}

	return bts, nil
}

// Msgsize returns an upper bound on the encoded size of r, used to
// presize the output buffer the way generated code does.
func (r *Raw) Msgsize() int {
	return msgp.ArrayHeaderSize + msgp.Uint8Size + msgp.StringPrefixSize + len(r.RemoteAddr) + msgp.BytesPrefixSize + len(r.Data)
}
