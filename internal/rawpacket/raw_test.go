// SPDX-License-Identifier: AGPL-3.0-or-later
// pulsewired - a wire-compatible PulseAudio native protocol server
// Copyright (C) 2026 pulsewired contributors

package rawpacket_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nativesound/pulsewired/internal/rawpacket"
)

func TestRawMarshalUnmarshalRoundTrip(t *testing.T) {
	t.Parallel()
	r := rawpacket.Raw{
		Direction:  rawpacket.ClientToServer,
		RemoteAddr: "@/tmp/pulse/native",
		Data:       []byte{0x01, 0x02, 0x03, 0x04},
	}

	encoded, err := r.MarshalMsg(nil)
	require.NoError(t, err)

	var decoded rawpacket.Raw
	remaining, err := decoded.UnmarshalMsg(encoded)
	require.NoError(t, err)
	assert.Empty(t, remaining)
	assert.Equal(t, r, decoded)
}

func TestRawMarshalUnmarshalServerToClient(t *testing.T) {
	t.Parallel()
	r := rawpacket.Raw{Direction: rawpacket.ServerToClient, RemoteAddr: "", Data: nil}

	encoded, err := r.MarshalMsg(nil)
	require.NoError(t, err)

	var decoded rawpacket.Raw
	_, err = decoded.UnmarshalMsg(encoded)
	require.NoError(t, err)
	assert.Equal(t, rawpacket.ServerToClient, decoded.Direction)
	assert.Equal(t, "", decoded.RemoteAddr)
}

func TestRawMsgsizeIsAnUpperBound(t *testing.T) {
	t.Parallel()
	r := rawpacket.Raw{RemoteAddr: "peer", Data: []byte{1, 2, 3}}

	encoded, err := r.MarshalMsg(nil)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(encoded), r.Msgsize())
}

func TestRawMarshalAppendsToExistingBuffer(t *testing.T) {
	t.Parallel()
	r := rawpacket.Raw{RemoteAddr: "peer", Data: []byte{0xFF}}
	prefix := []byte{0xAA, 0xBB}

	encoded, err := r.MarshalMsg(prefix)
	require.NoError(t, err)
	assert.Equal(t, prefix, encoded[:2])

	var decoded rawpacket.Raw
	_, err = decoded.UnmarshalMsg(encoded[2:])
	require.NoError(t, err)
	assert.Equal(t, r, decoded)
}
